package models

// Selection is one field picked for comparison on one entity. Selections are
// keyed by (EntityID, FieldName).
type Selection struct {
	EntityID   string `json:"entityId"`
	EntityName string `json:"entityName"`
	FieldName  string `json:"fieldName"`
	Value      any    `json:"value"`
}

// CompareRequest is the body of POST /api/compare.
type CompareRequest struct {
	Selections []Selection `json:"selections"`
	// Order lists entity ids in color order: an entity's position is its
	// palette index. It lets the server color entities the way the client
	// does even after deselections. Entities missing from it are colored
	// after the listed ones, in selection order.
	Order []string `json:"order,omitempty"`
	// Fill asks the server to fetch every selected field for every selected
	// entity, not only the values the client sent.
	Fill bool `json:"fill"`
}

// CompareResponse is the rendered comparison.
type CompareResponse struct {
	Markup      string `json:"markup"`
	EntityCount int    `json:"entityCount"`
	FieldCount  int    `json:"fieldCount"`
}
