package compare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Shadojus/amorph/internal/models"
	"github.com/Shadojus/amorph/internal/render"
	"github.com/google/uuid"
)

// DefaultCap is the default maximum number of selections in a session.
const DefaultCap = 24

// MaxOrder bounds the color order a session accepts from Seed.
const MaxOrder = 1024

var (
	// ErrSelectionFull is returned when a new selection would exceed the cap.
	// Existing selections are never evicted to make room.
	ErrSelectionFull = errors.New("selection is full")
	// ErrInvalidSelection is returned for selections without entity or field.
	ErrInvalidSelection = errors.New("invalid selection")
)

type selKey struct {
	entity, field string
}

// Session is the set of fields a user picked for comparison, together with
// the entity color order. It has a single owner and is not safe for
// concurrent use.
type Session struct {
	id         string
	limit      int
	selections []models.Selection
	index      map[selKey]int
	colors     *ColorMap
}

// NewSession returns an empty session. A limit <= 0 uses DefaultCap.
func NewSession(limit int) *Session {
	if limit <= 0 {
		limit = DefaultCap
	}
	return &Session{
		id:     uuid.NewString(),
		limit:  limit,
		index:  make(map[selKey]int),
		colors: NewColorMap(),
	}
}

// ID identifies the session in logs and client correlation.
func (s *Session) ID() string {
	return s.id
}

// Cap returns the selection limit.
func (s *Session) Cap() int {
	return s.limit
}

// Seed assigns colors to ids in order before any selection is made, so the
// session colors entities like the session that produced the order. Blank
// ids are skipped. Seed only fills the color order; it selects nothing.
func (s *Session) Seed(order []string) error {
	if len(order) > MaxOrder {
		return fmt.Errorf("%w: color order has %d entities, limit is %d", ErrInvalidSelection, len(order), MaxOrder)
	}
	for _, id := range order {
		if strings.TrimSpace(id) != "" {
			s.colors.Add(id)
		}
	}
	return nil
}

// Validate checks that sel names an entity and a field.
func Validate(sel models.Selection) error {
	if strings.TrimSpace(sel.EntityID) == "" {
		return fmt.Errorf("%w: missing entityId", ErrInvalidSelection)
	}
	if strings.TrimSpace(sel.FieldName) == "" {
		return fmt.Errorf("%w: missing fieldName", ErrInvalidSelection)
	}
	return nil
}

// Select adds sel, or replaces the value of an existing selection with the
// same entity and field. A new entity gets the next color.
func (s *Session) Select(sel models.Selection) error {
	if err := Validate(sel); err != nil {
		return err
	}
	k := selKey{sel.EntityID, sel.FieldName}
	if i, ok := s.index[k]; ok {
		s.selections[i] = sel
		return nil
	}
	if len(s.selections) >= s.limit {
		return fmt.Errorf("%w: limit is %d", ErrSelectionFull, s.limit)
	}
	s.index[k] = len(s.selections)
	s.selections = append(s.selections, sel)
	s.colors.Add(sel.EntityID)
	return nil
}

// Toggle selects sel, or deselects it when already selected. It reports
// whether sel is selected afterwards.
func (s *Session) Toggle(sel models.Selection) (bool, error) {
	if s.Has(sel.EntityID, sel.FieldName) {
		s.Deselect(sel.EntityID, sel.FieldName)
		return false, nil
	}
	if err := s.Select(sel); err != nil {
		return false, err
	}
	return true, nil
}

// Has reports whether the (entity, field) pair is selected.
func (s *Session) Has(entityID, field string) bool {
	_, ok := s.index[selKey{entityID, field}]
	return ok
}

// Deselect removes one selection and reports whether it existed. The
// entity keeps its color.
func (s *Session) Deselect(entityID, field string) bool {
	return s.remove(func(sel models.Selection) bool {
		return sel.EntityID == entityID && sel.FieldName == field
	}) > 0
}

// DeselectEntity removes every selection of an entity and returns how many
// were removed.
func (s *Session) DeselectEntity(entityID string) int {
	return s.remove(func(sel models.Selection) bool {
		return sel.EntityID == entityID
	})
}

func (s *Session) remove(match func(models.Selection) bool) int {
	kept := s.selections[:0]
	removed := 0
	for _, sel := range s.selections {
		if match(sel) {
			removed++
			continue
		}
		kept = append(kept, sel)
	}
	if removed == 0 {
		return 0
	}
	s.selections = kept
	s.index = make(map[selKey]int, len(kept))
	for i, sel := range kept {
		s.index[selKey{sel.EntityID, sel.FieldName}] = i
	}
	return removed
}

// Clear drops every selection and resets the color order.
func (s *Session) Clear() {
	s.selections = nil
	s.index = make(map[selKey]int)
	s.colors = NewColorMap()
}

// Len returns the number of selections.
func (s *Session) Len() int {
	return len(s.selections)
}

// Selections returns a copy of the selections in insertion order.
func (s *Session) Selections() []models.Selection {
	return append([]models.Selection(nil), s.selections...)
}

// Fields returns the distinct selected field names in first-selection order.
func (s *Session) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, sel := range s.selections {
		if !seen[sel.FieldName] {
			seen[sel.FieldName] = true
			out = append(out, sel.FieldName)
		}
	}
	return out
}

// Entities returns the entities that still have at least one selection, in
// color order.
func (s *Session) Entities() []render.Entity {
	names := make(map[string]string)
	for _, sel := range s.selections {
		if _, ok := names[sel.EntityID]; !ok || names[sel.EntityID] == "" {
			names[sel.EntityID] = sel.EntityName
		}
	}
	var out []render.Entity
	for _, id := range s.colors.IDs() {
		name, ok := names[id]
		if !ok {
			continue
		}
		if name == "" {
			name = id
		}
		out = append(out, render.Entity{ID: id, Name: name})
	}
	return out
}

// Color returns the entity's stable color, or "" for unknown entities.
func (s *Session) Color(entityID string) string {
	return s.colors.Color(entityID)
}

// Colors returns the session's color order.
func (s *Session) Colors() *ColorMap {
	return s.colors
}

// Wire returns the request body for the compare endpoint. It carries the
// session's color order so the rendered markup uses the same colors.
func (s *Session) Wire(fill bool) models.CompareRequest {
	return models.CompareRequest{
		Selections: s.Selections(),
		Order:      append([]string(nil), s.colors.IDs()...),
		Fill:       fill,
	}
}
