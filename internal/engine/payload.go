package engine

import (
	"encoding/base64"
	"encoding/json"

	"github.com/Shadojus/amorph/internal/morph"
)

// DefaultPayloadCap is the largest raw JSON payload, in bytes, attached to a
// rendered field.
const DefaultPayloadCap = 10 * 1024

// encodePayload returns v as base64 JSON. Values whose JSON exceeds limit
// are not encoded at all: a partial payload would not decode.
func encodePayload(v any, limit int) (string, bool) {
	raw, err := json.Marshal(morph.Normalize(v))
	if err != nil || len(raw) > limit {
		return "", false
	}
	return base64.StdEncoding.EncodeToString(raw), true
}

// DecodePayload reverses the data-raw encoding.
func DecodePayload(s string) (any, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
