// Package codec provides the snapshot wire formats. Each codec registers
// itself with the registry in init(); import the package for side effects.
package codec

import (
	"encoding/json"

	"github.com/vovakirdan/subway-runner/internal/registry"
)

func init() {
	registry.Register("json", func() registry.Codec { return JSON{} })
}

// JSON encodes snapshots as compact JSON text frames.
type JSON struct{}

func (JSON) Name() string        { return "json" }
func (JSON) ContentType() string { return "application/json" }
func (JSON) Binary() bool        { return false }

func (JSON) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
