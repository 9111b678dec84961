// Package registry provides a global registry for snapshot codecs.
// Codecs register themselves in init() functions, allowing transports and
// the CLI to discover wire formats without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Codec serializes render snapshots for a transport.
type Codec interface {
	// Name returns a unique identifier for this codec (e.g., "json", "msgpack").
	// Used for the WebSocket format query parameter and CLI flags.
	Name() string

	// ContentType returns the MIME type of encoded payloads.
	ContentType() string

	// Binary reports whether payloads must be sent as binary frames.
	Binary() bool

	// Encode serializes v.
	Encode(v any) ([]byte, error)

	// Decode deserializes data into v.
	Decode(data []byte, v any) error
}

// CodecInfo contains metadata about a registered codec.
type CodecInfo struct {
	Name        string
	ContentType string
	Binary      bool
}

// Factory is a function that creates a new codec instance.
type Factory func() Codec

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]CodecInfo)
	mu        sync.RWMutex
)

// Register adds a codec factory to the registry.
// Typically called from a codec's init() function.
// Panics if a codec with the same name is already registered.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: codec %q already registered", name))
	}

	factories[name] = f

	// Get metadata by creating a temporary instance
	c := f()
	infos[name] = CodecInfo{
		Name:        name,
		ContentType: c.ContentType(),
		Binary:      c.Binary(),
	}
}

// List returns information about all registered codecs, sorted by name.
func List() []CodecInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]CodecInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a codec by name.
// Returns an error if the name is not registered.
func Create(name string) (Codec, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown codec %q", name)
	}

	return f(), nil
}

// Exists checks if a codec with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
