// Package pricetable reads and writes price tables in JSON, YAML and HCL.
package pricetable

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pricing-guard/core/types"
	"pricing-guard/internal/errors"
)

// Codec decodes and encodes one price-table file format
type Codec interface {
	// Name returns the format name
	Name() string

	// Extensions returns the file extensions handled, with leading dot
	Extensions() []string

	// Decode parses a flat key -> price table
	Decode(data []byte, filename string) (types.Prices, error)

	// Encode renders a table in this format
	Encode(prices types.Prices) ([]byte, error)
}

// Registry manages codec registration and lookup
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
	byExt  map[string]string
	order  []string // maintains registration order
}

// NewRegistry creates an empty codec registry
func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Codec),
		byExt:  make(map[string]string),
		order:  make([]string, 0),
	}
}

// Register adds a codec to the registry
func (r *Registry) Register(codec Codec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := codec.Name()
	if _, exists := r.codecs[name]; exists {
		return fmt.Errorf("codec already registered: %s", name)
	}
	for _, ext := range codec.Extensions() {
		if owner, exists := r.byExt[ext]; exists {
			return fmt.Errorf("extension %s already handled by %s", ext, owner)
		}
	}

	r.codecs[name] = codec
	for _, ext := range codec.Extensions() {
		r.byExt[ext] = name
	}
	r.order = append(r.order, name)
	return nil
}

// Get returns a codec by name
func (r *Registry) Get(name string) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codec, ok := r.codecs[name]
	return codec, ok
}

// ForPath returns the codec handling the file extension of path
func (r *Registry) ForPath(path string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))
	name, ok := r.byExt[ext]
	if !ok {
		return nil, errors.NotSupported(fmt.Sprintf("price table format %q", ext)).
			WithContext("path", path)
	}
	return r.codecs[name], nil
}

// Names returns codec names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Load reads a price table, choosing the codec by file extension
func (r *Registry) Load(path string) (types.Prices, error) {
	codec, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "failed to read price table", err).
			WithContext("path", path)
	}
	return codec.Decode(data, path)
}

// Save writes a price table, choosing the codec by file extension
func (r *Registry) Save(path string, prices types.Prices) error {
	codec, err := r.ForPath(path)
	if err != nil {
		return err
	}
	data, err := codec.Encode(prices)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the registry with the JSON, YAML and HCL codecs
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		_ = defaultRegistry.Register(JSONCodec{})
		_ = defaultRegistry.Register(YAMLCodec{})
		_ = defaultRegistry.Register(HCLCodec{})
	})
	return defaultRegistry
}

// Load reads a price table with the default registry
func Load(path string) (types.Prices, error) {
	return Default().Load(path)
}

// Save writes a price table with the default registry
func Save(path string, prices types.Prices) error {
	return Default().Save(path, prices)
}
