// Package registry provides the field-decoder registry that maps AIS message
// type ids to their per-type field decoders.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"ais_parser/internal/sixbit"
)

// ErrUnsupportedType is returned when no decoder is registered for a message
// type id.
var ErrUnsupportedType = errors.New("no decoder registered for message type")

// Fields is the decoded field mapping of one message.
type Fields map[string]any

// Decoder is implemented by each per-message-type field decoder.
type Decoder interface {
	// Name returns the decoder's unique identifier.
	Name() string

	// Types returns the AIS message type ids this decoder handles.
	Types() []uint8

	// Decode extracts the field mapping from an unarmored bit stream.
	Decode(bits sixbit.Bits) (Fields, error)
}

// Registry dispatches bit streams to decoders by message type id 0..63.
type Registry struct {
	mu     sync.RWMutex
	byType map[uint8]Decoder
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byType: make(map[uint8]Decoder),
	}
}

// Global default registry.
var defaultRegistry = New()

// Default returns the global registry instance.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a decoder to the default registry.
// Called during init() in each decoder package.
func Register(d Decoder) {
	defaultRegistry.Register(d)
}

// Register adds a decoder to the registry for each type id it declares.
func (r *Registry) Register(d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range d.Types() {
		r.byType[id] = d
	}
}

// Decode dispatches a bit stream to the decoder registered for typeID.
func (r *Registry) Decode(typeID uint8, bits sixbit.Bits) (Fields, error) {
	r.mu.RLock()
	d, ok := r.byType[typeID]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedType, typeID)
	}
	fields, err := d.Decode(bits)
	if err != nil {
		return nil, fmt.Errorf("decode type %d (%s): %w", typeID, d.Name(), err)
	}
	return fields, nil
}

// RegisteredTypes returns all type ids that have a decoder, sorted.
func (r *Registry) RegisteredTypes() []uint8 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]uint8, 0, len(r.byType))
	for id := range r.byType {
		types = append(types, id)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// DecoderCount returns the number of unique registered decoders.
func (r *Registry) DecoderCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, d := range r.byType {
		seen[d.Name()] = true
	}
	return len(seen)
}
