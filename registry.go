package packets

import (
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

var (
	registry   = make(map[reflect.Type]*Schema)
	registryMu sync.RWMutex
)

// SchemaFor returns the cached schema derived from struct type T, building
// it on first use. Nested struct types are derived and cached as well.
func SchemaFor[T any]() (*Schema, error) {
	typ := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[typ]; ok {
		registryMu.RUnlock()
		return cached, nil
	}
	registryMu.RUnlock()

	if typ.Kind() != reflect.Struct {
		return nil, newSchemaError(ErrUnsupportedType, typ.String(), "", "schemas derive from struct types only")
	}

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[typ]; ok {
		return cached, nil
	}

	b := &structBuilder{building: map[reflect.Type]bool{}}
	return b.schema(typ, sentinel.Scan[T]())
}

// Reset clears the struct schema registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]*Schema)
}
