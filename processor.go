package packets

import (
	"fmt"
)

// Processor converts a field value between its native and raw forms.
//
// CheckNative and CheckRaw report a *ValidationError for values the
// processor cannot represent. RawToNative receives only values that passed
// CheckRaw; strict is propagated to nested packets so required fields can
// fall back to their zero value when it is false.
type Processor interface {
	// CheckNative validates a native value before it is stored or dumped.
	CheckNative(value any) error

	// CheckRaw validates a raw value before it is decoded.
	CheckRaw(raw any) error

	// RawToNative decodes a raw value.
	RawToNative(raw any, strict bool) (any, error)

	// NativeToRaw encodes a native value.
	NativeToRaw(value any) (any, error)

	// ZeroValue is the native value used for required fields loaded non-strictly.
	ZeroValue() any

	// HasMutableValue reports whether native values may be mutated in place.
	HasMutableValue() bool
}

// resolveProcessor accepts a Processor or a *Schema and returns a Processor.
// nil yields nil so override-only declarations can inherit their processor.
func resolveProcessor(v any) (Processor, error) {
	switch p := v.(type) {
	case nil:
		return nil, nil
	case *Schema:
		if p == nil {
			return nil, fmt.Errorf("%w: nil schema", ErrInvalidProcessor)
		}
		return SubPacket(p), nil
	case Processor:
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidProcessor, v)
	}
}

// mustElement resolves an element type for a container processor.
// A failure is kept on the container and surfaced by CheckDefinition.
func mustElement(v any, errp *error) Processor {
	p, err := resolveProcessor(v)
	if err == nil && p == nil {
		err = fmt.Errorf("%w: nil element type", ErrInvalidProcessor)
	}
	if err != nil && *errp == nil {
		*errp = err
	}
	return p
}

// checkDefinition reports deferred construction errors of p and of the
// processors it contains.
func checkDefinition(p Processor) error {
	if dc, ok := p.(DefinitionChecker); ok {
		return dc.CheckDefinition()
	}
	return nil
}

// elementToNative decodes one element of a container. Null elements stay null.
func elementToNative(p Processor, raw any, strict bool) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if err := p.CheckRaw(raw); err != nil {
		return nil, err
	}
	return p.RawToNative(raw, strict)
}

// elementToRaw encodes one element of a container. Null elements stay null.
func elementToRaw(p Processor, value any) (any, error) {
	if isNull(value) {
		return nil, nil
	}
	return p.NativeToRaw(value)
}

// dumpPartial encodes value restricted to paths when p supports it.
func dumpPartial(p Processor, value any, paths Paths) (any, error) {
	if isNull(value) {
		return nil, nil
	}
	if paths != nil {
		if pd, ok := p.(PartialDumper); ok {
			return pd.DumpPartial(value, paths)
		}
	}
	return p.NativeToRaw(value)
}

// elementType returns the processor for position i of a container processor.
func elementType(p Processor, i int) Processor {
	switch c := p.(type) {
	case TupleTyped:
		types := c.ElementTypes()
		if i >= 0 && i < len(types) {
			return types[i]
		}
		return nil
	case ElementTyped:
		return c.ElementType()
	}
	return nil
}

// keyType returns the key processor of a mapping processor.
func keyType(p Processor) Processor {
	if k, ok := p.(KeyTyped); ok {
		return k.KeyType()
	}
	return nil
}
