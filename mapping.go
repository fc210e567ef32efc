package packets

import (
	"fmt"

	"github.com/spf13/cast"
)

// HashProcessor handles mappings with typed keys and values.
// Natives are map[any]any keyed by native keys; raws are map[string]any.
// Numeric key processors are replaced by their string form, since raw keys
// are always strings.
type HashProcessor struct {
	key  Processor
	elem Processor
	err  error
}

// Hash returns a mapping processor. key and elem are Processors or *Schemas.
func Hash(key, elem any) *HashProcessor {
	p := &HashProcessor{}
	p.key = mustElement(key, &p.err)
	if sk, ok := p.key.(stringKeyer); ok {
		p.key = sk.AsString()
	}
	p.elem = mustElement(elem, &p.err)
	return p
}

// CheckDefinition reports an invalid key or element type.
func (p *HashProcessor) CheckDefinition() error {
	if p.err != nil {
		return p.err
	}
	if err := checkDefinition(p.key); err != nil {
		return err
	}
	return checkDefinition(p.elem)
}

// KeyType returns the key processor.
func (p *HashProcessor) KeyType() Processor { return p.key }

// ElementType returns the value processor.
func (p *HashProcessor) ElementType() Processor { return p.elem }

func (p *HashProcessor) CheckNative(v any) error {
	m, ok := asNativeMap(v)
	if !ok {
		return newValidationError("Hash", v, "expected a map, got %T", v)
	}
	for k, e := range m {
		if err := p.key.CheckNative(k); err != nil {
			return fmt.Errorf("key %v: %w", k, err)
		}
		if isNull(e) {
			continue
		}
		if err := p.elem.CheckNative(e); err != nil {
			return fmt.Errorf("value %v: %w", k, err)
		}
	}
	return nil
}

func (p *HashProcessor) CheckRaw(raw any) error {
	if _, ok := asRawMap(raw); !ok {
		return newValidationError("Hash", raw, "expected a map, got %T", raw)
	}
	return nil
}

func (p *HashProcessor) RawToNative(raw any, strict bool) (any, error) {
	m, _ := asRawMap(raw)
	out := make(map[any]any, len(m))
	for rk, rv := range m {
		if err := p.key.CheckRaw(rk); err != nil {
			return nil, fmt.Errorf("key %q: %w", rk, err)
		}
		k, err := p.key.RawToNative(rk, strict)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", rk, err)
		}
		v, err := elementToNative(p.elem, rv, strict)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", rk, err)
		}
		out[k] = v
	}
	return out, nil
}

func (p *HashProcessor) NativeToRaw(v any) (any, error) {
	m, ok := asNativeMap(v)
	if !ok {
		return nil, newValidationError("Hash", v, "expected a map, got %T", v)
	}
	out := make(map[string]any, len(m))
	for k, e := range m {
		rk, err := p.rawKey(k)
		if err != nil {
			return nil, err
		}
		r, err := elementToRaw(p.elem, e)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", rk, err)
		}
		out[rk] = r
	}
	return out, nil
}

// DumpPartial encodes the entries selected by raw key.
func (p *HashProcessor) DumpPartial(v any, paths Paths) (any, error) {
	m, ok := asNativeMap(v)
	if !ok {
		return nil, newValidationError("Hash", v, "expected a map, got %T", v)
	}
	out := make(map[string]any, len(paths))
	for rk, sub := range paths {
		key, ok := lookupKey(m, p, rk)
		if !ok {
			continue
		}
		r, err := dumpPartial(p.elem, m[key], sub)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", rk, err)
		}
		out[rk] = r
	}
	return out, nil
}

func (p *HashProcessor) rawKey(k any) (string, error) {
	rk, err := p.key.NativeToRaw(k)
	if err != nil {
		return "", fmt.Errorf("key %v: %w", k, err)
	}
	s, err := cast.ToStringE(rk)
	if err != nil {
		return "", newValidationError("Hash", k, "key is not representable as a string: %v", err)
	}
	return s, nil
}

func (p *HashProcessor) ZeroValue() any        { return map[any]any{} }
func (p *HashProcessor) HasMutableValue() bool { return true }
