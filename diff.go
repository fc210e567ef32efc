package packets

import (
	"fmt"
)

// Diff returns the paths whose values differ between p and old, in a form
// DumpPartial accepts. Nested packets and keyed collections are descended
// into; anything else that changed is selected whole.
func (p *Packet) Diff(old *Packet) (Paths, error) {
	out := Paths{}
	if old == nil {
		for _, f := range p.layout.fields {
			out[f.NativeName()] = nil
		}
		return out, nil
	}
	if p.schema != old.schema {
		return nil, fmt.Errorf("%w: %s and %s", ErrSchemaMismatch, p.schema.name, old.schema.name)
	}
	for _, f := range p.layout.fields {
		name := f.NativeName()
		prev, ok := old.Lookup(name)
		if !ok {
			out[name] = nil
			continue
		}
		if sub, changed := diffValue(f.Processor(), p.values[name], prev); changed {
			out[name] = sub
		}
	}
	return out, nil
}

// diffValue compares two native values. A changed value reports either nil
// (select whole) or the changed sub-paths.
func diffValue(proc Processor, cur, prev any) (Paths, bool) {
	if cp, ok := cur.(*Packet); ok && cp != nil {
		if pp, ok := prev.(*Packet); ok && pp != nil && cp.schema == pp.schema && cp.schema.kind != KindArray {
			if !cp.hasAll(pp) {
				return nil, true
			}
			sub, err := cp.Diff(pp)
			if err != nil {
				return nil, true
			}
			return sub, len(sub) > 0
		}
	}

	if kp := keyType(proc); kp != nil {
		cm, ok1 := cur.(map[any]any)
		pm, ok2 := prev.(map[any]any)
		if ok1 && ok2 {
			return diffMap(kp, elementType(proc, 0), cm, pm)
		}
	}

	if equalValues(cur, prev) {
		return nil, false
	}
	return nil, true
}

// diffMap compares keyed collections. Removed keys cannot be expressed as a
// partial dump, so they select the whole collection.
func diffMap(kp, ep Processor, cur, prev map[any]any) (Paths, bool) {
	for k := range prev {
		if _, ok := cur[k]; !ok {
			return nil, true
		}
	}
	sub := Paths{}
	for k, v := range cur {
		rk, err := kp.NativeToRaw(k)
		if err != nil {
			return nil, true
		}
		key := fmt.Sprint(rk)
		pv, ok := prev[k]
		if !ok {
			sub[key] = nil
			continue
		}
		if s, changed := diffValue(ep, v, pv); changed {
			sub[key] = s
		}
	}
	return sub, len(sub) > 0
}

// hasAll reports whether every field of other is present in p.
func (p *Packet) hasAll(other *Packet) bool {
	for name := range other.layout.index {
		if _, ok := p.layout.index[name]; !ok {
			return false
		}
	}
	return true
}
