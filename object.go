package packets

// Paths selects sub-trees for partial dumps. A nil value selects the whole
// value under its key; a non-nil value descends into it.
type Paths map[string]Paths

func (s *Schema) parseObject(lay *layout, raw any, strict bool) (Values, error) {
	m, ok := asRawMap(raw)
	if !ok {
		return nil, &ParseError{Schema: s.name, Cause: newValidationError(s.name, raw, "expected a map")}
	}
	out := make(Values, len(m))
	for _, f := range lay.fields {
		rv, present := m[f.RawName()]
		if !present {
			continue
		}
		v, err := f.RawToNative(rv, strict)
		if err != nil {
			return nil, &ParseError{Schema: s.name, Field: f.NativeName(), Cause: err}
		}
		out[f.NativeName()] = v
	}
	return out, nil
}

// dumpObject writes every non-null field under its raw name.
func (p *Packet) dumpObject() (map[string]any, error) {
	out := make(map[string]any, len(p.layout.fields))
	for _, f := range p.layout.fields {
		raw, err := f.NativeToRaw(p.values[f.NativeName()])
		if err != nil {
			return nil, &FieldError{Err: err, Field: p.schema.name + "::" + f.NativeName()}
		}
		if raw != nil {
			out[f.RawName()] = raw
		}
	}
	return out, nil
}

func (p *Packet) dumpObjectPartial(paths Paths) (map[string]any, error) {
	out := make(map[string]any, len(paths))
	for name, sub := range paths {
		f, ok := p.layout.field(name)
		if !ok {
			continue
		}
		raw, err := f.DumpPartial(p.values[name], sub)
		if err != nil {
			return nil, &FieldError{Err: err, Field: p.schema.name + "::" + name}
		}
		if raw != nil {
			out[f.RawName()] = raw
		}
	}
	return out, nil
}
