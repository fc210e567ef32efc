package packets

func (s *Schema) parseArray(lay *layout, raw any, strict bool) (Values, error) {
	list, ok := asList(raw)
	if !ok {
		return nil, &ParseError{Schema: s.name, Cause: newValidationError(s.name, raw, "expected a list")}
	}
	out := make(Values, len(list))
	for i, f := range lay.fields {
		if i >= len(list) {
			break
		}
		v, err := f.RawToNative(list[i], strict)
		if err != nil {
			return nil, &ParseError{Schema: s.name, Field: f.NativeName(), Cause: err}
		}
		out[f.NativeName()] = v
	}
	return out, nil
}

// dumpArray writes one slot per field, null fields included.
func (p *Packet) dumpArray() ([]any, error) {
	out := make([]any, len(p.layout.fields))
	for i, f := range p.layout.fields {
		raw, err := f.NativeToRaw(p.values[f.NativeName()])
		if err != nil {
			return nil, &FieldError{Err: err, Field: p.schema.name + "::" + f.NativeName()}
		}
		out[i] = raw
	}
	return out, nil
}
