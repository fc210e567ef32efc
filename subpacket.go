package packets

// SubPacketProcessor nests packets of a schema. Natives are *Packet.
type SubPacketProcessor struct {
	schema *Schema
}

// SubPacket returns a processor for nested packets of schema.
func SubPacket(schema *Schema) *SubPacketProcessor {
	return &SubPacketProcessor{schema: schema}
}

// Schema returns the nested schema.
func (p *SubPacketProcessor) Schema() *Schema { return p.schema }

// CheckDefinition rejects a nil schema.
func (p *SubPacketProcessor) CheckDefinition() error {
	if p.schema == nil {
		return newSchemaError(ErrInvalidProcessor, "", "", "sub-packet without schema")
	}
	return nil
}

func (p *SubPacketProcessor) CheckNative(v any) error {
	sub, ok := v.(*Packet)
	if !ok || sub == nil {
		return newValidationError("SubPacket", v, "expected *Packet, got %T", v)
	}
	if !sub.schema.IsA(p.schema) {
		return newValidationError("SubPacket", v, "schema %s is not a %s", sub.schema.name, p.schema.name)
	}
	return nil
}

func (p *SubPacketProcessor) CheckRaw(any) error { return nil }

func (p *SubPacketProcessor) RawToNative(raw any, strict bool) (any, error) {
	return p.schema.load(raw, strict)
}

func (p *SubPacketProcessor) NativeToRaw(v any) (any, error) {
	if err := p.CheckNative(v); err != nil {
		return nil, err
	}
	return v.(*Packet).Dump()
}

// DumpPartial delegates to the nested packet.
func (p *SubPacketProcessor) DumpPartial(v any, paths Paths) (any, error) {
	if err := p.CheckNative(v); err != nil {
		return nil, err
	}
	return v.(*Packet).DumpPartial(paths)
}

// ZeroValue returns a non-strict empty packet, or nil if one cannot be built.
func (p *SubPacketProcessor) ZeroValue() any {
	sub, err := p.schema.New(nil, WithStrict(false))
	if err != nil {
		return nil
	}
	return sub
}

func (p *SubPacketProcessor) HasMutableValue() bool { return true }
