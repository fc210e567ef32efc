package packets

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Packet is an instance of a schema: one native value per field plus a
// modification flag. Packets are not safe for concurrent mutation.
type Packet struct {
	schema   *Schema
	layout   *layout
	values   map[string]any
	modified bool
}

// LoadOption configures construction and loading.
type LoadOption func(*loadConfig)

type loadConfig struct {
	strict bool
}

// WithStrict controls how required fields that resolve to null are handled.
// Strict (the default) fails; non-strict substitutes the processor zero value.
func WithStrict(strict bool) LoadOption {
	return func(c *loadConfig) {
		c.strict = strict
	}
}

func newLoadConfig(opts []LoadOption) loadConfig {
	cfg := loadConfig{strict: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// New constructs a packet from native values keyed by native name. Fields
// not supplied take a copy of their native default. Supplied non-null values
// are validated with the field processor.
func (s *Schema) New(values Values, opts ...LoadOption) (*Packet, error) {
	cfg := newLoadConfig(opts)
	return s.construct(s.layout, values, cfg.strict, true)
}

// MustNew is like New but panics on error.
func (s *Schema) MustNew(values Values, opts ...LoadOption) *Packet {
	p, err := s.New(values, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func (s *Schema) construct(lay *layout, values Values, strict, check bool) (*Packet, error) {
	for name := range values {
		if _, ok := lay.index[name]; !ok {
			return nil, &FieldError{Err: ErrUnexpectedField, Field: s.name + "::" + name}
		}
	}

	p := &Packet{
		schema: s,
		layout: lay,
		values: make(map[string]any, len(lay.fields)),
	}
	for _, f := range lay.fields {
		name := f.NativeName()
		if v, ok := values[name]; ok {
			v = normalizeNull(v)
			if check && v != nil {
				if err := f.info.processor.CheckNative(v); err != nil {
					return nil, fmt.Errorf("%s::%s: %w", s.name, name, err)
				}
			}
			p.values[name] = v
			continue
		}
		v, err := f.RawToNative(nil, strict)
		if err != nil {
			return nil, err
		}
		p.values[name] = v
	}
	return p, nil
}

// Load decodes a raw tree into a new packet and runs the loaded hook.
func (s *Schema) Load(raw any, opts ...LoadOption) (*Packet, error) {
	start := time.Now()
	cfg := newLoadConfig(opts)
	p, err := s.load(raw, cfg.strict)
	emitLoadComplete(context.Background(), s, time.Since(start), err)
	return p, err
}

func (s *Schema) load(raw any, strict bool) (*Packet, error) {
	lay := s.layout
	if s.kind == KindTable {
		next, _, _, err := s.reshape(s.layout, raw, false)
		if err != nil {
			return nil, err
		}
		lay = next
	}
	parsed, err := s.parse(lay, raw, strict)
	if err != nil {
		return nil, err
	}
	p, err := s.construct(lay, parsed, strict, false)
	if err != nil {
		return nil, err
	}
	if err := p.loaded(); err != nil {
		return nil, err
	}
	return p, nil
}

// parse decodes the fields present in raw.
func (s *Schema) parse(lay *layout, raw any, strict bool) (Values, error) {
	if s.kind == KindArray {
		return s.parseArray(lay, raw, strict)
	}
	return s.parseObject(lay, raw, strict)
}

func (p *Packet) loaded() error {
	if p.schema.onLoaded == nil {
		return nil
	}
	return p.schema.onLoaded(p)
}

// Update merges a raw tree into the packet. Only fields present in raw are
// touched, each of them marking the packet modified. Table packets gain
// rows for new keys and lose dynamic rows missing from raw. Nothing changes
// if any field fails to parse.
func (p *Packet) Update(raw any) error {
	start := time.Now()
	err := p.update(raw)
	emitUpdateComplete(context.Background(), p.schema, time.Since(start), err)
	return err
}

func (p *Packet) update(raw any) error {
	s := p.schema
	lay := p.layout
	var added, removed []string
	if s.kind == KindTable {
		next, a, r, err := s.reshape(p.layout, raw, true)
		if err != nil {
			return err
		}
		lay, added, removed = next, a, r
	}

	parsed, err := s.parse(lay, raw, true)
	if err != nil {
		return err
	}

	if lay != p.layout {
		for _, name := range removed {
			delete(p.values, name)
			p.modified = true
		}
		for _, name := range added {
			p.values[name] = nil
		}
		p.layout = lay
		emitTableReshaped(context.Background(), s, added, removed)
	}
	for _, f := range lay.fields {
		name := f.NativeName()
		if v, ok := parsed[name]; ok {
			p.values[name] = v
			p.modified = true
		}
	}
	return p.loaded()
}

// Dump encodes the packet into its raw form: map[string]any for map-shaped
// schemas, []any for array schemas.
func (p *Packet) Dump() (any, error) {
	if p.schema.kind == KindArray {
		return p.dumpArray()
	}
	return p.dumpObject()
}

// DumpPartial encodes only the fields selected by paths. Array packets
// always dump in full.
func (p *Packet) DumpPartial(paths Paths) (any, error) {
	if p.schema.kind == KindArray {
		return p.dumpArray()
	}
	return p.dumpObjectPartial(paths)
}

// Schema returns the schema of the packet.
func (p *Packet) Schema() *Schema { return p.schema }

// Attr returns the native value of a field, or nil for unknown names.
func (p *Packet) Attr(name string) any {
	return p.values[name]
}

// Lookup returns the native value of a field and whether the field exists.
func (p *Packet) Lookup(name string) (any, bool) {
	if _, ok := p.layout.index[name]; !ok {
		return nil, false
	}
	return p.values[name], true
}

// Has reports whether name is a field of the packet.
func (p *Packet) Has(name string) bool {
	_, ok := p.layout.index[name]
	return ok
}

// SetAttr assigns a native value and marks the packet modified.
func (p *Packet) SetAttr(name string, value any) error {
	f, ok := p.layout.field(name)
	if !ok {
		return &FieldError{Err: ErrUnknownField, Field: p.schema.name + "::" + name}
	}
	value = normalizeNull(value)
	if value != nil {
		if err := f.info.processor.CheckNative(value); err != nil {
			return fmt.Errorf("%s::%s: %w", p.schema.name, name, err)
		}
	}
	p.values[name] = value
	p.modified = true
	return nil
}

// DelAttr sets a field to null.
func (p *Packet) DelAttr(name string) error {
	return p.SetAttr(name, nil)
}

// Values returns a shallow copy of the native values.
func (p *Packet) Values() Values {
	out := make(Values, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// FieldNames returns the native field names of this instance in order.
// For table packets this includes the rows.
func (p *Packet) FieldNames() []string {
	return p.layout.names()
}

// Field returns the field bound to a native name on this instance.
func (p *Packet) Field(name string) (*Field, bool) {
	return p.layout.field(name)
}

// IsModified reports whether the packet or any directly nested packet was
// modified since it was constructed or loaded.
func (p *Packet) IsModified() bool {
	if p.modified {
		return true
	}
	for _, v := range p.values {
		if sub, ok := v.(*Packet); ok && sub != nil && sub.IsModified() {
			return true
		}
	}
	return false
}

// Equal reports whether both packets share a schema and hold equal values.
func (p *Packet) Equal(other *Packet) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p == other {
		return true
	}
	if p.schema != other.schema || len(p.layout.fields) != len(other.layout.fields) {
		return false
	}
	for _, f := range p.layout.fields {
		name := f.NativeName()
		if _, ok := other.layout.index[name]; !ok {
			return false
		}
		if !equalValues(p.values[name], other.values[name]) {
			return false
		}
	}
	return true
}

func (p *Packet) String() string {
	var b strings.Builder
	b.WriteByte('<')
	first := true
	for _, f := range p.layout.fields {
		v := p.values[f.NativeName()]
		if v == nil {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s: %v", f.NativeName(), v)
	}
	b.WriteByte('>')
	return b.String()
}

// Len returns the number of fields, including table rows.
func (p *Packet) Len() int {
	return len(p.layout.fields)
}

// Keys returns the raw names of all fields, in order.
func (p *Packet) Keys() []string {
	out := make([]string, len(p.layout.fields))
	for i, f := range p.layout.fields {
		out[i] = f.RawName()
	}
	return out
}

// DynamicKeys returns the native names of table rows, sorted.
func (p *Packet) DynamicKeys() []string {
	return p.schema.dynamicKeys(p.layout)
}

// Row returns a table row holding a nested packet.
func (p *Packet) Row(key string) (*Packet, bool) {
	name, ok := p.layout.raw[key]
	if !ok {
		return nil, false
	}
	sub, ok := p.values[name].(*Packet)
	return sub, ok && sub != nil
}

// reshape returns the layout a table packet needs to hold raw. New keys get
// a row field cloned from the default field; with prune, rows missing from
// raw are dropped. lay is never modified.
func (s *Schema) reshape(lay *layout, raw any, prune bool) (*layout, []string, []string, error) {
	if s.defaultField == nil {
		return nil, nil, nil, newSchemaError(ErrMissingDefaultField, s.name, "", "")
	}
	m, ok := asRawMap(raw)
	if !ok {
		return nil, nil, nil, &ParseError{Schema: s.name, Cause: newValidationError(s.name, raw, "expected a map")}
	}

	var added, removed []string
	for _, key := range sortedKeys(m) {
		if _, known := lay.raw[key]; known {
			continue
		}
		if _, known := lay.index[key]; known {
			continue
		}
		added = append(added, key)
	}
	if prune {
		for _, name := range s.dynamicKeys(lay) {
			f, _ := lay.field(name)
			if _, present := m[f.RawName()]; !present {
				removed = append(removed, name)
			}
		}
	}
	if len(added) == 0 && len(removed) == 0 {
		return lay, nil, nil, nil
	}

	next := lay.clone()
	for _, name := range removed {
		next.remove(name)
	}
	for _, key := range added {
		f, err := s.rowField(key)
		if err != nil {
			return nil, nil, nil, err
		}
		next.put(f)
		next.raw[key] = key
	}
	sort.Strings(removed)
	return next, added, removed, nil
}

func (s *Schema) rowField(key string) (*Field, error) {
	f, err := s.defaultField.Clone(Name(key), Override(true)).bind(nil, key)
	if err != nil {
		return nil, &SchemaError{Err: err, Schema: s.name, Field: key}
	}
	return f, nil
}
