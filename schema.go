package packets

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// rootModule is the module of the root schemas. It takes part in packet IDs.
const rootModule = "packets.packet"

// Root schemas. Every schema descends from exactly one of them.
var (
	// PacketSchema is the root of map-shaped schemas.
	PacketSchema = newRootSchema("Packet", KindObject)

	// ArrayPacketSchema is the root of list-shaped schemas.
	ArrayPacketSchema = newRootSchema("ArrayPacket", KindArray)

	// PacketWithIDSchema is the root of map-shaped schemas carrying an ID.
	PacketWithIDSchema = newRootSchema("PacketWithID", KindObject, PacketSchema)

	// TablePacketSchema is the root of table schemas.
	TablePacketSchema = newRootSchema("TablePacket", KindTable, PacketSchema)
)

func newRootSchema(name string, kind Kind, bases ...*Schema) *Schema {
	return &Schema{
		name:   name,
		module: rootModule,
		kind:   kind,
		bases:  bases,
		layout: newLayout(),
		tags:   map[string]struct{}{},
		root:   true,
	}
}

// Schema is the frozen description of a packet type. Schemas are immutable
// after Define returns and safe for concurrent use.
type Schema struct {
	name         string
	module       string
	kind         Kind
	bases        []*Schema
	layout       *layout
	tags         map[string]struct{}
	defaultField *Field
	onLoaded     func(*Packet) error
	id           int32
	hasID        bool
	root         bool
}

// SchemaOption configures Define.
type SchemaOption func(*schemaConfig)

type schemaConfig struct {
	module       string
	bases        []*Schema
	fields       []declaration
	tags         []string
	defaultField *Field
	onLoaded     func(*Packet) error
}

type declaration struct {
	name  string
	field *Field
}

// Bases sets the base schemas, in resolution order. Without it the base is
// PacketSchema.
func Bases(bases ...*Schema) SchemaOption {
	return func(c *schemaConfig) {
		c.bases = append(c.bases, bases...)
	}
}

// Declare adds a field under its native name. Fields are bound in the order
// they are declared.
func Declare(name string, field *Field) SchemaOption {
	return func(c *schemaConfig) {
		c.fields = append(c.fields, declaration{name: name, field: field})
	}
}

// DefaultField sets the row prototype of a table schema.
func DefaultField(field *Field) SchemaOption {
	return func(c *schemaConfig) {
		c.defaultField = field
	}
}

// Tags adds packet tags. Tags are inherited from bases.
func Tags(tags ...string) SchemaOption {
	return func(c *schemaConfig) {
		c.tags = append(c.tags, tags...)
	}
}

// Module sets the module name used in the qualified name and packet ID.
func Module(module string) SchemaOption {
	return func(c *schemaConfig) {
		c.module = module
	}
}

// OnLoaded sets a hook run after every successful Load and Update.
// Without it the hook of the first base that has one is used.
func OnLoaded(fn func(*Packet) error) SchemaOption {
	return func(c *schemaConfig) {
		c.onLoaded = fn
	}
}

// MustDefine is like Define but panics on error. It is meant for
// package-level schema variables.
func MustDefine(name string, opts ...SchemaOption) *Schema {
	s, err := Define(name, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Define builds a schema.
//
// Inherited fields are merged base by base: a name contributed by an earlier
// base may only be replaced by a later base's field if that field is an
// override. Own declarations are then bound on top; an own declaration of
// an inherited name must be an override. Raw names must be unique.
func Define(name string, opts ...SchemaOption) (*Schema, error) {
	cfg := schemaConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.bases) == 0 {
		cfg.bases = []*Schema{PacketSchema}
	}

	s := &Schema{
		name:   name,
		module: cfg.module,
		bases:  cfg.bases,
		tags:   map[string]struct{}{},
	}

	lay := newLayout()
	for i, base := range cfg.bases {
		if base == nil {
			return nil, newSchemaError(ErrIncompatibleBases, name, "", "nil base")
		}
		if i == 0 {
			s.kind = base.kind
		} else {
			kind, ok := mergeKind(s.kind, base.kind)
			if !ok {
				return nil, newSchemaError(ErrIncompatibleBases, name, "",
					fmt.Sprintf("%s cannot be combined with %s", base.name, cfg.bases[0].name))
			}
			s.kind = kind
		}

		for _, f := range base.layout.fields {
			existing, ok := lay.field(f.NativeName())
			if ok && existing != f && !f.info.Override() {
				return nil, newSchemaError(ErrAmbiguousField, name, f.NativeName(),
					fmt.Sprintf("inherited from %s", base.name))
			}
			lay.put(f)
		}
		for tag := range base.tags {
			s.tags[tag] = struct{}{}
		}
		if s.defaultField == nil {
			s.defaultField = base.defaultField
		}
		if s.onLoaded == nil {
			s.onLoaded = base.onLoaded
		}
	}
	for _, tag := range cfg.tags {
		s.tags[tag] = struct{}{}
	}
	if cfg.onLoaded != nil {
		s.onLoaded = cfg.onLoaded
	}

	for _, d := range cfg.fields {
		if d.field == nil {
			return nil, newSchemaError(ErrMissingProcessor, name, d.name, "nil field")
		}
		parent, _ := lay.field(d.name)
		bound, err := d.field.bind(parent, d.name)
		if err != nil {
			return nil, &SchemaError{Err: err, Schema: name, Field: d.name}
		}
		lay.put(bound)
	}

	if cfg.defaultField != nil {
		if s.kind != KindTable {
			return nil, newSchemaError(ErrIncompatibleBases, name, "", "default field requires a table base")
		}
		proto, err := cfg.defaultField.bind(nil, "")
		if err != nil {
			return nil, &SchemaError{Err: err, Schema: name, Field: "default field"}
		}
		s.defaultField = proto
	}

	for _, f := range lay.fields {
		raw := f.RawName()
		if other, dup := lay.raw[raw]; dup && other != f.NativeName() {
			return nil, newSchemaError(ErrDuplicateRawName, name, f.NativeName(),
				fmt.Sprintf("%q is also used by %q", raw, other))
		}
		lay.raw[raw] = f.NativeName()
	}
	s.layout = lay

	if s.IsA(PacketWithIDSchema) {
		s.id = packetID(s)
		s.hasID = true
	}

	emitSchemaDefined(context.Background(), s)
	return s, nil
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Module returns the module name set with Module.
func (s *Schema) Module() string { return s.module }

// QualifiedName returns "module.Name", or the name when no module is set.
func (s *Schema) QualifiedName() string {
	if s.module == "" {
		return s.name
	}
	return s.module + "." + s.name
}

// Kind returns the wire form.
func (s *Schema) Kind() Kind { return s.kind }

// Bases returns the direct bases.
func (s *Schema) Bases() []*Schema {
	out := make([]*Schema, len(s.bases))
	copy(out, s.bases)
	return out
}

// Fields returns the bound fields in order.
func (s *Schema) Fields() []*Field {
	out := make([]*Field, len(s.layout.fields))
	copy(out, s.layout.fields)
	return out
}

// Field returns the field with the given native name.
func (s *Schema) Field(name string) (*Field, bool) {
	return s.layout.field(name)
}

// FieldNames returns the native field names in order.
func (s *Schema) FieldNames() []string {
	return s.layout.names()
}

// EscapedFieldNames returns the raw field names in order, double-quoted.
func (s *Schema) EscapedFieldNames() []string {
	out := make([]string, len(s.layout.fields))
	for i, f := range s.layout.fields {
		out[i] = `"` + f.RawName() + `"`
	}
	return out
}

// NativeName maps a raw name to a native name.
func (s *Schema) NativeName(raw string) (string, bool) {
	name, ok := s.layout.raw[raw]
	return name, ok
}

// Tags returns the packet tags, sorted.
func (s *Schema) Tags() []string {
	return sortedKeys(s.tags)
}

// HasTag reports whether the schema carries tag.
func (s *Schema) HasTag(tag string) bool {
	_, ok := s.tags[tag]
	return ok
}

// DefaultField returns the row prototype of a table schema.
func (s *Schema) DefaultField() (*Field, bool) {
	return s.defaultField, s.defaultField != nil
}

// ID returns the packet ID. It is only meaningful when HasID is true.
func (s *Schema) ID() int32 { return s.id }

// HasID reports whether the schema descends from PacketWithIDSchema.
func (s *Schema) HasID() bool { return s.hasID }

// IsA reports whether s is other or descends from a schema with the same
// qualified name as other.
func (s *Schema) IsA(other *Schema) bool {
	if s == nil || other == nil {
		return false
	}
	if s == other || (s.name == other.name && s.module == other.module) {
		return true
	}
	for _, base := range s.bases {
		if base.IsA(other) {
			return true
		}
	}
	return false
}

func (s *Schema) String() string {
	return fmt.Sprintf("<Schema %s (%s) [%s]>", s.QualifiedName(), s.kind, strings.Join(s.FieldNames(), ", "))
}

// layout is an ordered field table.
type layout struct {
	fields []*Field
	index  map[string]int    // native name -> position
	raw    map[string]string // raw name -> native name
}

func newLayout() *layout {
	return &layout{
		index: map[string]int{},
		raw:   map[string]string{},
	}
}

func (l *layout) clone() *layout {
	c := &layout{
		fields: make([]*Field, len(l.fields)),
		index:  make(map[string]int, len(l.index)),
		raw:    make(map[string]string, len(l.raw)),
	}
	copy(c.fields, l.fields)
	for k, v := range l.index {
		c.index[k] = v
	}
	for k, v := range l.raw {
		c.raw[k] = v
	}
	return c
}

func (l *layout) field(name string) (*Field, bool) {
	i, ok := l.index[name]
	if !ok {
		return nil, false
	}
	return l.fields[i], true
}

// put replaces the field with the same native name in place or appends.
// The raw index is maintained by the caller.
func (l *layout) put(f *Field) {
	if i, ok := l.index[f.NativeName()]; ok {
		l.fields[i] = f
		return
	}
	l.index[f.NativeName()] = len(l.fields)
	l.fields = append(l.fields, f)
}

func (l *layout) remove(name string) {
	i, ok := l.index[name]
	if !ok {
		return
	}
	delete(l.raw, l.fields[i].RawName())
	l.fields = append(l.fields[:i:i], l.fields[i+1:]...)
	delete(l.index, name)
	for j := i; j < len(l.fields); j++ {
		l.index[l.fields[j].NativeName()] = j
	}
}

func (l *layout) names() []string {
	out := make([]string, len(l.fields))
	for i, f := range l.fields {
		out[i] = f.NativeName()
	}
	return out
}

// dynamicKeys returns the native names present in l but not in the schema.
func (s *Schema) dynamicKeys(l *layout) []string {
	var out []string
	for _, f := range l.fields {
		if _, static := s.layout.index[f.NativeName()]; !static {
			out = append(out, f.NativeName())
		}
	}
	sort.Strings(out)
	return out
}
