package packets

// Optional processor capabilities. The core probes for these with type
// assertions; a processor implements only the ones that apply to it.

// PartialDumper encodes only the sub-paths selected by Paths.
// Processors holding nested packets or keyed collections implement it so
// DumpPartial and Diff can descend into them.
type PartialDumper interface {
	DumpPartial(value any, paths Paths) (any, error)
}

// Bounded exposes numeric bounds. They are snapshotted into FieldInfo.
type Bounded interface {
	Min() any
	Max() any
}

// ElementTyped exposes the element processor of a homogeneous container.
type ElementTyped interface {
	ElementType() Processor
}

// KeyTyped exposes the key processor of a mapping.
type KeyTyped interface {
	KeyType() Processor
}

// TupleTyped exposes per-position processors of a heterogeneous sequence.
type TupleTyped interface {
	ElementTypes() []Processor
}

// SchemaBound is implemented by processors whose native values are packets.
type SchemaBound interface {
	Schema() *Schema
}

// DefinitionChecker reports errors recorded while a processor was built.
// Define calls it once per field so a bad element type fails at definition
// time instead of on first use.
type DefinitionChecker interface {
	CheckDefinition() error
}

// stringKeyer is implemented by numeric processors that can serialize as text.
// Hash uses it for keys, since raw mapping keys are always strings.
type stringKeyer interface {
	AsString() Processor
}
