package packets

// Kind is the wire form of a schema.
type Kind uint8

const (
	// KindObject dumps to a map keyed by raw field names.
	KindObject Kind = iota

	// KindArray dumps to a positional list.
	KindArray

	// KindTable dumps to a map whose unknown keys become rows.
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Packet tags understood by the package. Schemas may carry arbitrary tags;
// these ones change behavior.
const (
	// TagStructuralCopy makes Clone copy values structurally instead of
	// dumping and re-parsing the packet.
	TagStructuralCopy = "structural_copy"
)

// validKinds contains the kinds a schema can be defined with.
var validKinds = map[Kind]bool{
	KindObject: true,
	KindArray:  true,
	KindTable:  true,
}

// IsValidKind returns true if k is a known wire form.
func IsValidKind(k Kind) bool {
	return validKinds[k]
}

// mergeKind combines the kinds of two bases.
// Array schemas cannot be mixed with map-shaped ones; a table absorbs objects.
func mergeKind(a, b Kind) (Kind, bool) {
	switch {
	case a == b:
		return a, true
	case a == KindArray || b == KindArray:
		return a, false
	default:
		return KindTable, true
	}
}
