package packets

import "testing"

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindObject, "object"},
		{KindArray, "array"},
		{KindTable, "table"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestIsValidKind(t *testing.T) {
	for _, k := range []Kind{KindObject, KindArray, KindTable} {
		if !IsValidKind(k) {
			t.Errorf("IsValidKind(%s) = false, want true", k)
		}
	}
	if IsValidKind(Kind(99)) {
		t.Error("IsValidKind(99) = true, want false")
	}
}

func TestMergeKind(t *testing.T) {
	tests := []struct {
		name string
		a, b Kind
		want Kind
		ok   bool
	}{
		{"same object", KindObject, KindObject, KindObject, true},
		{"same array", KindArray, KindArray, KindArray, true},
		{"table absorbs object", KindObject, KindTable, KindTable, true},
		{"object after table", KindTable, KindObject, KindTable, true},
		{"array with object", KindArray, KindObject, KindArray, false},
		{"object with array", KindObject, KindArray, KindObject, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mergeKind(tt.a, tt.b)
			if ok != tt.ok {
				t.Fatalf("mergeKind() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("mergeKind() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProcessorCapabilities(t *testing.T) {
	var (
		_ PartialDumper     = SubPacket(PacketSchema)
		_ PartialDumper     = Array(Int)
		_ PartialDumper     = Hash(String, Int)
		_ Bounded           = Int
		_ Bounded           = Uint64
		_ Bounded           = UnixTime
		_ ElementTyped      = Array(Int)
		_ ElementTyped      = Set(String)
		_ KeyTyped          = Hash(String, Int)
		_ TupleTyped        = Tuple(Int, String)
		_ SchemaBound       = SubPacket(PacketSchema)
		_ DefinitionChecker = Array(Int)
		_ DefinitionChecker = Enum(1, 2)
	)

	if _, ok := Processor(Int).(stringKeyer); !ok {
		t.Error("integer processors should offer a string form")
	}
	if _, ok := Processor(String).(stringKeyer); ok {
		t.Error("String should not offer a string form")
	}
}
