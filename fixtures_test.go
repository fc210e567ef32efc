package packets

import (
	"encoding/json"
	"testing"
)

// testCodec is a simple JSON codec for testing without importing packets/json.
type testCodec struct{}

func (c *testCodec) ContentType() string { return "application/json" }

func (c *testCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *testCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Shared schemas.
var (
	internalSchema = MustDefine("Internal",
		Declare("d", NewField(Int)),
		Declare("e", NewField(String, Required(true))),
		Declare("f", NewField(Array(String), Default([]any{}))),
	)

	frontSchema = MustDefine("Front",
		Declare("a", NewField(Int, Default(10))),
		Declare("b", NewField(Float, Name("non_B"))),
		Declare("c", NewField(internalSchema, Required(true))),
	)

	pointSchema = MustDefine("Point",
		Bases(ArrayPacketSchema),
		Declare("x", NewField(Int)),
		Declare("label", NewField(String)),
	)

	rowSchema = MustDefine("Row",
		Declare("f1", NewField(Int)),
		Declare("f2", NewField(String)),
	)

	tableSchema = MustDefine("Table",
		Bases(TablePacketSchema),
		DefaultField(NewField(rowSchema)),
	)
)

// mustLoad loads raw into s or fails the test.
func mustLoad(t *testing.T, s *Schema, raw any) *Packet {
	t.Helper()
	p, err := s.Load(raw)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return p
}

// mustDump dumps p or fails the test.
func mustDump(t *testing.T, p *Packet) any {
	t.Helper()
	raw, err := p.Dump()
	if err != nil {
		t.Fatalf("Dump() error: %v", err)
	}
	return raw
}

// frontRaw is a complete raw Front packet.
func frontRaw() map[string]any {
	return map[string]any{
		"a":     1,
		"non_B": 2.5,
		"c": map[string]any{
			"d": 7,
			"e": "test",
			"f": []any{"1", "2"},
		},
	}
}
