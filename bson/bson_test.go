package bson

import (
	"testing"
	"time"

	"github.com/kylelemons/godebug/pretty"
	"github.com/zoobzio/packets"
)

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/bson")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	c := New()
	when := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	tree := map[string]any{
		"name":  "box",
		"count": int64(7),
		"when":  when,
		"inner": map[string]any{"small": int32(3), "list": []any{"a", 1.5}},
	}

	data, err := packets.Encode(c, tree)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := packets.Decode(c, data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	want := map[string]any{
		"name":  "box",
		"count": int64(7),
		"when":  when,
		"inner": map[string]any{"small": int64(3), "list": []any{"a", 1.5}},
	}
	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("round trip: -want/+got:\n%s", diff)
	}
}

func TestNonDocumentValues(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"list", []any{int64(1), "b"}, []any{int64(1), "b"}},
		{"string", "text", "text"},
		{"null", nil, nil},
	}

	c := New()
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data, err := c.Marshal(test.in)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			got, err := packets.Decode(c, data)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if diff := pretty.Compare(test.want, got); diff != "" {
				t.Errorf("round trip: -want/+got:\n%s", diff)
			}
		})
	}
}

func TestUnmarshalStruct(t *testing.T) {
	type doc struct {
		Name  string `bson:"name"`
		Value int    `bson:"value"`
	}
	c := New()
	data, err := c.Marshal(doc{Name: "test", Value: 42})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var got doc
	if err := c.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got.Name != "test" || got.Value != 42 {
		t.Errorf("Unmarshal() = %+v", got)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var v any
	if err := New().Unmarshal([]byte("invalid bson"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
