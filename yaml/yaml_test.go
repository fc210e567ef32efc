package yaml

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/zoobzio/packets"
)

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/yaml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/yaml")
	}
}

func TestMarshalNil(t *testing.T) {
	data, err := New().Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}
	if string(data) != "null\n" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null\n")
	}
}

func TestDecodeRawTree(t *testing.T) {
	input := `name: box
size: 3
tags: [a, b]
meta:
  1: one
  two: 2
`
	got, err := packets.Decode(New(), []byte(input))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	want := map[string]any{
		"name": "box",
		"size": 3,
		"tags": []any{"a", "b"},
		"meta": map[string]any{"1": "one", "two": 2},
	}
	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("Decode(): -want/+got:\n%s", diff)
	}
}

func TestDecodeAnchors(t *testing.T) {
	input := `default: &default
  timeout: 30
  retries: 3
production:
  <<: *default
  timeout: 60`

	got, err := packets.Decode(New(), []byte(input))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	prod, ok := got.(map[string]any)["production"].(map[string]any)
	if !ok {
		t.Fatal("production key not found or wrong type")
	}
	if prod["timeout"] != 60 || prod["retries"] != 3 {
		t.Errorf("production = %v", prod)
	}
}

func TestMarshalIndent(t *testing.T) {
	data, err := New().Marshal(map[string]any{"a": map[string]any{"b": 1}})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != "a:\n  b: 1\n" {
		t.Errorf("Marshal() = %q, want %q", data, "a:\n  b: 1\n")
	}
}

func TestUnmarshalKeyText(t *testing.T) {
	var got any
	if err := New().Unmarshal([]byte("1.0: one\n2: two\ntrue: yes\n"), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	want := map[string]any{"1.0": "one", "2": "two", "true": "yes"}
	if diff := pretty.Compare(want, got); diff != "" {
		t.Errorf("Unmarshal(): -want/+got:\n%s", diff)
	}
}

func TestUnmarshalMergePrecedence(t *testing.T) {
	input := `base: &b {x: 1, y: 1}
other: &o {y: 2, z: 2}
c:
  <<: [*b, *o]
  x: 9
`
	var got any
	if err := New().Unmarshal([]byte(input), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	c, ok := got.(map[string]any)["c"].(map[string]any)
	if !ok {
		t.Fatalf("c = %#v, want a map", got.(map[string]any)["c"])
	}
	want := map[string]any{"x": 9, "y": 1, "z": 2}
	if diff := pretty.Compare(want, c); diff != "" {
		t.Errorf("merged mapping: -want/+got:\n%s", diff)
	}
}

func TestUnmarshalEmpty(t *testing.T) {
	got := any("sentinel")
	if err := New().Unmarshal(nil, &got); err != nil {
		t.Fatalf("Unmarshal(empty) error: %v", err)
	}
	if got != nil {
		t.Errorf("Unmarshal(empty) = %#v, want nil", got)
	}
}

func TestUnmarshalStruct(t *testing.T) {
	var v struct {
		Name string `yaml:"name"`
		Size int    `yaml:"size"`
	}
	if err := New().Unmarshal([]byte("name: box\nsize: 3\n"), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v.Name != "box" || v.Size != 3 {
		t.Errorf("Unmarshal() = %+v", v)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var v any
	if err := New().Unmarshal([]byte("name: [invalid"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}
