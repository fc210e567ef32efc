package packets

import (
	"errors"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestArray(t *testing.T) {
	p := Array(Int)

	got, err := p.RawToNative([]any{"1", 2.0, nil}, true)
	if err != nil {
		t.Fatalf("RawToNative() error: %v", err)
	}
	if diff := pretty.Compare(got, []any{int64(1), int64(2), nil}); diff != "" {
		t.Errorf("RawToNative() diff (-got +want):\n%s", diff)
	}

	if _, err := p.RawToNative([]any{"x"}, true); !errors.Is(err, ErrValidation) {
		t.Errorf("RawToNative(x) error = %v, want ErrValidation", err)
	}
	if err := p.CheckRaw("abc"); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckRaw(string) error = %v, want ErrValidation", err)
	}
	if err := p.CheckNative([]any{int64(1), "x"}); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckNative() error = %v, want ErrValidation", err)
	}

	raw, err := p.NativeToRaw([]int{3, 4})
	if err != nil {
		t.Fatalf("NativeToRaw() error: %v", err)
	}
	if diff := pretty.Compare(raw, []any{int64(3), int64(4)}); diff != "" {
		t.Errorf("NativeToRaw() diff (-got +want):\n%s", diff)
	}
}

func TestFixedArray(t *testing.T) {
	p := FixedArray(Int, 3)

	got, err := p.RawToNative([]any{1, 2, 3}, true)
	if err != nil {
		t.Fatalf("RawToNative() error: %v", err)
	}
	if diff := pretty.Compare(got, []any{int64(1), int64(2), int64(3)}); diff != "" {
		t.Errorf("RawToNative() diff (-got +want):\n%s", diff)
	}
	if err := p.CheckRaw([]any{1, 2}); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckRaw(short) error = %v, want ErrValidation", err)
	}
	if diff := pretty.Compare(p.ZeroValue(), []any{int64(0), int64(0), int64(0)}); diff != "" {
		t.Errorf("ZeroValue() diff (-got +want):\n%s", diff)
	}
	if p.Length() != 3 {
		t.Errorf("Length() = %d", p.Length())
	}

	if err := FixedArray(Int, -1).CheckDefinition(); !errors.Is(err, ErrInvalidProcessor) {
		t.Errorf("negative length error = %v, want ErrInvalidProcessor", err)
	}
}

func TestArray_ZeroValue(t *testing.T) {
	if diff := pretty.Compare(Array(Int).ZeroValue(), []any{}); diff != "" {
		t.Errorf("ZeroValue() diff (-got +want):\n%s", diff)
	}
}

func TestArray_Packets(t *testing.T) {
	p := Array(internalSchema)
	got, err := p.RawToNative([]any{map[string]any{"e": "x"}}, true)
	if err != nil {
		t.Fatalf("RawToNative() error: %v", err)
	}
	list := got.([]any)
	if pk, ok := list[0].(*Packet); !ok || pk.Attr("e") != "x" {
		t.Errorf("element = %#v, want packet", list[0])
	}
	if _, err := p.RawToNative([]any{map[string]any{}}, true); !errors.Is(err, ErrRequired) {
		t.Errorf("RawToNative() error = %v, want ErrRequired", err)
	}
}

func TestSet(t *testing.T) {
	p := Set(String)

	got, err := p.RawToNative([]any{"b", "a", "b"}, true)
	if err != nil {
		t.Fatalf("RawToNative() error: %v", err)
	}
	if diff := pretty.Compare(got, map[any]struct{}{"a": {}, "b": {}}); diff != "" {
		t.Errorf("RawToNative() diff (-got +want):\n%s", diff)
	}

	raw, err := p.NativeToRaw(map[any]struct{}{"c": {}, "a": {}, "b": {}})
	if err != nil {
		t.Fatalf("NativeToRaw() error: %v", err)
	}
	if diff := pretty.Compare(raw, []any{"a", "b", "c"}); diff != "" {
		t.Errorf("NativeToRaw() diff (-got +want):\n%s", diff)
	}

	if err := p.CheckNative([]any{"a", "a"}); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckNative(duplicates) error = %v, want ErrValidation", err)
	}
	if err := Set(Variant).CheckNative([]any{[]any{1}}); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckNative(unhashable) error = %v, want ErrValidation", err)
	}
	if err := p.CheckNative(map[any]struct{}{1: {}}); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckNative(int member) error = %v, want ErrValidation", err)
	}
}

func TestSet_RawOrder(t *testing.T) {
	raw, err := Set(Int).NativeToRaw(map[any]struct{}{int64(9): {}, int64(10): {}})
	if err != nil {
		t.Fatalf("NativeToRaw() error: %v", err)
	}
	// ordered by text form
	if diff := pretty.Compare(raw, []any{int64(10), int64(9)}); diff != "" {
		t.Errorf("NativeToRaw() diff (-got +want):\n%s", diff)
	}
}

func TestTuple(t *testing.T) {
	p := Tuple(Int, String, Bool)

	got, err := p.RawToNative([]any{"5", "x", "t"}, true)
	if err != nil {
		t.Fatalf("RawToNative() error: %v", err)
	}
	if diff := pretty.Compare(got, []any{int64(5), "x", true}); diff != "" {
		t.Errorf("RawToNative() diff (-got +want):\n%s", diff)
	}

	if err := p.CheckRaw([]any{1, "x"}); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckRaw(short) error = %v, want ErrValidation", err)
	}
	if err := p.CheckNative([]any{int64(1), 2, true}); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckNative() error = %v, want ErrValidation", err)
	}
	if diff := pretty.Compare(p.ZeroValue(), []any{int64(0), "", false}); diff != "" {
		t.Errorf("ZeroValue() diff (-got +want):\n%s", diff)
	}

	types := p.ElementTypes()
	types[0] = String
	if p.ElementTypes()[0] != Processor(Int) {
		t.Error("ElementTypes() should return a copy")
	}

	if err := Tuple(Int, 42).CheckDefinition(); !errors.Is(err, ErrInvalidProcessor) {
		t.Errorf("CheckDefinition() error = %v, want ErrInvalidProcessor", err)
	}
}
