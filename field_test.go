package packets

import (
	"errors"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func mustBind(t *testing.T, f *Field, name string) *Field {
	t.Helper()
	b, err := f.bind(nil, name)
	if err != nil {
		t.Fatalf("bind() error: %v", err)
	}
	return b
}

func TestFieldInfo_String(t *testing.T) {
	f := NewField(Int16, Name("x"))
	want := "FieldInfo(processor=*packets.IntegerProcessor, name=x, native_name=, default=not set, required=not set, override=not set)"
	if got := f.Info().String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	b := mustBind(t, f, "n")
	want = "FieldInfo(processor=*packets.IntegerProcessor, name=x, native_name=n, default=<nil>, required=false, override=false, min=-32768, max=32767)"
	if got := b.Info().String(); got != want {
		t.Errorf("bound String() = %q, want %q", got, want)
	}
	if got := b.String(); got != `<Field("n", "x")>` {
		t.Errorf("Field.String() = %q", got)
	}

	if got := NewField(nil).Info().String(); got != "FieldInfo(processor=not set, name=not set, native_name=, default=not set, required=not set, override=not set)" {
		t.Errorf("empty String() = %q", got)
	}
}

func TestFieldInfo_Update(t *testing.T) {
	base := NewField(Int, Name("x"), Default(1), Required(true)).Info()
	base.Update(NewField(nil, Default(2)).Info())

	if base.RawName() != "x" {
		t.Errorf("RawName() = %q, want x", base.RawName())
	}
	if def, ok := base.Default(); !ok || def != 2 {
		t.Errorf("Default() = %v, %v; want 2", def, ok)
	}
	if !base.Required() {
		t.Error("unset parameters should not replace set ones")
	}
	if base.Processor() != Int {
		t.Error("a nil processor should keep the inherited one")
	}
}

func TestFieldInfo_SetDefaults(t *testing.T) {
	info := NewField(Array(Int)).Info()
	if err := info.SetDefaults([]any{"1"}, true, false); err != nil {
		t.Fatalf("SetDefaults() error: %v", err)
	}
	if diff := pretty.Compare(info.NativeDefault(), []any{int64(1)}); diff != "" {
		t.Errorf("NativeDefault() diff (-got +want):\n%s", diff)
	}
	if !info.Required() || info.Override() {
		t.Error("defaults should fill unset flags")
	}
	if !info.Mutable() {
		t.Error("arrays are mutable")
	}

	explicit := NewField(Int, Default(nil), Required(false)).Info()
	if err := explicit.SetDefaults(5, true, false); err != nil {
		t.Fatalf("SetDefaults() error: %v", err)
	}
	if def, ok := explicit.Default(); !ok || def != nil {
		t.Errorf("explicit null default replaced: %v", def)
	}
	if explicit.Required() {
		t.Error("explicit required=false replaced")
	}
}

func TestFieldInfo_UpdateParams(t *testing.T) {
	info := NewField(Int).Info()
	if err := info.UpdateParams(Name("z"), WithProcessor(String)); err != nil {
		t.Fatalf("UpdateParams() error: %v", err)
	}
	if info.RawName() != "z" || info.Processor() != String {
		t.Errorf("UpdateParams() = %s", info)
	}
	if err := info.UpdateParams(WithProcessor(42)); !errors.Is(err, ErrInvalidProcessor) {
		t.Errorf("UpdateParams(42) error = %v, want ErrInvalidProcessor", err)
	}
}

func TestField_BindErrors(t *testing.T) {
	tests := []struct {
		name  string
		field *Field
		want  error
	}{
		{"missing processor", NewField(nil), ErrMissingProcessor},
		{"invalid processor", NewField("nope"), ErrInvalidProcessor},
		{"invalid default", NewField(Int, Default("x")), ErrInvalidDefault},
		{"default out of range", NewField(Int8, Default(500)), ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.field.bind(nil, "f"); !errors.Is(err, tt.want) {
				t.Errorf("bind() error = %v, want %v", err, tt.want)
			}
		})
	}

	parent := mustBind(t, NewField(Int), "f")
	if _, err := NewField(String).bind(parent, "f"); !errors.Is(err, ErrDuplicateField) {
		t.Errorf("bind() over parent error = %v, want ErrDuplicateField", err)
	}
	child, err := NewField(nil, Default(3), Override(true)).bind(parent, "f")
	if err != nil {
		t.Fatalf("bind() override error: %v", err)
	}
	if child.Processor() != Int || child.Info().NativeDefault() != int64(3) {
		t.Errorf("override = %s", child.Info())
	}
}

func TestField_RawToNative(t *testing.T) {
	f := mustBind(t, NewField(Array(Int), Default([]any{1})), "list")

	got, err := f.RawToNative(nil, true)
	if err != nil {
		t.Fatalf("RawToNative(nil) error: %v", err)
	}
	got.([]any)[0] = int64(9)
	if f.Info().NativeDefault().([]any)[0] != int64(1) {
		t.Error("null values should receive a copy of the default")
	}

	req := mustBind(t, NewField(Int, Required(true)), "n")
	_, err = req.RawToNative(nil, true)
	var fe *FieldError
	if !errors.As(err, &fe) || !errors.Is(err, ErrRequired) {
		t.Fatalf("RawToNative(nil) error = %v, want FieldError(ErrRequired)", err)
	}
	if fe.Field != `<Field("n", "n")>` {
		t.Errorf("FieldError.Field = %q", fe.Field)
	}
	got, err = req.RawToNative(nil, false)
	if err != nil || got != int64(0) {
		t.Errorf("non-strict RawToNative(nil) = %#v, %v; want zero value", got, err)
	}

	if _, err := NewField(nil).RawToNative(1, true); !errors.Is(err, ErrMissingProcessor) {
		t.Errorf("unresolved RawToNative() error = %v, want ErrMissingProcessor", err)
	}
}

func TestField_NativeToRaw(t *testing.T) {
	f := mustBind(t, NewField(Array(Int), Default([]any{1})), "list")
	raw, err := f.NativeToRaw(nil)
	if err != nil {
		t.Fatalf("NativeToRaw(nil) error: %v", err)
	}
	if diff := pretty.Compare(raw, []any{1}); diff != "" {
		t.Errorf("NativeToRaw(nil) diff (-got +want):\n%s", diff)
	}

	plain := mustBind(t, NewField(Int), "n")
	if raw, err := plain.NativeToRaw(nil); err != nil || raw != nil {
		t.Errorf("NativeToRaw(nil) = %v, %v; want nil", raw, err)
	}
	if _, err := plain.NativeToRaw("x"); !errors.Is(err, ErrValidation) {
		t.Errorf("NativeToRaw(x) error = %v, want ErrValidation", err)
	}

	req := mustBind(t, NewField(Int, Required(true)), "n")
	if _, err := req.NativeToRaw(nil); !errors.Is(err, ErrRequired) {
		t.Errorf("required NativeToRaw(nil) error = %v, want ErrRequired", err)
	}
}

func TestField_Clone(t *testing.T) {
	f := NewField(Int, Name("x"))
	c := f.Clone(Name("y"))
	if c.RawName() != "y" || f.RawName() != "x" {
		t.Errorf("Clone() names = %q, %q", c.RawName(), f.RawName())
	}
	if c.Seq() <= f.Seq() {
		t.Error("clones are new declarations")
	}
	if c.Bound() {
		t.Error("clones are unbound")
	}
}

func TestField_FrozenClone(t *testing.T) {
	f := mustBind(t, NewField(String, Name("kind")), "kind")
	frozen, err := f.FrozenClone("fixed")
	if err != nil {
		t.Fatalf("FrozenClone() error: %v", err)
	}
	if !frozen.Bound() || frozen.RawName() != "kind" {
		t.Errorf("FrozenClone() = %s", frozen.Info())
	}
	got, err := frozen.RawToNative("other", true)
	if err != nil || got != "fixed" {
		t.Errorf("RawToNative() = %v, %v; want fixed", got, err)
	}
	raw, err := frozen.NativeToRaw("other")
	if err != nil || raw != "fixed" {
		t.Errorf("NativeToRaw() = %v, %v; want fixed", raw, err)
	}
}
