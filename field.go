package packets

import (
	"fmt"
	"sync/atomic"
)

// fieldSeq numbers field declarations in creation order.
var fieldSeq atomic.Uint64

// Field is a field declaration. Declarations are templates: binding one into
// a schema produces a resolved copy, so a *Field may be shared between
// several Define calls.
type Field struct {
	info  *FieldInfo
	seq   uint64
	bound bool
}

// NewField declares a field. processor is a Processor, a *Schema or nil for
// declarations that override an inherited field and keep its processor.
func NewField(processor any, opts ...FieldOption) *Field {
	info := newFieldInfo()
	info.setProcessor(processor)
	for _, opt := range opts {
		opt(info)
	}
	return &Field{info: info, seq: fieldSeq.Add(1)}
}

// Info returns a copy of the field parameters.
func (f *Field) Info() *FieldInfo { return f.info.Copy() }

// Processor returns the field processor.
func (f *Field) Processor() Processor { return f.info.processor }

// RawName returns the wire name.
func (f *Field) RawName() string { return f.info.RawName() }

// NativeName returns the native attribute name.
func (f *Field) NativeName() string { return f.info.nativeName }

// Required reports whether the field is required.
func (f *Field) Required() bool { return f.info.Required() }

// Bound reports whether the field belongs to a schema.
func (f *Field) Bound() bool { return f.bound }

// Seq returns the creation sequence number of the declaration.
func (f *Field) Seq() uint64 { return f.seq }

// bind resolves the declaration against the inherited field of the same
// name (nil if there is none) and returns the field stored in the schema.
func (f *Field) bind(parent *Field, name string) (*Field, error) {
	var info *FieldInfo
	if parent != nil {
		if !f.info.override.set || !f.info.override.value {
			return nil, ErrDuplicateField
		}
		info = parent.info.Copy()
		info.Update(f.info)
	} else {
		info = f.info.Copy()
	}
	if err := info.SetDefaults(nil, false, false); err != nil {
		return nil, err
	}
	info.UpdateName(name)
	return &Field{info: info, seq: f.seq, bound: true}, nil
}

// Clone returns an unbound copy of the declaration with opts applied.
func (f *Field) Clone(opts ...FieldOption) *Field {
	info := f.info.Copy()
	for _, opt := range opts {
		opt(info)
	}
	return &Field{info: info, seq: fieldSeq.Add(1)}
}

// FrozenClone returns a bound field that always holds value.
func (f *Field) FrozenClone(value any) (*Field, error) {
	frozen := NewField(Const(value),
		Name(f.info.RawName()),
		Default(value),
		Required(f.info.Required()),
		Override(true),
	)
	return frozen.bind(nil, f.info.nativeName)
}

// RawToNative decodes a raw value. A null raw value yields a copy of the
// native default. A required field left null fails in strict mode and falls
// back to the processor zero value otherwise.
func (f *Field) RawToNative(raw any, strict bool) (any, error) {
	info := f.info
	if info.processor == nil {
		return nil, &FieldError{Err: ErrMissingProcessor, Field: f.String()}
	}

	var native any
	if raw == nil {
		native = deepCopy(info.nativeDefault)
	} else {
		if err := info.processor.CheckRaw(raw); err != nil {
			return nil, err
		}
		v, err := info.processor.RawToNative(raw, strict)
		if err != nil {
			return nil, err
		}
		native = normalizeNull(v)
	}

	if native == nil && info.Required() {
		if strict {
			return nil, &FieldError{Err: ErrRequired, Field: f.String()}
		}
		native = info.processor.ZeroValue()
	}
	return native, nil
}

// NativeToRaw encodes a native value. A null value yields a copy of the raw
// default when the field has a non-null default.
func (f *Field) NativeToRaw(value any) (any, error) {
	info := f.info
	if info.processor == nil {
		return nil, &FieldError{Err: ErrMissingProcessor, Field: f.String()}
	}

	var raw any
	if isNull(value) {
		if info.nativeDefault != nil {
			raw = deepCopy(info.def.value)
		}
	} else {
		if err := info.processor.CheckNative(value); err != nil {
			return nil, err
		}
		v, err := info.processor.NativeToRaw(value)
		if err != nil {
			return nil, err
		}
		raw = v
	}

	if raw == nil && info.Required() {
		return nil, &FieldError{Err: ErrRequired, Field: f.String()}
	}
	return raw, nil
}

// DumpPartial encodes value restricted to paths. A nil paths encodes the
// whole value.
func (f *Field) DumpPartial(value any, paths Paths) (any, error) {
	if paths == nil || isNull(value) {
		return f.NativeToRaw(value)
	}
	if err := f.info.processor.CheckNative(value); err != nil {
		return nil, err
	}
	return dumpPartial(f.info.processor, value, paths)
}

func (f *Field) String() string {
	return fmt.Sprintf("<Field(%q, %q)>", f.info.nativeName, f.info.RawName())
}
