package packets

import (
	"fmt"
	"strings"
)

// optional is a parameter slot that distinguishes "not set" from any value,
// including nil.
type optional[T any] struct {
	value T
	set   bool
}

func some[T any](v T) optional[T] {
	return optional[T]{value: v, set: true}
}

func (o optional[T]) String() string {
	if !o.set {
		return "not set"
	}
	return fmt.Sprintf("%v", o.value)
}

// FieldOption configures a field declaration.
type FieldOption func(*FieldInfo)

// Name sets the raw (wire) name of a field. It defaults to the native name.
func Name(raw string) FieldOption {
	return func(fi *FieldInfo) {
		fi.rawName = some(raw)
	}
}

// Default sets the raw default of a field. Default(nil) is an explicit null
// default and differs from not calling Default at all.
func Default(raw any) FieldOption {
	return func(fi *FieldInfo) {
		fi.def = some(raw)
	}
}

// Required marks a field as required.
func Required(required bool) FieldOption {
	return func(fi *FieldInfo) {
		fi.required = some(required)
	}
}

// Override allows a declaration to replace an inherited field of the same name.
func Override(override bool) FieldOption {
	return func(fi *FieldInfo) {
		fi.override = some(override)
	}
}

// WithProcessor replaces the processor of a field. It accepts a Processor
// or a *Schema.
func WithProcessor(processor any) FieldOption {
	return func(fi *FieldInfo) {
		fi.setProcessor(processor)
	}
}

// nativeName sets the native name of a field.
func nativeName(name string) FieldOption {
	return func(fi *FieldInfo) {
		fi.nativeName = name
	}
}

// FieldInfo holds the resolved parameters of a field.
//
// Parameters that were never set stay unset until SetDefaults fills them,
// so an overriding declaration only replaces what it states explicitly.
type FieldInfo struct {
	processor     Processor
	rawName       optional[string]
	nativeName    string
	def           optional[any]
	nativeDefault any
	required      optional[bool]
	override      optional[bool]
	min           any
	max           any
	mutable       bool

	// processor resolution failure, reported by SetDefaults
	err error
}

func newFieldInfo(opts ...FieldOption) *FieldInfo {
	fi := &FieldInfo{mutable: true}
	for _, opt := range opts {
		opt(fi)
	}
	return fi
}

func (fi *FieldInfo) setProcessor(v any) {
	p, err := resolveProcessor(v)
	if err != nil {
		fi.err = err
		return
	}
	if p != nil {
		fi.processor = p
		fi.err = nil
	}
}

// Processor returns the field processor.
func (fi *FieldInfo) Processor() Processor { return fi.processor }

// RawName returns the wire name.
func (fi *FieldInfo) RawName() string { return fi.rawName.value }

// NativeName returns the native attribute name.
func (fi *FieldInfo) NativeName() string { return fi.nativeName }

// Default returns the raw default and whether one was set.
func (fi *FieldInfo) Default() (any, bool) { return fi.def.value, fi.def.set }

// NativeDefault returns the decoded default. Callers must not mutate it.
func (fi *FieldInfo) NativeDefault() any { return fi.nativeDefault }

// Required reports whether the field is required.
func (fi *FieldInfo) Required() bool { return fi.required.value }

// Override reports whether the field may replace an inherited one.
func (fi *FieldInfo) Override() bool { return fi.override.value }

// Min returns the lower bound of a bounded processor, or nil.
func (fi *FieldInfo) Min() any { return fi.min }

// Max returns the upper bound of a bounded processor, or nil.
func (fi *FieldInfo) Max() any { return fi.max }

// Mutable reports whether native values of the field are mutable in place.
func (fi *FieldInfo) Mutable() bool { return fi.mutable }

// Copy returns an independent copy of the record.
func (fi *FieldInfo) Copy() *FieldInfo {
	c := *fi
	return &c
}

// UpdateParams applies options to the record.
func (fi *FieldInfo) UpdateParams(opts ...FieldOption) error {
	for _, opt := range opts {
		opt(fi)
	}
	return fi.err
}

// Update layers the explicitly set parameters of other over fi.
func (fi *FieldInfo) Update(other *FieldInfo) {
	if other.err != nil {
		fi.err = other.err
	}
	if other.processor != nil {
		fi.processor = other.processor
	}
	if other.rawName.set {
		fi.rawName = other.rawName
	}
	if other.nativeName != "" {
		fi.nativeName = other.nativeName
	}
	if other.def.set {
		fi.def = other.def
	}
	if other.required.set {
		fi.required = other.required
	}
	if other.override.set {
		fi.override = other.override
	}
}

// UpdateName sets the native name and, if no raw name was given, the raw name.
func (fi *FieldInfo) UpdateName(name string) {
	fi.nativeName = name
	if !fi.rawName.set {
		fi.rawName = some(name)
	}
}

// SetDefaults fills unset parameters and derives the native default.
//
// A non-null default must pass the processor's CheckRaw and is decoded
// strictly. Bounds and mutability are snapshotted from the processor.
// Calling it twice is harmless.
func (fi *FieldInfo) SetDefaults(def any, required, override bool) error {
	if fi.err != nil {
		return fi.err
	}
	if fi.processor == nil {
		return ErrMissingProcessor
	}
	if err := checkDefinition(fi.processor); err != nil {
		return err
	}

	if !fi.def.set {
		fi.def = some(def)
	}
	if !fi.required.set {
		fi.required = some(required)
	}
	if !fi.override.set {
		fi.override = some(override)
	}

	fi.nativeDefault = nil
	if fi.def.value != nil {
		if err := fi.processor.CheckRaw(fi.def.value); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDefault, err)
		}
		native, err := fi.processor.RawToNative(fi.def.value, true)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDefault, err)
		}
		fi.nativeDefault = native
	}

	fi.min, fi.max = nil, nil
	if b, ok := fi.processor.(Bounded); ok {
		fi.min, fi.max = b.Min(), b.Max()
	}
	fi.mutable = fi.processor.HasMutableValue()
	return nil
}

func (fi *FieldInfo) String() string {
	processor := "not set"
	if fi.processor != nil {
		processor = fmt.Sprintf("%T", fi.processor)
	}
	parts := []string{
		"processor=" + processor,
		"name=" + fi.rawName.String(),
		"native_name=" + fi.nativeName,
		"default=" + fi.def.String(),
		"required=" + fi.required.String(),
		"override=" + fi.override.String(),
	}
	if fi.min != nil || fi.max != nil {
		parts = append(parts, fmt.Sprintf("min=%v", fi.min), fmt.Sprintf("max=%v", fi.max))
	}
	return "FieldInfo(" + strings.Join(parts, ", ") + ")"
}
