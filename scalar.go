package packets

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// Scalar processors.
var (
	String  = NewString(0, false)
	Bool    = &BoolProcessor{}
	Bytes   = NewBytes("")
	Variant = &VariantProcessor{}
	Object  = &ObjectProcessor{}
)

// StringProcessor handles text with an optional maximum length in runes.
type StringProcessor struct {
	maxLength int
	trim      bool
}

// NewString returns a string processor. A maxLength of 0 means unlimited.
// With trim, longer values are cut to maxLength instead of rejected.
func NewString(maxLength int, trim bool) *StringProcessor {
	return &StringProcessor{maxLength: maxLength, trim: trim && maxLength > 0}
}

func (p *StringProcessor) CheckNative(v any) error {
	s, ok := v.(string)
	if !ok {
		return newValidationError("String", v, "expected a string, got %T", v)
	}
	if !p.trim && p.maxLength > 0 {
		if n := utf8.RuneCountInString(s); n > p.maxLength {
			return newValidationError("String", v, "too long %d (max %d)", n, p.maxLength)
		}
	}
	return nil
}

func (p *StringProcessor) CheckRaw(raw any) error {
	return p.CheckNative(raw)
}

func (p *StringProcessor) RawToNative(raw any, _ bool) (any, error) {
	return p.cut(raw.(string)), nil
}

func (p *StringProcessor) NativeToRaw(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, newValidationError("String", v, "expected a string, got %T", v)
	}
	return p.cut(s), nil
}

func (p *StringProcessor) cut(s string) string {
	if !p.trim || utf8.RuneCountInString(s) <= p.maxLength {
		return s
	}
	return string([]rune(s)[:p.maxLength])
}

func (p *StringProcessor) ZeroValue() any        { return "" }
func (p *StringProcessor) HasMutableValue() bool { return false }

// BoolProcessor handles booleans. Raw strings "true"/"t"/"false"/"f" and
// digit strings are understood; other non-empty strings are true.
type BoolProcessor struct{}

func (p *BoolProcessor) CheckNative(v any) error {
	if _, ok := v.(bool); !ok {
		return newValidationError("Bool", v, "expected a bool, got %T", v)
	}
	return nil
}

func (p *BoolProcessor) CheckRaw(raw any) error {
	if _, ok := raw.(string); ok {
		return nil
	}
	if _, ok := raw.(bool); ok {
		return nil
	}
	if _, ok := numeric(raw); ok {
		return nil
	}
	return newValidationError("Bool", raw, "expected a bool, number or string, got %T", raw)
}

func (p *BoolProcessor) RawToNative(raw any, _ bool) (any, error) {
	s, ok := raw.(string)
	if !ok {
		if f, ok := numeric(raw); ok {
			return f != 0, nil
		}
		return cast.ToBoolE(raw)
	}
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case isDigits(s):
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return nil, newValidationError("Bool", raw, "%v", err)
		}
		return f != 0, nil
	case s == "true" || s == "t":
		return true, nil
	case s == "false" || s == "f":
		return false, nil
	}
	return s != "", nil
}

func (p *BoolProcessor) NativeToRaw(v any) (any, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, newValidationError("Bool", v, "expected a bool, got %T", v)
	}
	return b, nil
}

func (p *BoolProcessor) ZeroValue() any        { return false }
func (p *BoolProcessor) HasMutableValue() bool { return false }

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// BytesProcessor handles binary data. Raw values are base64 strings;
// raw []byte is accepted as is.
type BytesProcessor struct {
	cutset string
}

// NewBytes returns a bytes processor that strips the bytes in cutset from
// both ends of decoded values.
func NewBytes(cutset string) *BytesProcessor {
	return &BytesProcessor{cutset: cutset}
}

func (p *BytesProcessor) CheckNative(v any) error {
	if _, ok := v.([]byte); !ok {
		return newValidationError("Bytes", v, "expected []byte, got %T", v)
	}
	return nil
}

func (p *BytesProcessor) CheckRaw(raw any) error {
	_, err := rawBytes(raw)
	if err != nil {
		return newValidationError("Bytes", raw, "%v", err)
	}
	return nil
}

func (p *BytesProcessor) RawToNative(raw any, _ bool) (any, error) {
	b, err := rawBytes(raw)
	if err != nil {
		return nil, newValidationError("Bytes", raw, "%v", err)
	}
	if p.cutset != "" {
		b = bytes.Trim(b, p.cutset)
	}
	return b, nil
}

func (p *BytesProcessor) NativeToRaw(v any) (any, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, newValidationError("Bytes", v, "expected []byte, got %T", v)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func (p *BytesProcessor) ZeroValue() any        { return []byte{} }
func (p *BytesProcessor) HasMutableValue() bool { return false }

// rawBytes reads a raw binary value: []byte as is, strings as base64.
func rawBytes(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case []byte:
		return v, nil
	case string:
		return base64.StdEncoding.DecodeString(v)
	}
	return nil, fmt.Errorf("expected []byte or base64 string, got %T", raw)
}

// ConstProcessor always yields the same value.
type ConstProcessor struct {
	value any
}

// Const returns a processor that ignores input and yields value.
func Const(value any) *ConstProcessor {
	return &ConstProcessor{value: value}
}

func (p *ConstProcessor) CheckNative(any) error              { return nil }
func (p *ConstProcessor) CheckRaw(any) error                 { return nil }
func (p *ConstProcessor) RawToNative(any, bool) (any, error) { return deepCopy(p.value), nil }
func (p *ConstProcessor) NativeToRaw(any) (any, error)       { return deepCopy(p.value), nil }
func (p *ConstProcessor) ZeroValue() any                     { return deepCopy(p.value) }
func (p *ConstProcessor) HasMutableValue() bool              { return false }

// Value returns the constant.
func (p *ConstProcessor) Value() any { return p.value }

// VariantProcessor passes any value through unchanged.
type VariantProcessor struct{}

func (p *VariantProcessor) CheckNative(any) error { return nil }
func (p *VariantProcessor) CheckRaw(any) error    { return nil }

func (p *VariantProcessor) RawToNative(raw any, _ bool) (any, error) {
	return deepCopy(raw), nil
}

func (p *VariantProcessor) NativeToRaw(v any) (any, error) {
	return deepCopy(v), nil
}

func (p *VariantProcessor) ZeroValue() any        { return map[string]any{} }
func (p *VariantProcessor) HasMutableValue() bool { return true }

// ObjectProcessor holds a free-form map with string keys.
type ObjectProcessor struct{}

func (p *ObjectProcessor) CheckNative(v any) error {
	if _, ok := asRawMap(v); !ok {
		return newValidationError("Object", v, "expected a map, got %T", v)
	}
	return nil
}

func (p *ObjectProcessor) CheckRaw(raw any) error {
	return p.CheckNative(raw)
}

func (p *ObjectProcessor) RawToNative(raw any, _ bool) (any, error) {
	m, _ := asRawMap(raw)
	return deepCopy(m), nil
}

func (p *ObjectProcessor) NativeToRaw(v any) (any, error) {
	m, _ := asRawMap(v)
	return deepCopy(m), nil
}

func (p *ObjectProcessor) ZeroValue() any        { return map[string]any{} }
func (p *ObjectProcessor) HasMutableValue() bool { return true }
