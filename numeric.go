package packets

import (
	stdjson "encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Numeric processors. Integer natives are int64, Uint64 natives are uint64,
// float natives are float64. Raw values are coerced from any number, numeric
// string or json.Number.
var (
	Int8   = NewInteger(math.MinInt8, math.MaxInt8)
	Uint8  = NewInteger(0, math.MaxUint8)
	Int16  = NewInteger(math.MinInt16, math.MaxInt16)
	Uint16 = NewInteger(0, math.MaxUint16)
	Int32  = NewInteger(math.MinInt32, math.MaxInt32)
	Uint32 = NewInteger(0, math.MaxUint32)
	Int64  = NewInteger(math.MinInt64, math.MaxInt64)
	Uint64 = &UnsignedProcessor{}

	// Int is the default integer processor.
	Int = Int32

	Float  = &FloatProcessor{}
	Double = Float

	// IntString stores an Int as a decimal string.
	IntString = Int.AsString()

	// Percent stores a fraction in [0, 1] as a raw number in [0, 100].
	Percent = NewPercent()
)

// numberProcessor is a numeric processor that NumberAsString can wrap.
type numberProcessor interface {
	Processor
	Bounded
	coerce(raw any) (any, error)
}

// IntegerProcessor handles signed integers within optional bounds.
type IntegerProcessor struct {
	min, max       int64
	hasMin, hasMax bool
}

// NewInteger returns an integer processor accepting [min, max].
func NewInteger(min, max int64) *IntegerProcessor {
	return &IntegerProcessor{min: min, max: max, hasMin: true, hasMax: true}
}

func (p *IntegerProcessor) check(n int64, v any) error {
	if p.hasMin && n < p.min {
		return newValidationError("Integer", v, "%d < %d", n, p.min)
	}
	if p.hasMax && n > p.max {
		return newValidationError("Integer", v, "%d > %d", n, p.max)
	}
	return nil
}

func (p *IntegerProcessor) coerce(raw any) (any, error) {
	n, err := coerceInt(raw)
	if err != nil {
		return nil, newValidationError("Integer", raw, "not an integer: %v", err)
	}
	if err := p.check(n, raw); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *IntegerProcessor) CheckNative(v any) error {
	n, ok := nativeInt(v)
	if !ok {
		return newValidationError("Integer", v, "expected an integer, got %T", v)
	}
	return p.check(n, v)
}

func (p *IntegerProcessor) CheckRaw(raw any) error {
	_, err := p.coerce(raw)
	return err
}

func (p *IntegerProcessor) RawToNative(raw any, _ bool) (any, error) {
	return p.coerce(raw)
}

func (p *IntegerProcessor) NativeToRaw(v any) (any, error) {
	n, ok := nativeInt(v)
	if !ok {
		return nil, newValidationError("Integer", v, "expected an integer, got %T", v)
	}
	return n, nil
}

// ZeroValue returns the lower bound when it is non-zero, otherwise 0.
func (p *IntegerProcessor) ZeroValue() any {
	if p.hasMin && p.min > 0 {
		return p.min
	}
	return int64(0)
}

func (p *IntegerProcessor) HasMutableValue() bool { return false }

// Min returns the lower bound or nil.
func (p *IntegerProcessor) Min() any {
	if !p.hasMin {
		return nil
	}
	return p.min
}

// Max returns the upper bound or nil.
func (p *IntegerProcessor) Max() any {
	if !p.hasMax {
		return nil
	}
	return p.max
}

// AsString returns a processor storing the same numbers as strings.
func (p *IntegerProcessor) AsString() Processor {
	return &NumberAsStringProcessor{number: p}
}

// UnsignedProcessor handles the full uint64 range.
type UnsignedProcessor struct{}

func (p *UnsignedProcessor) coerce(raw any) (any, error) {
	var (
		n   uint64
		err error
	)
	switch v := raw.(type) {
	case stdjson.Number:
		n, err = strconv.ParseUint(v.String(), 10, 64)
	case string:
		n, err = strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	default:
		n, err = cast.ToUint64E(raw)
	}
	if err != nil {
		return nil, newValidationError("Uint64", raw, "not an unsigned integer: %v", err)
	}
	return n, nil
}

func (p *UnsignedProcessor) CheckNative(v any) error {
	if _, ok := nativeUint(v); !ok {
		return newValidationError("Uint64", v, "expected an unsigned integer, got %T", v)
	}
	return nil
}

func (p *UnsignedProcessor) CheckRaw(raw any) error {
	_, err := p.coerce(raw)
	return err
}

func (p *UnsignedProcessor) RawToNative(raw any, _ bool) (any, error) {
	return p.coerce(raw)
}

func (p *UnsignedProcessor) NativeToRaw(v any) (any, error) {
	n, ok := nativeUint(v)
	if !ok {
		return nil, newValidationError("Uint64", v, "expected an unsigned integer, got %T", v)
	}
	return n, nil
}

func (p *UnsignedProcessor) ZeroValue() any        { return uint64(0) }
func (p *UnsignedProcessor) HasMutableValue() bool { return false }
func (p *UnsignedProcessor) Min() any              { return uint64(0) }
func (p *UnsignedProcessor) Max() any              { return uint64(math.MaxUint64) }

// AsString returns a processor storing the same numbers as strings.
func (p *UnsignedProcessor) AsString() Processor {
	return &NumberAsStringProcessor{number: p}
}

// FloatProcessor handles float64 values within optional bounds.
type FloatProcessor struct {
	min, max       float64
	hasMin, hasMax bool
}

// NewFloat returns a float processor accepting [min, max].
func NewFloat(min, max float64) *FloatProcessor {
	return &FloatProcessor{min: min, max: max, hasMin: true, hasMax: true}
}

func (p *FloatProcessor) check(f float64, v any) error {
	if p.hasMin && f < p.min {
		return newValidationError("Float", v, "%g < %g", f, p.min)
	}
	if p.hasMax && f > p.max {
		return newValidationError("Float", v, "%g > %g", f, p.max)
	}
	return nil
}

func (p *FloatProcessor) coerce(raw any) (any, error) {
	f, err := coerceFloat(raw)
	if err != nil {
		return nil, newValidationError("Float", raw, "not a number: %v", err)
	}
	if err := p.check(f, raw); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *FloatProcessor) CheckNative(v any) error {
	f, ok := numeric(v)
	if !ok {
		return newValidationError("Float", v, "expected a number, got %T", v)
	}
	return p.check(f, v)
}

func (p *FloatProcessor) CheckRaw(raw any) error {
	_, err := p.coerce(raw)
	return err
}

func (p *FloatProcessor) RawToNative(raw any, _ bool) (any, error) {
	return p.coerce(raw)
}

func (p *FloatProcessor) NativeToRaw(v any) (any, error) {
	f, ok := numeric(v)
	if !ok {
		return nil, newValidationError("Float", v, "expected a number, got %T", v)
	}
	return f, nil
}

func (p *FloatProcessor) ZeroValue() any {
	if p.hasMin && p.min > 0 {
		return p.min
	}
	return float64(0)
}

func (p *FloatProcessor) HasMutableValue() bool { return false }

// Min returns the lower bound or nil.
func (p *FloatProcessor) Min() any {
	if !p.hasMin {
		return nil
	}
	return p.min
}

// Max returns the upper bound or nil.
func (p *FloatProcessor) Max() any {
	if !p.hasMax {
		return nil
	}
	return p.max
}

// AsString returns a processor storing the same numbers as strings.
func (p *FloatProcessor) AsString() Processor {
	return &NumberAsStringProcessor{number: p}
}

// NumberAsStringProcessor stores a number as its decimal string.
type NumberAsStringProcessor struct {
	number numberProcessor
}

func (p *NumberAsStringProcessor) CheckNative(v any) error {
	return p.number.CheckNative(v)
}

func (p *NumberAsStringProcessor) CheckRaw(raw any) error {
	switch raw.(type) {
	case string, stdjson.Number:
	default:
		return newValidationError("NumberAsString", raw, "expected a string, got %T", raw)
	}
	_, err := p.number.coerce(raw)
	return err
}

func (p *NumberAsStringProcessor) RawToNative(raw any, _ bool) (any, error) {
	return p.number.coerce(raw)
}

func (p *NumberAsStringProcessor) NativeToRaw(v any) (any, error) {
	n, err := p.number.NativeToRaw(v)
	if err != nil {
		return nil, err
	}
	return cast.ToStringE(n)
}

func (p *NumberAsStringProcessor) ZeroValue() any        { return p.number.ZeroValue() }
func (p *NumberAsStringProcessor) HasMutableValue() bool { return false }
func (p *NumberAsStringProcessor) Min() any              { return p.number.Min() }
func (p *NumberAsStringProcessor) Max() any              { return p.number.Max() }

// PercentProcessor stores fractions as percentages.
type PercentProcessor struct {
	FloatProcessor
}

// NewPercent returns a percentage processor.
func NewPercent() *PercentProcessor {
	return &PercentProcessor{FloatProcessor: *NewFloat(0, 100)}
}

func (p *PercentProcessor) CheckNative(v any) error {
	f, ok := numeric(v)
	if !ok {
		return newValidationError("Percent", v, "expected a number, got %T", v)
	}
	return p.check(f*100, v)
}

func (p *PercentProcessor) RawToNative(raw any, strict bool) (any, error) {
	v, err := p.FloatProcessor.RawToNative(raw, strict)
	if err != nil {
		return nil, err
	}
	return v.(float64) / 100, nil
}

func (p *PercentProcessor) NativeToRaw(v any) (any, error) {
	f, ok := numeric(v)
	if !ok {
		return nil, newValidationError("Percent", v, "expected a number, got %T", v)
	}
	return f * 100, nil
}

// coerceInt converts a raw value to int64, truncating fractions.
func coerceInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case stdjson.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, strconv.ErrRange
		}
	}
	return cast.ToInt64E(raw)
}

// coerceFloat converts a raw value to float64.
func coerceFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case stdjson.Number:
		return v.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return cast.ToFloat64E(raw)
}

// nativeInt reads any Go integer kind as int64.
func nativeInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64 // #nosec G115 -- bounds checked
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64 // #nosec G115 -- bounds checked
	}
	return 0, false
}

// nativeUint reads any non-negative Go integer as uint64.
func nativeUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	}
	if i, ok := nativeInt(v); ok && i >= 0 {
		return uint64(i), true
	}
	return 0, false
}
