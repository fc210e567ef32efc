package packets

import (
	stdjson "encoding/json"
	"errors"
	"math"
	"testing"
)

func TestInteger_RawToNative(t *testing.T) {
	tests := []struct {
		name string
		proc Processor
		raw  any
		want any
	}{
		{"int", Int, 5, int64(5)},
		{"float truncates", Int, 5.9, int64(5)},
		{"string", Int, " 12 ", int64(12)},
		{"float string", Int, "1.0", int64(1)},
		{"json number", Int64, stdjson.Number("9007199254740993"), int64(9007199254740993)},
		{"uint8 max", Uint8, 255, int64(255)},
		{"int8 min", Int8, -128, int64(-128)},
		{"uint64 max", Uint64, "18446744073709551615", uint64(math.MaxUint64)},
		{"uint64 json", Uint64, stdjson.Number("42"), uint64(42)},
		{"uint64 int", Uint64, 7, uint64(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.proc.CheckRaw(tt.raw); err != nil {
				t.Fatalf("CheckRaw() error: %v", err)
			}
			got, err := tt.proc.RawToNative(tt.raw, true)
			if err != nil {
				t.Fatalf("RawToNative() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("RawToNative() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestInteger_Bounds(t *testing.T) {
	tests := []struct {
		name string
		proc Processor
		raw  any
	}{
		{"int8 high", Int8, 128},
		{"int8 low", Int8, -129},
		{"uint8 negative", Uint8, -1},
		{"uint16 high", Uint16, 65536},
		{"int32 high", Int32, int64(math.MaxInt32) + 1},
		{"uint32 high", Uint32, int64(math.MaxUint32) + 1},
		{"not a number", Int, "abc"},
		{"nan", Int, math.NaN()},
		{"uint64 negative", Uint64, "-1"},
		{"custom", NewInteger(1, 10), 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.proc.CheckRaw(tt.raw); !errors.Is(err, ErrValidation) {
				t.Errorf("CheckRaw(%v) error = %v, want ErrValidation", tt.raw, err)
			}
		})
	}
}

func TestInteger_Native(t *testing.T) {
	if err := Int8.CheckNative(int64(200)); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckNative(200) error = %v, want ErrValidation", err)
	}
	if err := Int8.CheckNative(int8(5)); err != nil {
		t.Errorf("CheckNative(int8) error: %v", err)
	}
	if err := Int.CheckNative(5.0); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckNative(float) error = %v, want ErrValidation", err)
	}
	raw, err := Int.NativeToRaw(uint16(9))
	if err != nil || raw != int64(9) {
		t.Errorf("NativeToRaw() = %#v, %v", raw, err)
	}
	if err := Uint64.CheckNative(-1); !errors.Is(err, ErrValidation) {
		t.Errorf("Uint64.CheckNative(-1) error = %v, want ErrValidation", err)
	}
}

func TestInteger_ZeroValue(t *testing.T) {
	if Int.ZeroValue() != int64(0) {
		t.Errorf("Int.ZeroValue() = %#v", Int.ZeroValue())
	}
	if NewInteger(5, 10).ZeroValue() != int64(5) {
		t.Error("zero value should be the positive lower bound")
	}
	if Uint64.ZeroValue() != uint64(0) {
		t.Errorf("Uint64.ZeroValue() = %#v", Uint64.ZeroValue())
	}
}

func TestFloat(t *testing.T) {
	got, err := Float.RawToNative("2.5", true)
	if err != nil || got != 2.5 {
		t.Errorf("RawToNative() = %#v, %v", got, err)
	}
	got, err = Float.RawToNative(3, true)
	if err != nil || got != 3.0 {
		t.Errorf("RawToNative(int) = %#v, %v", got, err)
	}
	raw, err := Float.NativeToRaw(float32(0.5))
	if err != nil || raw != 0.5 {
		t.Errorf("NativeToRaw() = %#v, %v", raw, err)
	}

	bounded := NewFloat(-1, 1)
	if err := bounded.CheckRaw(1.5); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckRaw(1.5) error = %v, want ErrValidation", err)
	}
	if bounded.Min() != -1.0 || bounded.Max() != 1.0 {
		t.Errorf("bounds = %v..%v", bounded.Min(), bounded.Max())
	}
	if Float.Min() != nil || Float.Max() != nil {
		t.Error("unbounded float should report nil bounds")
	}
	if err := Float.CheckRaw("x"); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckRaw(x) error = %v, want ErrValidation", err)
	}
}

func TestNumberAsString(t *testing.T) {
	if err := IntString.CheckRaw(12); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckRaw(12) error = %v, want ErrValidation", err)
	}
	got, err := IntString.RawToNative("12", true)
	if err != nil || got != int64(12) {
		t.Errorf("RawToNative() = %#v, %v", got, err)
	}
	raw, err := IntString.NativeToRaw(int64(12))
	if err != nil || raw != "12" {
		t.Errorf("NativeToRaw() = %#v, %v", raw, err)
	}

	fs := Float.AsString()
	raw, err = fs.NativeToRaw(1.25)
	if err != nil || raw != "1.25" {
		t.Errorf("float NativeToRaw() = %#v, %v", raw, err)
	}

	us := Uint64.AsString()
	got, err = us.RawToNative("18446744073709551615", true)
	if err != nil || got != uint64(math.MaxUint64) {
		t.Errorf("uint64 RawToNative() = %#v, %v", got, err)
	}
	raw, err = us.NativeToRaw(uint64(math.MaxUint64))
	if err != nil || raw != "18446744073709551615" {
		t.Errorf("uint64 NativeToRaw() = %#v, %v", raw, err)
	}
}

func TestPercent(t *testing.T) {
	got, err := Percent.RawToNative(50, true)
	if err != nil || got != 0.5 {
		t.Errorf("RawToNative(50) = %#v, %v", got, err)
	}
	raw, err := Percent.NativeToRaw(0.25)
	if err != nil || raw != 25.0 {
		t.Errorf("NativeToRaw(0.25) = %#v, %v", raw, err)
	}
	if err := Percent.CheckRaw(101); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckRaw(101) error = %v, want ErrValidation", err)
	}
	if err := Percent.CheckNative(1.5); !errors.Is(err, ErrValidation) {
		t.Errorf("CheckNative(1.5) error = %v, want ErrValidation", err)
	}
	if err := Percent.CheckNative(1.0); err != nil {
		t.Errorf("CheckNative(1.0) error: %v", err)
	}
}

func TestBoundsSnapshot(t *testing.T) {
	f, err := NewField(Int16).bind(nil, "n")
	if err != nil {
		t.Fatalf("bind() error: %v", err)
	}
	info := f.Info()
	if info.Min() != int64(math.MinInt16) || info.Max() != int64(math.MaxInt16) {
		t.Errorf("bounds = %v..%v", info.Min(), info.Max())
	}
	if info.Mutable() {
		t.Error("integers are immutable")
	}
}
