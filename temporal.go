package packets

import (
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Date and time processors.
var (
	StrDateTimeZ = DateAsString("2006-01-02 15:04:05 -0700")
	StrDateTime  = DateAsString("2006-01-02 15:04:05")
	StrDate      = DateAsString("2006-01-02")
	StrTime      = DateAsString("15:04")
	StrUnixTime  = UnixTimeAsString("2006-01-02 15:04:05")
	UnixTime     = &UnixTimeProcessor{}
	DateTime     = &DateTimeProcessor{}
	LogLevel     = &LogLevelProcessor{}
)

// maxUnixTime is the largest timestamp UnixTime accepts.
const maxUnixTime = math.MaxUint32

// DateProcessor stores a time.Time as a string in a fixed layout.
type DateProcessor struct {
	layout string
}

// DateAsString returns a processor formatting times with layout.
// Layouts without a zone are parsed as UTC.
func DateAsString(layout string) *DateProcessor {
	return &DateProcessor{layout: layout}
}

// Layout returns the time layout.
func (p *DateProcessor) Layout() string { return p.layout }

func (p *DateProcessor) CheckNative(v any) error {
	if _, ok := v.(time.Time); !ok {
		return newValidationError("Date", v, "expected time.Time, got %T", v)
	}
	return nil
}

func (p *DateProcessor) CheckRaw(raw any) error {
	if _, ok := raw.(string); !ok {
		return newValidationError("Date", raw, "expected a string, got %T", raw)
	}
	return nil
}

func (p *DateProcessor) RawToNative(raw any, _ bool) (any, error) {
	t, err := time.Parse(p.layout, raw.(string))
	if err != nil {
		return nil, newValidationError("Date", raw, "%v", err)
	}
	return t, nil
}

func (p *DateProcessor) NativeToRaw(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, newValidationError("Date", v, "expected time.Time, got %T", v)
	}
	return t.Format(p.layout), nil
}

func (p *DateProcessor) ZeroValue() any        { return time.Time{} }
func (p *DateProcessor) HasMutableValue() bool { return false }

// UnixTimeProcessor stores a time.Time as whole seconds since the epoch.
// Timestamps must fit into an unsigned 32-bit integer.
type UnixTimeProcessor struct{}

func (p *UnixTimeProcessor) check(sec int64, v any) error {
	if sec < 0 {
		return newValidationError("UnixTime", v, "%d < 0", sec)
	}
	if sec > maxUnixTime {
		return newValidationError("UnixTime", v, "%d > %d", sec, int64(maxUnixTime))
	}
	return nil
}

func (p *UnixTimeProcessor) CheckNative(v any) error {
	t, ok := v.(time.Time)
	if !ok {
		return newValidationError("UnixTime", v, "expected time.Time, got %T", v)
	}
	return p.check(t.Unix(), v)
}

func (p *UnixTimeProcessor) CheckRaw(raw any) error {
	sec, err := coerceInt(raw)
	if err != nil {
		return newValidationError("UnixTime", raw, "not an integer: %v", err)
	}
	return p.check(sec, raw)
}

func (p *UnixTimeProcessor) RawToNative(raw any, _ bool) (any, error) {
	sec, err := coerceInt(raw)
	if err != nil {
		return nil, newValidationError("UnixTime", raw, "not an integer: %v", err)
	}
	return time.Unix(sec, 0).UTC(), nil
}

func (p *UnixTimeProcessor) NativeToRaw(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, newValidationError("UnixTime", v, "expected time.Time, got %T", v)
	}
	return t.Unix(), nil
}

func (p *UnixTimeProcessor) ZeroValue() any        { return time.Unix(0, 0).UTC() }
func (p *UnixTimeProcessor) HasMutableValue() bool { return false }
func (p *UnixTimeProcessor) Min() any              { return int64(0) }
func (p *UnixTimeProcessor) Max() any              { return int64(maxUnixTime) }

// UnixTimeStringProcessor stores a unix timestamp (int64 seconds) as a UTC
// string in a fixed layout.
type UnixTimeStringProcessor struct {
	layout string
}

// UnixTimeAsString returns a processor formatting timestamps with layout.
func UnixTimeAsString(layout string) *UnixTimeStringProcessor {
	return &UnixTimeStringProcessor{layout: layout}
}

func (p *UnixTimeStringProcessor) CheckNative(v any) error {
	if _, ok := nativeInt(v); !ok {
		return newValidationError("UnixTimeAsString", v, "expected an integer, got %T", v)
	}
	return nil
}

func (p *UnixTimeStringProcessor) CheckRaw(raw any) error {
	if _, ok := raw.(string); !ok {
		return newValidationError("UnixTimeAsString", raw, "expected a string, got %T", raw)
	}
	return nil
}

func (p *UnixTimeStringProcessor) RawToNative(raw any, _ bool) (any, error) {
	t, err := time.Parse(p.layout, raw.(string))
	if err != nil {
		return nil, newValidationError("UnixTimeAsString", raw, "%v", err)
	}
	return t.Unix(), nil
}

func (p *UnixTimeStringProcessor) NativeToRaw(v any) (any, error) {
	sec, ok := nativeInt(v)
	if !ok {
		return nil, newValidationError("UnixTimeAsString", v, "expected an integer, got %T", v)
	}
	return time.Unix(sec, 0).UTC().Format(p.layout), nil
}

func (p *UnixTimeStringProcessor) ZeroValue() any        { return int64(0) }
func (p *UnixTimeStringProcessor) HasMutableValue() bool { return false }

// DateTimeProcessor holds a time.Time that codecs encode natively (BSON
// datetime, MessagePack timestamp, YAML timestamp) or as RFC 3339 text.
type DateTimeProcessor struct{}

func (p *DateTimeProcessor) CheckNative(v any) error {
	if _, ok := v.(time.Time); !ok {
		return newValidationError("DateTime", v, "expected time.Time, got %T", v)
	}
	return nil
}

func (p *DateTimeProcessor) CheckRaw(raw any) error {
	switch raw.(type) {
	case time.Time, string:
		return nil
	}
	return newValidationError("DateTime", raw, "expected time.Time or string, got %T", raw)
}

func (p *DateTimeProcessor) RawToNative(raw any, _ bool) (any, error) {
	if s, ok := raw.(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
	}
	t, err := cast.ToTimeE(raw)
	if err != nil {
		return nil, newValidationError("DateTime", raw, "%v", err)
	}
	return t, nil
}

func (p *DateTimeProcessor) NativeToRaw(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, newValidationError("DateTime", v, "expected time.Time, got %T", v)
	}
	return t, nil
}

func (p *DateTimeProcessor) ZeroValue() any        { return time.Time{} }
func (p *DateTimeProcessor) HasMutableValue() bool { return false }

// LevelCritical is the level for "critical" and "fatal" entries.
const LevelCritical = slog.LevelError + 4

var levelByName = map[string]slog.Level{
	"critical": LevelCritical,
	"fatal":    LevelCritical,
	"error":    slog.LevelError,
	"warning":  slog.LevelWarn,
	"warn":     slog.LevelWarn,
	"info":     slog.LevelInfo,
	"debug":    slog.LevelDebug,
}

var nameByLevel = map[slog.Level]string{
	LevelCritical:   "fatal",
	slog.LevelError: "error",
	slog.LevelWarn:  "warn",
	slog.LevelInfo:  "info",
	slog.LevelDebug: "debug",
}

// LogLevelProcessor stores a slog.Level as a lowercase level name.
type LogLevelProcessor struct{}

func (p *LogLevelProcessor) CheckNative(v any) error {
	l, ok := v.(slog.Level)
	if !ok {
		return newValidationError("LogLevel", v, "expected slog.Level, got %T", v)
	}
	if _, ok := nameByLevel[l]; !ok {
		return newValidationError("LogLevel", v, "unknown level")
	}
	return nil
}

func (p *LogLevelProcessor) CheckRaw(raw any) error {
	s, ok := raw.(string)
	if !ok {
		return newValidationError("LogLevel", raw, "expected a string, got %T", raw)
	}
	if _, ok := levelByName[strings.ToLower(s)]; !ok {
		return newValidationError("LogLevel", raw, "unknown level name")
	}
	return nil
}

func (p *LogLevelProcessor) RawToNative(raw any, _ bool) (any, error) {
	l, ok := levelByName[strings.ToLower(raw.(string))]
	if !ok {
		return nil, newValidationError("LogLevel", raw, "unknown level name")
	}
	return l, nil
}

func (p *LogLevelProcessor) NativeToRaw(v any) (any, error) {
	if err := p.CheckNative(v); err != nil {
		return nil, err
	}
	return nameByLevel[v.(slog.Level)], nil
}

func (p *LogLevelProcessor) ZeroValue() any        { return slog.LevelInfo }
func (p *LogLevelProcessor) HasMutableValue() bool { return false }
