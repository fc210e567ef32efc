package packets

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"
)

// Values holds native values keyed by native field name.
type Values map[string]any

// isNull reports whether v is a null value: nil or a nil *Packet.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	if p, ok := v.(*Packet); ok {
		return p == nil
	}
	return false
}

// normalizeNull collapses typed nils the package understands to untyped nil.
func normalizeNull(v any) any {
	if isNull(v) {
		return nil
	}
	return v
}

// asRawMap views v as a map with string keys.
func asRawMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Values:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asList views v as a list. Strings and byte slices are not lists.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case nil, string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asNativeMap views v as a map with arbitrary keys.
func asNativeMap(v any) (map[any]any, bool) {
	switch m := v.(type) {
	case map[any]any:
		return m, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[any]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().Interface()] = iter.Value().Interface()
	}
	return out, true
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// numeric converts integer and float kinds to float64 for cross-type comparison.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case stdjson.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// equalValues compares two native values. Nested packets compare by value,
// numbers compare across Go numeric types.
func equalValues(a, b any) bool {
	a, b = normalizeNull(a), normalizeNull(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Packet:
		y, ok := b.(*Packet)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equalValues(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !equalValues(v, w) {
				return false
			}
		}
		return true
	case map[any]any:
		y, ok := b.(map[any]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !equalValues(v, w) {
				return false
			}
		}
		return true
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	if fa, ok := numeric(a); ok {
		if fb, ok := numeric(b); ok {
			return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// copier deep-copies native values. Packets reached twice are copied once.
type copier struct {
	packets map[*Packet]*Packet
}

func newCopier() *copier {
	return &copier{packets: make(map[*Packet]*Packet)}
}

// deepCopy returns a structural copy of a native value.
func deepCopy(v any) any {
	return newCopier().value(v)
}

func (c *copier) value(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case *Packet:
		if t == nil {
			return nil
		}
		return c.packet(t)
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i := range t {
			out[i] = c.value(t[i])
		}
		return out
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = c.value(val)
		}
		return out
	case map[any]any:
		if t == nil {
			return t
		}
		out := make(map[any]any, len(t))
		for k, val := range t {
			out[k] = c.value(val)
		}
		return out
	case map[any]struct{}:
		if t == nil {
			return t
		}
		out := make(map[any]struct{}, len(t))
		for k := range t {
			out[k] = struct{}{}
		}
		return out
	case []byte:
		if t == nil {
			return t
		}
		return bytes.Clone(t)
	}
	return v
}

func (c *copier) packet(p *Packet) *Packet {
	if q, ok := c.packets[p]; ok {
		return q
	}
	q := &Packet{
		schema:   p.schema,
		layout:   p.layout,
		values:   make(map[string]any, len(p.values)),
		modified: p.modified,
	}
	c.packets[p] = q
	for k, v := range p.values {
		q.values[k] = c.value(v)
	}
	return q
}
