package packets

import (
	stdjson "encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
)

type rawKind uint8

const (
	rawInt rawKind = iota
	rawFloat
	rawString
)

// EnumProcessor maps members of a Go enumeration to raw values.
type EnumProcessor[E comparable] struct {
	members []E
	kind    rawKind
	toRaw   func(E) any
	byRaw   map[any]E
	err     error
}

// Enum returns a processor storing the underlying value of each member:
// int64 for integer kinds, float64 for float kinds, string for string kinds.
func Enum[E comparable](members ...E) *EnumProcessor[E] {
	p := &EnumProcessor[E]{members: members, byRaw: make(map[any]E, len(members))}
	if len(members) == 0 {
		p.err = fmt.Errorf("%w: enum without members", ErrInvalidProcessor)
		return p
	}
	switch reflect.ValueOf(members[0]).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		p.kind = rawInt
		p.toRaw = func(e E) any { return reflect.ValueOf(e).Int() }
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		p.kind = rawInt
		p.toRaw = func(e E) any { return int64(reflect.ValueOf(e).Uint()) } // #nosec G115 -- enum values are small
	case reflect.Float32, reflect.Float64:
		p.kind = rawFloat
		p.toRaw = func(e E) any { return reflect.ValueOf(e).Float() }
	case reflect.String:
		p.kind = rawString
		p.toRaw = func(e E) any { return reflect.ValueOf(e).String() }
	default:
		p.err = fmt.Errorf("%w: unsupported enum kind %T", ErrInvalidProcessor, members[0])
		return p
	}
	p.index()
	return p
}

// EnumByName returns a processor storing the String() form of each member.
func EnumByName[E interface {
	comparable
	fmt.Stringer
}](members ...E) *EnumProcessor[E] {
	p := &EnumProcessor[E]{
		members: members,
		kind:    rawString,
		toRaw:   func(e E) any { return e.String() },
		byRaw:   make(map[any]E, len(members)),
	}
	if len(members) == 0 {
		p.err = fmt.Errorf("%w: enum without members", ErrInvalidProcessor)
		return p
	}
	p.index()
	return p
}

func (p *EnumProcessor[E]) index() {
	for _, m := range p.members {
		raw := p.toRaw(m)
		if _, dup := p.byRaw[raw]; dup {
			p.err = fmt.Errorf("%w: duplicate enum value %v", ErrInvalidProcessor, raw)
			return
		}
		p.byRaw[raw] = m
	}
}

// CheckDefinition reports an empty or inconsistent member list.
func (p *EnumProcessor[E]) CheckDefinition() error { return p.err }

// Members returns the enumeration members.
func (p *EnumProcessor[E]) Members() []E {
	out := make([]E, len(p.members))
	copy(out, p.members)
	return out
}

func (p *EnumProcessor[E]) lookup(raw any) (E, error) {
	var key any
	switch p.kind {
	case rawInt:
		n, err := coerceInt(raw)
		if err != nil {
			var zero E
			return zero, newValidationError("Enum", raw, "not an integer: %v", err)
		}
		key = n
	case rawFloat:
		f, err := coerceFloat(raw)
		if err != nil {
			var zero E
			return zero, newValidationError("Enum", raw, "not a number: %v", err)
		}
		key = f
	default:
		s, ok := raw.(string)
		if !ok {
			var zero E
			return zero, newValidationError("Enum", raw, "expected a string, got %T", raw)
		}
		key = s
	}
	e, ok := p.byRaw[key]
	if !ok {
		return e, newValidationError("Enum", raw, "not a member")
	}
	return e, nil
}

func (p *EnumProcessor[E]) CheckNative(v any) error {
	e, ok := v.(E)
	if !ok {
		return newValidationError("Enum", v, "expected %T, got %T", *new(E), v)
	}
	if _, ok := p.byRaw[p.toRaw(e)]; !ok {
		return newValidationError("Enum", v, "not a member")
	}
	return nil
}

func (p *EnumProcessor[E]) CheckRaw(raw any) error {
	_, err := p.lookup(raw)
	return err
}

func (p *EnumProcessor[E]) RawToNative(raw any, _ bool) (any, error) {
	return p.lookup(raw)
}

func (p *EnumProcessor[E]) NativeToRaw(v any) (any, error) {
	if err := p.CheckNative(v); err != nil {
		return nil, err
	}
	return p.toRaw(v.(E)), nil
}

// ZeroValue returns the first member.
func (p *EnumProcessor[E]) ZeroValue() any {
	if len(p.members) == 0 {
		return nil
	}
	return p.members[0]
}

func (p *EnumProcessor[E]) HasMutableValue() bool { return false }

// Integer is the set of types a BitMask can hold.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// BitMaskProcessor stores a set of bit positions as one integer.
// Natives are []E sorted ascending; bits without a member are ignored.
type BitMaskProcessor[E Integer] struct {
	members []E
	known   map[E]struct{}
	err     error
}

// BitMask returns a processor for members naming bit positions 0 to 63.
func BitMask[E Integer](members ...E) *BitMaskProcessor[E] {
	p := &BitMaskProcessor[E]{known: make(map[E]struct{}, len(members))}
	for _, m := range members {
		if m < 0 || uint64(m) > 63 {
			p.err = fmt.Errorf("%w: bit %v out of range 0..63", ErrInvalidProcessor, m)
			return p
		}
		if _, dup := p.known[m]; dup {
			p.err = fmt.Errorf("%w: duplicate bit %v", ErrInvalidProcessor, m)
			return p
		}
		p.known[m] = struct{}{}
		p.members = append(p.members, m)
	}
	sort.Slice(p.members, func(i, j int) bool { return p.members[i] < p.members[j] })
	return p
}

// CheckDefinition reports out-of-range or duplicate bits.
func (p *BitMaskProcessor[E]) CheckDefinition() error { return p.err }

func (p *BitMaskProcessor[E]) elements(v any) ([]E, error) {
	var list []E
	switch t := v.(type) {
	case []E:
		list = t
	case map[E]struct{}:
		for e := range t {
			list = append(list, e)
		}
	default:
		return nil, newValidationError("BitMask", v, "expected []%T, got %T", *new(E), v)
	}
	for _, e := range list {
		if _, ok := p.known[e]; !ok {
			return nil, newValidationError("BitMask", v, "unknown bit %v", e)
		}
	}
	return list, nil
}

func (p *BitMaskProcessor[E]) CheckNative(v any) error {
	_, err := p.elements(v)
	return err
}

func (p *BitMaskProcessor[E]) CheckRaw(raw any) error {
	_, err := rawMask(raw)
	return err
}

func (p *BitMaskProcessor[E]) RawToNative(raw any, _ bool) (any, error) {
	mask, err := rawMask(raw)
	if err != nil {
		return nil, err
	}
	out := []E{}
	for _, m := range p.members {
		if mask&(1<<uint64(m)) != 0 {
			out = append(out, m)
		}
	}
	return out, nil
}

func (p *BitMaskProcessor[E]) NativeToRaw(v any) (any, error) {
	list, err := p.elements(v)
	if err != nil {
		return nil, err
	}
	var mask uint64
	for _, e := range list {
		mask |= 1 << uint64(e)
	}
	if mask <= math.MaxInt64 {
		return int64(mask), nil
	}
	return mask, nil
}

func (p *BitMaskProcessor[E]) ZeroValue() any        { return []E{} }
func (p *BitMaskProcessor[E]) HasMutableValue() bool { return true }

// rawMask reads a non-negative integer mask.
func rawMask(raw any) (uint64, error) {
	switch v := raw.(type) {
	case stdjson.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return 0, newValidationError("BitMask", raw, "not a mask: %v", err)
		}
		return n, nil
	case float64:
		if v < 0 || v != math.Trunc(v) || v > math.MaxUint64 {
			return 0, newValidationError("BitMask", raw, "not a mask")
		}
		return uint64(v), nil
	}
	n, ok := nativeUint(raw)
	if !ok {
		return 0, newValidationError("BitMask", raw, "expected a non-negative integer, got %T", raw)
	}
	return n, nil
}
