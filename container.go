package packets

import (
	"fmt"
	"reflect"
	"sort"
)

// ArrayProcessor handles homogeneous lists. Natives and raws are []any.
type ArrayProcessor struct {
	elem   Processor
	length int
	err    error
}

// Array returns a list processor. elem is a Processor or a *Schema.
func Array(elem any) *ArrayProcessor {
	p := &ArrayProcessor{}
	p.elem = mustElement(elem, &p.err)
	return p
}

// FixedArray returns a list processor that requires exactly length elements.
func FixedArray(elem any, length int) *ArrayProcessor {
	p := Array(elem)
	p.length = length
	if length < 0 && p.err == nil {
		p.err = fmt.Errorf("%w: negative array length %d", ErrInvalidProcessor, length)
	}
	return p
}

// CheckDefinition reports an invalid element type.
func (p *ArrayProcessor) CheckDefinition() error {
	if p.err != nil {
		return p.err
	}
	return checkDefinition(p.elem)
}

// ElementType returns the element processor.
func (p *ArrayProcessor) ElementType() Processor { return p.elem }

// Length returns the required length, or 0 for any length.
func (p *ArrayProcessor) Length() int { return p.length }

func (p *ArrayProcessor) checkList(v any) ([]any, error) {
	list, ok := asList(v)
	if !ok {
		return nil, newValidationError("Array", v, "expected a list, got %T", v)
	}
	if p.length > 0 && len(list) != p.length {
		return nil, newValidationError("Array", v, "length %d, want %d", len(list), p.length)
	}
	return list, nil
}

func (p *ArrayProcessor) CheckNative(v any) error {
	list, err := p.checkList(v)
	if err != nil {
		return err
	}
	for _, e := range list {
		if isNull(e) {
			continue
		}
		if err := p.elem.CheckNative(e); err != nil {
			return err
		}
	}
	return nil
}

func (p *ArrayProcessor) CheckRaw(raw any) error {
	_, err := p.checkList(raw)
	return err
}

func (p *ArrayProcessor) RawToNative(raw any, strict bool) (any, error) {
	list, _ := asList(raw)
	out := make([]any, len(list))
	for i, e := range list {
		v, err := elementToNative(p.elem, e, strict)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (p *ArrayProcessor) NativeToRaw(v any) (any, error) {
	list, _ := asList(v)
	out := make([]any, len(list))
	for i, e := range list {
		r, err := elementToRaw(p.elem, e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

// DumpPartial applies paths to every element.
func (p *ArrayProcessor) DumpPartial(v any, paths Paths) (any, error) {
	list, _ := asList(v)
	out := make([]any, len(list))
	for i, e := range list {
		r, err := dumpPartial(p.elem, e, paths)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

func (p *ArrayProcessor) ZeroValue() any {
	out := make([]any, p.length)
	for i := range out {
		out[i] = p.elem.ZeroValue()
	}
	return out
}

func (p *ArrayProcessor) HasMutableValue() bool { return true }

// SetProcessor handles unordered collections of unique elements.
// Natives are map[any]struct{}; raws are lists ordered by their text form.
type SetProcessor struct {
	elem Processor
	err  error
}

// Set returns a set processor. elem is a Processor or a *Schema.
func Set(elem any) *SetProcessor {
	p := &SetProcessor{}
	p.elem = mustElement(elem, &p.err)
	return p
}

// CheckDefinition reports an invalid element type.
func (p *SetProcessor) CheckDefinition() error {
	if p.err != nil {
		return p.err
	}
	return checkDefinition(p.elem)
}

// ElementType returns the element processor.
func (p *SetProcessor) ElementType() Processor { return p.elem }

// members returns the elements of a native set or of a list without duplicates.
func (p *SetProcessor) members(v any) ([]any, error) {
	if s, ok := v.(map[any]struct{}); ok {
		out := make([]any, 0, len(s))
		for e := range s {
			out = append(out, e)
		}
		return out, nil
	}
	list, ok := asList(v)
	if !ok {
		return nil, newValidationError("Set", v, "expected a set or list, got %T", v)
	}
	seen := make(map[any]struct{}, len(list))
	for _, e := range list {
		if !isHashable(e) {
			return nil, newValidationError("Set", v, "unhashable element %T", e)
		}
		if _, dup := seen[e]; dup {
			return nil, newValidationError("Set", v, "duplicate element %v", e)
		}
		seen[e] = struct{}{}
	}
	return list, nil
}

func (p *SetProcessor) CheckNative(v any) error {
	members, err := p.members(v)
	if err != nil {
		return err
	}
	for _, e := range members {
		if err := p.elem.CheckNative(e); err != nil {
			return err
		}
	}
	return nil
}

func (p *SetProcessor) CheckRaw(raw any) error {
	if _, ok := asList(raw); !ok {
		return newValidationError("Set", raw, "expected a list, got %T", raw)
	}
	return nil
}

func (p *SetProcessor) RawToNative(raw any, strict bool) (any, error) {
	list, _ := asList(raw)
	out := make(map[any]struct{}, len(list))
	for _, e := range list {
		v, err := elementToNative(p.elem, e, strict)
		if err != nil {
			return nil, err
		}
		if !isHashable(v) {
			return nil, newValidationError("Set", raw, "unhashable element %T", v)
		}
		out[v] = struct{}{}
	}
	return out, nil
}

func (p *SetProcessor) NativeToRaw(v any) (any, error) {
	members, err := p.members(v)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(members))
	for _, e := range members {
		r, err := elementToRaw(p.elem, e)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return fmt.Sprint(out[i]) < fmt.Sprint(out[j])
	})
	return out, nil
}

func (p *SetProcessor) ZeroValue() any        { return map[any]struct{}{} }
func (p *SetProcessor) HasMutableValue() bool { return true }

// TupleProcessor handles fixed-length heterogeneous lists.
type TupleProcessor struct {
	elems []Processor
	err   error
}

// Tuple returns a tuple processor with one element type per position.
func Tuple(elems ...any) *TupleProcessor {
	p := &TupleProcessor{elems: make([]Processor, len(elems))}
	for i, e := range elems {
		p.elems[i] = mustElement(e, &p.err)
	}
	return p
}

// CheckDefinition reports an invalid element type.
func (p *TupleProcessor) CheckDefinition() error {
	if p.err != nil {
		return p.err
	}
	for _, e := range p.elems {
		if err := checkDefinition(e); err != nil {
			return err
		}
	}
	return nil
}

// ElementTypes returns the per-position processors.
func (p *TupleProcessor) ElementTypes() []Processor {
	out := make([]Processor, len(p.elems))
	copy(out, p.elems)
	return out
}

func (p *TupleProcessor) checkList(v any) ([]any, error) {
	list, ok := asList(v)
	if !ok {
		return nil, newValidationError("Tuple", v, "expected a list, got %T", v)
	}
	if len(list) != len(p.elems) {
		return nil, newValidationError("Tuple", v, "length %d, want %d", len(list), len(p.elems))
	}
	return list, nil
}

func (p *TupleProcessor) CheckNative(v any) error {
	list, err := p.checkList(v)
	if err != nil {
		return err
	}
	for i, e := range list {
		if isNull(e) {
			continue
		}
		if err := p.elems[i].CheckNative(e); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func (p *TupleProcessor) CheckRaw(raw any) error {
	_, err := p.checkList(raw)
	return err
}

func (p *TupleProcessor) RawToNative(raw any, strict bool) (any, error) {
	list, err := p.checkList(raw)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(list))
	for i, e := range list {
		v, err := elementToNative(p.elems[i], e, strict)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (p *TupleProcessor) NativeToRaw(v any) (any, error) {
	list, err := p.checkList(v)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(list))
	for i, e := range list {
		r, err := elementToRaw(p.elems[i], e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

func (p *TupleProcessor) ZeroValue() any {
	out := make([]any, len(p.elems))
	for i, e := range p.elems {
		out[i] = e.ZeroValue()
	}
	return out
}

func (p *TupleProcessor) HasMutableValue() bool { return true }

// isHashable reports whether v can be used as a map key.
func isHashable(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Comparable()
}
