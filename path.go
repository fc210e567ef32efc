package packets

import (
	"strconv"
	"strings"
)

// Get resolves a dotted path of raw names, sequence indices and mapping
// keys. Traversal stops with a nil result at the first null node.
func (p *Packet) Get(path string) (any, error) {
	var node any = p
	var proc Processor
	for _, seg := range strings.Split(path, ".") {
		next, nextProc, err := child(node, proc, seg, path)
		if err != nil {
			return nil, err
		}
		if isNull(next) {
			return nil, nil
		}
		node, proc = next, nextProc
	}
	return node, nil
}

// Set assigns value at a dotted path. Missing intermediate mapping keys are
// created; assigning through a packet goes through SetAttr.
func (p *Packet) Set(path string, value any) error {
	segs := strings.Split(path, ".")
	var node any = p
	var proc Processor
	for _, seg := range segs[:len(segs)-1] {
		next, nextProc, err := childForWrite(node, proc, seg, path)
		if err != nil {
			return err
		}
		if isNull(next) {
			return &AccessError{Err: ErrAccess, Path: path, Segment: seg}
		}
		node, proc = next, nextProc
	}
	return assign(node, proc, segs[len(segs)-1], value, path)
}

// Delete removes the value at a dotted path. Packet fields are set to null,
// sequence elements and mapping keys are removed. A null parent is a no-op.
func (p *Packet) Delete(path string) error {
	_, _, err := deleteIn(p, nil, strings.Split(path, "."), path)
	return err
}

// child steps into node by one segment.
func child(node any, proc Processor, seg, path string) (any, Processor, error) {
	switch n := node.(type) {
	case *Packet:
		name, ok := n.layout.raw[seg]
		if !ok {
			return nil, nil, &AccessError{Err: ErrUnknownField, Path: path, Segment: seg, Node: n}
		}
		f, _ := n.layout.field(name)
		return n.values[name], f.Processor(), nil
	case []any:
		i, err := index(seg, len(n), path)
		if err != nil {
			return nil, nil, err
		}
		return n[i], elementType(proc, i), nil
	case map[string]any:
		return n[seg], elementType(proc, 0), nil
	case map[any]any:
		key, ok := lookupKey(n, proc, seg)
		if !ok {
			return nil, nil, nil
		}
		return n[key], elementType(proc, 0), nil
	}
	if list, ok := asList(node); ok {
		i, err := index(seg, len(list), path)
		if err != nil {
			return nil, nil, err
		}
		return list[i], elementType(proc, i), nil
	}
	if m, ok := asRawMap(node); ok {
		return m[seg], elementType(proc, 0), nil
	}
	return nil, nil, &AccessError{Err: ErrAccess, Path: path, Segment: seg, Node: node}
}

// childForWrite is child, creating missing mapping entries on the way.
func childForWrite(node any, proc Processor, seg, path string) (any, Processor, error) {
	switch n := node.(type) {
	case map[string]any:
		v, ok := n[seg]
		if !ok || v == nil {
			v = map[string]any{}
			n[seg] = v
		}
		return v, elementType(proc, 0), nil
	case map[any]any:
		key := writeKey(n, proc, seg)
		v, ok := n[key]
		if !ok || v == nil {
			v = map[any]any{}
			n[key] = v
		}
		return v, elementType(proc, 0), nil
	}
	return child(node, proc, seg, path)
}

func assign(node any, proc Processor, seg string, value any, path string) error {
	switch n := node.(type) {
	case *Packet:
		name, ok := n.layout.raw[seg]
		if !ok {
			return &AccessError{Err: ErrUnknownField, Path: path, Segment: seg, Node: n}
		}
		return n.SetAttr(name, value)
	case []any:
		i, err := index(seg, len(n), path)
		if err != nil {
			return err
		}
		n[i] = value
		return nil
	case map[string]any:
		n[seg] = value
		return nil
	case map[any]any:
		n[writeKey(n, proc, seg)] = value
		return nil
	}
	return &AccessError{Err: ErrAccess, Path: path, Segment: seg, Node: node}
}

// deleteIn removes the last segment below node. When node itself has to be
// replaced (a shortened slice), the replacement is returned with true.
func deleteIn(node any, proc Processor, segs []string, path string) (any, bool, error) {
	seg := segs[0]
	if len(segs) == 1 {
		return remove(node, proc, seg, path)
	}

	next, nextProc, err := child(node, proc, seg, path)
	if err != nil {
		return nil, false, err
	}
	if isNull(next) {
		return nil, false, nil
	}
	repl, replaced, err := deleteIn(next, nextProc, segs[1:], path)
	if err != nil || !replaced {
		return nil, false, err
	}

	switch n := node.(type) {
	case *Packet:
		n.values[n.layout.raw[seg]] = repl
	case []any:
		i, _ := index(seg, len(n), path)
		n[i] = repl
	case map[string]any:
		n[seg] = repl
	case map[any]any:
		key, _ := lookupKey(n, proc, seg)
		n[key] = repl
	}
	return nil, false, nil
}

func remove(node any, proc Processor, seg, path string) (any, bool, error) {
	switch n := node.(type) {
	case nil:
		return nil, false, nil
	case *Packet:
		name, ok := n.layout.raw[seg]
		if !ok {
			return nil, false, &AccessError{Err: ErrUnknownField, Path: path, Segment: seg, Node: n}
		}
		return nil, false, n.DelAttr(name)
	case []any:
		if i, err := strconv.Atoi(seg); err == nil && i >= len(n) {
			return nil, false, nil
		}
		i, err := index(seg, len(n), path)
		if err != nil {
			return nil, false, err
		}
		out := make([]any, 0, len(n)-1)
		out = append(out, n[:i]...)
		out = append(out, n[i+1:]...)
		return out, true, nil
	case map[string]any:
		delete(n, seg)
		return nil, false, nil
	case map[any]any:
		if key, ok := lookupKey(n, proc, seg); ok {
			delete(n, key)
		}
		return nil, false, nil
	}
	return nil, false, &AccessError{Err: ErrAccess, Path: path, Segment: seg, Node: node}
}

// index parses a sequence index. Negative indices count from the end.
func index(seg string, length int, path string) (int, error) {
	i, err := strconv.Atoi(seg)
	if err != nil {
		return 0, &AccessError{Err: ErrIndex, Path: path, Segment: seg}
	}
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, &AccessError{Err: ErrIndex, Path: path, Segment: seg}
	}
	return i, nil
}

// lookupKey finds the existing key of m addressed by seg. With a key
// processor the segment is decoded with it; otherwise the literal string is
// tried first, then its integer reading.
func lookupKey(m map[any]any, proc Processor, seg string) (any, bool) {
	if kp := keyType(proc); kp != nil {
		if err := kp.CheckRaw(seg); err == nil {
			if key, err := kp.RawToNative(seg, true); err == nil {
				if _, ok := m[key]; ok {
					return key, true
				}
			}
		}
	}
	if _, ok := m[seg]; ok {
		return seg, true
	}
	if i, err := strconv.ParseInt(seg, 10, 64); err == nil {
		if _, ok := m[i]; ok {
			return i, true
		}
		if _, ok := m[int(i)]; ok {
			return int(i), true
		}
	}
	return nil, false
}

// writeKey returns the key seg addresses in m, existing or new.
func writeKey(m map[any]any, proc Processor, seg string) any {
	if key, ok := lookupKey(m, proc, seg); ok {
		return key
	}
	if kp := keyType(proc); kp != nil {
		if err := kp.CheckRaw(seg); err == nil {
			if key, err := kp.RawToNative(seg, true); err == nil {
				return key
			}
		}
	}
	if i, err := strconv.ParseInt(seg, 10, 64); err == nil {
		return i
	}
	return seg
}
