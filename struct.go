package packets

import (
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/zoobzio/sentinel"
)

// structTag is the struct tag read by SchemaFor: `packet:"raw,required"`.
// A raw name of "-" skips the field.
const structTag = "packet"

func init() {
	sentinel.Tag(structTag)
}

var (
	timeType  = reflect.TypeFor[time.Time]()
	levelType = reflect.TypeFor[slog.Level]()
)

// structBuilder derives schemas for a struct type and the struct types it
// contains. Callers hold registryMu.
type structBuilder struct {
	building map[reflect.Type]bool
}

func (b *structBuilder) schema(typ reflect.Type, meta sentinel.Metadata) (*Schema, error) {
	if cached, ok := registry[typ]; ok {
		return cached, nil
	}
	if b.building[typ] {
		return nil, newSchemaError(ErrUnsupportedType, typ.String(), "", "recursive struct type")
	}
	b.building[typ] = true
	defer delete(b.building, typ)

	name := typ.Name()
	if name == "" {
		name = "struct"
	}
	var opts []SchemaOption
	if typ.PkgPath() != "" {
		opts = append(opts, Module(typ.PkgPath()))
	}

	for _, fm := range meta.Fields {
		sf := typ.FieldByIndex(fm.Index)
		if !sf.IsExported() {
			continue
		}
		raw, required := parseStructTag(fm.Tags[structTag], sf.Name)
		if raw == "-" {
			continue
		}
		proc, err := b.processor(sf.Type)
		if err != nil {
			return nil, &SchemaError{Err: ErrUnsupportedType, Schema: name, Field: sf.Name, Detail: err.Error()}
		}
		opts = append(opts, Declare(sf.Name, NewField(proc, Name(raw), Required(required))))
	}

	s, err := Define(name, opts...)
	if err != nil {
		return nil, err
	}
	registry[typ] = s
	return s, nil
}

// processor maps a Go type onto a processor or a nested schema.
func (b *structBuilder) processor(t reflect.Type) (any, error) {
	switch t {
	case timeType:
		return DateTime, nil
	case levelType:
		return LogLevel, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool, nil
	case reflect.Int8:
		return Int8, nil
	case reflect.Int16:
		return Int16, nil
	case reflect.Int32:
		return Int32, nil
	case reflect.Int, reflect.Int64:
		return Int64, nil
	case reflect.Uint8:
		return Uint8, nil
	case reflect.Uint16:
		return Uint16, nil
	case reflect.Uint32:
		return Uint32, nil
	case reflect.Uint, reflect.Uint64:
		return Uint64, nil
	case reflect.Float32, reflect.Float64:
		return Float, nil
	case reflect.String:
		return String, nil
	case reflect.Interface:
		return Variant, nil
	case reflect.Pointer:
		return b.processor(t.Elem())
	case reflect.Struct:
		return b.schema(t, scanStruct(t))
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Bytes, nil
		}
		elem, err := b.processor(t.Elem())
		if err != nil {
			return nil, err
		}
		return Array(elem), nil
	case reflect.Array:
		elem, err := b.processor(t.Elem())
		if err != nil {
			return nil, err
		}
		return FixedArray(elem, t.Len()), nil
	case reflect.Map:
		key, err := b.mapKey(t.Key())
		if err != nil {
			return nil, err
		}
		elem, err := b.processor(t.Elem())
		if err != nil {
			return nil, err
		}
		return Hash(key, elem), nil
	}
	return nil, newValidationError("struct", t.String(), "no processor for kind %s", t.Kind())
}

func (b *structBuilder) mapKey(t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return b.processor(t)
	}
	return nil, newValidationError("struct", t.String(), "map keys must be strings or integers")
}

// scanStruct returns the registered metadata of a nested struct type, or
// builds it from the type itself.
func scanStruct(t reflect.Type) sentinel.Metadata {
	if meta, ok := sentinel.Lookup(t.String()); ok {
		return meta
	}
	meta := sentinel.Metadata{
		TypeName:    t.Name(),
		PackageName: t.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, t.NumField()),
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tags := map[string]string{}
		if v, ok := sf.Tag.Lookup(structTag); ok {
			tags[structTag] = v
		}
		meta.Fields = append(meta.Fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        tags,
		})
	}
	return meta
}

func parseStructTag(tag, fieldName string) (raw string, required bool) {
	parts := strings.Split(tag, ",")
	raw = strings.TrimSpace(parts[0])
	if raw == "" {
		raw = fieldName
	}
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "required" {
			required = true
		}
	}
	return raw, required
}

// FromStruct builds a packet of SchemaFor[T] from a struct value.
// Nil pointers, slices and maps become null.
func FromStruct[T any](v T) (*Packet, error) {
	s, err := SchemaFor[T]()
	if err != nil {
		return nil, err
	}
	return structToPacket(s, reflect.ValueOf(v))
}

func structToPacket(s *Schema, rv reflect.Value) (*Packet, error) {
	values := make(Values, len(s.layout.fields))
	for _, f := range s.layout.fields {
		fv := rv.FieldByName(f.NativeName())
		if !fv.IsValid() {
			continue
		}
		v, err := toNative(fv, f.Processor())
		if err != nil {
			return nil, &FieldError{Err: err, Field: f.String()}
		}
		values[f.NativeName()] = v
	}
	return s.New(values)
}

// toNative converts a Go value into the native form of proc.
func toNative(rv reflect.Value, proc Processor) (any, error) {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return toNative(rv.Elem(), proc)
	case reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return deepCopy(rv.Elem().Interface()), nil
	}
	switch rv.Type() {
	case timeType, levelType:
		return rv.Interface(), nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if _, ok := proc.(*UnsignedProcessor); ok {
			return rv.Uint(), nil
		}
		return int64(rv.Uint()), nil // #nosec G115 -- narrower than 64 bits
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return append([]byte(nil), rv.Bytes()...), nil
		}
		return listToNative(rv, proc)
	case reflect.Array:
		return listToNative(rv, proc)
	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[any]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, err := toNative(iter.Key(), keyType(proc))
			if err != nil {
				return nil, err
			}
			v, err := toNative(iter.Value(), elementType(proc, 0))
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case reflect.Struct:
		sp, ok := proc.(*SubPacketProcessor)
		if !ok {
			return nil, newValidationError("struct", rv.Type().String(), "no schema for nested struct")
		}
		return structToPacket(sp.Schema(), rv)
	}
	return nil, newValidationError("struct", rv.Type().String(), "unsupported kind %s", rv.Kind())
}

func listToNative(rv reflect.Value, proc Processor) ([]any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		v, err := toNative(rv.Index(i), elementType(proc, i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ToStruct copies the values of p into a new T. Fields of T without a
// matching packet field keep their zero value.
func ToStruct[T any](p *Packet) (T, error) {
	var out T
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		return out, newSchemaError(ErrUnsupportedType, rv.Type().String(), "", "packets convert to struct types only")
	}
	err := packetToStruct(p, rv)
	return out, err
}

func packetToStruct(p *Packet, dst reflect.Value) error {
	for _, name := range p.FieldNames() {
		fv := dst.FieldByName(name)
		if !fv.IsValid() || !fv.CanSet() {
			continue
		}
		if err := fromNative(fv, p.values[name]); err != nil {
			return &FieldError{Err: err, Field: name}
		}
	}
	return nil
}

// fromNative stores a native value into dst.
func fromNative(dst reflect.Value, v any) error {
	if isNull(v) {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	if dst.Kind() == reflect.Pointer {
		elem := reflect.New(dst.Type().Elem())
		if err := fromNative(elem.Elem(), v); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}
	src := reflect.ValueOf(v)
	if src.Type().AssignableTo(dst.Type()) && dst.Kind() != reflect.Interface {
		dst.Set(reflect.ValueOf(deepCopy(v)))
		return nil
	}

	mismatch := func() error {
		return newValidationError("struct", v, "cannot store %T in %s", v, dst.Type())
	}
	switch dst.Kind() {
	case reflect.Interface:
		if !src.Type().AssignableTo(dst.Type()) {
			return mismatch()
		}
		dst.Set(reflect.ValueOf(deepCopy(v)))
		return nil
	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return mismatch()
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := nativeInt(v)
		if !ok || dst.OverflowInt(n) {
			return mismatch()
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := nativeUint(v)
		if !ok || dst.OverflowUint(n) {
			return mismatch()
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, ok := numeric(v)
		if !ok {
			return mismatch()
		}
		dst.SetFloat(f)
	case reflect.String:
		s, ok := v.(string)
		if !ok {
			return mismatch()
		}
		dst.SetString(s)
	case reflect.Slice:
		list, ok := asList(v)
		if !ok {
			return mismatch()
		}
		out := reflect.MakeSlice(dst.Type(), len(list), len(list))
		for i, e := range list {
			if err := fromNative(out.Index(i), e); err != nil {
				return err
			}
		}
		dst.Set(out)
	case reflect.Array:
		list, ok := asList(v)
		if !ok || len(list) != dst.Len() {
			return mismatch()
		}
		for i, e := range list {
			if err := fromNative(dst.Index(i), e); err != nil {
				return err
			}
		}
	case reflect.Map:
		m, ok := asNativeMap(v)
		if !ok {
			return mismatch()
		}
		out := reflect.MakeMapWithSize(dst.Type(), len(m))
		for k, e := range m {
			key := reflect.New(dst.Type().Key()).Elem()
			if err := fromNative(key, k); err != nil {
				return err
			}
			val := reflect.New(dst.Type().Elem()).Elem()
			if err := fromNative(val, e); err != nil {
				return err
			}
			out.SetMapIndex(key, val)
		}
		dst.Set(out)
	case reflect.Struct:
		sub, ok := v.(*Packet)
		if !ok {
			return mismatch()
		}
		return packetToStruct(sub, dst)
	default:
		return mismatch()
	}
	return nil
}
