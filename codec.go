package packets

import (
	"context"
	"fmt"
	"time"
)

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// Loads decodes data with codec and loads the resulting raw tree.
func (s *Schema) Loads(ctx context.Context, codec Codec, data []byte, opts ...LoadOption) (*Packet, error) {
	start := time.Now()
	p, err := s.loads(codec, data, opts)
	emitDecodeComplete(ctx, codec.ContentType(), s, len(data), time.Since(start), err)
	return p, err
}

func (s *Schema) loads(codec Codec, data []byte, opts []LoadOption) (*Packet, error) {
	raw, err := Decode(codec, data)
	if err != nil {
		return nil, err
	}
	return s.Load(raw, opts...)
}

// Dumps dumps the packet and encodes the raw tree with codec.
func (p *Packet) Dumps(ctx context.Context, codec Codec) ([]byte, error) {
	start := time.Now()
	data, err := p.dumps(codec)
	emitEncodeComplete(ctx, codec.ContentType(), p.schema, len(data), time.Since(start), err)
	return data, err
}

func (p *Packet) dumps(codec Codec) ([]byte, error) {
	raw, err := p.Dump()
	if err != nil {
		return nil, err
	}
	return Encode(codec, raw)
}

// LoadZ decompresses data, then behaves like Loads. A nil compressor means zlib.
func (s *Schema) LoadZ(ctx context.Context, codec Codec, compressor Compressor, data []byte, opts ...LoadOption) (*Packet, error) {
	if compressor == nil {
		compressor = Zlib()
	}
	start := time.Now()
	var p *Packet
	plain, err := compressor.Decompress(data)
	if err == nil {
		p, err = s.loads(codec, plain, opts)
	}
	emitDecodeComplete(ctx, codec.ContentType(), s, len(data), time.Since(start), err)
	return p, err
}

// DumpZ behaves like Dumps, then compresses the result. A nil compressor
// means zlib.
func (p *Packet) DumpZ(ctx context.Context, codec Codec, compressor Compressor) ([]byte, error) {
	if compressor == nil {
		compressor = Zlib()
	}
	start := time.Now()
	var packed []byte
	data, err := p.dumps(codec)
	if err == nil {
		packed, err = compressor.Compress(data)
	}
	emitEncodeComplete(ctx, codec.ContentType(), p.schema, len(packed), time.Since(start), err)
	return packed, err
}

// Encode marshals a raw tree with codec.
func Encode(codec Codec, raw any) ([]byte, error) {
	data, err := codec.Marshal(raw)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return data, nil
}

// Decode unmarshals data with codec into a raw tree of map[string]any,
// []any and primitives.
func Decode(codec Codec, data []byte) (any, error) {
	var raw any
	if err := codec.Unmarshal(data, &raw); err != nil {
		return nil, newCodecError(ErrUnmarshal, err)
	}
	return Normalize(raw), nil
}

// Normalize rewrites decoded containers into map[string]any and []any.
// Codecs produce their own container types (map[any]any from YAML,
// documents from BSON); processors only see the normalized form.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = Normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = Normalize(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = Normalize(t[i])
		}
		return t
	}
	if m, ok := asRawMap(v); ok {
		return Normalize(m)
	}
	if l, ok := asList(v); ok {
		return Normalize(l)
	}
	return v
}
