// Package bson provides a BSON codec implementation.
package bson

import (
	"github.com/zoobzio/packets"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// valueKey holds top-level values that are not documents.
const valueKey = "__value__"

// bsonCodec implements packets.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() packets.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON. BSON documents are always maps, so raw trees
// that are not maps are stored under a reserved key.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	switch v.(type) {
	case map[string]any, packets.Values, bson.M, bson.D:
		return bson.Marshal(v)
	case []any, string, bool, int64, float64, nil:
		return bson.Marshal(bson.D{{Key: valueKey, Value: v}})
	}
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v. Decoding into an interface yields
// map[string]any and []any containers.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	target, untyped := v.(*any)
	if !untyped {
		return bson.Unmarshal(data, v)
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	if wrapped, ok := doc[valueKey]; ok && len(doc) == 1 {
		*target = plain(wrapped)
		return nil
	}
	*target = plain(doc)
	return nil
}

// plain converts driver types into plain Go values.
func plain(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plain(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Binary:
		return t.Data
	case int32:
		return int64(t)
	}
	return v
}
