// Package testing provides fixtures and helpers for packets tests.
package testing

import (
	"log/slog"
	"testing"
	"time"

	"github.com/zoobzio/packets"
	"github.com/zoobzio/packets/bson"
	"github.com/zoobzio/packets/json"
	"github.com/zoobzio/packets/msgpack"
	"github.com/zoobzio/packets/yaml"
)

// TestKey returns a valid 32-byte AES key for testing.
func TestKey(tb testing.TB) []byte {
	tb.Helper()
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestEncryptor returns an AES encryptor configured for testing.
func TestEncryptor(tb testing.TB) packets.Encryptor {
	tb.Helper()
	enc, err := packets.AES(TestKey(tb))
	if err != nil {
		tb.Fatalf("AES() error: %v", err)
	}
	return enc
}

// Codecs returns every bundled codec keyed by name.
func Codecs() map[string]packets.Codec {
	return map[string]packets.Codec{
		"json":    json.New(),
		"yaml":    yaml.New(),
		"msgpack": msgpack.New(),
		"bson":    bson.New(),
	}
}

// Compressors returns every bundled compressor.
func Compressors() []packets.Compressor {
	return []packets.Compressor{
		packets.Zlib(),
		packets.Gzip(),
		packets.Zstd(),
		packets.Snappy(),
	}
}

// Flag names bit positions for the Event flags field.
type Flag uint8

const (
	FlagPinned   Flag = 0
	FlagArchived Flag = 1
	FlagShared   Flag = 5
)

// Fixture schemas. Event uses every processor family that survives any
// bundled codec.
var (
	AddressSchema = packets.MustDefine("Address",
		packets.Module("fixtures"),
		packets.Declare("street", packets.NewField(packets.String, packets.Required(true))),
		packets.Declare("zip", packets.NewField(packets.Int)),
		packets.Declare("lines", packets.NewField(packets.Array(packets.String), packets.Default([]any{}))),
	)

	EventSchema = packets.MustDefine("Event",
		packets.Module("fixtures"),
		packets.Bases(packets.PacketWithIDSchema),
		packets.Declare("seq", packets.NewField(packets.Int64, packets.Required(true))),
		packets.Declare("title", packets.NewField(packets.String, packets.Name("t"))),
		packets.Declare("ratio", packets.NewField(packets.Percent)),
		packets.Declare("active", packets.NewField(packets.Bool, packets.Default(true))),
		packets.Declare("level", packets.NewField(packets.LogLevel, packets.Default("info"))),
		packets.Declare("at", packets.NewField(packets.DateTime)),
		packets.Declare("day", packets.NewField(packets.StrDate)),
		packets.Declare("tags", packets.NewField(packets.Set(packets.String))),
		packets.Declare("scores", packets.NewField(packets.Hash(packets.Int, packets.Float))),
		packets.Declare("pair", packets.NewField(packets.Tuple(packets.Int, packets.String))),
		packets.Declare("flags", packets.NewField(packets.BitMask(FlagPinned, FlagArchived, FlagShared))),
		packets.Declare("blob", packets.NewField(packets.Bytes)),
		packets.Declare("home", packets.NewField(AddressSchema)),
		packets.Declare("history", packets.NewField(packets.Array(AddressSchema), packets.Default([]any{}))),
		packets.Declare("extra", packets.NewField(packets.Object)),
	)
)

// EventRaw returns a raw tree that loads into a fully populated Event.
func EventRaw() map[string]any {
	return map[string]any{
		"seq":    int64(42),
		"t":      "deploy",
		"ratio":  50.0,
		"active": false,
		"level":  "warn",
		"at":     "2024-03-05T10:20:30Z",
		"day":    "2024-03-05",
		"tags":   []any{"a", "b"},
		"scores": map[string]any{"1": 1.5, "2": 2.5},
		"pair":   []any{int64(7), "seven"},
		"flags":  int64(33),
		"blob":   "aGk=",
		"home":   map[string]any{"street": "Main", "zip": int64(12345), "lines": []any{"2nd floor"}},
		"history": []any{
			map[string]any{"street": "Old", "zip": int64(1)},
		},
		"extra": map[string]any{"source": "ci"},
	}
}

// NewEvent loads EventRaw into a packet.
func NewEvent(tb testing.TB) *packets.Packet {
	tb.Helper()
	p, err := EventSchema.Load(EventRaw())
	if err != nil {
		tb.Fatalf("Load() error: %v", err)
	}
	return p
}

// Profile is a struct fixture for FromStruct and ToStruct.
type Profile struct {
	ID      int64             `packet:"id,required"`
	Email   string            `packet:"mail"`
	Tags    []string          `packet:"tags"`
	Limits  map[string]int    `packet:"limits"`
	Level   slog.Level        `packet:"level"`
	Created time.Time         `packet:"created"`
	Home    *ProfileAddress   `packet:"home"`
	Labels  map[string]string `packet:"labels"`
	Note    string            `packet:"-"`
}

// ProfileAddress is nested inside Profile.
type ProfileAddress struct {
	Street string `packet:"street,required"`
	Zip    int32  `packet:"zip"`
}

// NewProfile returns a fully populated Profile.
func NewProfile() Profile {
	return Profile{
		ID:      7,
		Email:   "alice@example.com",
		Tags:    []string{"admin", "ops"},
		Limits:  map[string]int{"cpu": 4},
		Level:   slog.LevelWarn,
		Created: time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC),
		Home:    &ProfileAddress{Street: "Main", Zip: 12345},
		Labels:  map[string]string{"team": "core"},
	}
}
