// Package packets provides declarative, schema-driven serialization.
//
// A schema is declared once with Define and describes an ordered table of
// fields. Every field is bound to a Processor that converts between a native
// value held by a Packet and a raw value (a JSON-compatible tree of maps,
// lists and primitives) exchanged with the outside world.
//
// # Declaring Schemas
//
//	var Point = packets.MustDefine("Point",
//	    packets.Declare("x", packets.NewField(packets.Int32)),
//	    packets.Declare("y", packets.NewField(packets.Int32, packets.Default(0))),
//	)
//
//	var Shape = packets.MustDefine("Shape",
//	    packets.Declare("name", packets.NewField(packets.String, packets.Required(true))),
//	    packets.Declare("points", packets.NewField(packets.Array(Point))),
//	)
//
// A *Schema passed where a processor is expected is wrapped in SubPacket.
//
// # Inheritance
//
// Schemas inherit the fields of their bases in order. Redeclaring an
// inherited field requires Override(true); the overriding declaration keeps
// the inherited parameters it does not set itself:
//
//	var Circle = packets.MustDefine("Circle",
//	    packets.Bases(Shape),
//	    packets.Declare("name", packets.NewField(nil, packets.Default("circle"), packets.Override(true))),
//	    packets.Declare("radius", packets.NewField(packets.Float)),
//	)
//
// # Variants
//
// The base schema decides the wire form:
//
//   - PacketSchema: a map keyed by raw field names, null fields omitted
//   - ArrayPacketSchema: a positional list, one slot per field
//   - PacketWithIDSchema: a map form carrying a stable CRC-32 schema ID
//   - TablePacketSchema: a map form whose unknown keys become rows typed by
//     the schema's DefaultField
//
// # Packets
//
//	p, err := Shape.Load(map[string]any{"name": "box"})
//	p.SetAttr("name", "crate")
//	raw, err := p.Dump()
//
// Packets track modification, compare by value, resolve dotted paths
// ("points.0.x"), compute diffs consumable by DumpPartial and deep-copy
// themselves with Clone.
//
// # Codecs
//
// Bytes on the wire are produced by a Codec. Implementations live in the
// json, yaml, msgpack and bson sub-packages:
//
//	data, err := p.Dumps(ctx, json.New())
//	p, err = Shape.Loads(ctx, json.New(), data)
//
// DumpZ and LoadZ add a Compressor on top (zlib by default).
//
// # Structs
//
// SchemaFor derives a schema from a Go struct using `packet` tags, and
// FromStruct/ToStruct move values between structs and packets.
//
// # Observability
//
// Definition, load, update, clone, table reshaping and codec operations emit
// capitan signals (see signals.go).
package packets
