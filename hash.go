package packets

import (
	"hash/crc32"
	"strings"
)

// packetID computes the stable schema identifier: CRC-32 (IEEE) of
// "<module>__<Base>" for every direct base followed by the schema name,
// joined with "__" and folded into the signed 32-bit range.
func packetID(s *Schema) int32 {
	parts := make([]string, 0, 2*len(s.bases)+1)
	for _, base := range s.bases {
		parts = append(parts, base.module, base.name)
	}
	parts = append(parts, s.name)
	return int32(crc32.ChecksumIEEE([]byte(strings.Join(parts, "__")))) // #nosec G115 -- intentional fold into signed range
}

// PacketID returns the identifier a schema with the given module, base
// qualified names and name would get. Bases are given as {module, name}
// pairs.
func PacketID(name string, bases ...[2]string) int32 {
	s := &Schema{name: name}
	for _, b := range bases {
		s.bases = append(s.bases, &Schema{module: b[0], name: b[1]})
	}
	return packetID(s)
}
