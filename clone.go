package packets

import (
	"context"
	"time"
)

// Clone returns an independent deep copy of the packet.
//
// By default the packet is dumped and re-parsed, so the copy holds freshly
// decoded values and is not modified. Schemas tagged TagStructuralCopy are
// copied value by value instead, preserving the modification flag and any
// native values that do not survive a raw round trip. The loaded hook does
// not run for copies.
func (p *Packet) Clone() (*Packet, error) {
	start := time.Now()
	var c *Packet
	var err error
	if p.schema.HasTag(TagStructuralCopy) {
		c = newCopier().packet(p)
	} else {
		c, err = p.roundTrip()
	}
	emitCloneComplete(context.Background(), p.schema, time.Since(start), err)
	return c, err
}

// MustClone is like Clone but panics on error.
func (p *Packet) MustClone() *Packet {
	c, err := p.Clone()
	if err != nil {
		panic(err)
	}
	return c
}

func (p *Packet) roundTrip() (*Packet, error) {
	raw, err := p.Dump()
	if err != nil {
		return nil, err
	}
	parsed, err := p.schema.parse(p.layout, raw, true)
	if err != nil {
		return nil, err
	}
	return p.schema.construct(p.layout, parsed, true, false)
}
