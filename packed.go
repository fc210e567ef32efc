package packets

import (
	"encoding/base64"
	"fmt"
)

// packedProcessor stores the raw form of elem as an encoded, transformed
// byte string. Raws are base64 strings; []byte is accepted on load.
type packedProcessor struct {
	name    string
	elem    Processor
	codec   Codec
	pack    func([]byte) ([]byte, error)
	unpack  func([]byte) ([]byte, error)
	err     error
	missing string
}

func (p *packedProcessor) CheckDefinition() error {
	if p.err != nil {
		return p.err
	}
	if p.codec == nil {
		return fmt.Errorf("%w: %s without codec", ErrInvalidProcessor, p.name)
	}
	if p.pack == nil || p.unpack == nil {
		return fmt.Errorf("%w: %s without %s", ErrInvalidProcessor, p.name, p.missing)
	}
	return checkDefinition(p.elem)
}

// ElementType returns the packed element processor.
func (p *packedProcessor) ElementType() Processor { return p.elem }

func (p *packedProcessor) CheckNative(v any) error { return p.elem.CheckNative(v) }

func (p *packedProcessor) CheckRaw(raw any) error {
	switch raw.(type) {
	case string, []byte:
		return nil
	}
	return newValidationError(p.name, raw, "expected packed bytes, got %T", raw)
}

func (p *packedProcessor) RawToNative(raw any, strict bool) (any, error) {
	data, err := rawBytes(raw)
	if err != nil {
		return nil, newValidationError(p.name, raw, "%v", err)
	}
	plain, err := p.unpack(data)
	if err != nil {
		return nil, err
	}
	inner, err := Decode(p.codec, plain)
	if err != nil {
		return nil, err
	}
	return elementToNative(p.elem, inner, strict)
}

func (p *packedProcessor) NativeToRaw(v any) (any, error) {
	inner, err := p.elem.NativeToRaw(v)
	if err != nil {
		return nil, err
	}
	data, err := Encode(p.codec, inner)
	if err != nil {
		return nil, err
	}
	packed, err := p.pack(data)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.EncodeToString(packed), nil
}

func (p *packedProcessor) ZeroValue() any        { return p.elem.ZeroValue() }
func (p *packedProcessor) HasMutableValue() bool { return p.elem.HasMutableValue() }

// ZipPackedProcessor stores a value as compressed codec output.
type ZipPackedProcessor struct {
	packedProcessor
}

// ZipPacked returns a processor that encodes elem values with codec and
// compresses the result. A nil compressor means zlib.
func ZipPacked(elem any, codec Codec, compressor Compressor) *ZipPackedProcessor {
	if compressor == nil {
		compressor = Zlib()
	}
	p := &ZipPackedProcessor{packedProcessor{
		name:   "ZipPacked",
		codec:  codec,
		pack:   compressor.Compress,
		unpack: compressor.Decompress,
	}}
	p.elem = mustElement(elem, &p.err)
	return p
}

// SealedProcessor stores a value as encrypted codec output.
type SealedProcessor struct {
	packedProcessor
}

// Sealed returns a processor that encodes elem values with codec and
// encrypts the result with enc.
func Sealed(elem any, codec Codec, enc Encryptor) *SealedProcessor {
	p := &SealedProcessor{packedProcessor{
		name:    "Sealed",
		codec:   codec,
		missing: "encryptor",
	}}
	if enc != nil {
		p.pack = enc.Encrypt
		p.unpack = enc.Decrypt
	}
	p.elem = mustElement(elem, &p.err)
	return p
}
