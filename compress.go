package packets

import (
	"bytes"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Compressor packs encoded packets for DumpZ/LoadZ and ZipPacked fields.
type Compressor interface {
	// Name identifies the algorithm.
	Name() string

	// Compress compresses data.
	Compress(data []byte) ([]byte, error)

	// Decompress restores data produced by Compress.
	Decompress(data []byte) ([]byte, error)
}

// Zlib returns a zlib compressor at the default level.
func Zlib() Compressor {
	return &ZlibCompressor{}
}

// ZlibCompressor implements Compressor with zlib framing.
type ZlibCompressor struct {
	// Level is the compression level. If 0, defaults to zlib.DefaultCompression.
	Level int
}

// Name returns "zlib".
func (z *ZlibCompressor) Name() string { return "zlib" }

// Compress compresses data using zlib.
func (z *ZlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	level := z.Level
	if level == 0 {
		level = zlib.DefaultCompression
	}
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, newCodecError(ErrCompress, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, newCodecError(ErrCompress, err)
	}
	if err := w.Close(); err != nil {
		return nil, newCodecError(ErrCompress, err)
	}
	return buf.Bytes(), nil
}

// Decompress decompresses zlib data.
func (z *ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, newCodecError(ErrDecompress, err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, newCodecError(ErrDecompress, err)
	}
	return out, nil
}

// Gzip returns a gzip compressor at the default level.
func Gzip() Compressor {
	return &GzipCompressor{}
}

// GzipCompressor implements Compressor with gzip framing.
type GzipCompressor struct {
	// Level is the compression level. If 0, defaults to gzip.DefaultCompression.
	Level int
}

// Name returns "gzip".
func (g *GzipCompressor) Name() string { return "gzip" }

// Compress compresses data using gzip.
func (g *GzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	level := g.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, newCodecError(ErrCompress, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, newCodecError(ErrCompress, err)
	}
	if err := w.Close(); err != nil {
		return nil, newCodecError(ErrCompress, err)
	}
	return buf.Bytes(), nil
}

// Decompress decompresses gzip data.
func (g *GzipCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, newCodecError(ErrDecompress, err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, newCodecError(ErrDecompress, err)
	}
	return out, nil
}

// Zstd returns a Zstandard compressor at the default level.
func Zstd() Compressor {
	return &ZstdCompressor{}
}

// ZstdCompressor implements Compressor using Zstandard.
type ZstdCompressor struct {
	// Level is the compression level. If 0, defaults to zstd.SpeedDefault.
	Level zstd.EncoderLevel
}

// Name returns "zstd".
func (z *ZstdCompressor) Name() string { return "zstd" }

// Compress compresses data using Zstandard.
func (z *ZstdCompressor) Compress(data []byte) ([]byte, error) {
	level := z.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, newCodecError(ErrCompress, err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// Decompress decompresses Zstandard data.
func (z *ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, newCodecError(ErrDecompress, err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, newCodecError(ErrDecompress, err)
	}
	return out, nil
}

// Snappy returns a Snappy block compressor.
func Snappy() Compressor {
	return &SnappyCompressor{}
}

// SnappyCompressor implements Compressor using Snappy block encoding.
type SnappyCompressor struct{}

// Name returns "snappy".
func (s *SnappyCompressor) Name() string { return "snappy" }

// Compress compresses data using Snappy.
func (s *SnappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

// Decompress decompresses Snappy data.
func (s *SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, newCodecError(ErrDecompress, err)
	}
	return out, nil
}
