package packets

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCompressors_RoundTrip(t *testing.T) {
	data := []byte(strings.Repeat("packet payload ", 64))

	for _, c := range []Compressor{Zlib(), Gzip(), Zstd(), Snappy()} {
		t.Run(c.Name(), func(t *testing.T) {
			packed, err := c.Compress(data)
			if err != nil {
				t.Fatalf("Compress() error: %v", err)
			}
			if len(packed) >= len(data) {
				t.Errorf("Compress() = %d bytes, want fewer than %d", len(packed), len(data))
			}
			got, err := c.Decompress(packed)
			if err != nil {
				t.Fatalf("Decompress() error: %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Error("round trip mismatch")
			}
		})
	}
}

func TestCompressors_Empty(t *testing.T) {
	for _, c := range []Compressor{Zlib(), Gzip(), Snappy()} {
		packed, err := c.Compress(nil)
		if err != nil {
			t.Fatalf("%s Compress(nil) error: %v", c.Name(), err)
		}
		got, err := c.Decompress(packed)
		if err != nil {
			t.Fatalf("%s Decompress() error: %v", c.Name(), err)
		}
		if len(got) != 0 {
			t.Errorf("%s Decompress() = %q, want empty", c.Name(), got)
		}
	}
}

func TestCompressors_Corrupt(t *testing.T) {
	for _, c := range []Compressor{Zlib(), Gzip(), Zstd(), Snappy()} {
		t.Run(c.Name(), func(t *testing.T) {
			_, err := c.Decompress([]byte{0x0a, 0xff, 0x00})
			if !errors.Is(err, ErrDecompress) {
				t.Errorf("Decompress() error = %v, want ErrDecompress", err)
			}
		})
	}
}

func TestCompressors_Levels(t *testing.T) {
	data := []byte(strings.Repeat("level ", 100))
	for _, c := range []Compressor{&ZlibCompressor{Level: 9}, &GzipCompressor{Level: 1}} {
		packed, err := c.Compress(data)
		if err != nil {
			t.Fatalf("%s Compress() error: %v", c.Name(), err)
		}
		got, err := c.Decompress(packed)
		if err != nil || !bytes.Equal(got, data) {
			t.Errorf("%s round trip failed: %v", c.Name(), err)
		}
	}
	if _, err := (&ZlibCompressor{Level: 42}).Compress(data); !errors.Is(err, ErrCompress) {
		t.Errorf("invalid level error = %v, want ErrCompress", err)
	}
}
