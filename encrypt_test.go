package packets

import (
	"bytes"
	"errors"
	"testing"
)

var testKey = []byte("32-byte-key-for-aes-256-encrypt!")

func TestEncryptors_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		new  func([]byte) (Encryptor, error)
	}{
		{"aes", AES},
		{"chacha20", ChaCha20},
		{"xchacha20", XChaCha20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := tt.new(testKey)
			if err != nil {
				t.Fatalf("constructor error: %v", err)
			}

			plaintext := []byte("hello, world!")
			c1, err := enc.Encrypt(plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}
			c2, err := enc.Encrypt(plaintext)
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}
			if bytes.Equal(c1, plaintext) {
				t.Error("ciphertext should differ from plaintext")
			}
			if bytes.Equal(c1, c2) {
				t.Error("same plaintext should produce different ciphertext (random nonce)")
			}

			decrypted, err := enc.Decrypt(c1)
			if err != nil {
				t.Fatalf("Decrypt() error: %v", err)
			}
			if !bytes.Equal(plaintext, decrypted) {
				t.Errorf("round-trip failed: got %q, want %q", decrypted, plaintext)
			}
		})
	}
}

func TestEncryptors_InvalidKeySize(t *testing.T) {
	for name, fn := range map[string]func([]byte) (Encryptor, error){
		"aes":       AES,
		"chacha20":  ChaCha20,
		"xchacha20": XChaCha20,
	} {
		if _, err := fn([]byte("short")); !errors.Is(err, ErrInvalidKeySize) {
			t.Errorf("%s: error = %v, want ErrInvalidKeySize", name, err)
		}
	}
}

func TestAES_KeySizes(t *testing.T) {
	for _, n := range []int{16, 24, 32} {
		if _, err := AES(bytes.Repeat([]byte{1}, n)); err != nil {
			t.Errorf("AES(%d-byte key) error: %v", n, err)
		}
	}
}

func TestDecrypt_Failures(t *testing.T) {
	enc, _ := AES(testKey)

	if _, err := enc.Decrypt([]byte("x")); !errors.Is(err, ErrCiphertextShort) {
		t.Errorf("short ciphertext error = %v, want ErrCiphertextShort", err)
	}

	ciphertext, _ := enc.Encrypt([]byte("payload"))
	ciphertext[len(ciphertext)-1] ^= 0xFF
	if _, err := enc.Decrypt(ciphertext); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("tampered ciphertext error = %v, want ErrDecryptionFailed", err)
	}

	other, _ := AES(bytes.Repeat([]byte{7}, 32))
	sealed, _ := enc.Encrypt([]byte("payload"))
	if _, err := other.Decrypt(sealed); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("wrong key error = %v, want ErrDecryptionFailed", err)
	}
}
