package biometric

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// TemplateCipher encrypts template payloads at rest with
// XChaCha20-Poly1305 under the process-wide key from config. Rotating
// the key makes old ciphertexts undecryptable, which the store surfaces
// as a decryption failure rather than ignoring.
type TemplateCipher struct {
	key []byte
}

func NewTemplateCipher(key []byte) (*TemplateCipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("template cipher key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &TemplateCipher{key: k}, nil
}

// Encrypt prepends the random nonce to the ciphertext.
func (c *TemplateCipher) Encrypt(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *TemplateCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.NonceSize() {
		return nil, fmt.Errorf("ciphertext shorter than nonce")
	}

	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	return aead.Open(nil, nonce, sealed, nil)
}
