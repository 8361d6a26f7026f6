// Package scriptvault seals script payloads before they are stored or
// exported. Shipped adventures carry puzzle solutions and endings in
// their scripts; sealing the blobs keeps spoilers out of a casual
// strings dump, and packs distributed with a real key stay closed
// until the key is supplied.
package scriptvault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the required size for the master key (256-bit).
const KeySize = 32

var (
	ErrInvalidKeySize     = errors.New("scriptvault: key must be 32 bytes")
	ErrCiphertextTooShort = errors.New("scriptvault: ciphertext too short")
	ErrUnsupportedType    = errors.New("scriptvault: unsupported encryption type")
)

// defaultKey seals bundles that ship without a configured key. It only
// obfuscates; anyone with this source can open such a bundle.
var defaultKey = [KeySize]byte{}

// Vault seals and opens script payloads with a single master key.
type Vault struct {
	masterKey []byte
}

// NewDefault creates a Vault keyed with the static default. Good for
// keeping spoilers out of plain sight, not for protecting paid packs.
func NewDefault() *Vault {
	return &Vault{masterKey: defaultKey[:]}
}

// New creates a Vault with the given master key. The key must be
// exactly 32 bytes.
func New(masterKey []byte) (*Vault, error) {
	if len(masterKey) != KeySize {
		return nil, ErrInvalidKeySize
	}
	// Copy so a caller reusing its buffer cannot rotate the key under us.
	keyCopy := make([]byte, KeySize)
	copy(keyCopy, masterKey)
	return &Vault{masterKey: keyCopy}, nil
}

// NewFromHex creates a Vault from a hex-encoded key, the form keys
// take in environment variables and config files.
func NewFromHex(hexKey string) (*Vault, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("scriptvault: bad hex key: %w", err)
	}
	return New(key)
}

// Seal encrypts plaintext using the given encryption type. For
// EncryptionNone the plaintext is returned unchanged.
func (v *Vault) Seal(plaintext []byte, encType EncryptionType) ([]byte, error) {
	switch encType {
	case EncryptionNone:
		return plaintext, nil
	case EncryptionXChaCha20Poly1305:
		return v.sealXChaCha20(plaintext)
	case EncryptionAES256GCM:
		return v.sealAES256GCM(plaintext)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedType, encType)
	}
}

// Open decrypts ciphertext using the given encryption type. For
// EncryptionNone the ciphertext is returned unchanged.
func (v *Vault) Open(ciphertext []byte, encType EncryptionType) ([]byte, error) {
	switch encType {
	case EncryptionNone:
		return ciphertext, nil
	case EncryptionXChaCha20Poly1305:
		return v.openXChaCha20(ciphertext)
	case EncryptionAES256GCM:
		return v.openAES256GCM(ciphertext)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedType, encType)
	}
}

// sealXChaCha20 output format: [24-byte nonce][ciphertext+tag]
func (v *Vault) sealXChaCha20(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(v.masterKey)
	if err != nil {
		return nil, fmt.Errorf("scriptvault: failed to create chacha20 cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("scriptvault: failed to generate nonce: %w", err)
	}

	// Seal appends ciphertext to nonce
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (v *Vault) openXChaCha20(ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(v.masterKey)
	if err != nil {
		return nil, fmt.Errorf("scriptvault: failed to create chacha20 cipher: %w", err)
	}

	nonceSize := aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrCiphertextTooShort
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("scriptvault: decryption failed: %w", err)
	}
	return plaintext, nil
}

// sealAES256GCM output format: [12-byte nonce][ciphertext+tag]
func (v *Vault) sealAES256GCM(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(v.masterKey)
	if err != nil {
		return nil, fmt.Errorf("scriptvault: failed to create aes cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("scriptvault: failed to create gcm: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("scriptvault: failed to generate nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (v *Vault) openAES256GCM(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(v.masterKey)
	if err != nil {
		return nil, fmt.Errorf("scriptvault: failed to create aes cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("scriptvault: failed to create gcm: %w", err)
	}

	nonceSize := aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrCiphertextTooShort
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("scriptvault: decryption failed: %w", err)
	}
	return plaintext, nil
}
