package scriptvault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New([]byte("too short"))
	require.ErrorIs(t, err, ErrInvalidKeySize)
}

func TestSealOpenRoundTrip(t *testing.T) {
	vault, err := New(testKey())
	require.NoError(t, err)

	payload := []byte(`{"name":"ending","nodes":[{"nodeType":"ShowMessage"}]}`)

	for _, encType := range []EncryptionType{EncryptionXChaCha20Poly1305, EncryptionAES256GCM} {
		sealed, err := vault.Seal(payload, encType)
		require.NoError(t, err)
		assert.NotEqual(t, payload, sealed)

		opened, err := vault.Open(sealed, encType)
		require.NoError(t, err)
		assert.Equal(t, payload, opened)
	}
}

func TestSealedPayloadsDiffer(t *testing.T) {
	// Fresh nonce per Seal, so two seals of one payload never match.
	vault, err := New(testKey())
	require.NoError(t, err)

	a, err := vault.Seal([]byte("the culprit is the gardener"), EncryptionXChaCha20Poly1305)
	require.NoError(t, err)
	b, err := vault.Seal([]byte("the culprit is the gardener"), EncryptionXChaCha20Poly1305)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpenWithWrongKeyFails(t *testing.T) {
	vault, err := New(testKey())
	require.NoError(t, err)

	sealed, err := vault.Seal([]byte("secret ending"), EncryptionXChaCha20Poly1305)
	require.NoError(t, err)

	other := NewDefault()
	_, err = other.Open(sealed, EncryptionXChaCha20Poly1305)
	require.Error(t, err)
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	vault, err := New(testKey())
	require.NoError(t, err)

	sealed, err := vault.Seal([]byte("secret ending"), EncryptionAES256GCM)
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = vault.Open(sealed, EncryptionAES256GCM)
	require.Error(t, err)
}

func TestOpenRejectsShortCiphertext(t *testing.T) {
	vault := NewDefault()
	_, err := vault.Open([]byte{1, 2, 3}, EncryptionXChaCha20Poly1305)
	require.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestNonePassesThrough(t *testing.T) {
	vault := NewDefault()

	payload := []byte("plain payload")
	sealed, err := vault.Seal(payload, EncryptionNone)
	require.NoError(t, err)
	assert.Equal(t, payload, sealed)

	opened, err := vault.Open(sealed, EncryptionNone)
	require.NoError(t, err)
	assert.Equal(t, payload, opened)
}

func TestUnsupportedTypeErrors(t *testing.T) {
	vault := NewDefault()

	_, err := vault.Seal([]byte("x"), EncryptionType(9))
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = vault.Open([]byte("x"), EncryptionType(9))
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestNewFromHex(t *testing.T) {
	vault, err := NewFromHex("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	require.NoError(t, err)

	sealed, err := vault.Seal([]byte("hello"), EncryptionXChaCha20Poly1305)
	require.NoError(t, err)

	same, err := New(testKey())
	require.NoError(t, err)
	opened, err := same.Open(sealed, EncryptionXChaCha20Poly1305)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), opened)

	_, err = NewFromHex("zz")
	require.Error(t, err)

	_, err = NewFromHex("abcd")
	require.ErrorIs(t, err, ErrInvalidKeySize)
}
