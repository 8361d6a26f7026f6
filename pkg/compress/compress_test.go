package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRoundTrip(t *testing.T) {
	data := []byte("The torch gutters out. Something shuffles closer in the dark.")

	tests := []struct {
		name string
		kind Kind
	}{
		{"None", KindNone},
		{"Gzip", KindGzip},
		{"Zstd", KindZstd},
		{"Brotli", KindBrotli},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed, err := Compress(data, tt.kind)
			require.NoError(t, err)
			assert.NotEmpty(t, compressed)

			decompressed, err := Decompress(compressed, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, data, decompressed)
		})
	}
}

func TestCompressShrinksScriptPayloads(t *testing.T) {
	// Serialized graphs repeat node ids and property names heavily.
	payload := bytes.Repeat([]byte(`{"nodeType":"ShowMessage","properties":{"Text":"hello"}}`), 64)

	for _, kind := range []Kind{KindGzip, KindZstd, KindBrotli} {
		compressed, err := Compress(payload, kind)
		require.NoError(t, err)
		assert.Less(t, len(compressed), len(payload), KindName(kind))
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"", KindNone},
		{"none", KindNone},
		{"gzip", KindGzip},
		{"zstd", KindZstd},
		{"br", KindBrotli},
	}

	for _, tt := range tests {
		kind, err := ParseKind(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.kind, kind)
	}

	_, err := ParseKind("snappy")
	require.Error(t, err)
}

func TestUnknownKindErrors(t *testing.T) {
	_, err := Compress([]byte("x"), Kind(9))
	require.Error(t, err)

	_, err = Decompress([]byte("x"), Kind(9))
	require.Error(t, err)
}

func TestKindNameRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindNone, KindGzip, KindZstd, KindBrotli} {
		parsed, err := ParseKind(KindName(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
}
