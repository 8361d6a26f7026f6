// Package compress holds the payload codecs for stored script
// definitions. Each stored row carries a Kind tag next to its blob so
// old rows stay readable after the default codec changes.
package compress

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

type Kind = int8

const (
	KindNone   Kind = 0
	KindGzip   Kind = 1
	KindZstd   Kind = 2
	KindBrotli Kind = 3
)

var KindNames = map[string]Kind{
	"":     KindNone,
	"none": KindNone,
	"gzip": KindGzip,
	"zstd": KindZstd,
	"br":   KindBrotli,
}

// ParseKind maps a codec name, as accepted on the command line, to its
// stored tag.
func ParseKind(name string) (Kind, error) {
	kind, ok := KindNames[name]
	if !ok {
		return KindNone, fmt.Errorf("%s compression not supported", name)
	}
	return kind, nil
}

func KindName(kind Kind) string {
	switch kind {
	case KindGzip:
		return "gzip"
	case KindZstd:
		return "zstd"
	case KindBrotli:
		return "br"
	default:
		return "none"
	}
}

var (
	gzipWriterPool = sync.Pool{
		New: func() interface{} {
			return gzip.NewWriter(io.Discard)
		},
	}
	brotliWriterPool = sync.Pool{
		New: func() interface{} {
			return brotli.NewWriter(io.Discard)
		},
	}
)

var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Compress encodes data with the given kind. KindNone returns the
// input unchanged.
func Compress(data []byte, kind Kind) ([]byte, error) {
	var buf bytes.Buffer
	switch kind {
	case KindNone:
		return data, nil
	case KindGzip:
		z := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(z)

		z.Reset(&buf)
		if _, err := z.Write(data); err != nil {
			return nil, err
		}
		if err := z.Close(); err != nil {
			return nil, err
		}
	case KindZstd:
		return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data))), nil
	case KindBrotli:
		w := brotliWriterPool.Get().(*brotli.Writer)
		defer brotliWriterPool.Put(w)

		w.Reset(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported compression kind: %v", kind)
	}
	return buf.Bytes(), nil
}

func Decompress(data []byte, kind Kind) ([]byte, error) {
	switch kind {
	case KindNone:
		return data, nil
	case KindGzip:
		z, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = z.Close() }()
		return io.ReadAll(z)
	case KindZstd:
		return zstdDecoder.DecodeAll(data, nil)
	case KindBrotli:
		return io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	default:
		return nil, fmt.Errorf("unsupported compression kind: %v", kind)
	}
}
