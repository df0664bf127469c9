package backend

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipBackend compresses with deflate at gzip.BestCompression.
type GzipBackend struct{}

// Name returns "gzip".
func (GzipBackend) Name() string { return "gzip" }

// Compress implements Backend.
func (GzipBackend) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress implements Backend.
func (GzipBackend) Decompress(src []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
