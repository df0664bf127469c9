// Package backend provides the general-purpose byte compressors that codecs
// run their payloads through.
package backend

import (
	"errors"
	"fmt"
)

// Type identifies a backend on the wire and in configuration.
type Type uint8

const (
	// Gzip is deflate at maximum compression level.
	Gzip Type = iota + 1
	// Zstd is a Zstandard frame at the default (balanced) level.
	Zstd
	// LZ4 is an LZ4 block with a 4-byte uncompressed-size prefix.
	LZ4
)

// ErrUnknownBackend is returned for names that do not map to a backend.
var ErrUnknownBackend = errors.New("unknown compression backend")

// Backend is a reversible byte compressor.
// Implementations must be safe for concurrent use.
type Backend interface {
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
	Name() string
}

// String returns the stable name of t.
func (t Type) String() string {
	switch t {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("backend(%d)", uint8(t))
	}
}

// New returns the backend for t.
func New(t Type) (Backend, error) {
	switch t {
	case Gzip:
		return GzipBackend{}, nil
	case Zstd:
		return ZstdBackend{}, nil
	case LZ4:
		return LZ4Backend{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, t)
	}
}

// ByName returns a built-in backend by its stable name.
func ByName(name string) (Backend, error) {
	switch name {
	case "gzip":
		return GzipBackend{}, nil
	case "zstd":
		return ZstdBackend{}, nil
	case "lz4":
		return LZ4Backend{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Names lists the built-in backends.
func Names() []string {
	return []string{"gzip", "zstd", "lz4"}
}

// Default is the backend used when a codec is not configured otherwise.
var Default Backend = GzipBackend{}
