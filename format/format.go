package format

import (
	"errors"
	"fmt"
)

const (
	// HeaderSize is the size of the common (n, dim) header.
	HeaderSize = 8

	// MaxElements caps n*dim for a decoded sequence. Headers beyond it are
	// treated as malformed rather than trusted for allocation.
	MaxElements = 1 << 28
)

// ErrMalformedBlob matches every *MalformedBlobError via errors.Is.
var ErrMalformedBlob = errors.New("malformed blob")

// MalformedBlobError describes a structural violation found while decoding.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type MalformedBlobError struct {
	Section string // logical part of the blob being read
	Offset  int    // byte offset where the violation was detected
	Need    int    // bytes (or items) required
	Have    int    // bytes (or items) available
	cause   error
}

// Malformed builds a *MalformedBlobError.
func Malformed(section string, offset, need, have int, cause error) *MalformedBlobError {
	return &MalformedBlobError{Section: section, Offset: offset, Need: need, Have: have, cause: cause}
}

func (e *MalformedBlobError) Error() string {
	msg := fmt.Sprintf("malformed blob: %s at offset %d", e.Section, e.Offset)
	if e.Need != 0 || e.Have != 0 {
		msg += fmt.Sprintf(" (need %d, have %d)", e.Need, e.Have)
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *MalformedBlobError) Unwrap() error { return e.cause }

// Is reports whether target is ErrMalformedBlob.
func (e *MalformedBlobError) Is(target error) bool { return target == ErrMalformedBlob }

// Header is the (n, dim) prefix every blob starts with.
type Header struct {
	N   uint32
	Dim uint32
}

// Elements returns n*dim.
func (h Header) Elements() int {
	return int(h.N) * int(h.Dim)
}
