package vecpress

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecpress/codec"
	"github.com/hupe1980/vecpress/format"
)

var (
	// ErrUnknownMethod is returned by New for a name no codec is registered under.
	ErrUnknownMethod = errors.New("unknown compression method")

	// ErrMalformedBlob matches every decode failure caused by a damaged blob.
	ErrMalformedBlob = format.ErrMalformedBlob

	// ErrInvalidDimension is returned when encoding vectors of dimension 0.
	ErrInvalidDimension = codec.ErrInvalidDimension
)

// MethodError annotates a codec failure with the method that produced it.
//
// The original underlying error can be accessed via errors.Unwrap.
type MethodError struct {
	Method string
	Op     string
	cause  error
}

func (e *MethodError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Op, e.cause)
}

func (e *MethodError) Unwrap() error { return e.cause }

func wrapError(method, op string, err error) error {
	if err == nil {
		return nil
	}
	return &MethodError{Method: method, Op: op, cause: err}
}
