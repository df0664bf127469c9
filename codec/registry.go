package codec

import "fmt"

// Stable codec names.
const (
	NameDelta      = "delta"
	NameDeltaRLE   = "delta-rle"
	NamePolarDelta = "polar-delta"
	NameDeltaANS   = "delta-ans"
	NameAttractor  = "attractor"
	NameDeltaInt8  = "delta-int8"
	NameGzip       = "gzip"
	NameZstd       = "zstd"
	NameLZ4        = "lz4"
	NameInt8       = "int8"
	NameSQ8        = "sq8"
)

// New returns the codec registered under name.
func New(name string, opts ...Option) (Codec, error) {
	switch name {
	case NameDelta:
		return NewDelta(opts...), nil
	case NameDeltaRLE:
		return NewDeltaRLE(opts...), nil
	case NamePolarDelta:
		return NewPolarDelta(opts...), nil
	case NameDeltaANS:
		return NewDeltaANS(), nil
	case NameAttractor:
		return NewAttractor(opts...), nil
	case NameDeltaInt8:
		return NewDeltaInt8(opts...), nil
	case NameGzip, NameZstd, NameLZ4:
		raw, err := NewRaw(name)
		if err != nil {
			return nil, err
		}
		return raw, nil
	case NameInt8:
		return NewInt8(opts...), nil
	case NameSQ8:
		return NewSQ8(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// Names lists every registered codec, baselines first.
func Names() []string {
	return []string{
		NameGzip, NameZstd, NameLZ4, NameInt8, NameSQ8,
		NameDelta, NameDeltaRLE, NamePolarDelta, NameDeltaANS, NameDeltaInt8, NameAttractor,
	}
}

// CoreNames lists the correlation-aware codecs.
func CoreNames() []string {
	return []string{NameDelta, NameDeltaRLE, NamePolarDelta, NameDeltaANS, NameAttractor}
}
