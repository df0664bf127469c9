package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/hupe1980/vecpress/backend"
	"github.com/hupe1980/vecpress/codec"
	"github.com/hupe1980/vecpress/dataset"
	"github.com/hupe1980/vecpress/format"
)

var (
	// ErrInvalidSize indicates a non-positive or oversized dataset shape.
	ErrInvalidSize = errors.New("invalid dataset size")

	// ErrUnknownDataset indicates a dataset name that is not registered.
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrUnknownMethod indicates a method name that is not registered.
	ErrUnknownMethod = errors.New("unknown method")

	// ErrInvalidBackend indicates an unsupported payload backend.
	ErrInvalidBackend = errors.New("invalid backend")

	// ErrInvalidComponents indicates an attractor size outside 1..50.
	ErrInvalidComponents = errors.New("invalid attractor components")

	// ErrInvalidArchive indicates an incomplete archive configuration.
	ErrInvalidArchive = errors.New("invalid archive configuration")

	// ErrInvalidLog indicates an unsupported log level or format.
	ErrInvalidLog = errors.New("invalid log configuration")
)

// Validate checks that the configuration is valid and complete.
// All problems are reported together.
func Validate(cfg *Config) error {
	var errs []error

	d := cfg.Datasets
	if d.N < 1 || d.Dim < 1 || d.N*d.Dim > format.MaxElements {
		errs = append(errs, fmt.Errorf("%w: %dx%d", ErrInvalidSize, d.N, d.Dim))
	}
	for _, name := range d.Names {
		if !slices.Contains(dataset.Names(), name) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownDataset, name))
		}
	}

	for _, m := range cfg.Methods {
		if !slices.Contains(codec.Names(), m) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownMethod, m))
		}
	}

	if _, err := backend.ByName(cfg.Backend); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q, must be one of %s",
			ErrInvalidBackend, cfg.Backend, strings.Join(backend.Names(), ", ")))
	}

	if k := cfg.Attractor.Components; k < 1 || k > codec.MaxComponents {
		errs = append(errs, fmt.Errorf("%w: %d, must be 1..%d", ErrInvalidComponents, k, codec.MaxComponents))
	}

	if err := validateArchive(&cfg.Archive); err != nil {
		errs = append(errs, err)
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(cfg.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("%w: format must be 'text' or 'json', got '%s'", ErrInvalidLog, cfg.Log.Format))
	}

	return errors.Join(errs...)
}

func validateArchive(a *ArchiveConfig) error {
	switch strings.ToLower(a.Kind) {
	case "", ArchiveNone:
		return nil
	case ArchiveLocal:
		if a.Path == "" {
			return fmt.Errorf("%w: local archive needs a path", ErrInvalidArchive)
		}
	case ArchiveMinio:
		if a.Endpoint == "" || a.Bucket == "" {
			return fmt.Errorf("%w: minio archive needs endpoint and bucket", ErrInvalidArchive)
		}
	default:
		return fmt.Errorf("%w: kind must be none, local or minio, got '%s'", ErrInvalidArchive, a.Kind)
	}
	return nil
}

// ParseLevel maps a level name to slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: level %q", ErrInvalidLog, s)
	}
	return l, nil
}
