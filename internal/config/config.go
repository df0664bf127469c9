// Package config loads the vecbench configuration.
package config

import (
	"github.com/hupe1980/vecpress/bench"
	"github.com/hupe1980/vecpress/codec"
	"github.com/hupe1980/vecpress/dataset"
)

// Config represents the complete vecbench configuration.
// It can be loaded from vecbench.yaml with VECBENCH_* environment overrides.
type Config struct {
	Datasets  DatasetsConfig  `yaml:"datasets" mapstructure:"datasets"`
	Methods   []string        `yaml:"methods" mapstructure:"methods"`     // empty means every method
	Backend   string          `yaml:"backend" mapstructure:"backend"`     // gzip, zstd or lz4
	Attractor AttractorConfig `yaml:"attractor" mapstructure:"attractor"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Archive   ArchiveConfig   `yaml:"archive" mapstructure:"archive"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DatasetsConfig selects and sizes the synthetic datasets.
type DatasetsConfig struct {
	N     int      `yaml:"n" mapstructure:"n"`         // vectors per dataset
	Dim   int      `yaml:"dim" mapstructure:"dim"`     // vector dimension
	Seed  int64    `yaml:"seed" mapstructure:"seed"`   // generator seed
	Names []string `yaml:"names" mapstructure:"names"` // empty means the standard four
}

// AttractorConfig configures the attractor method.
type AttractorConfig struct {
	Components int `yaml:"components" mapstructure:"components"` // retained dimensions, 1..50
}

// OutputConfig configures report outputs besides the terminal tables.
type OutputConfig struct {
	JSON            string `yaml:"json" mapstructure:"json"`                         // path of the JSON report
	MetricsTextfile string `yaml:"metrics_textfile" mapstructure:"metrics_textfile"` // path of the Prometheus textfile
}

// ArchiveConfig configures where reports and blobs are archived.
type ArchiveConfig struct {
	Kind      string `yaml:"kind" mapstructure:"kind"`             // none, local or minio
	Path      string `yaml:"path" mapstructure:"path"`             // local directory
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`     // minio host:port
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`         // minio bucket
	Prefix    string `yaml:"prefix" mapstructure:"prefix"`         // key prefix
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	Secure    bool   `yaml:"secure" mapstructure:"secure"`         // use TLS
	Blobs     bool   `yaml:"blobs" mapstructure:"blobs"`           // archive encoded blobs too
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// Archive kinds.
const (
	ArchiveNone  = "none"
	ArchiveLocal = "local"
	ArchiveMinio = "minio"
)

// Default returns a configuration reproducing the reference experiment.
func Default() *Config {
	return &Config{
		Datasets: DatasetsConfig{
			N:     bench.DefaultN,
			Dim:   bench.DefaultDim,
			Seed:  bench.DefaultSeed,
			Names: standardNames(),
		},
		Methods: codec.Names(),
		Backend: "gzip",
		Attractor: AttractorConfig{
			Components: codec.DefaultComponents,
		},
		Archive: ArchiveConfig{
			Kind:   ArchiveNone,
			Path:   "vecbench-archive",
			Bucket: "vecbench",
			Prefix: "runs",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func standardNames() []string {
	var names []string
	for _, s := range dataset.Standard() {
		names = append(names, s.Name)
	}
	return names
}
