package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. VECBENCH_DATASETS_N.
const EnvPrefix = "VECBENCH"

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (VECBENCH_*)
// 2. Config file (path, or vecbench.yaml in dirs when path is empty)
// 3. Default values
func Load(path string, dirs ...string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("vecbench")
		v.SetConfigType("yaml")
		for _, d := range dirs {
			v.AddConfigPath(d)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., VECBENCH_ARCHIVE_KIND)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if path != "" || len(dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			// A missing file is acceptable when searching; an explicit path must exist.
			var notFound viper.ConfigFileNotFoundError
			if path != "" || !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("datasets.n", d.Datasets.N)
	v.SetDefault("datasets.dim", d.Datasets.Dim)
	v.SetDefault("datasets.seed", d.Datasets.Seed)
	v.SetDefault("datasets.names", d.Datasets.Names)

	v.SetDefault("methods", d.Methods)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("attractor.components", d.Attractor.Components)

	v.SetDefault("output.json", d.Output.JSON)
	v.SetDefault("output.metrics_textfile", d.Output.MetricsTextfile)

	v.SetDefault("archive.kind", d.Archive.Kind)
	v.SetDefault("archive.path", d.Archive.Path)
	v.SetDefault("archive.endpoint", d.Archive.Endpoint)
	v.SetDefault("archive.bucket", d.Archive.Bucket)
	v.SetDefault("archive.prefix", d.Archive.Prefix)
	v.SetDefault("archive.access_key", d.Archive.AccessKey)
	v.SetDefault("archive.secret_key", d.Archive.SecretKey)
	v.SetDefault("archive.secure", d.Archive.Secure)
	v.SetDefault("archive.blobs", d.Archive.Blobs)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
