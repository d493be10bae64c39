// Package config holds the settings the core library consumes (spec §6):
// paths for schemas, the assembly kit, the dependencies cache, and the
// defaults applied to newly-created Packs. Persisted as YAML, matching
// internal/schema's own on-disk format, in place of the teacher's flat JSON
// manifest (internal/assets/manifest.go) since this config is hand-edited
// far more often than it is machine-written.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/archivekit/packforge/internal/pack"
)

// Config is the single settings struct every long-lived core consumer
// (CLI, GUI host process, batch tooling) loads once and passes down.
type Config struct {
	AssemblyKitPath         string `yaml:"assembly_kit_path,omitempty"`
	ConfigPath              string `yaml:"config_path"`
	SchemasPath             string `yaml:"schemas_path"`
	DependenciesCachePath   string `yaml:"dependencies_cache_path"`
	CompressionFormat       string `yaml:"compression_format"` // "none" | "lzma1" | "zstd"
	UseLazyLoading          bool   `yaml:"use_lazy_loading"`
	AllowEditingCaPackfiles bool   `yaml:"allow_editing_of_ca_packfiles"`
}

// Default returns the conservative defaults a fresh install starts with:
// lazy loading on, no compression, CA packfile editing disabled.
func Default() Config {
	return Config{
		ConfigPath:            ".",
		SchemasPath:           "schemas",
		DependenciesCachePath: "dependencies.db",
		CompressionFormat:     "none",
		UseLazyLoading:        true,
	}
}

// Load reads a Config from a YAML file, filling unset fields from Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %q: %w", path, err)
	}
	return nil
}

// PackCompressionFormat resolves the configured default compression format
// to the pack.CompressionFormat enum a new Pack is constructed with.
func (c Config) PackCompressionFormat() (pack.CompressionFormat, error) {
	switch c.CompressionFormat {
	case "", "none":
		return pack.CompressionNone, nil
	case "zstd":
		return pack.CompressionZstd, nil
	case "lzma1":
		return pack.CompressionLzma1, fmt.Errorf("config: lzma1 compression is not implemented by this build; falling back requires an explicit choice, refusing to silently downgrade")
	default:
		return pack.CompressionNone, fmt.Errorf("config: unknown compression_format %q", c.CompressionFormat)
	}
}
