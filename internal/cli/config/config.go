package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conduit-lang/ringgen/internal/compiler/driver"
)

// Config represents the ringgen configuration
type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Watch     WatchConfig     `mapstructure:"watch"`
}

// OutputConfig controls generated file naming
type OutputConfig struct {
	Suffix   string `mapstructure:"suffix"`
	BuildTag string `mapstructure:"build_tag"`
}

// GeneratorConfig controls the generated code
type GeneratorConfig struct {
	Receiver  string `mapstructure:"receiver"`
	Directive string `mapstructure:"directive"`
}

// WatchConfig controls watch mode
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Load loads the configuration from the nearest directory above the working
// directory holding a go.mod or ringgen config file. Without one, defaults and
// environment overrides apply.
func Load() (*Config, error) {
	root, err := FindModuleRoot(".")
	if err != nil {
		root = "."
	}
	return LoadFrom(root)
}

// LoadFrom loads the configuration from dir. Environment variables prefixed
// with RINGGEN_ override file values (RINGGEN_OUTPUT_SUFFIX for output.suffix).
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	defaults := driver.DefaultOptions()
	v.SetDefault("output.suffix", defaults.Suffix)
	v.SetDefault("output.build_tag", defaults.BuildTag)
	v.SetDefault("generator.receiver", "")
	v.SetDefault("generator.directive", defaults.Directive)
	v.SetDefault("watch.debounce", "100ms")

	v.SetConfigName("ringgen")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("RINGGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DriverOptions converts the configuration into pipeline options
func (c *Config) DriverOptions() driver.Options {
	return driver.Options{
		Directive: c.Generator.Directive,
		BuildTag:  c.Output.BuildTag,
		Suffix:    c.Output.Suffix,
		Receiver:  c.Generator.Receiver,
	}
}

// FindModuleRoot walks up from dir to the nearest directory holding a go.mod
// or a ringgen config file.
func FindModuleRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{"ringgen.yml", "ringgen.yaml", "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod or ringgen.yml found above %s", dir)
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if !strings.HasSuffix(cfg.Output.Suffix, ".go") {
		return fmt.Errorf("output.suffix must end in .go, got: %q", cfg.Output.Suffix)
	}
	if cfg.Output.Suffix == ".go" {
		return fmt.Errorf("output.suffix must not be just .go")
	}
	if strings.TrimSpace(cfg.Output.BuildTag) == "" {
		return fmt.Errorf("output.build_tag must not be empty")
	}
	if strings.ContainsAny(cfg.Output.BuildTag, " \t!&|()") {
		return fmt.Errorf("output.build_tag must be a single tag, got: %q", cfg.Output.BuildTag)
	}
	if strings.TrimSpace(cfg.Generator.Directive) == "" || strings.HasPrefix(cfg.Generator.Directive, "//") {
		return fmt.Errorf("generator.directive must be a non-empty marker without the leading //, got: %q", cfg.Generator.Directive)
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got: %s", cfg.Watch.Debounce)
	}
	return nil
}
