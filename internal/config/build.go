package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// BuildConfigFileName is the conventional name of the build configuration file.
const BuildConfigFileName = "contractc.yaml"

// ProgramKind is the kind of compilation unit being checked.
type ProgramKind string

const (
	KindContract  ProgramKind = "contract"
	KindScript    ProgramKind = "script"
	KindPredicate ProgramKind = "predicate"
	KindLibrary   ProgramKind = "library"
)

// BuildConfig represents the contractc.yaml configuration consumed by the
// semantic analysis passes.
type BuildConfig struct {
	// Project is the project name, used in rendered diagnostics and as the
	// package name of exported ABI descriptors.
	Project string `yaml:"project"`

	// Kind is the program kind. Defaults to "contract".
	Kind ProgramKind `yaml:"kind,omitempty"`

	// Purity is the storage access granted to code that carries no storage
	// attribute: "pure", "read", "write" or "readwrite". Defaults to "pure".
	Purity string `yaml:"purity,omitempty"`

	// SelectorDB is the path of the SQLite selector registry. Selectors of
	// every ABI method are recorded there and collisions are reported.
	// Empty disables the registry; ":memory:" keeps it in memory.
	SelectorDB string `yaml:"selector_db,omitempty"`

	// Color controls ANSI colors in rendered diagnostics: auto, always, never.
	Color string `yaml:"color,omitempty"`

	// MaxErrors truncates the reported error list. Zero means unlimited.
	MaxErrors int `yaml:"max_errors,omitempty"`

	// WarningsAsErrors fails the unit when any warning is reported.
	WarningsAsErrors bool `yaml:"warnings_as_errors,omitempty"`
}

// DefaultBuildConfig returns the configuration used when no file is present.
func DefaultBuildConfig() *BuildConfig {
	return &BuildConfig{
		Kind:   KindContract,
		Purity: "pure",
		Color:  "auto",
	}
}

// LoadBuildConfig reads and validates a build configuration file.
func LoadBuildConfig(path string) (*BuildConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := ParseBuildConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseBuildConfig parses YAML data, fills defaults and validates the result.
func ParseBuildConfig(data []byte) (*BuildConfig, error) {
	cfg := DefaultBuildConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing build config: %w", err)
	}
	if cfg.Kind == "" {
		cfg.Kind = KindContract
	}
	if cfg.Purity == "" {
		cfg.Purity = "pure"
	}
	if cfg.Color == "" {
		cfg.Color = "auto"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *BuildConfig) Validate() error {
	var errs []string

	switch c.Kind {
	case KindContract, KindScript, KindPredicate, KindLibrary:
	default:
		errs = append(errs, fmt.Sprintf("unknown program kind %q", c.Kind))
	}

	switch c.Purity {
	case "pure", "read", "write", "readwrite":
	default:
		errs = append(errs, fmt.Sprintf("unknown purity %q (want pure, read, write or readwrite)", c.Purity))
	}

	switch c.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Sprintf("unknown color mode %q", c.Color))
	}

	if c.MaxErrors < 0 {
		errs = append(errs, "max_errors must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid build config: %s", strings.Join(errs, "; "))
	}
	return nil
}
