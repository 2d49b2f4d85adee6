package pagetree

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SourceConfig names one external, git-vendored template source.
type SourceConfig struct {
	URL  string `yaml:"url"`
	Path string `yaml:"path"`
	Ref  string `yaml:"ref"`
}

// Config is the shape of pagetree.yaml / .pagetree.yaml: the set of named
// vendor sources a tree's `@name/...` includes may address, plus the
// handful of loader knobs worth overriding per project.
type Config struct {
	Sources    map[string]SourceConfig `yaml:"sources"`
	VendorDir  string                  `yaml:"vendor_dir"`
	MaxNesting int                     `yaml:"max_nesting"`
	Extensions []string                `yaml:"extensions"`

	configDir string
}

// LoadConfig reads and parses a pagetree.yaml file, applying defaults for
// anything left unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.configDir = filepath.Dir(path)

	if cfg.VendorDir == "" {
		cfg.VendorDir = "./vendor"
	}
	if cfg.MaxNesting == 0 {
		cfg.MaxNesting = MaxNesting
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{"pagehtml", "pagetmpl", "html"}
	}
	return &cfg, nil
}

// FindConfig searches for pagetree.yaml (or .pagetree.yaml) starting at
// startDir and walking up through parent directories until one is found.
func FindConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range []string{"pagetree.yaml", ".pagetree.yaml"} {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("pagetree.yaml not found in %s or any parent directory", startDir)
		}
		dir = parent
	}
}

// ResolveVendorDir returns the absolute path of the configured vendor
// directory, resolved relative to the config file's own location.
func (c *Config) ResolveVendorDir() string {
	if filepath.IsAbs(c.VendorDir) {
		return c.VendorDir
	}
	return filepath.Join(c.configDir, c.VendorDir)
}

// sourceMounts builds the resolver-facing name -> root-relative-subdirectory
// table for every configured source, rooted beneath the vendor directory
// (itself expected to live under the loader's document root).
func (c *Config) sourceMounts(docRoot string) (map[string]string, error) {
	vendorAbs := c.ResolveVendorDir()
	rel, err := filepath.Rel(docRoot, vendorAbs)
	if err != nil {
		return nil, err
	}
	mounts := make(map[string]string, len(c.Sources))
	for name, src := range c.Sources {
		mounts[name] = filepath.ToSlash(filepath.Join(rel, src.URL, src.Path))
	}
	return mounts, nil
}

// WithConfig loads sources and loader overrides from cfg and wires them
// into the session: named `@source/...` addressing is mounted against the
// resolver, and cfg.MaxNesting replaces the session's nesting bound only
// when it is tighter (the package constant MaxNesting is a hard ceiling —
// see Session.maxNesting). cfg.Extensions is not used here.
func WithConfig(cfg *Config, docRoot string) Option {
	return func(s *Session) {
		mounts, err := cfg.sourceMounts(docRoot)
		if err == nil {
			s.resolver.SetSources(mounts)
		}
		if cfg.MaxNesting > 0 && cfg.MaxNesting < MaxNesting {
			s.maxNesting = cfg.MaxNesting
		}
	}
}
