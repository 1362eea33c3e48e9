// Package config reads loader settings from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/stackb/starlark-autoload/pkg/autoload"
	"github.com/stackb/starlark-autoload/pkg/namespace"
	"github.com/stackb/starlark-autoload/pkg/procutil"
)

// Root is a root directory entry. An empty namespace binds the directory in
// the top namespace.
type Root struct {
	Dir       string `toml:"dir" yaml:"dir"`
	Namespace string `toml:"namespace" yaml:"namespace"`
}

// Config is the file form of the loader options.
type Config struct {
	Roots      []Root            `toml:"roots" yaml:"roots"`
	Ignore     []string          `toml:"ignore" yaml:"ignore"`
	Collapse   []string          `toml:"collapse" yaml:"collapse"`
	Inflection map[string]string `toml:"inflection" yaml:"inflection"`
	Preload    []string          `toml:"preload" yaml:"preload"`
	Eager      bool              `toml:"eager" yaml:"eager"`
	Tag        string            `toml:"tag" yaml:"tag"`
}

// Load reads the file at path; the format is chosen by extension. Relative
// paths in the file are resolved against the directory of the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("load config %s: unsupported format %q (want .toml, .yaml or .yml)", path, ext)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.resolve(filepath.Dir(abs))
	return &cfg, nil
}

func (c *Config) resolve(base string) {
	abs := func(path string) string {
		if path == "" || filepath.IsAbs(path) {
			return path
		}
		return filepath.Join(base, path)
	}
	for i := range c.Roots {
		c.Roots[i].Dir = abs(c.Roots[i].Dir)
	}
	for i := range c.Preload {
		c.Preload[i] = abs(c.Preload[i])
	}
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() {
	c.Eager = procutil.LookupBoolEnv(procutil.AUTOLOAD_EAGER, c.Eager)
	if tag, ok := procutil.LookupEnv(procutil.AUTOLOAD_TAG); ok && tag != "" {
		c.Tag = tag
	}
}

// Options converts the config into loader options. Roots that name the same
// namespace share one.
func (c *Config) Options() ([]autoload.Option, error) {
	if len(c.Roots) == 0 {
		return nil, fmt.Errorf("config: no roots")
	}

	var options []autoload.Option
	namespaces := make(map[string]*namespace.Namespace)
	for _, root := range c.Roots {
		if root.Dir == "" {
			return nil, fmt.Errorf("config: root without dir")
		}
		if root.Namespace == "" {
			options = append(options, autoload.WithRoot(root.Dir))
			continue
		}
		ns, ok := namespaces[root.Namespace]
		if !ok {
			ns = namespace.New(root.Namespace)
			namespaces[root.Namespace] = ns
		}
		options = append(options, autoload.WithNamespaceRoot(root.Dir, ns))
	}

	if len(c.Ignore) > 0 {
		options = append(options, autoload.WithIgnore(c.Ignore...))
	}
	if len(c.Collapse) > 0 {
		options = append(options, autoload.WithCollapse(c.Collapse...))
	}
	if len(c.Inflection) > 0 {
		options = append(options, autoload.WithInflection(c.Inflection))
	}
	if len(c.Preload) > 0 {
		options = append(options, autoload.WithPreload(c.Preload...))
	}
	if c.Tag != "" {
		options = append(options, autoload.WithTag(c.Tag))
	}
	options = append(options, autoload.WithEagerLoad(c.Eager))
	return options, nil
}
