package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "FLOWEDIT_"

// Load reads configuration. path may be empty, in which case only defaults
// and the environment apply.
//
// Environment variables are matched against the known keys so underscores
// inside a key survive:
//
//	FLOWEDIT_STORE_BACKEND        -> store.backend
//	FLOWEDIT_SERVER_READ_TIMEOUT  -> server.read_timeout
//	FLOWEDIT_RENDER_CELL_WIDTH    -> render.cell_width
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, val := range defaults() {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	envLookup := buildEnvLookup(k.Keys())
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			if koanfKey, ok := envLookup[key]; ok {
				return koanfKey, value
			}
			return strings.ReplaceAll(key, "_", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() *Config {
	k := koanf.New(".")
	for key, val := range defaults() {
		_ = k.Set(key, val)
	}
	var cfg Config
	_ = k.Unmarshal("", &cfg)
	return &cfg
}

// buildEnvLookup maps env-style keys such as "server_read_timeout" back to
// their dotted koanf form.
func buildEnvLookup(keys []string) map[string]string {
	lookup := make(map[string]string, len(keys))
	for _, key := range keys {
		lookup[strings.ReplaceAll(key, ".", "_")] = key
	}
	return lookup
}
