package main

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// workloadConfig describes a synthetic allocate/free run.
type workloadConfig struct {
	Handles    int  `koanf:"handles"`
	ChunkSize  int  `koanf:"chunk_size"`
	FreeEvery  int  `koanf:"free_every"`
	StrictMode bool `koanf:"strict_mode"`
}

func defaultWorkloadConfig() map[string]interface{} {
	return map[string]interface{}{
		"handles":     1000,
		"chunk_size":  0, // 0 means "leave rootpool.ChunkSize at its platform default"
		"free_every":  3,
		"strict_mode": false,
	}
}

// loadConfig layers a workloadConfig the way a small CLI tool typically
// does with koanf: defaults, then an optional YAML file, then environment
// variables prefixed ROOTPOOLSTAT_, each layer overriding the last. An
// absent configPath is not an error — the defaults plus environment make a
// complete configuration on their own.
func loadConfig(configPath string) (workloadConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultWorkloadConfig(), "."), nil); err != nil {
		return workloadConfig{}, err
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return workloadConfig{}, err
		}
	}

	envProvider := env.Provider("ROOTPOOLSTAT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ROOTPOOLSTAT_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return workloadConfig{}, err
	}

	var cfg workloadConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return workloadConfig{}, err
	}
	return cfg, nil
}
