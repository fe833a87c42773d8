package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// config holds the tool settings after merging defaults, the optional
// TOML file, and command-line flags (flags win).
type config struct {
	Mode     string
	MaxDepth int
}

type fileConfig struct {
	Mode     string `toml:"mode"`
	MaxDepth int    `toml:"max_depth"`
}

func defaultConfig() config {
	return config{Mode: "print"}
}

func validMode(m string) bool {
	switch m {
	case "print", "validate", "roundtrip":
		return true
	}
	return false
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load inspect config: %w", err)
	}

	if meta.IsDefined("mode") {
		m := strings.TrimSpace(raw.Mode)
		if !validMode(m) {
			return config{}, fmt.Errorf("parse mode: %q is not print, validate or roundtrip", raw.Mode)
		}
		cfg.Mode = m
	}

	if meta.IsDefined("max_depth") {
		if raw.MaxDepth < 1 {
			return config{}, fmt.Errorf("parse max_depth: must be at least 1, got %d", raw.MaxDepth)
		}
		cfg.MaxDepth = raw.MaxDepth
	}

	return cfg, nil
}
