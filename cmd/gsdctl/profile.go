package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// profile holds default values gsdctl falls back to when a flag isn't
// given, loaded from ~/.gsdctl.yaml. Unlike the GSD engine itself, which
// per its spec consumes no configuration files, this is purely a CLI
// convenience layer.
type profile struct {
	Application string `yaml:"application"`
	Schema      string `yaml:"schema"`
}

func profilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gsdctl.yaml"), nil
}

// loadProfile reads the profile file if present, returning a zero-value
// profile (not an error) when it doesn't exist.
func loadProfile() (profile, error) {
	path, err := profilePath()
	if err != nil {
		return profile{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return profile{}, nil
		}
		return profile{}, err
	}

	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return profile{}, err
	}

	return p, nil
}
