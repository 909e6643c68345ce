package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a balance file and fills in defaults for anything unset.
func Load(path string) (*Balance, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Balance
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	return &r, nil
}
