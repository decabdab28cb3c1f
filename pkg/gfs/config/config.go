package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Reference is the on-disk form of the parser reference tables. Every
// section is optional; omitted sections keep the built-in defaults.
type Reference struct {
	Categories map[string]string `yaml:"categories"`
	Brands     []string          `yaml:"brands"`
	Tuning     Tuning            `yaml:"tuning"`
}

// Tuning mirrors parse.Tuning for YAML override. Zero values mean
// "keep the default"; the window bounds and brand threshold are tuned
// magic numbers and are exposed here rather than re-derived.
type Tuning struct {
	MinTokens          int      `yaml:"min_tokens"`
	CategoryWindowNear int      `yaml:"category_window_near"`
	CategoryWindowFar  int      `yaml:"category_window_far"`
	BrandMaxLen        int      `yaml:"brand_max_len"`
	PackUnits          []string `yaml:"pack_units"`
}

// LoadReference loads reference tables from a YAML file.
func LoadReference(path string) (*Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ref Reference
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}
