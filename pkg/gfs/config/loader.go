package config

import (
	"fmt"

	"github.com/behindthegarage/gfs-ordering/pkg/gfs/parse"
)

// Loader builds parser components from an optional reference file.
type Loader struct {
	// ReferencePath points at a YAML reference file; empty means
	// built-in defaults only.
	ReferencePath string
}

// Components holds the constructed reference tables and the parser
// wired over them.
type Components struct {
	Categories parse.Registry
	Brands     parse.BrandSet
	Tuning     parse.Tuning
	Parser     *parse.Parser
}

// Load reads the reference file (when given) and returns initialized
// components. File values override defaults section by section; zero
// tuning fields keep their default.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{
		Categories: parse.DefaultRegistry(),
		Brands:     parse.DefaultBrands(),
		Tuning:     parse.DefaultTuning(),
	}

	if l.ReferencePath != "" {
		ref, err := LoadReference(l.ReferencePath)
		if err != nil {
			return nil, fmt.Errorf("load reference: %w", err)
		}
		if len(ref.Categories) > 0 {
			comp.Categories = parse.NewRegistry(ref.Categories)
		}
		if len(ref.Brands) > 0 {
			comp.Brands = parse.NewBrandSet(ref.Brands)
		}
		applyTuning(&comp.Tuning, ref.Tuning)
	}

	comp.Parser = parse.NewParser(comp.Categories, comp.Brands, comp.Tuning)
	return comp, nil
}

func applyTuning(dst *parse.Tuning, src Tuning) {
	if src.MinTokens > 0 {
		dst.MinTokens = src.MinTokens
	}
	if src.CategoryWindowNear > 0 {
		dst.CategoryWindowNear = src.CategoryWindowNear
	}
	if src.CategoryWindowFar > 0 {
		dst.CategoryWindowFar = src.CategoryWindowFar
	}
	if src.BrandMaxLen > 0 {
		dst.BrandMaxLen = src.BrandMaxLen
	}
	if len(src.PackUnits) > 0 {
		dst.PackUnits = src.PackUnits
	}
}
