package parse

// Registry maps short category codes to human-readable category names.
// It doubles as the recognizer for the category locator: a token is a
// category code iff it is a key in the registry. The registry is built
// once at startup and never mutated.
type Registry map[string]string

// NewRegistry builds a registry from a code -> name mapping.
func NewRegistry(codes map[string]string) Registry {
	reg := make(Registry, len(codes))
	for code, name := range codes {
		reg[code] = name
	}
	return reg
}

// Has reports whether code is a known category code.
func (r Registry) Has(code string) bool {
	_, ok := r[code]
	return ok
}

// Name returns the display name for code, falling back to the code
// itself when unknown.
func (r Registry) Name(code string) string {
	if name, ok := r[code]; ok {
		return name
	}
	return code
}

// DefaultRegistry returns the GFS invoice category codes.
func DefaultRegistry() Registry {
	return Registry{
		"PR": "Produce",
		"GR": "Grocery",
		"FR": "Frozen",
		"DY": "Dairy",
		"BV": "Beverage",
		"CN": "Canned",
		"PA": "Paper",
		"CH": "Chemical/Cleaning",
		"EQ": "Equipment",
		"PU": "Packaging/Supply",
	}
}
