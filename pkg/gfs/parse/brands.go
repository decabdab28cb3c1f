package parse

// BrandSet is a reference set of known brand-name tokens. Membership
// biases the brand/description split; it is a hint, not a hard
// constraint, since short unknown tokens are also accepted as brands.
type BrandSet map[string]struct{}

// NewBrandSet builds a brand set from a list of tokens.
func NewBrandSet(brands []string) BrandSet {
	set := make(BrandSet, len(brands))
	for _, b := range brands {
		set[b] = struct{}{}
	}
	return set
}

// Contains reports whether token is a known brand.
func (s BrandSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// DefaultBrands returns the brand tokens observed on historical GFS
// invoices. Several entries are truncated forms because the source
// column is only six characters wide.
func DefaultBrands() BrandSet {
	return NewBrandSet([]string{
		"Markon", "Ready-", "Stacy'", "Annie'", "Nutri-", "Betty",
		"Zee Ze", "Cool C", "Kellog", "Corn P", "Ruffle", "Pepper",
		"Marzet", "Horizo", "Gordon", "Packer", "Tru Fru", "Amafru",
		"Ken's", "G.S.",
	})
}
