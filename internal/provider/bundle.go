package provider

import "encoding/json"

// Facet is one named category of company data obtainable from the registry.
// The tokens are provider-defined and appear verbatim in the request list and
// as top-level keys of the combined response.
type Facet string

const (
	FacetCard        Facet = "card"
	FacetFinances    Facet = "fs-fns"
	FacetEnforcement Facet = "fssp-list"
	FacetRating      Facet = "rating"
	FacetLitigation  Facet = "court-arbitration"
	FacetAffiliates  Facet = "affilation-company"
	FacetContacts    Facet = "contacts"
)

// DefaultFacets is the combined set fetched for a full check. One request
// returns them all, so there is no per-facet round trip to save.
var DefaultFacets = []Facet{
	FacetCard,
	FacetFinances,
	FacetEnforcement,
	FacetRating,
	FacetLitigation,
	FacetAffiliates,
	FacetContacts,
}

// Bundle maps facet name to the raw JSON fragment the provider returned for
// it. The internal shape of each fragment is provider-defined and has changed
// between provider versions; only the facet parsers interpret it.
type Bundle map[Facet]json.RawMessage

// Get returns the raw fragment for a facet, or nil when the provider omitted
// it.
func (b Bundle) Get(f Facet) json.RawMessage {
	return b[f]
}

// Has reports whether the provider returned anything for the facet.
func (b Bundle) Has(f Facet) bool {
	raw, ok := b[f]
	return ok && len(raw) > 0
}
