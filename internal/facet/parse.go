package facet

import "kontra/internal/provider"

// Parse normalizes every facet of a raw bundle. Facets the provider omitted
// come back as zero values; nothing here can fail.
func Parse(bundle provider.Bundle) Company {
	return Company{
		Card:        ParseCard(bundle),
		Finances:    ParseFinances(bundle),
		Enforcement: ParseEnforcement(bundle),
		Litigation:  ParseLitigation(bundle),
		Affiliates:  ParseAffiliates(bundle),
		Rating:      ParseRating(bundle),
		Contacts:    ParseContacts(bundle),
	}
}
