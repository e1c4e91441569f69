package facet

import "kontra/internal/provider"

// ParseEnforcement normalizes the enforcement-proceedings facet. TotalClaim
// sums every record; Items keeps only the first few for display.
func ParseEnforcement(bundle provider.Bundle) EnforcementSummary {
	doc := unwrap(bundle.Get(provider.FacetEnforcement))
	records := doc.Get("Записи")
	if !records.IsArray() {
		return EnforcementSummary{}
	}

	summary := EnforcementSummary{}
	for _, rec := range records.Array() {
		amount := num(rec, "СуммаДолга", "amount")
		summary.Count++
		summary.TotalClaim += amount
		if len(summary.Items) < enforcementSampleLimit {
			summary.Items = append(summary.Items, EnforcementItem{
				Subject: str(rec, "СодИП", "Предмет", "subject"),
				Amount:  amount,
			})
		}
	}
	return summary
}
