package facet

import "kontra/internal/provider"

// Role wordings used by the court registry.
const (
	rolePlaintiff = "Истец"
	roleDefendant = "Ответчик"
)

// ParseLitigation normalizes the court-case facet, counting cases by the
// queried company's role.
func ParseLitigation(bundle provider.Bundle) LitigationSummary {
	doc := unwrap(bundle.Get(provider.FacetLitigation))
	cases := doc.Get("Дела")
	if !cases.IsArray() {
		return LitigationSummary{}
	}

	summary := LitigationSummary{}
	for _, c := range cases.Array() {
		summary.Total++
		switch str(c, "Роль", "role") {
		case rolePlaintiff:
			summary.AsPlaintiff++
		case roleDefendant:
			summary.AsDefendant++
		}
		if len(summary.Cases) < litigationSampleLimit {
			summary.Cases = append(summary.Cases, LitigationCase{
				Number: str(c, "НомерДела", "number"),
				Status: str(c, "Статус", "status"),
			})
		}
	}
	return summary
}
