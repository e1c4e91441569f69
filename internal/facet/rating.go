package facet

import "kontra/internal/provider"

// ParseRating normalizes the provider's proprietary scoring facet.
func ParseRating(bundle provider.Bundle) RatingSummary {
	doc := unwrap(bundle.Get(provider.FacetRating))
	if !doc.Exists() {
		return RatingSummary{}
	}

	levelText := str(doc, "УровеньРиска", "riskLevel")
	return RatingSummary{
		Index:            str(doc, "Индекс", "index"),
		ReliabilityPoint: num(doc, "ИндексЗнач", "indexValue"),
		Level:            classifyRating(levelText),
		LevelText:        levelText,
		TaxBurden:        str(doc, "НалогНагрузка", "taxBurden"),
		StopFactor:       doc.Get("СтопФактор").Bool() || doc.Get("stopFactor").Bool(),
	}
}
