package facet

import "kontra/internal/provider"

// ParseAffiliates normalizes companies sharing the queried company's
// director. The display list is bounded; Total preserves the true count for
// risk scoring.
func ParseAffiliates(bundle provider.Bundle) AffiliateList {
	doc := unwrap(bundle.Get(provider.FacetAffiliates))
	companies := doc.Get("Компании")
	if !companies.IsArray() {
		return AffiliateList{}
	}

	list := AffiliateList{}
	for _, comp := range companies.Array() {
		list.Total++
		if len(list.Companies) < affiliateDisplayLimit {
			list.Companies = append(list.Companies, AffiliateRecord{
				Name:         str(comp, "Наименование", "name"),
				TaxID:        str(comp, "ИНН", "inn"),
				Status:       str(comp, "Статус", "status"),
				Address:      parseAddress(comp.Get("Адрес")),
				IndustryCode: str(comp, "КодОКВЭД", "okved"),
			})
		}
	}
	return list
}
