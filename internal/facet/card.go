package facet

import (
	"kontra/internal/provider"

	"github.com/tidwall/gjson"
)

// ParseCard normalizes the registration-card facet.
func ParseCard(bundle provider.Bundle) CompanyCard {
	doc := unwrap(bundle.Get(provider.FacetCard))
	if !doc.Exists() {
		return CompanyCard{Status: StatusUnknown}
	}

	statusText := str(doc, "Активность", "СвСтатус", "status")

	card := CompanyCard{
		Name:         str(doc, "НаимЮЛСокр", "name"),
		FullName:     str(doc, "НаимЮЛПолн", "fullName"),
		TaxID:        str(doc, "ИНН", "inn"),
		RegNumber:    str(doc, "ОГРН", "ogrn"),
		TaxRegCode:   str(doc, "КПП", "kpp"),
		Status:       classifyStatus(statusText),
		StatusText:   statusText,
		RegisteredAt: parseDate(str(doc, "ДатаОГРН", "ОбрДата", "regDate")),
		Address:      parseAddress(doc.Get("Адрес")),
		IndustryCode: str(doc, "КодОКВЭД", "okved"),
		IndustryName: str(doc, "НаимОКВЭД", "okvedName"),
		Capital:      num(doc, "СумКап", "capital"),
		Employees:    intval(doc, "ЧислСотруд", "employees"),
	}

	if directors := doc.Get("Руководители"); directors.IsArray() {
		if arr := directors.Array(); len(arr) > 0 {
			first := arr[0]
			card.DirectorName = str(first, "fl", "fio")
			card.DirectorTaxID = str(first, "inn")
			card.DirectorSince = parseDate(str(first, "date"))
		}
	}

	return card
}

// parseAddress accepts both the structured address object and the plain
// string older responses used.
func parseAddress(v gjson.Result) string {
	if !v.Exists() {
		return ""
	}
	if v.Type == gjson.String {
		return v.String()
	}
	return str(v, "АдресПолн", "value")
}
