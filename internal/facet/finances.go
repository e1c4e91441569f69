package facet

import "kontra/internal/provider"

// Filing amounts arrive from the tax authority in thousands of currency
// units; normalize to plain units so downstream consumers never rescale.
const filingScale = 1000

// ParseFinances normalizes the latest financial filing. The registry lists
// filings newest-first; only the most recent year is kept.
func ParseFinances(bundle provider.Bundle) FinancialSummary {
	doc := unwrap(bundle.Get(provider.FacetFinances))
	years := doc.Get("Года")
	if !years.IsArray() {
		return FinancialSummary{}
	}
	arr := years.Array()
	if len(arr) == 0 {
		return FinancialSummary{}
	}

	latest := arr[0]
	return FinancialSummary{
		HasData:    true,
		Year:       intval(latest, "Год", "year"),
		Revenue:    num(latest, "Выручка", "revenue") * filingScale,
		NetProfit:  num(latest, "Прибыль", "profit") * filingScale,
		TaxesPaid:  num(latest, "УплНалога", "taxesPaid") * filingScale,
		TaxArrears: num(latest, "ЗадолжНалога", "taxDebt") * filingScale,
		Employees:  intval(latest, "СрЧислРаб", "employees"),
	}
}
