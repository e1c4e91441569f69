package report

import (
	"fmt"
	"strings"

	"kontra/internal/facet"
	"kontra/internal/risk"
	pstrings "kontra/pkg/platform/strings"
)

// Row caps for the document tables.
const (
	enforcementTableLimit = 5
	litigationTableLimit  = 5
	affiliateTableLimit   = 10
	subjectDisplayLimit   = 50
	caseStatusLimit       = 30
)

func tierLabel(t risk.Tier) string {
	switch t {
	case risk.TierHigh:
		return "ВЫСОКИЙ РИСК"
	case risk.TierMedium:
		return "СРЕДНИЙ РИСК"
	default:
		return "НИЗКИЙ РИСК"
	}
}

// Document builds the markdown source of the paginated report. It follows
// the same section-presence and truncation rules as Text; the renderer turns
// the result into a PDF.
func Document(r risk.Report) string {
	var b strings.Builder
	card := r.Company.Card

	b.WriteString("# ОТЧЁТ О ПРОВЕРКЕ КОНТРАГЕНТА\n\n")
	fmt.Fprintf(&b, "Дата: %s\n\n", r.GeneratedAt.Format(timestampLayout))
	fmt.Fprintf(&b, "## ОБЩАЯ ОЦЕНКА: %s\n\n", tierLabel(r.DisplayTier))

	writeIdentityTable(&b, card)
	writeFactorTable(&b, r.Factors)
	writeFinanceTable(&b, r.Company.Finances)
	writeEnforcementTable(&b, r.Company.Enforcement)
	writeLitigationTable(&b, r.Company.Litigation)
	writeAffiliateTable(&b, r.Company.Affiliates)
	writeContactTable(&b, r.Company.Contacts)

	b.WriteString("---\n\n")
	b.WriteString("_Отчёт сформирован автоматически. Источник данных: API ЗАЧЕСТНЫЙБИЗНЕС._\n")
	return b.String()
}

func tableRow(b *strings.Builder, cells ...string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func tableHeader(b *strings.Builder, cells ...string) {
	tableRow(b, cells...)
	seps := make([]string, len(cells))
	for i := range seps {
		seps[i] = "---"
	}
	tableRow(b, seps...)
}

func writeIdentityTable(b *strings.Builder, card facet.CompanyCard) {
	b.WriteString("## ОСНОВНЫЕ СВЕДЕНИЯ\n\n")
	tableHeader(b, "Поле", "Значение")

	name := card.DisplayName()
	if name == "" {
		name = "Неизвестно"
	}
	tableRow(b, "Наименование", pstrings.Truncate(name, nameDisplayLimit))
	tableRow(b, "ИНН", orNA(card.TaxID))
	tableRow(b, "ОГРН", orNA(card.RegNumber))
	tableRow(b, "КПП", orNA(card.TaxRegCode))
	tableRow(b, "Статус", orNA(card.StatusText))
	if !card.RegisteredAt.IsZero() {
		tableRow(b, "Дата регистрации", card.RegisteredAt.Format("02.01.2006"))
	}
	if card.Address != "" {
		tableRow(b, "Адрес", pstrings.Truncate(card.Address, addressDisplayLimit+20))
	}
	if card.DirectorName != "" {
		tableRow(b, "Руководитель", card.DirectorName)
	}
	if card.IndustryCode != "" {
		industry := card.IndustryCode
		if card.IndustryName != "" {
			industry += " - " + pstrings.Truncate(card.IndustryName, industryDisplayLimit)
		}
		tableRow(b, "Основной ОКВЭД", industry)
	}
	if card.Capital > 0 {
		tableRow(b, "Уставный капитал", FormatMoney(card.Capital))
	}
	if card.Employees > 0 {
		tableRow(b, "Сотрудников", fmt.Sprintf("%d", card.Employees))
	}
	b.WriteString("\n")
}

func writeFactorTable(b *strings.Builder, factors []risk.Factor) {
	if len(factors) == 0 {
		return
	}
	b.WriteString("## ФАКТОРЫ РИСКА\n\n")
	tableHeader(b, "Фактор", "Оценка", "Комментарий")
	for _, f := range factors {
		tableRow(b, f.Label, string(f.Severity), f.Detail)
	}
	b.WriteString("\n")
}

func writeFinanceTable(b *strings.Builder, fin facet.FinancialSummary) {
	if !fin.HasData {
		return
	}
	b.WriteString("## ФИНАНСОВЫЕ ПОКАЗАТЕЛИ\n\n")
	tableHeader(b, "Показатель", "Значение", "Период")
	period := fmt.Sprintf("%d год", fin.Year)
	tableRow(b, "Выручка", FormatMoney(fin.Revenue), period)
	tableRow(b, "Прибыль", FormatMoney(fin.NetProfit), period)
	if fin.TaxesPaid > 0 {
		tableRow(b, "Уплачено налогов", FormatMoney(fin.TaxesPaid), period)
	}
	if fin.TaxArrears > 0 {
		tableRow(b, "Задолженность по налогам", FormatMoney(fin.TaxArrears), "⚠️")
	}
	if fin.Employees > 0 {
		tableRow(b, "Сотрудников (ФНС)", fmt.Sprintf("%d", fin.Employees), period)
	}
	b.WriteString("\n")
}

func writeEnforcementTable(b *strings.Builder, enf facet.EnforcementSummary) {
	b.WriteString("## ИСПОЛНИТЕЛЬНЫЕ ПРОИЗВОДСТВА (ФССП)\n\n")
	if enf.Count == 0 {
		b.WriteString("Исполнительных производств не найдено.\n\n")
		return
	}
	fmt.Fprintf(b, "Найдено производств: %d, общая сумма: %s\n\n", enf.Count, FormatMoney(enf.TotalClaim))
	if len(enf.Items) == 0 {
		return
	}
	tableHeader(b, "Предмет взыскания", "Сумма")
	items := enf.Items
	if len(items) > enforcementTableLimit {
		items = items[:enforcementTableLimit]
	}
	for _, item := range items {
		subject := item.Subject
		if subject == "" {
			subject = "Задолженность"
		}
		tableRow(b, pstrings.Truncate(subject, subjectDisplayLimit), FormatMoney(item.Amount))
	}
	b.WriteString("\n")
}

func writeLitigationTable(b *strings.Builder, lit facet.LitigationSummary) {
	b.WriteString("## АРБИТРАЖНЫЕ ДЕЛА\n\n")
	if lit.Total == 0 {
		b.WriteString("Арбитражных дел не найдено.\n\n")
		return
	}
	summary := fmt.Sprintf("Всего дел: %d", lit.Total)
	if lit.AsPlaintiff > 0 {
		summary += fmt.Sprintf(", истец: %d", lit.AsPlaintiff)
	}
	if lit.AsDefendant > 0 {
		summary += fmt.Sprintf(", ответчик: %d", lit.AsDefendant)
	}
	b.WriteString(summary + "\n\n")
	if len(lit.Cases) == 0 {
		return
	}
	tableHeader(b, "Номер дела", "Статус")
	cases := lit.Cases
	if len(cases) > litigationTableLimit {
		cases = cases[:litigationTableLimit]
	}
	for _, c := range cases {
		tableRow(b, orNA(c.Number), pstrings.Truncate(c.Status, caseStatusLimit))
	}
	b.WriteString("\n")
}

func writeAffiliateTable(b *strings.Builder, aff facet.AffiliateList) {
	if aff.Total == 0 {
		return
	}
	b.WriteString("## СВЯЗАННЫЕ КОМПАНИИ\n\n")
	fmt.Fprintf(b, "Руководитель связан ещё с %d компаниями.\n\n", aff.Total)
	tableHeader(b, "Компания", "ИНН", "Статус")
	companies := aff.Companies
	if len(companies) > affiliateTableLimit {
		companies = companies[:affiliateTableLimit]
	}
	for _, c := range companies {
		status := "Не действует"
		if strings.Contains(c.Status, "Действ") {
			status = "Действует"
		}
		tableRow(b, pstrings.Truncate(c.Name, affiliateNameLimit+5), orNA(c.TaxID), status)
	}
	b.WriteString("\n")
}

func writeContactTable(b *strings.Builder, contacts facet.ContactInfo) {
	if !contacts.HasData {
		return
	}
	b.WriteString("## КОНТАКТНЫЕ ДАННЫЕ\n\n")
	tableHeader(b, "Канал", "Значение")
	if len(contacts.Phones) > 0 {
		tableRow(b, "Телефоны", strings.Join(contacts.Phones, ", "))
	}
	if len(contacts.Emails) > 0 {
		tableRow(b, "Email", strings.Join(contacts.Emails, ", "))
	}
	if len(contacts.Websites) > 0 {
		tableRow(b, "Веб-сайт", strings.Join(contacts.Websites, ", "))
	}
	b.WriteString("\n")
}

func orNA(s string) string {
	if s == "" {
		return "Н/Д"
	}
	return s
}
