package report

import (
	"fmt"
	"strings"

	"kontra/internal/facet"
	"kontra/internal/risk"
	pstrings "kontra/pkg/platform/strings"
)

// Display bounds for free-text fields in the chat report.
const (
	nameDisplayLimit     = 70
	addressDisplayLimit  = 50
	industryDisplayLimit = 40
	affiliateNameLimit   = 30
	timestampLayout      = "02.01.2006 15:04"
)

func tierHeadline(t risk.Tier) string {
	switch t {
	case risk.TierHigh:
		return "🔴 **ВЫСОКИЙ РИСК**"
	case risk.TierMedium:
		return "🟡 **СРЕДНИЙ РИСК**"
	default:
		return "🟢 **НИЗКИЙ РИСК**"
	}
}

func severityMarker(s risk.Severity) string {
	switch s {
	case risk.SeverityCritical:
		return "🔴"
	case risk.SeverityWarning:
		return "⚠️"
	case risk.SeverityCaution:
		return "🟡"
	default:
		return "✅"
	}
}

// Text renders the chat report. Sections appear in a fixed order and only
// when their data is present, so an empty facet never leaves a dangling
// header. The output depends solely on the report value, timestamp included.
func Text(r risk.Report) string {
	var b strings.Builder
	card := r.Company.Card

	// Headline and identity.
	b.WriteString(tierHeadline(r.DisplayTier))
	b.WriteString("\n\n")
	name := card.DisplayName()
	if name == "" {
		name = "Компания"
	}
	fmt.Fprintf(&b, "**%s**\n", pstrings.Truncate(name, nameDisplayLimit))
	if card.TaxID != "" {
		fmt.Fprintf(&b, "ИНН: %s\n", card.TaxID)
	}
	// The identity block always names a status; a registry answer without
	// one still reads as a complete card.
	statusText := card.StatusText
	marker := "❌"
	switch {
	case statusText == "":
		statusText = "неизвестен"
		marker = "❓"
	case card.Status == facet.StatusActive:
		marker = "✅"
	}
	fmt.Fprintf(&b, "%s Статус: %s\n", marker, statusText)

	writeFactors(&b, r.Factors)
	writeFinances(&b, r.Company.Finances)
	writeRating(&b, r.Company.Rating)
	writeAffiliates(&b, r.Company.Affiliates)
	writeContacts(&b, r.Company.Contacts)
	writeIdentifiers(&b, card)

	fmt.Fprintf(&b, "\n_Отчёт: %s_", r.GeneratedAt.Format(timestampLayout))
	return b.String()
}

func writeFactors(b *strings.Builder, factors []risk.Factor) {
	if len(factors) == 0 {
		return
	}
	b.WriteString("\n📌 **Факторы риска:**\n")
	for _, f := range factors {
		if f.Detail == "" {
			fmt.Fprintf(b, "  %s %s\n", severityMarker(f.Severity), f.Label)
			continue
		}
		fmt.Fprintf(b, "  %s %s: %s\n", severityMarker(f.Severity), f.Label, f.Detail)
	}
}

func writeFinances(b *strings.Builder, fin facet.FinancialSummary) {
	if !fin.HasData {
		return
	}
	fmt.Fprintf(b, "\n💰 **Финансы за %d год:**\n", fin.Year)
	fmt.Fprintf(b, "  📈 Выручка: %s\n", FormatMoney(fin.Revenue))
	fmt.Fprintf(b, "  📊 Прибыль: %s\n", FormatMoney(fin.NetProfit))
	if fin.TaxesPaid > 0 {
		fmt.Fprintf(b, "  🏛 Уплачено налогов: %s\n", FormatMoney(fin.TaxesPaid))
	}
	if fin.TaxArrears > 0 {
		fmt.Fprintf(b, "  ⚠️ Долг по налогам: %s\n", FormatMoney(fin.TaxArrears))
	}
	if fin.Employees > 0 {
		fmt.Fprintf(b, "  👥 Сотрудников: %d\n", fin.Employees)
	}
}

func writeRating(b *strings.Builder, rating facet.RatingSummary) {
	if !rating.HasData() {
		return
	}
	b.WriteString("\n📊 **Рейтинг провайдера:**\n")
	if rating.Index != "" {
		fmt.Fprintf(b, "  Индекс надёжности: **%s**\n", rating.Index)
	}
	if rating.LevelText != "" {
		fmt.Fprintf(b, "  Уровень риска: %s\n", rating.LevelText)
	}
	if rating.TaxBurden != "" {
		fmt.Fprintf(b, "  Налоговая нагрузка: %s\n", rating.TaxBurden)
	}
	if rating.StopFactor {
		b.WriteString("  ⛔ Обнаружен стоп-фактор\n")
	}
}

func writeAffiliates(b *strings.Builder, aff facet.AffiliateList) {
	if aff.Total == 0 {
		return
	}
	fmt.Fprintf(b, "\n🔗 **Связанные компании:** %d\n", aff.Total)
	shown := aff.Companies
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for _, c := range shown {
		marker := "🔴"
		if strings.Contains(c.Status, "Действующ") {
			marker = "🟢"
		}
		fmt.Fprintf(b, "  %s %s\n", marker, pstrings.Truncate(c.Name, affiliateNameLimit))
	}
}

func writeContacts(b *strings.Builder, contacts facet.ContactInfo) {
	if !contacts.HasData {
		return
	}
	b.WriteString("\n📞 **Контакты:**\n")
	if len(contacts.Phones) > 0 {
		fmt.Fprintf(b, "  Телефоны: %s\n", strings.Join(contacts.Phones, ", "))
	}
	if len(contacts.Emails) > 0 {
		fmt.Fprintf(b, "  Email: %s\n", strings.Join(contacts.Emails, ", "))
	}
	if len(contacts.Websites) > 0 {
		fmt.Fprintf(b, "  Сайт: %s\n", strings.Join(contacts.Websites, ", "))
	}
}

func writeIdentifiers(b *strings.Builder, card facet.CompanyCard) {
	b.WriteString("\n📋 **Реквизиты:**\n")
	if card.RegNumber != "" {
		fmt.Fprintf(b, "  ОГРН: %s\n", card.RegNumber)
	}
	if card.TaxRegCode != "" {
		fmt.Fprintf(b, "  КПП: %s\n", card.TaxRegCode)
	}
	if !card.RegisteredAt.IsZero() {
		fmt.Fprintf(b, "  Дата регистрации: %s\n", card.RegisteredAt.Format("02.01.2006"))
	}
	if card.DirectorName != "" {
		fmt.Fprintf(b, "  👤 Руководитель: %s\n", card.DirectorName)
	}
	if card.Address != "" {
		fmt.Fprintf(b, "  📍 Адрес: %s\n", pstrings.Truncate(card.Address, addressDisplayLimit))
	}
	if card.IndustryCode != "" {
		line := card.IndustryCode
		if card.IndustryName != "" {
			line += " - " + pstrings.Truncate(card.IndustryName, industryDisplayLimit)
		}
		fmt.Fprintf(b, "  🏭 ОКВЭД: %s\n", line)
	}
}
