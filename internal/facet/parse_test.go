package facet

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kontra/internal/provider"
)

func bundleWith(facet provider.Facet, fragment string) provider.Bundle {
	return provider.Bundle{facet: json.RawMessage(fragment)}
}

// wrapDocs re-serves a flat fragment in the older body.docs[0] envelope.
func wrapDocs(fragment string) string {
	return fmt.Sprintf(`{"body":{"docs":[%s]}}`, fragment)
}

const flatCard = `{
	"НаимЮЛСокр": "ООО Ромашка",
	"НаимЮЛПолн": "Общество с ограниченной ответственностью Ромашка",
	"ИНН": "7707083893",
	"ОГРН": "1027700132195",
	"КПП": "770701001",
	"Активность": "Действующее",
	"ДатаОГРН": "15.03.2010",
	"Адрес": {"АдресПолн": "г. Москва, ул. Ленина, д. 1"},
	"Руководители": [{"fl": "Иванов Иван Иванович", "inn": "770708389312", "date": "01.06.2015"}],
	"КодОКВЭД": "62.01",
	"НаимОКВЭД": "Разработка компьютерного программного обеспечения",
	"СумКап": 10000,
	"ЧислСотруд": 42
}`

func TestParseCard(t *testing.T) {
	card := ParseCard(bundleWith(provider.FacetCard, flatCard))

	assert.Equal(t, "ООО Ромашка", card.Name)
	assert.Equal(t, "7707083893", card.TaxID)
	assert.Equal(t, "1027700132195", card.RegNumber)
	assert.Equal(t, "770701001", card.TaxRegCode)
	assert.Equal(t, StatusActive, card.Status)
	assert.Equal(t, time.Date(2010, 3, 15, 0, 0, 0, 0, time.UTC), card.RegisteredAt)
	assert.Equal(t, "г. Москва, ул. Ленина, д. 1", card.Address)
	assert.Equal(t, "Иванов Иван Иванович", card.DirectorName)
	assert.Equal(t, "770708389312", card.DirectorTaxID)
	assert.Equal(t, "62.01", card.IndustryCode)
	assert.Equal(t, float64(10000), card.Capital)
	assert.Equal(t, 42, card.Employees)
}

// Shape invariance: the flat combined-endpoint shape and the older
// body.docs[0] envelope must normalize identically.
func TestParseCard_ShapeInvariance(t *testing.T) {
	flat := ParseCard(bundleWith(provider.FacetCard, flatCard))
	wrapped := ParseCard(bundleWith(provider.FacetCard, wrapDocs(flatCard)))
	assert.Equal(t, flat, wrapped)
}

func TestParseCard_LegacyFieldNames(t *testing.T) {
	legacy := `{"name": "Romashka LLC", "inn": "7707083893", "СвСтатус": "Ликвидировано", "Адрес": "Moscow", "Руководители": [{"fio": "Ivanov I.I."}]}`
	card := ParseCard(bundleWith(provider.FacetCard, legacy))

	assert.Equal(t, "Romashka LLC", card.Name)
	assert.Equal(t, StatusLiquidated, card.Status)
	assert.Equal(t, "Moscow", card.Address)
	assert.Equal(t, "Ivanov I.I.", card.DirectorName)
}

func TestParseCard_MissingFacet(t *testing.T) {
	card := ParseCard(provider.Bundle{})
	assert.Equal(t, StatusUnknown, card.Status)
	assert.Empty(t, card.Name)
	assert.True(t, card.RegisteredAt.IsZero())
}

const flatFinances = `{"Года": [
	{"Год": 2023, "Выручка": 1500, "Прибыль": 200, "УплНалога": 50, "ЗадолжНалога": 0, "СрЧислРаб": 12},
	{"Год": 2022, "Выручка": 1200, "Прибыль": 150}
]}`

func TestParseFinances_ScalesThousands(t *testing.T) {
	fin := ParseFinances(bundleWith(provider.FacetFinances, flatFinances))

	require.True(t, fin.HasData)
	assert.Equal(t, 2023, fin.Year)
	assert.Equal(t, float64(1_500_000), fin.Revenue)
	assert.Equal(t, float64(200_000), fin.NetProfit)
	assert.Equal(t, float64(50_000), fin.TaxesPaid)
	assert.Equal(t, float64(0), fin.TaxArrears)
	// headcount is not a currency amount and must not be scaled
	assert.Equal(t, 12, fin.Employees)
}

func TestParseFinances_ShapeInvariance(t *testing.T) {
	flat := ParseFinances(bundleWith(provider.FacetFinances, flatFinances))
	wrapped := ParseFinances(bundleWith(provider.FacetFinances, fmt.Sprintf(`{"body":%s}`, flatFinances)))
	assert.Equal(t, flat, wrapped)
}

func TestParseFinances_MissingFacet(t *testing.T) {
	fin := ParseFinances(provider.Bundle{})
	assert.False(t, fin.HasData)
	assert.Zero(t, fin.Revenue)
	assert.Zero(t, fin.Year)
}

func TestParseEnforcement(t *testing.T) {
	fragment := `{"Записи": [
		{"СодИП": "Налоговая задолженность", "СуммаДолга": 300000},
		{"СодИП": "Штраф", "СуммаДолга": "300000"},
		{"Предмет": "Госпошлина", "СуммаДолга": 1000},
		{"СуммаДолга": 1000},
		{"СуммаДолга": 1000},
		{"СуммаДолга": 1000},
		{"СуммаДолга": 1000}
	]}`
	enf := ParseEnforcement(bundleWith(provider.FacetEnforcement, fragment))

	assert.Equal(t, 7, enf.Count)
	assert.Equal(t, float64(605_000), enf.TotalClaim)
	// display sample is bounded, the true count is not
	assert.Len(t, enf.Items, 5)
	assert.Equal(t, "Налоговая задолженность", enf.Items[0].Subject)
	assert.Equal(t, float64(300000), enf.Items[1].Amount)
}

func TestParseEnforcement_MissingFacet(t *testing.T) {
	enf := ParseEnforcement(provider.Bundle{})
	assert.Zero(t, enf.Count)
	assert.Zero(t, enf.TotalClaim)
	assert.Empty(t, enf.Items)
}

func TestParseLitigation(t *testing.T) {
	fragment := `{"Дела": [
		{"НомерДела": "А40-1/2024", "Статус": "Рассматривается", "Роль": "Ответчик"},
		{"НомерДела": "А40-2/2024", "Статус": "Завершено", "Роль": "Истец"},
		{"НомерДела": "А40-3/2024", "Роль": "Ответчик"},
		{"НомерДела": "А40-4/2024", "Роль": "Третье лицо"}
	]}`
	lit := ParseLitigation(bundleWith(provider.FacetLitigation, fragment))

	assert.Equal(t, 4, lit.Total)
	assert.Equal(t, 1, lit.AsPlaintiff)
	assert.Equal(t, 2, lit.AsDefendant)
	assert.Len(t, lit.Cases, 4)
	assert.Equal(t, "А40-1/2024", lit.Cases[0].Number)
}

func TestParseAffiliates_PreservesTrueCount(t *testing.T) {
	items := ""
	for i := 0; i < 14; i++ {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{"Наименование": "Фирма %d", "ИНН": "77000000%02d", "Статус": "Действующее"}`, i, i)
	}
	aff := ParseAffiliates(bundleWith(provider.FacetAffiliates, `{"Компании": [`+items+`]}`))

	assert.Equal(t, 14, aff.Total)
	assert.Len(t, aff.Companies, 10)
	assert.Equal(t, "Фирма 0", aff.Companies[0].Name)
}

func TestParseRating(t *testing.T) {
	fragment := `{"body": {"Индекс": "A+", "ИндексЗнач": 87, "УровеньРиска": "Низкий", "НалогНагрузка": "ниже среднего", "СтопФактор": false}}`
	rating := ParseRating(bundleWith(provider.FacetRating, fragment))

	assert.True(t, rating.HasData())
	assert.Equal(t, "A+", rating.Index)
	assert.Equal(t, float64(87), rating.ReliabilityPoint)
	assert.Equal(t, RatingLow, rating.Level)
	assert.Equal(t, "ниже среднего", rating.TaxBurden)
	assert.False(t, rating.StopFactor)
}

func TestParseRating_Absent(t *testing.T) {
	assert.False(t, ParseRating(provider.Bundle{}).HasData())
}

func TestParseContacts(t *testing.T) {
	fragment := `{"Телефоны": ["+7 495 123-45-67", "+7 495 123-45-67", "+7 495 765-43-21", "+7 495 111-22-33", "+7 495 999-99-99"], "E-mail": "info@romashka.ru", "Сайты": ["romashka.ru"]}`
	contacts := ParseContacts(bundleWith(provider.FacetContacts, fragment))

	require.True(t, contacts.HasData)
	// deduplicated, then bounded to the display count
	assert.Equal(t, []string{"+7 495 123-45-67", "+7 495 765-43-21", "+7 495 111-22-33"}, contacts.Phones)
	assert.Equal(t, []string{"info@romashka.ru"}, contacts.Emails)
	assert.Equal(t, []string{"romashka.ru"}, contacts.Websites)
}

func TestParseContacts_MissingFacet(t *testing.T) {
	contacts := ParseContacts(provider.Bundle{})
	assert.False(t, contacts.HasData)
	assert.Empty(t, contacts.Phones)
}

// Empty bundle: every facet normalizes to its defined default, nothing
// panics, nothing errors.
func TestParse_EmptyBundle(t *testing.T) {
	company := Parse(provider.Bundle{})

	assert.Equal(t, StatusUnknown, company.Card.Status)
	assert.False(t, company.Finances.HasData)
	assert.Zero(t, company.Enforcement.Count)
	assert.Zero(t, company.Litigation.Total)
	assert.Zero(t, company.Affiliates.Total)
	assert.False(t, company.Rating.HasData())
	assert.False(t, company.Contacts.HasData)
}
