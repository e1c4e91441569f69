package facet

import (
	"kontra/internal/provider"
	pstrings "kontra/pkg/platform/strings"

	"github.com/tidwall/gjson"
)

// ParseContacts normalizes contact channels, deduplicating and bounding each
// list to its display count.
func ParseContacts(bundle provider.Bundle) ContactInfo {
	doc := unwrap(bundle.Get(provider.FacetContacts))
	if !doc.Exists() {
		return ContactInfo{}
	}

	info := ContactInfo{
		Phones:   bounded(collect(doc, "Телефоны", "phones"), phoneDisplayLimit),
		Emails:   bounded(collect(doc, "E-mail", "Почта", "emails"), emailDisplayLimit),
		Websites: bounded(collect(doc, "Сайты", "sites"), websiteDisplayLimit),
	}
	info.HasData = len(info.Phones) > 0 || len(info.Emails) > 0 || len(info.Websites) > 0
	return info
}

// collect gathers values whether the provider sent an array or a single
// string under any of the historical keys.
func collect(doc gjson.Result, keys ...string) []string {
	var values []string
	for _, k := range keys {
		v := doc.Get(k)
		if !v.Exists() {
			continue
		}
		if v.IsArray() {
			for _, item := range v.Array() {
				values = append(values, item.String())
			}
		} else {
			values = append(values, v.String())
		}
	}
	return pstrings.DedupeAndTrim(values)
}

func bounded(values []string, limit int) []string {
	if len(values) > limit {
		return values[:limit]
	}
	return values
}
