package facet

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// The registry has served each facet in at least two historical shapes: the
// combined endpoint returns flat objects, while the per-method endpoint wraps
// the same data in a body / body.docs[0] envelope. unwrap tries the wrapped
// shapes first and falls back to the flat fragment, so parsers see one shape.
func unwrap(raw json.RawMessage) gjson.Result {
	if len(raw) == 0 {
		return gjson.Result{}
	}
	root := gjson.ParseBytes(raw)
	body := root.Get("body")
	if !body.Exists() {
		return root
	}
	if docs := body.Get("docs"); docs.IsArray() {
		if arr := docs.Array(); len(arr) > 0 {
			return arr[0]
		}
	}
	return body
}

// str returns the first non-empty string among the given keys. Field names
// changed between provider versions, so every accessor lists its historical
// synonyms in newest-first order.
func str(r gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

// num returns the first parseable number among the given keys. The provider
// serializes amounts both as numbers and as numeric strings.
func num(r gjson.Result, keys ...string) float64 {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			if f := v.Float(); f != 0 {
				return f
			}
			// A literal zero still counts as found.
			if v.Type == gjson.Number || v.String() == "0" {
				return 0
			}
		}
	}
	return 0
}

func intval(r gjson.Result, keys ...string) int {
	return int(num(r, keys...))
}

// Registry dates arrive as DD.MM.YYYY or as YYYY-MM-DD with an optional time
// suffix. Anything else parses to the zero time; callers omit the dependent
// output instead of failing.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse("02.01.2006", s); err == nil {
		return t
	}
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ageYears computes whole calendar years between from and now, clamped at
// zero. A zero from yields -1 so callers can tell "unknown" from "newborn".
func ageYears(from, now time.Time) int {
	if from.IsZero() || now.Before(from) {
		if from.IsZero() {
			return -1
		}
		return 0
	}
	years := now.Year() - from.Year()
	anniversary := from.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// classifyStatus maps the registry's free-text activity wording onto the
// normalized enum.
func classifyStatus(text string) OperatingStatus {
	if text == "" {
		return StatusUnknown
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "действующ"):
		return StatusActive
	case strings.Contains(lower, "ликвид"), strings.Contains(lower, "прекрат"):
		return StatusLiquidated
	default:
		return StatusOther
	}
}

// classifyRating maps the provider's risk-level wording onto RatingLevel.
func classifyRating(text string) RatingLevel {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "высок"), strings.Contains(lower, "критич"):
		return RatingHigh
	case strings.Contains(lower, "средн"):
		return RatingMedium
	case strings.Contains(lower, "низк"):
		return RatingLow
	default:
		return RatingUnknown
	}
}
