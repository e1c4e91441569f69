package facet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"dotted format", "15.03.2010", time.Date(2010, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"iso format", "2010-03-15", time.Date(2010, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"iso with time suffix", "2010-03-15T10:30:00", time.Date(2010, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"garbage", "неизвестно", time.Time{}},
		{"partial", "2010", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDate(tt.in))
		})
	}
}

func TestAgeYears(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("whole years only", func(t *testing.T) {
		assert.Equal(t, 4, ageYears(time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC), now))
		assert.Equal(t, 5, ageYears(time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC), now))
		assert.Equal(t, 5, ageYears(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), now))
	})

	t.Run("zero date means unknown", func(t *testing.T) {
		assert.Equal(t, -1, ageYears(time.Time{}, now))
	})

	t.Run("future date clamps to zero", func(t *testing.T) {
		assert.Equal(t, 0, ageYears(now.AddDate(1, 0, 0), now))
	})
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, StatusActive, classifyStatus("Действующее"))
	assert.Equal(t, StatusLiquidated, classifyStatus("Ликвидировано"))
	assert.Equal(t, StatusLiquidated, classifyStatus("Деятельность прекращена"))
	assert.Equal(t, StatusOther, classifyStatus("В стадии реорганизации"))
	assert.Equal(t, StatusUnknown, classifyStatus(""))
}

func TestClassifyRating(t *testing.T) {
	assert.Equal(t, RatingHigh, classifyRating("Высокий риск"))
	assert.Equal(t, RatingHigh, classifyRating("КРИТИЧЕСКИЙ"))
	assert.Equal(t, RatingMedium, classifyRating("Средний"))
	assert.Equal(t, RatingLow, classifyRating("низкий"))
	assert.Equal(t, RatingUnknown, classifyRating("n/a"))
	assert.Equal(t, RatingUnknown, classifyRating(""))
}
