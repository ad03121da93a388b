package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/kurvfo/pkg/enums"
)

// FallbackStoreColor is used when a store has no brand color.
const FallbackStoreColor = "#6b7280"

const isoDate = "2006-01-02"

var faroeseMonths = [12]string{"jan", "feb", "mar", "apr", "mai", "jun", "jul", "aug", "sep", "okt", "nov", "des"}

// DealView is a deal with the derived values the presentation layer renders.
type DealView struct {
	Deal
	ImageURL          string             `json:"image_url,omitempty"`
	Color             string             `json:"color"`
	DiscountTier      enums.DiscountTier `json:"discount_tier"`
	ShowOriginalPrice bool               `json:"show_original_price"`
	ShowSavings       bool               `json:"show_savings"`
	ValidFromLabel    string             `json:"valid_from_label"`
	ValidToLabel      string             `json:"valid_to_label"`
	Week              int                `json:"week,omitempty"`
}

// Present derives the display values for d.
func Present(d Deal) DealView {
	return DealView{
		Deal:              d,
		ImageURL:          ImageURL(d),
		Color:             NormalizeColor(d.StoreColor),
		DiscountTier:      enums.DiscountTierFor(d.DiscountPercent),
		ShowOriginalPrice: ShowOriginalPrice(d),
		ShowSavings:       ShowSavings(d),
		ValidFromLabel:    FormatDateFO(d.ValidFrom),
		ValidToLabel:      FormatDateFO(d.ValidTo),
		Week:              WeekNumber(d.ValidFrom),
	}
}

// PresentAll maps Present over deals.
func PresentAll(deals []Deal) []DealView {
	out := make([]DealView, 0, len(deals))
	for _, d := range deals {
		out = append(out, Present(d))
	}
	return out
}

// ImageURL picks display, then flyer section, then deal image. Empty when none is set.
func ImageURL(d Deal) string {
	for _, candidate := range []*string{d.DisplayImageURL, d.FlyerSectionURL, d.DealImageURL} {
		if candidate != nil && strings.TrimSpace(*candidate) != "" {
			return *candidate
		}
	}
	return ""
}

// NormalizeColor prefixes a bare hex color with '#' and falls back to grey.
func NormalizeColor(color *string) string {
	if color == nil {
		return FallbackStoreColor
	}
	c := strings.TrimSpace(*color)
	if c == "" {
		return FallbackStoreColor
	}
	if strings.HasPrefix(c, "#") {
		return c
	}
	return "#" + c
}

// ShowOriginalPrice reports whether the before-price is worth striking through.
func ShowOriginalPrice(d Deal) bool {
	return d.OriginalPrice != nil && *d.OriginalPrice > d.Price
}

// ShowSavings reports whether a positive per-unit saving is known.
func ShowSavings(d Deal) bool {
	return d.Savings != nil && *d.Savings > 0
}

// WeekNumber numbers weeks from January 1st with Sunday as the first weekday,
// so the week holding Jan 1 is week 1. Unparseable dates yield 0.
func WeekNumber(date string) int {
	t, ok := parseDate(date)
	if !ok {
		return 0
	}
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := t.YearDay() - 1
	return (days + int(jan1.Weekday()) + 7) / 7
}

// FormatDateFO renders a date as "5. jan". Unparseable input is returned as is.
func FormatDateFO(date string) string {
	t, ok := parseDate(date)
	if !ok {
		return date
	}
	return fmt.Sprintf("%d. %s", t.Day(), faroeseMonths[t.Month()-1])
}

func parseDate(date string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if len(date) > len(isoDate) {
		date = date[:len(isoDate)]
	}
	t, err := time.Parse(isoDate, date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
