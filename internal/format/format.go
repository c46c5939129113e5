// Package format renders amounts, percentages and chart colours for display.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/GoPolymarket/vesting-dashboard/internal/vesting"
)

var tag = language.AmericanEnglish

func printer() *message.Printer {
	return message.NewPrinter(tag)
}

// Currency renders whole US dollars with grouping, e.g. "$12,345".
func Currency(v float64) string {
	v = math.Round(v)
	if v < 0 {
		return "-$" + printer().Sprint(number.Decimal(-v, number.MaxFractionDigits(0)))
	}
	return "$" + printer().Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

// Number renders v with grouping and at most two fraction digits.
func Number(v float64) string {
	v = math.Round(v*100) / 100
	return printer().Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Percent renders a 0-100 value with one decimal, e.g. "35.0%".
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

var categoryColors = map[vesting.Category]string{
	vesting.Project:     "#3B82F6",
	vesting.Participant: "#10B981",
	vesting.Auditor:     "#F59E0B",
}

// DefaultColor is used for anything without an assigned colour.
const DefaultColor = "#6B7280"

// CategoryColor is the chart colour of a recipient category.
func CategoryColor(c vesting.Category) string {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return DefaultColor
}

// ApproachColor is the chart colour of a vesting model.
func ApproachColor(a vesting.Approach) string {
	switch a {
	case vesting.Pure:
		return "#8B5CF6"
	case vesting.Hybrid:
		return "#EC4899"
	}
	return DefaultColor
}

// RGBA converts "#RRGGBB" to a CSS rgba() string with the given alpha.
func RGBA(hex string, alpha float64) (string, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(alpha, 'f', -1, 64)), nil
}

// ParseHex splits "#RRGGBB" into its channels.
func ParseHex(hex string) (r, g, b uint8, err error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("format: invalid hex colour %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("format: invalid hex colour %q: %w", hex, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
