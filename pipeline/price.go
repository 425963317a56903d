package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/designmesh/core"
)

// ParsePrice reduces a display price string to a number. The currency symbol
// and thousands separators are stripped; anything that still fails to parse
// contributes zero so cost aggregation never fails.
func ParsePrice(price string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(price, "$", ""), ",", ""))
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// TotalCost sums the parsed prices of all items. Well-defined for any mixture
// of valid, malformed and missing prices.
func TotalCost(items []core.FurnitureItem) float64 {
	var total float64
	for _, item := range items {
		total += ParsePrice(item.Price)
	}
	return total
}

// formatMoney renders an amount with two decimals and thousands separators
// ("1358.99" -> "1,358.99").
func formatMoney(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	out := sb.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
