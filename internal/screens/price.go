package screens

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePrice converts a displayed price such as "$29.99" to a number
func ParsePrice(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(text, "$", "")), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", text, err)
	}
	return v, nil
}

// ParsePrices converts every displayed price
func ParsePrices(texts []string) ([]float64, error) {
	out := make([]float64, 0, len(texts))
	for _, text := range texts {
		v, err := ParsePrice(text)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
