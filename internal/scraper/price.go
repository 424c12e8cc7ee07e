package scraper

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var priceRe = regexp.MustCompile(`\$?(\d+(?:\.\d{2})?)`)

// ParsePrice extracts the first currency-like amount from text, ignoring
// thousands separators. Text without a number yields nil.
func ParsePrice(text string) *float64 {
	match := priceRe.FindStringSubmatch(strings.ReplaceAll(text, ",", ""))
	if match == nil {
		return nil
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	value = math.Round(value*100) / 100
	return &value
}
