package importer

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePrice parses a locale-flexible decimal string: both "50.5" and
// "50,5" are accepted. Negative amounts pass through, promotional
// prices can be negative deltas on some provider exports.
func ParsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}
	s = strings.ReplaceAll(s, ",", ".")
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price format: %s", raw)
	}
	return value, nil
}
