// Package strutil provides small string conversion helpers for query parameters.
package strutil

import "strconv"

// ConvertToInt parses s as an int, returning 0 when parsing fails.
func ConvertToInt(s string) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return value
}
