package utils

import (
	"fmt"
	"strings"
)

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// Excerpt returns at most limit leading characters of s, untouched otherwise.
func Excerpt(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// HumanSize formats a byte count in kilobytes with two decimals.
func HumanSize(size int64) string {
	return fmt.Sprintf("%.2f KB", float64(size)/1024)
}
