package utils

import (
	"fmt"
	"strings"
	"time"
)

func BoolPtr(b bool) *bool {
	return &b
}

func Int64Ptr(i int64) *int64 {
	return &i
}

func StringPtr(s string) *string {
	return &s
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

// TrimmedPtr returns nil for blank input so optional columns stay NULL.
func TrimmedPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func PtrInt64(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}

// FormatCents renders an amount in cents as a dollar string, e.g. 12345 -> "$123.45".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
