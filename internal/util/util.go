// Package util provides small string helpers shared by the host-facing packages.
package util

import (
	"strconv"
	"strings"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanArg strips the quoting the host adds around every string argument.
func CleanArg(s string) string {
	return FixEscapeQuotes(TrimQuotes(s))
}

// CleanArgs applies CleanArg to every element and returns a new slice.
func CleanArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = CleanArg(a)
	}
	return out
}

// FormatFloat renders v in its shortest exact decimal form (5000, 5000.5).
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
