package providers

import (
	"strings"
	"unicode/utf8"
)

// Result is the outcome of a best-effort fetch. A degraded result still
// carries a usable Value (a fallback or a partial list), and Reason says
// what went wrong.
type Result[T any] struct {
	Value    T
	Degraded bool
	Reason   error
}

func OK[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func Degraded[T any](value T, reason error) Result[T] {
	return Result[T]{Value: value, Degraded: true, Reason: reason}
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// Underscore replaces spaces the way encyclopedia and download names expect.
func Underscore(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}
