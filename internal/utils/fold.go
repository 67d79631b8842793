// Package utils holds small helpers shared by the wordlens packages:
// TOML file handling, directory probing and case-insensitive text matching.
package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of s. Accented letters fold the way
// Unicode defines it, so "Ação" and "AÇÃO" compare equal.
// A Caser keeps state, so each call gets its own.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// EqualFold reports whether a and b are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	if a == b {
		return true
	}
	return Fold(a) == Fold(b)
}

// ContainsFold reports whether list holds s, ignoring case.
func ContainsFold(list []string, s string) bool {
	target := Fold(s)
	for _, item := range list {
		if Fold(item) == target {
			return true
		}
	}
	return false
}

// TrimmedLen counts the runes of s after trimming surrounding whitespace.
func TrimmedLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
