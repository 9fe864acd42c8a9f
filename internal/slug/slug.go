// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL- and hostname-friendly slugs from arbitrary strings.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// apostrophes are removed instead of becoming separators, so "Joe's" stays
// one word.
const apostrophes = "'‘’`"

// Generate creates a slug from the given string: accents are folded, letters
// lower-cased, apostrophes dropped, and every other run of characters
// outside [a-z0-9] becomes a single hyphen. Leading and trailing hyphens are
// trimmed.
// Example: "Joe's Pizza!! Café" → "joes-pizza-cafe"
func Generate(s string) string {
	s = fold(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case strings.ContainsRune(apostrophes, r):
			continue
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// Truncate cuts a slug to at most max bytes and trims any hyphen left at the
// end by the cut. Slugs from Generate are ASCII, so bytes equal characters.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimRight(s[:max], "-")
}

// fold strips combining marks after canonical decomposition ("é" → "e").
func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
