// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-friendly article slugs from titles.
package slug

import (
	"regexp"
	"strings"
)

// disallowed matches every character that may not appear in a slug.
var disallowed = regexp.MustCompile(`[^a-z0-9-]`)

// Generate creates a slug from the given title: the title is lowercased,
// every space (U+0020) becomes a hyphen, and everything outside
// [a-z0-9-] is dropped. Other whitespace such as tabs and newlines is
// dropped too. Accented letters are dropped rather than transliterated,
// and hyphens are neither collapsed nor trimmed.
//
// Example: "Mejores Paseadores: Guía 2024!" → "mejores-paseadores-gua-2024"
func Generate(title string) string {
	result := strings.ToLower(title)
	result = strings.ReplaceAll(result, " ", "-")
	return disallowed.ReplaceAllString(result, "")
}

// Valid reports whether s is non-empty and consists only of slug characters.
func Valid(s string) bool {
	return s != "" && !disallowed.MatchString(s)
}
