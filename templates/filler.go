// Package templates fills bracket-token placeholders in generated message
// drafts. Tokens look like [COMPANY_NAME]: upper-case letters, digits and
// underscores between square brackets. Unknown tokens are left as literal
// text so the user can see exactly what still needs filling in.
package templates

import (
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\[([A-Z0-9_]+)\]`)

// Fill replaces every [TOKEN] occurrence with values[TOKEN]. A token with no
// entry, or an entry that is empty after trimming, keeps its literal bracket
// form in the output. Every occurrence of the same token is replaced.
//
// Only upper-case tokens ([A-Z0-9_]+) are recognized; bracketed text with
// lower-case letters is ordinary text. Values keyed by a mixed-case name are
// never applied.
func Fill(text string, values map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := values[name]
		if !ok || strings.TrimSpace(value) == "" {
			return match
		}
		return value
	})
}

// Tokens returns the distinct token names present in text, in first-seen
// order.
func Tokens(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, match := range tokenPattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
