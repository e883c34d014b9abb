// Package country decides whether a map label names the same country as a
// catalog origin.
//
// Boundary datasets and the equipment catalog do not agree on naming
// ("Russian Federation" vs "Russia"), so matching is case-insensitive and
// accepts a substring hit in either direction against a per-country alias
// set. Matching is diacritic sensitive: "Turkiye" does not match "Türkiye".
package country

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
)

var defaultAliases = map[string][]string{
	"United States":  {"United States of America", "USA", "United States", "US"},
	"United Kingdom": {"United Kingdom", "Great Britain", "UK", "Britain"},
	"Russia":         {"Russian Federation", "Russia"},
	"Turkey":         {"Turkey", "Türkiye", "Republic of Turkey"},
	"Israel":         {"Israel", "State of Israel"},
	"France":         {"France", "French Republic"},
	"Germany":        {"Germany", "Federal Republic of Germany"},
	"Sweden":         {"Sweden", "Kingdom of Sweden"},
	"China":          {"China", "People's Republic of China"},
	"India":          {"India", "Republic of India"},
}

// Matcher holds canonical country names and their accepted aliases.
// A Matcher is immutable once built and safe for concurrent use.
type Matcher struct {
	aliases map[string][]string
}

// NewMatcher builds a matcher from canonical name -> aliases.
func NewMatcher(aliases map[string][]string) *Matcher {
	m := &Matcher{aliases: make(map[string][]string, len(aliases))}
	for canonical, list := range aliases {
		m.aliases[canonical] = slices.Clone(list)
	}
	return m
}

// Default returns a matcher with the built-in alias table.
func Default() *Matcher {
	return NewMatcher(defaultAliases)
}

// With returns a copy of m extended by extra. Aliases for a canonical name
// already known to m are appended, not replaced.
func (m *Matcher) With(extra map[string][]string) *Matcher {
	merged := maps.Clone(m.aliases)
	for canonical, list := range extra {
		existing := slices.Clone(merged[canonical])
		for _, a := range list {
			if !slices.Contains(existing, a) {
				existing = append(existing, a)
			}
		}
		merged[canonical] = existing
	}
	return NewMatcher(merged)
}

// Aliases returns the alias set for origin. An unregistered origin is its
// own only alias.
func (m *Matcher) Aliases(origin string) []string {
	if list, ok := m.aliases[origin]; ok {
		return slices.Clone(list)
	}
	return []string{origin}
}

// IsMatch reports whether selected names origin. An empty selection never
// matches.
func (m *Matcher) IsMatch(selected, origin string) bool {
	sel := strings.ToLower(strings.TrimSpace(selected))
	if sel == "" {
		return false
	}
	for _, alias := range m.Aliases(origin) {
		a := strings.ToLower(alias)
		if a == "" {
			continue
		}
		if sel == a || strings.Contains(sel, a) || strings.Contains(a, sel) {
			return true
		}
	}
	return false
}

// LoadAliases reads an alias table from a JSON file of the form
// {"Canonical": ["alias", ...]}. The result is meant for Matcher.With.
func LoadAliases(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening aliases: %w", err)
	}
	defer f.Close()
	return ParseAliases(f)
}

func ParseAliases(r io.Reader) (map[string][]string, error) {
	var aliases map[string][]string
	if err := json.NewDecoder(r).Decode(&aliases); err != nil {
		return nil, fmt.Errorf("decoding aliases: %w", err)
	}
	for canonical := range aliases {
		if strings.TrimSpace(canonical) == "" {
			return nil, fmt.Errorf("decoding aliases: empty country name")
		}
	}
	return aliases, nil
}
