package cuefmt

import (
	"fmt"
	"strings"
)

// Style is the presentation class assigned to a cue.
type Style int

const (
	StyleDefault Style = iota
	StyleHostA
	StyleHostB
)

// String returns the canonical style name.
func (s Style) String() string {
	switch s {
	case StyleHostA:
		return "HostA"
	case StyleHostB:
		return "HostB"
	default:
		return "Default"
	}
}

// MarshalText encodes the style by name.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a style name.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStyle resolves a style name. Matching ignores case and spaces, so
// "Host A" and "hosta" both resolve to StyleHostA.
func ParseStyle(value string) (Style, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))
	switch key {
	case "hosta":
		return StyleHostA, nil
	case "hostb":
		return StyleHostB, nil
	case "default":
		return StyleDefault, nil
	default:
		return StyleDefault, fmt.Errorf("unknown style %q (want HostA, HostB, or Default)", value)
	}
}

// Rule maps speakers whose label contains Pattern to Style.
type Rule struct {
	Pattern string
	Style   Style
}

// DefaultRules accepts either role labels ("Host A") or generic diarization
// labels ("Speaker A").
var DefaultRules = []Rule{
	{Pattern: "Host A", Style: StyleHostA},
	{Pattern: "Speaker A", Style: StyleHostA},
	{Pattern: "Host B", Style: StyleHostB},
	{Pattern: "Speaker B", Style: StyleHostB},
}

// ResolveStyle evaluates rules top to bottom with a case-sensitive substring
// test. The first match wins; no match yields StyleDefault.
func ResolveStyle(rules []Rule, speaker string) Style {
	for _, rule := range rules {
		if rule.Pattern != "" && strings.Contains(speaker, rule.Pattern) {
			return rule.Style
		}
	}
	return StyleDefault
}
