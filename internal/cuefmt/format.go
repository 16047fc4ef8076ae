package cuefmt

import (
	"strings"

	"podsubs/internal/segment"
)

// Cue is a formatted subtitle record ready for a container writer.
type Cue struct {
	StartDisplay string `json:"start"`
	EndDisplay   string `json:"end"`
	Style        Style  `json:"style"`
	Speaker      string `json:"speaker"`
	Text         string `json:"text"`
}

// Formatter maps cues to presentation records using its style rules.
type Formatter struct {
	Rules []Rule
}

// NewFormatter returns a formatter that uses rules, or DefaultRules when rules
// is empty.
func NewFormatter(rules []Rule) Formatter {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return Formatter{Rules: append([]Rule(nil), rules...)}
}

// Format converts cues one-to-one, preserving order.
func (f Formatter) Format(cues []segment.Cue) []Cue {
	out := make([]Cue, 0, len(cues))
	for _, cue := range cues {
		out = append(out, f.FormatCue(cue))
	}
	return out
}

// FormatCue converts a single cue.
func (f Formatter) FormatCue(cue segment.Cue) Cue {
	return Cue{
		StartDisplay: Timestamp(cue.Start),
		EndDisplay:   Timestamp(cue.End),
		Style:        ResolveStyle(f.Rules, cue.Speaker),
		Speaker:      cue.Speaker,
		Text:         strings.Join(cue.Words, " "),
	}
}

// Format converts cues using DefaultRules.
func Format(cues []segment.Cue) []Cue {
	return NewFormatter(nil).Format(cues)
}
