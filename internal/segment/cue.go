package segment

import (
	"errors"
	"fmt"
	"strings"
)

// Cue is a timed block of words spoken by one speaker. Start and End are
// milliseconds.
type Cue struct {
	Speaker string
	Start   int64
	End     int64
	Words   []string
}

// Text joins the cue's words with single spaces.
func (c Cue) Text() string {
	return strings.Join(c.Words, " ")
}

// ErrInvariant marks a cue sequence that overlaps or contains an empty cue.
var ErrInvariant = errors.New("cue invariant violated")

// CheckInvariants verifies that every cue holds at least one word, ends no
// earlier than it starts, and does not overlap its neighbour.
func CheckInvariants(cues []Cue) error {
	for i, cue := range cues {
		if len(cue.Words) == 0 {
			return fmt.Errorf("%w: cue %d has no words", ErrInvariant, i)
		}
		if cue.End < cue.Start {
			return fmt.Errorf("%w: cue %d ends at %dms before it starts at %dms", ErrInvariant, i, cue.End, cue.Start)
		}
		if i > 0 && cues[i-1].End > cue.Start {
			return fmt.Errorf("%w: cue %d ends at %dms after cue %d starts at %dms",
				ErrInvariant, i-1, cues[i-1].End, i, cue.Start)
		}
	}
	return nil
}

// Flatten returns every word of every cue in sequence order.
func Flatten(cues []Cue) []string {
	var out []string
	for _, cue := range cues {
		out = append(out, cue.Words...)
	}
	return out
}
