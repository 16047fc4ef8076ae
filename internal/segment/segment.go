package segment

import (
	"unicode/utf8"

	"podsubs/internal/transcript"
)

const (
	// DefaultGapThresholdMs is the largest silence, in milliseconds, that two
	// words may be separated by and still share a cue.
	DefaultGapThresholdMs int64 = 600
	// DefaultMaxLineLengthChars caps the accumulated word characters (spaces
	// excluded) before a cue is forced to close.
	DefaultMaxLineLengthChars = 80
)

// Options controls cue boundaries. A zero or negative field means "use the
// default", so Options{} behaves like DefaultOptions and a zero gap threshold
// cannot be requested.
type Options struct {
	// GapThresholdMs splits words whose silence is at least this long.
	// Zero selects DefaultGapThresholdMs.
	GapThresholdMs int64
	// MaxLineLengthChars closes a cue once its words reach this many
	// characters. Zero selects DefaultMaxLineLengthChars.
	MaxLineLengthChars int
}

// DefaultOptions returns the standard segmentation thresholds.
func DefaultOptions() Options {
	return Options{
		GapThresholdMs:     DefaultGapThresholdMs,
		MaxLineLengthChars: DefaultMaxLineLengthChars,
	}
}

func (o Options) normalized() Options {
	if o.GapThresholdMs <= 0 {
		o.GapThresholdMs = DefaultGapThresholdMs
	}
	if o.MaxLineLengthChars <= 0 {
		o.MaxLineLengthChars = DefaultMaxLineLengthChars
	}
	return o
}

// Segment groups words into non-overlapping cues.
func Segment(words []transcript.Word, opts Options) []Cue {
	cues, _ := run(words, opts)
	return cues
}

// builder holds the single open cue while the pass walks the words.
type builder struct {
	opts    Options
	open    Cue
	lineLen int
	sealed  []Cue
	clamped int
}

func run(words []transcript.Word, opts Options) ([]Cue, int) {
	if len(words) == 0 {
		return nil, 0
	}
	b := &builder{opts: opts.normalized()}
	b.reopen(words[0])
	for _, w := range words[1:] {
		if b.accepts(w) {
			b.merge(w)
			continue
		}
		if b.open.End > w.Start {
			b.open.End = w.Start
			b.clamped++
		}
		b.sealed = append(b.sealed, b.open)
		b.reopen(w)
	}
	if n := len(b.sealed); n > 0 && b.sealed[n-1].End > b.open.Start {
		b.sealed[n-1].End = b.open.Start
		b.clamped++
	}
	b.sealed = append(b.sealed, b.open)
	return b.sealed, b.clamped
}

// accepts decides merge-vs-flush against the open cue as it stands, before w
// is appended. The candidate word's own length is not counted.
func (b *builder) accepts(w transcript.Word) bool {
	gap := w.Start - b.open.End
	return w.SpeakerLabel() == b.open.Speaker &&
		gap < b.opts.GapThresholdMs &&
		b.lineLen < b.opts.MaxLineLengthChars
}

func (b *builder) merge(w transcript.Word) {
	b.open.Words = append(b.open.Words, w.Text)
	b.open.End = w.End
	b.lineLen += utf8.RuneCountInString(w.Text)
}

func (b *builder) reopen(w transcript.Word) {
	b.open = Cue{
		Speaker: w.SpeakerLabel(),
		Start:   w.Start,
		End:     w.End,
		Words:   []string{w.Text},
	}
	b.lineLen = utf8.RuneCountInString(w.Text)
}
