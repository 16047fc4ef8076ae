package segment

import (
	"context"
	"log/slog"

	"podsubs/internal/logging"
	"podsubs/internal/transcript"
)

// Summary describes one segmentation pass.
type Summary struct {
	Words    int
	Cues     int
	Speakers int
	Clamped  int
}

// Segmenter runs Segment with fixed options and reports each pass to a logger.
type Segmenter struct {
	opts   Options
	logger *slog.Logger
}

// NewSegmenter constructs a Segmenter. A nil logger discards output.
func NewSegmenter(opts Options, logger *slog.Logger) *Segmenter {
	return &Segmenter{
		opts:   opts.normalized(),
		logger: logging.NewComponentLogger(logger, "segment"),
	}
}

// Options returns the effective thresholds after defaulting.
func (s *Segmenter) Options() Options {
	return s.opts
}

// Segment groups words into cues and logs a summary of the pass.
func (s *Segmenter) Segment(ctx context.Context, words []transcript.Word) ([]Cue, Summary) {
	cues, clamped := run(words, s.opts)
	summary := Summary{
		Words:    len(words),
		Cues:     len(cues),
		Speakers: countSpeakers(cues),
		Clamped:  clamped,
	}
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("segmentation complete",
		logging.String(logging.FieldEventType, "segmentation_complete"),
		logging.Int("words", summary.Words),
		logging.Int("cues", summary.Cues),
		logging.Int("speakers", summary.Speakers),
		logging.Int("clamped", summary.Clamped),
		logging.Int64("gap_threshold_ms", s.opts.GapThresholdMs),
		logging.Int("max_line_length_chars", s.opts.MaxLineLengthChars),
	)
	if err := CheckInvariants(cues); err != nil {
		logging.WarnWithContext(logger, "segmented cues failed self-check", "segmentation_invariant",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect the words JSON for timestamps that run backwards"),
			logging.String(logging.FieldImpact, "subtitle lines may overlap on screen"),
		)
	}
	return cues, summary
}

func countSpeakers(cues []Cue) int {
	seen := make(map[string]struct{}, 4)
	for _, cue := range cues {
		seen[cue.Speaker] = struct{}{}
	}
	return len(seen)
}
