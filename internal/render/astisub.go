package render

import (
	"fmt"
	"io"
	"time"

	"github.com/asticode/go-astisub"

	"podsubs/internal/segment"
)

func buildSubtitles(opts Options, cues []segment.Cue, voices bool) *astisub.Subtitles {
	subs := astisub.NewSubtitles()
	for _, cue := range cues {
		text := cue.Text()
		line := astisub.Line{}
		if voices {
			line.VoiceName = cue.Speaker
		} else if opts.SpeakerPrefix {
			text = cue.Speaker + ": " + text
		}
		line.Items = []astisub.LineItem{{Text: text}}
		subs.Items = append(subs.Items, &astisub.Item{
			StartAt: msToDuration(cue.Start),
			EndAt:   msToDuration(cue.End),
			Lines:   []astisub.Line{line},
		})
	}
	return subs
}

// writeSRT leaves the output empty when there are no cues.
func writeSRT(w io.Writer, opts Options, cues []segment.Cue) error {
	if len(cues) == 0 {
		return nil
	}
	if err := buildSubtitles(opts, cues, false).WriteToSRT(w); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// writeVTT tags each cue with a <v Speaker> voice span when SpeakerPrefix is
// set, which players render as the speaker name.
func writeVTT(w io.Writer, opts Options, cues []segment.Cue) error {
	if len(cues) == 0 {
		if _, err := io.WriteString(w, "WEBVTT\n"); err != nil {
			return fmt.Errorf("write vtt: %w", err)
		}
		return nil
	}
	if err := buildSubtitles(opts, cues, opts.SpeakerPrefix).WriteToWebVTT(w); err != nil {
		return fmt.Errorf("write vtt: %w", err)
	}
	return nil
}

func msToDuration(ms int64) time.Duration {
	return time.Duration(max(ms, 0)) * time.Millisecond
}
