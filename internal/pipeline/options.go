package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"podsubs/internal/config"
	"podsubs/internal/cuefmt"
	"podsubs/internal/render"
	"podsubs/internal/segment"
	"podsubs/internal/services"
	"podsubs/internal/transcript"
	"podsubs/internal/transcriptcache"
)

// Transcriber produces a transcript for an audio file path or URL.
type Transcriber interface {
	Transcribe(ctx context.Context, source string) (transcript.Transcript, error)
}

// Cache stores finished transcripts between runs.
type Cache interface {
	Get(ctx context.Context, key string) (transcriptcache.Entry, bool, error)
	Put(ctx context.Context, entry transcriptcache.Entry) error
}

// Options wires a Runner.
type Options struct {
	// Transcriber may be nil when only saved words JSON files are rendered.
	Transcriber Transcriber
	// Cache may be nil to disable caching.
	Cache         Cache
	Segment       segment.Options
	Rules         []cuefmt.Rule
	Render        render.Options
	Format        render.Format
	SaveWordsJSON bool
	Logger        *slog.Logger
}

// OptionsFromConfig maps configuration onto runner options. Collaborators
// are left for the caller to attach.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg == nil {
		return Options{}, services.Wrap(services.ErrConfiguration, "pipeline", "load options", "configuration is required", nil)
	}
	rules, err := StyleRules(cfg.Styles.Rules)
	if err != nil {
		return Options{}, services.Wrap(services.ErrConfiguration, "pipeline", "load style rules", "", err)
	}
	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return Options{}, services.Wrap(services.ErrConfiguration, "pipeline", "load output format", "", err)
	}
	return Options{
		Segment: segment.Options{
			GapThresholdMs:     cfg.Segmentation.GapThresholdMs,
			MaxLineLengthChars: cfg.Segmentation.MaxLineLengthChars,
		},
		Rules: rules,
		Render: render.Options{
			Title:         cfg.Output.Title,
			PlayResX:      cfg.Output.PlayResX,
			PlayResY:      cfg.Output.PlayResY,
			Font:          cfg.Output.Font,
			FontSize:      cfg.Output.FontSize,
			SpeakerPrefix: cfg.Output.SpeakerPrefix,
		},
		Format:        format,
		SaveWordsJSON: cfg.Output.SaveWordsJSON,
	}, nil
}

// StyleRules converts configured rules into formatter rules, keeping order.
func StyleRules(rules []config.StyleRule) ([]cuefmt.Rule, error) {
	out := make([]cuefmt.Rule, 0, len(rules))
	for i, rule := range rules {
		style, err := cuefmt.ParseStyle(rule.Style)
		if err != nil {
			return nil, fmt.Errorf("styles.rules[%d]: %w", i, err)
		}
		out = append(out, cuefmt.Rule{Pattern: rule.Pattern, Style: style})
	}
	return out, nil
}
