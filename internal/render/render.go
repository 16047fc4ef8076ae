package render

import (
	"bytes"
	"fmt"
	"io"

	"podsubs/internal/cuefmt"
	"podsubs/internal/segment"
)

const (
	defaultTitle    = "Podcast Subtitles"
	defaultPlayResX = 1920
	defaultPlayResY = 1080
	defaultFont     = "Arial"
	defaultFontSize = 60
)

// Options controls document-level output.
type Options struct {
	Title    string
	PlayResX int
	PlayResY int
	Font     string
	FontSize int
	// SpeakerPrefix prepends "Speaker: " to SRT and WebVTT text.
	SpeakerPrefix bool
}

// DefaultOptions returns the stock podcast layout.
func DefaultOptions() Options {
	return Options{
		Title:    defaultTitle,
		PlayResX: defaultPlayResX,
		PlayResY: defaultPlayResY,
		Font:     defaultFont,
		FontSize: defaultFontSize,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.PlayResX <= 0 {
		o.PlayResX = d.PlayResX
	}
	if o.PlayResY <= 0 {
		o.PlayResY = d.PlayResY
	}
	if o.Font == "" {
		o.Font = d.Font
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	return o
}

// Renderer writes cues in one format.
type Renderer struct {
	format    Format
	opts      Options
	formatter cuefmt.Formatter
}

// New returns a renderer for format. Cues are styled with formatter.
func New(format Format, opts Options, formatter cuefmt.Formatter) *Renderer {
	if format == "" {
		format = FormatASS
	}
	if len(formatter.Rules) == 0 {
		formatter = cuefmt.NewFormatter(nil)
	}
	return &Renderer{format: format, opts: opts.normalized(), formatter: formatter}
}

// Format reports the renderer's container format.
func (r *Renderer) Format() Format {
	return r.format
}

// Render writes cues to w.
func (r *Renderer) Render(w io.Writer, cues []segment.Cue) error {
	switch r.format {
	case FormatASS:
		return writeASS(w, r.opts, r.formatter.Format(cues))
	case FormatSRT:
		return writeSRT(w, r.opts, cues)
	case FormatVTT:
		return writeVTT(w, r.opts, cues)
	default:
		return fmt.Errorf("unsupported subtitle format %q", r.format)
	}
}

// Bytes renders cues into memory.
func (r *Renderer) Bytes(cues []segment.Cue) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, cues); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
