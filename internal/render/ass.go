package render

import (
	"fmt"
	"io"
	"strings"

	"podsubs/internal/cuefmt"
)

const (
	assStyleFormat = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"
	assEventFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"
	// Secondary, outline and back colours, flags, scale, border and margins
	// shared by every style row.
	assStyleTail = "&H000000FF,&H00000000,&H80000000,0,0,0,0,100,100,0,0,1,1.5,1.0,2,10,10,50,1"
)

type assStyle struct {
	style   cuefmt.Style
	primary string
}

// Row order matches the style sheet players expect: Host A, Host B, Default.
var assStyles = []assStyle{
	{style: cuefmt.StyleHostA, primary: "&H008AB3FF"},
	{style: cuefmt.StyleHostB, primary: "&H00FAE6E6"},
	{style: cuefmt.StyleDefault, primary: "&H00FFFFFF"},
}

// ASSStyleName returns the style row name used in ASS documents.
func ASSStyleName(style cuefmt.Style) string {
	switch style {
	case cuefmt.StyleHostA:
		return "Host A"
	case cuefmt.StyleHostB:
		return "Host B"
	default:
		return "Default"
	}
}

// writeASS joins every line with "\n" and leaves no trailing newline.
func writeASS(w io.Writer, opts Options, cues []cuefmt.Cue) error {
	lines := make([]string, 0, 14+len(cues))
	lines = append(lines,
		"[Script Info]",
		"Title: "+opts.Title,
		"ScriptType: v4.00+",
		"Collisions: Normal",
		fmt.Sprintf("PlayResX: %d", opts.PlayResX),
		fmt.Sprintf("PlayResY: %d", opts.PlayResY),
		"",
		"[V4+ Styles]",
		assStyleFormat,
	)
	for _, s := range assStyles {
		lines = append(lines, fmt.Sprintf("Style: %s,%s,%d,%s,%s",
			ASSStyleName(s.style), opts.Font, opts.FontSize, s.primary, assStyleTail))
	}
	lines = append(lines, "", "[Events]", assEventFormat)
	for _, cue := range cues {
		lines = append(lines, dialogueLine(cue))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write ass: %w", err)
	}
	return nil
}

func dialogueLine(cue cuefmt.Cue) string {
	return fmt.Sprintf("Dialogue: 0,%s,%s,%s,%s,0,0,0,,%s",
		cue.StartDisplay, cue.EndDisplay, ASSStyleName(cue.Style), cue.Speaker, cue.Text)
}
