package render

import (
	"fmt"
	"strings"
)

// Format names a subtitle container.
type Format string

const (
	FormatASS Format = "ass"
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// ParseFormat resolves a format name or file extension.
func ParseFormat(value string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(value)), ".") {
	case "", "ass", "ssa":
		return FormatASS, nil
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unsupported subtitle format %q (want ass, srt, or vtt)", value)
	}
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	default:
		return ".ass"
	}
}

func (f Format) String() string {
	if f == "" {
		return string(FormatASS)
	}
	return string(f)
}
