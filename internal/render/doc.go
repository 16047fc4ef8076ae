// Package render writes resolved subtitle cues to container formats.
//
// ASS output reproduces the podcast style sheet (Host A, Host B, Default) and
// emits one Dialogue event per formatted cue. SRT and WebVTT output is built
// with go-astisub from the same resolved cues, so every format carries
// identical timing.
package render
