// Package cuefmt turns resolved cues into presentation records.
//
// Each cue is mapped to a display style by an ordered rule list matched against
// the speaker label, its millisecond bounds are rendered as H:MM:SS.cc
// timestamps, and its words are joined with single spaces. Formatting is pure:
// the same cues always yield the same records, one per cue, in input order.
package cuefmt
