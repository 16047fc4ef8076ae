// Package segment groups word-level transcript events into subtitle cues.
//
// Segment makes a single greedy forward pass: words join the open cue while
// the speaker is unchanged, the silence gap stays under the threshold, and the
// text already on the line is shorter than the length limit. When a cue is
// sealed its end is clamped to the next cue's start, so the returned sequence
// never overlaps. The engine never fails; missing timestamps count as 0 and a
// missing speaker becomes "Unknown".
//
// Input whose word timestamps run backwards (end before start, or a later word
// starting before an earlier one) is outside the heuristic's contract. The
// output stays well formed (no empty cues, no lost words, no overlap between
// neighbours) but line boundaries for such input are unspecified.
package segment
