// Package preflight provides readiness checks for the filesystem paths and
// transcription service that podsubs depends on.
//
// These checks run in two contexts:
//   - The "podsubs check" command runs RunAll and prints one status line per
//     result.
//   - The generate pipeline calls CheckOutputReady before transcribing so a
//     long transcription is never wasted on an unwritable destination.
//
// Checks for disabled features (such as the transcript cache) are skipped.
package preflight
