// Package transcript defines the word-level transcript model shared by the
// transcription client, the segmentation engine, and the cache.
//
// Words carry millisecond timestamps and an optional speaker label. Missing
// fields decode to their zero values, which the engine treats as defaults (0
// for timestamps, "Unknown" for speakers). The package also owns the
// `<base>_timestamps.json` artifact written next to every generated subtitle.
package transcript
