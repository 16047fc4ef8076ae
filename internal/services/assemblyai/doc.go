// Package assemblyai submits podcast audio to AssemblyAI and converts the
// finished transcript into podsubs word events.
//
// Remote sources (anything containing "://") are transcribed by URL; local
// files are uploaded first. The SDK blocks until the transcript completes, so
// callers bound the wait through the configured timeout or their context.
package assemblyai
