// Package transcriptcache persists finished transcripts in SQLite so repeated
// runs over the same audio skip the transcription service.
//
// Entries are keyed by KeyForSource: the sha256 of a local file's contents, or
// the URL itself for remote sources. Writes retry on SQLITE_BUSY with a short
// backoff so concurrent CLI invocations can share one database.
package transcriptcache
