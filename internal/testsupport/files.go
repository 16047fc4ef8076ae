package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"podsubs/internal/transcript"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := min(int64(chunkSize), remaining)
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// SampleWords returns a short two-speaker transcript: two cues for speaker A
// and B, with the second cue starting 900ms after the first ends.
func SampleWords() []transcript.Word {
	return []transcript.Word{
		{Text: "Welcome", Start: 0, End: 400, Confidence: 0.99, Speaker: "Speaker A"},
		{Text: "back.", Start: 450, End: 900, Confidence: 0.97, Speaker: "Speaker A"},
		{Text: "Thanks!", Start: 1800, End: 2100, Confidence: 0.95, Speaker: "Speaker B"},
	}
}

// WriteWords writes words as a words JSON artifact at path.
func WriteWords(t testing.TB, path string, words []transcript.Word) {
	t.Helper()

	if err := transcript.WriteWords(path, words); err != nil {
		t.Fatalf("write words %s: %v", path, err)
	}
}
