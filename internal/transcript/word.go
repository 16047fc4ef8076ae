package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"podsubs/internal/fileutil"
)

// UnknownSpeaker labels words that arrive without diarization data.
const UnknownSpeaker = "Unknown"

// Word is a single recognized token. Start and End are milliseconds.
type Word struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
	Speaker    string  `json:"speaker"`
}

// SpeakerLabel returns the word's speaker, defaulting to UnknownSpeaker.
func (w Word) SpeakerLabel() string {
	if w.Speaker == "" {
		return UnknownSpeaker
	}
	return w.Speaker
}

// Transcript bundles the words returned by a transcription service.
type Transcript struct {
	ID           string
	LanguageCode string
	Words        []Word
}

// DurationMs returns the end of the last word, or 0 for an empty transcript.
func (t Transcript) DurationMs() int64 {
	var last int64
	for _, w := range t.Words {
		if w.End > last {
			last = w.End
		}
	}
	return last
}

// ReadWords decodes a JSON array of words.
func ReadWords(r io.Reader) ([]Word, error) {
	var words []Word
	if err := json.NewDecoder(r).Decode(&words); err != nil {
		return nil, fmt.Errorf("decode words: %w", err)
	}
	return words, nil
}

// LoadWords reads a words JSON file from disk.
func LoadWords(path string) ([]Word, error) {
	if strings.TrimSpace(path) == "" {
		return nil, os.ErrNotExist
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	words, err := ReadWords(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return words, nil
}

// EncodeWords renders words as a two-space indented JSON array.
func EncodeWords(words []Word) ([]byte, error) {
	if words == nil {
		words = []Word{}
	}
	data, err := json.MarshalIndent(words, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode words: %w", err)
	}
	return data, nil
}

// WriteWords writes words to path as indented JSON, replacing any existing
// file atomically.
func WriteWords(path string, words []Word) error {
	data, err := EncodeWords(words)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write words: %w", err)
	}
	return nil
}
