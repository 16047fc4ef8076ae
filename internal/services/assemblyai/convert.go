package assemblyai

import (
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"podsubs/internal/services"
	"podsubs/internal/transcript"
)

// Convert maps an SDK transcript to podsubs words, prefixing non-empty speaker
// labels with labelPrefix. A transcript reporting the error status is returned
// as an external service failure.
func Convert(raw aai.Transcript, labelPrefix string) (transcript.Transcript, error) {
	if raw.Status == aai.TranscriptStatusError {
		message := strings.TrimSpace(fromPtr(raw.Error))
		if message == "" {
			message = "transcription failed"
		}
		return transcript.Transcript{}, services.Wrap(services.ErrExternalService, stageName, "transcribe", message, nil)
	}

	words := make([]transcript.Word, 0, len(raw.Words))
	for _, w := range raw.Words {
		speaker := fromPtr(w.Speaker)
		if speaker != "" {
			speaker = labelPrefix + speaker
		}
		words = append(words, transcript.Word{
			Text:       fromPtr(w.Text),
			Start:      fromPtr(w.Start),
			End:        fromPtr(w.End),
			Confidence: fromPtr(w.Confidence),
			Speaker:    speaker,
		})
	}
	return transcript.Transcript{
		ID:           fromPtr(raw.ID),
		LanguageCode: string(raw.LanguageCode),
		Words:        words,
	}, nil
}

func fromPtr[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
