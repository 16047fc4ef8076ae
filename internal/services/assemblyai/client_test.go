package assemblyai

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"podsubs/internal/services"
)

type fakeTranscripts struct {
	url        string
	uploaded   string
	params     *aai.TranscriptOptionalParams
	transcript aai.Transcript
	err        error
	block      bool
}

func (f *fakeTranscripts) TranscribeFromURL(ctx context.Context, audioURL string, params *aai.TranscriptOptionalParams) (aai.Transcript, error) {
	f.url = audioURL
	f.params = params
	return f.result(ctx)
}

func (f *fakeTranscripts) TranscribeFromReader(ctx context.Context, reader io.Reader, params *aai.TranscriptOptionalParams) (aai.Transcript, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return aai.Transcript{}, err
	}
	f.uploaded = string(data)
	f.params = params
	return f.result(ctx)
}

func (f *fakeTranscripts) result(ctx context.Context) (aai.Transcript, error) {
	if f.block {
		<-ctx.Done()
		return aai.Transcript{}, ctx.Err()
	}
	return f.transcript, f.err
}

func completed(words ...aai.TranscriptWord) aai.Transcript {
	return aai.Transcript{
		ID:           ptr("tr_123"),
		Status:       aai.TranscriptStatusCompleted,
		LanguageCode: aai.TranscriptLanguageCode("en_us"),
		Words:        words,
	}
}

func newTestClient(t *testing.T, cfg Config, fake *fakeTranscripts) *Client {
	t.Helper()
	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	client, err := NewClient(cfg, withTranscripts(fake))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{APIKey: "  "})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTranscribeRemoteSourceUsesURL(t *testing.T) {
	fake := &fakeTranscripts{transcript: completed(aai.TranscriptWord{
		Text: ptr("Hello"), Start: ptr(int64(0)), End: ptr(int64(400)), Confidence: ptr(0.9), Speaker: ptr("A"),
	})}
	client := newTestClient(t, Config{SpeakerLabels: true, SpeakersExpected: 2, SpeechModel: "universal"}, fake)

	got, err := client.Transcribe(context.Background(), "https://cdn.example.com/ep1.mp3")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if fake.url != "https://cdn.example.com/ep1.mp3" {
		t.Fatalf("expected URL submission, got %q", fake.url)
	}
	if got.ID != "tr_123" || got.LanguageCode != "en_us" {
		t.Fatalf("unexpected transcript metadata: %+v", got)
	}
	if len(got.Words) != 1 || got.Words[0].Text != "Hello" || got.Words[0].Speaker != "A" || got.Words[0].End != 400 {
		t.Fatalf("unexpected words: %+v", got.Words)
	}
	if fake.params.SpeakersExpected == nil || *fake.params.SpeakersExpected != 2 {
		t.Fatalf("expected speakers_expected=2, got %v", fake.params.SpeakersExpected)
	}
	if fake.params.SpeechModel != aai.SpeechModel("universal") {
		t.Fatalf("unexpected speech model: %q", fake.params.SpeechModel)
	}
}

func TestTranscribeLocalFileUploadsContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.wav")
	if err := os.WriteFile(path, []byte("RIFF-audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	fake := &fakeTranscripts{transcript: completed()}
	client := newTestClient(t, Config{}, fake)

	if _, err := client.Transcribe(context.Background(), path); err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if fake.uploaded != "RIFF-audio" {
		t.Fatalf("expected uploaded contents, got %q", fake.uploaded)
	}
	if fake.url != "" {
		t.Fatalf("did not expect URL submission, got %q", fake.url)
	}
}

func TestTranscribeMissingFileIsNotFound(t *testing.T) {
	client := newTestClient(t, Config{}, &fakeTranscripts{})
	_, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestTranscribeWrapsServiceFailures(t *testing.T) {
	fake := &fakeTranscripts{err: errors.New("401 unauthorized")}
	client := newTestClient(t, Config{}, fake)
	_, err := client.Transcribe(context.Background(), "https://example.com/a.mp3")
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestTranscribeTimeoutIsTransient(t *testing.T) {
	fake := &fakeTranscripts{block: true}
	client := newTestClient(t, Config{}, fake)
	client.timeout = 10 * time.Millisecond
	_, err := client.Transcribe(context.Background(), "https://example.com/a.mp3")
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestTranscribeErrorStatus(t *testing.T) {
	fake := &fakeTranscripts{transcript: aai.Transcript{
		Status: aai.TranscriptStatusError,
		Error:  ptr("audio file could not be decoded"),
	}}
	client := newTestClient(t, Config{}, fake)
	_, err := client.Transcribe(context.Background(), "https://example.com/a.mp3")
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "could not be decoded") {
		t.Fatalf("expected service message in error, got %v", err)
	}
}

func TestParamsLanguageCodeDisablesDetection(t *testing.T) {
	client := newTestClient(t, Config{LanguageDetection: true, LanguageCode: "de"}, &fakeTranscripts{})
	params := client.params()
	if params.LanguageCode != aai.TranscriptLanguageCode("de") {
		t.Fatalf("unexpected language code: %q", params.LanguageCode)
	}
	if params.LanguageDetection == nil || *params.LanguageDetection {
		t.Fatal("expected language detection disabled when a code is set")
	}
}

func TestParamsOmitSpeakersExpectedWithoutLabels(t *testing.T) {
	client := newTestClient(t, Config{SpeakerLabels: false, SpeakersExpected: 3}, &fakeTranscripts{})
	if params := client.params(); params.SpeakersExpected != nil {
		t.Fatalf("expected speakers_expected omitted, got %d", *params.SpeakersExpected)
	}
}

func TestConvertDefaultsNilFields(t *testing.T) {
	got, err := Convert(completed(aai.TranscriptWord{Text: ptr("um")}), "Speaker ")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	w := got.Words[0]
	if w.Text != "um" || w.Start != 0 || w.End != 0 || w.Confidence != 0 || w.Speaker != "" {
		t.Fatalf("unexpected zero-value conversion: %+v", w)
	}
	if w.SpeakerLabel() != "Unknown" {
		t.Fatalf("expected Unknown speaker label, got %q", w.SpeakerLabel())
	}
}

func TestConvertPrefixesSpeakerLabels(t *testing.T) {
	got, err := Convert(completed(
		aai.TranscriptWord{Text: ptr("hi"), Speaker: ptr("A")},
		aai.TranscriptWord{Text: ptr("there"), Speaker: ptr("B")},
	), "Speaker ")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if got.Words[0].Speaker != "Speaker A" || got.Words[1].Speaker != "Speaker B" {
		t.Fatalf("unexpected speakers: %+v", got.Words)
	}
}
