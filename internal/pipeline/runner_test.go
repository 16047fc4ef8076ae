package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podsubs/internal/config"
	"podsubs/internal/cuefmt"
	"podsubs/internal/pipeline"
	"podsubs/internal/render"
	"podsubs/internal/services"
	"podsubs/internal/transcript"
	"podsubs/internal/transcriptcache"
)

type fakeTranscriber struct {
	calls  int
	result transcript.Transcript
	err    error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string) (transcript.Transcript, error) {
	f.calls++
	return f.result, f.err
}

func episodeWords() []transcript.Word {
	return []transcript.Word{
		{Text: "Hello", Start: 0, End: 400, Speaker: "A"},
		{Text: "world.", Start: 450, End: 900, Speaker: "A"},
		{Text: "Hi!", Start: 1800, End: 2100, Speaker: "B"},
	}
}

func writeAudio(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "episode 12.mp3")
	if err := os.WriteFile(path, []byte("fake mp3 bytes"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func openCache(t *testing.T) *transcriptcache.Store {
	t.Helper()
	store, err := transcriptcache.Open(filepath.Join(t.TempDir(), "transcripts.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunGeneratesASSAndWordsJSON(t *testing.T) {
	dir := t.TempDir()
	audio := writeAudio(t, dir)
	fake := &fakeTranscriber{result: transcript.Transcript{ID: "tr_1", Words: episodeWords()}}
	runner := pipeline.New(pipeline.Options{Transcriber: fake, SaveWordsJSON: true})

	result, err := runner.Run(context.Background(), pipeline.Request{Source: audio})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.RunID == "" {
		t.Fatal("expected run id")
	}
	if want := filepath.Join(dir, "episode 12.ass"); result.OutputPath != want {
		t.Fatalf("unexpected output path: got %q want %q", result.OutputPath, want)
	}
	if want := filepath.Join(dir, "episode 12_timestamps.json"); result.WordsPath != want {
		t.Fatalf("unexpected words path: got %q want %q", result.WordsPath, want)
	}
	if len(result.Cues) != 2 || len(result.Formatted) != 2 {
		t.Fatalf("expected 2 cues, got %d/%d", len(result.Cues), len(result.Formatted))
	}
	if result.Formatted[0].Style != cuefmt.StyleDefault {
		t.Fatalf("expected default style for speaker A, got %v", result.Formatted[0].Style)
	}

	data, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasSuffix(string(data), "Dialogue: 0,0:00:01.80,0:00:02.10,Default,B,0,0,0,,Hi!") {
		t.Fatalf("unexpected ASS tail:\n%s", data)
	}

	saved, err := transcript.LoadWords(result.WordsPath)
	if err != nil {
		t.Fatalf("load saved words: %v", err)
	}
	if len(saved) != 3 || saved[1] != episodeWords()[1] {
		t.Fatalf("unexpected saved words: %+v", saved)
	}
}

func TestRunUsesCacheOnSecondRun(t *testing.T) {
	dir := t.TempDir()
	audio := writeAudio(t, dir)
	fake := &fakeTranscriber{result: transcript.Transcript{ID: "tr_1", Words: episodeWords()}}
	runner := pipeline.New(pipeline.Options{Transcriber: fake, Cache: openCache(t)})

	first, err := runner.Run(context.Background(), pipeline.Request{Source: audio})
	if err != nil {
		t.Fatalf("first run returned error: %v", err)
	}
	if first.FromCache {
		t.Fatal("first run should not come from cache")
	}
	second, err := runner.Run(context.Background(), pipeline.Request{Source: audio})
	if err != nil {
		t.Fatalf("second run returned error: %v", err)
	}
	if !second.FromCache {
		t.Fatal("expected second run to hit the cache")
	}
	if fake.calls != 1 {
		t.Fatalf("expected a single transcription, got %d", fake.calls)
	}
	if len(second.Cues) != len(first.Cues) {
		t.Fatalf("cached run produced %d cues, want %d", len(second.Cues), len(first.Cues))
	}

	if _, err := runner.Run(context.Background(), pipeline.Request{Source: audio, SkipCache: true}); err != nil {
		t.Fatalf("skip-cache run returned error: %v", err)
	}
	if fake.calls != 2 {
		t.Fatalf("expected skip-cache to transcribe again, got %d calls", fake.calls)
	}
}

func TestRunFromWordsJSON(t *testing.T) {
	dir := t.TempDir()
	wordsPath := filepath.Join(dir, "ep7_timestamps.json")
	if err := transcript.WriteWords(wordsPath, episodeWords()); err != nil {
		t.Fatalf("write words: %v", err)
	}
	outDir := filepath.Join(t.TempDir(), "subs")
	runner := pipeline.New(pipeline.Options{SaveWordsJSON: true})

	result, err := runner.Run(context.Background(), pipeline.Request{
		WordsPath: wordsPath,
		OutputDir: outDir,
		Format:    render.FormatSRT,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if want := filepath.Join(outDir, "ep7.srt"); result.OutputPath != want {
		t.Fatalf("unexpected output path: got %q want %q", result.OutputPath, want)
	}
	if result.WordsPath != wordsPath {
		t.Fatalf("expected words path to be the input, got %q", result.WordsPath)
	}
	data, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "00:00:00,000 --> 00:00:00,900") {
		t.Fatalf("unexpected SRT output:\n%s", data)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	wordsPath := filepath.Join(dir, "ep_timestamps.json")
	if err := transcript.WriteWords(wordsPath, episodeWords()); err != nil {
		t.Fatalf("write words: %v", err)
	}
	runner := pipeline.New(pipeline.Options{})
	result, err := runner.Run(context.Background(), pipeline.Request{WordsPath: wordsPath, DryRun: true})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.OutputPath != "" || len(result.Rendered) == 0 {
		t.Fatalf("expected rendered bytes without output, got %+v", result.OutputPath)
	}
	if _, err := os.Stat(filepath.Join(dir, "ep.ass")); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, got %v", err)
	}
}

func TestRunValidatesRequest(t *testing.T) {
	runner := pipeline.New(pipeline.Options{})
	tests := []struct {
		name   string
		req    pipeline.Request
		marker error
	}{
		{name: "empty", req: pipeline.Request{}, marker: services.ErrValidation},
		{name: "both inputs", req: pipeline.Request{Source: "a.mp3", WordsPath: "a.json"}, marker: services.ErrValidation},
		{name: "no transcriber", req: pipeline.Request{Source: "a.mp3"}, marker: services.ErrConfiguration},
		{name: "missing words", req: pipeline.Request{WordsPath: filepath.Join(t.TempDir(), "none.json"), DryRun: true}, marker: services.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runner.Run(context.Background(), tt.req)
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
		})
	}
}

func TestRunPropagatesTranscriberFailure(t *testing.T) {
	dir := t.TempDir()
	audio := writeAudio(t, dir)
	failure := services.Wrap(services.ErrExternalService, "transcribe", "transcribe", "boom", nil)
	runner := pipeline.New(pipeline.Options{Transcriber: &fakeTranscriber{err: failure}})
	_, err := runner.Run(context.Background(), pipeline.Request{Source: audio})
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "episode 12.ass")); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output after failure, got %v", statErr)
	}
}

func TestRunMissingAudioWithCacheIsNotFound(t *testing.T) {
	runner := pipeline.New(pipeline.Options{Transcriber: &fakeTranscriber{}, Cache: openCache(t)})
	_, err := runner.Run(context.Background(), pipeline.Request{
		Source:    filepath.Join(t.TempDir(), "missing.mp3"),
		OutputDir: t.TempDir(),
	})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Segmentation.GapThresholdMs = 300
	cfg.Output.Format = "vtt"
	cfg.Styles.Rules = []config.StyleRule{{Pattern: "Alice", Style: "HostB"}}

	opts, err := pipeline.OptionsFromConfig(&cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig returned error: %v", err)
	}
	if opts.Segment.GapThresholdMs != 300 || opts.Format != render.FormatVTT {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if len(opts.Rules) != 1 || opts.Rules[0] != (cuefmt.Rule{Pattern: "Alice", Style: cuefmt.StyleHostB}) {
		t.Fatalf("unexpected rules: %+v", opts.Rules)
	}
	if !opts.SaveWordsJSON || opts.Render.Title != "Podcast Subtitles" {
		t.Fatalf("unexpected output options: %+v", opts.Render)
	}

	cfg.Styles.Rules = []config.StyleRule{{Pattern: "X", Style: "Loud"}}
	if _, err := pipeline.OptionsFromConfig(&cfg); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
