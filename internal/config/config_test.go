package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"podsubs/internal/config"
)

func TestLoadDefaultConfigUsesEnvAPIKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "env-key")
	t.Setenv("XDG_CACHE_HOME", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "podsubs", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if want := filepath.Join(tempHome, ".cache", "podsubs", "transcripts.db"); cfg.Paths.CachePath != want {
		t.Fatalf("unexpected cache path: got %q want %q", cfg.Paths.CachePath, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "podsubs", "logs"); cfg.Paths.LogDir != want {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, want)
	}
	if cfg.AssemblyAI.APIKey != "env-key" {
		t.Fatalf("expected API key from env, got %q", cfg.AssemblyAI.APIKey)
	}
	if cfg.Segmentation.GapThresholdMs != 600 || cfg.Segmentation.MaxLineLengthChars != 80 {
		t.Fatalf("unexpected segmentation defaults: %+v", cfg.Segmentation)
	}
	if cfg.Output.Format != "ass" || cfg.Output.Title != "Podcast Subtitles" {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if !cfg.AssemblyAI.SpeakerLabels || !cfg.AssemblyAI.LanguageDetection {
		t.Fatal("expected speaker labels and language detection enabled by default")
	}
	if len(cfg.Styles.Rules) != 4 || cfg.Styles.Rules[0].Style != "HostA" {
		t.Fatalf("unexpected default style rules: %+v", cfg.Styles.Rules)
	}
	if !cfg.Cache.Enabled {
		t.Fatal("expected cache enabled by default")
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "podsubs.toml")
	content := `
[paths]
output_dir = "~/subs"

[assemblyai]
api_key = "file-key"
language_code = "EN_us"
speakers_expected = 2
summarization = false

[segmentation]
gap_threshold_ms = 450
max_line_length_chars = 42

[[styles.rules]]
pattern = "Alice"
style = "host a"

[output]
format = "WebVTT"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected existing config at %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if want := filepath.Join(tempHome, "subs"); cfg.Paths.OutputDir != want {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, want)
	}
	if cfg.AssemblyAI.APIKey != "file-key" {
		t.Fatalf("unexpected api key: %q", cfg.AssemblyAI.APIKey)
	}
	if cfg.AssemblyAI.LanguageCode != "en_us" {
		t.Fatalf("expected language code lowercased, got %q", cfg.AssemblyAI.LanguageCode)
	}
	if cfg.AssemblyAI.SpeakersExpected != 2 || cfg.AssemblyAI.Summarization {
		t.Fatalf("unexpected assemblyai overrides: %+v", cfg.AssemblyAI)
	}
	if !cfg.AssemblyAI.Punctuate {
		t.Fatal("expected unspecified punctuate to keep its default")
	}
	if cfg.Segmentation.GapThresholdMs != 450 || cfg.Segmentation.MaxLineLengthChars != 42 {
		t.Fatalf("unexpected segmentation: %+v", cfg.Segmentation)
	}
	if len(cfg.Styles.Rules) != 1 || cfg.Styles.Rules[0] != (config.StyleRule{Pattern: "Alice", Style: "HostA"}) {
		t.Fatalf("unexpected style rules: %+v", cfg.Styles.Rules)
	}
	if cfg.Output.Format != "vtt" {
		t.Fatalf("expected webvtt alias to normalize to vtt, got %q", cfg.Output.Format)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestConfigFileWinsOverEnvAPIKey(t *testing.T) {
	t.Setenv("ASSEMBLYAI_API_KEY", "env-key")
	t.Setenv("HOME", t.TempDir())

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[assemblyai]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AssemblyAI.APIKey != "file-key" {
		t.Fatalf("expected file key to win, got %q", cfg.AssemblyAI.APIKey)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[segmentation]\ngap_ms = 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestLoadFallsBackToProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workDir := t.TempDir()
	t.Chdir(workDir)
	if err := os.WriteFile("podsubs.toml", []byte("[output]\ntitle = \"Episode 12\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "podsubs.toml" {
		t.Fatalf("expected project config, got %q (exists=%v)", resolved, exists)
	}
	if cfg.Output.Title != "Episode 12" {
		t.Fatalf("unexpected title: %q", cfg.Output.Title)
	}
}

func TestCreateSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ASSEMBLYAI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var parsed map[string]any
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if !strings.Contains(string(data), "gap_threshold_ms = 600") {
		t.Fatal("expected sample to document the gap threshold")
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	defaults := config.Default()
	if cfg.Segmentation != defaults.Segmentation {
		t.Fatalf("sample segmentation %+v differs from defaults %+v", cfg.Segmentation, defaults.Segmentation)
	}
	if cfg.AssemblyAI.SpeakerLabelPrefix != defaults.AssemblyAI.SpeakerLabelPrefix {
		t.Fatalf("sample speaker_label_prefix %q differs from default %q", cfg.AssemblyAI.SpeakerLabelPrefix, defaults.AssemblyAI.SpeakerLabelPrefix)
	}
	if len(cfg.Styles.Rules) != len(defaults.Styles.Rules) {
		t.Fatalf("sample style rules %+v differ from defaults", cfg.Styles.Rules)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero gap", func(c *config.Config) { c.Segmentation.GapThresholdMs = 0 }, "gap_threshold_ms"},
		{"negative line length", func(c *config.Config) { c.Segmentation.MaxLineLengthChars = -1 }, "max_line_length_chars"},
		{"bad format", func(c *config.Config) { c.Output.Format = "sub" }, "output.format"},
		{"bad style", func(c *config.Config) { c.Styles.Rules = []config.StyleRule{{Pattern: "X", Style: "HostC"}} }, "styles.rules[0].style"},
		{"empty pattern", func(c *config.Config) { c.Styles.Rules = []config.StyleRule{{Style: "HostA"}} }, "styles.rules[0].pattern"},
		{"bad language", func(c *config.Config) { c.AssemblyAI.LanguageCode = "not a language" }, "language_code"},
		{"negative speakers", func(c *config.Config) { c.AssemblyAI.SpeakersExpected = -2 }, "speakers_expected"},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"zero font size", func(c *config.Config) { c.Output.FontSize = 0 }, "font_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	if err := cfg.RequireAPIKey(); err == nil || !strings.Contains(err.Error(), "ASSEMBLYAI_API_KEY") {
		t.Fatalf("expected missing key error naming env var, got %v", err)
	}
	cfg.AssemblyAI.APIKey = "k"
	if err := cfg.RequireAPIKey(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.CachePath = filepath.Join(base, "cache", "transcripts.db")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{"logs", "out", "cache"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestEncodeRoundTripsThroughLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	cfg.Output.Title = "Round Trip"
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	loaded, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Output.Title != "Round Trip" {
		t.Fatalf("unexpected title: %q", loaded.Output.Title)
	}
}
