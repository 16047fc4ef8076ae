package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file locations.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	CachePath string `toml:"cache_path"`
	LogDir    string `toml:"log_dir"`
}

// AssemblyAI contains transcription service settings.
type AssemblyAI struct {
	APIKey             string `toml:"api_key"`
	BaseURL            string `toml:"base_url"`
	SpeechModel        string `toml:"speech_model"`
	LanguageCode       string `toml:"language_code"`
	LanguageDetection  bool   `toml:"language_detection"`
	SpeakerLabels      bool   `toml:"speaker_labels"`
	SpeakersExpected   int    `toml:"speakers_expected"`
	Punctuate          bool   `toml:"punctuate"`
	FormatText         bool   `toml:"format_text"`
	Summarization      bool   `toml:"summarization"`
	IABCategories      bool   `toml:"iab_categories"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
	// SpeakerLabelPrefix is prepended to the service's bare labels ("A" becomes
	// "Speaker A") so the default style rules match.
	SpeakerLabelPrefix string `toml:"speaker_label_prefix"`
}

// Segmentation contains the cue boundary thresholds.
type Segmentation struct {
	// GapThresholdMs is the longest silence allowed between two words on one cue.
	GapThresholdMs int64 `toml:"gap_threshold_ms"`
	// MaxLineLengthChars closes a cue once its words reach this many characters.
	MaxLineLengthChars int `toml:"max_line_length_chars"`
}

// StyleRule maps speakers whose label contains Pattern to a style name.
type StyleRule struct {
	Pattern string `toml:"pattern"`
	Style   string `toml:"style"`
}

// Styles contains the ordered speaker-to-style rules.
type Styles struct {
	Rules []StyleRule `toml:"rules"`
}

// Output contains subtitle rendering settings.
type Output struct {
	Format        string `toml:"format"`
	Title         string `toml:"title"`
	PlayResX      int    `toml:"play_res_x"`
	PlayResY      int    `toml:"play_res_y"`
	Font          string `toml:"font"`
	FontSize      int    `toml:"font_size"`
	SaveWordsJSON bool   `toml:"save_words_json"`
	SpeakerPrefix bool   `toml:"speaker_prefix"`
}

// Cache contains transcript cache settings.
type Cache struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for podsubs.
type Config struct {
	Paths        Paths        `toml:"paths"`
	AssemblyAI   AssemblyAI   `toml:"assemblyai"`
	Segmentation Segmentation `toml:"segmentation"`
	Styles       Styles       `toml:"styles"`
	Output       Output       `toml:"output"`
	Cache        Cache        `toml:"cache"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the resolved path, and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the CLI writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, c.Paths.OutputDir}
	if c.Cache.Enabled && c.Paths.CachePath != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.CachePath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Encode renders the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "podsubs", "transcripts.db")
	}
	return "~/.cache/podsubs/transcripts.db"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
