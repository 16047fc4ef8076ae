package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAssemblyAI()
	c.normalizeStyles()
	c.normalizeOutput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CachePath) == "" {
		c.Paths.CachePath = defaultCachePath()
	}
	if c.Paths.CachePath, err = expandPath(strings.TrimSpace(c.Paths.CachePath)); err != nil {
		return fmt.Errorf("paths.cache_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAssemblyAI() {
	c.AssemblyAI.APIKey = strings.TrimSpace(c.AssemblyAI.APIKey)
	if c.AssemblyAI.APIKey == "" {
		if value, ok := os.LookupEnv(assemblyAIAPIKeyEnvVarName); ok {
			c.AssemblyAI.APIKey = strings.TrimSpace(value)
		}
	}
	c.AssemblyAI.BaseURL = strings.TrimRight(strings.TrimSpace(c.AssemblyAI.BaseURL), "/")
	if c.AssemblyAI.BaseURL == "" {
		c.AssemblyAI.BaseURL = defaultAssemblyAIBaseURL
	}
	c.AssemblyAI.SpeechModel = strings.ToLower(strings.TrimSpace(c.AssemblyAI.SpeechModel))
	if c.AssemblyAI.SpeechModel == "" {
		c.AssemblyAI.SpeechModel = defaultSpeechModel
	}
	c.AssemblyAI.LanguageCode = strings.ToLower(strings.TrimSpace(c.AssemblyAI.LanguageCode))
	if c.AssemblyAI.TimeoutSeconds == 0 {
		c.AssemblyAI.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeStyles() {
	for i := range c.Styles.Rules {
		c.Styles.Rules[i].Style = canonicalStyleName(c.Styles.Rules[i].Style)
	}
}

func (c *Config) normalizeOutput() {
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	if c.Output.Format == "" {
		c.Output.Format = defaultOutputFormat
	}
	c.Output.Format = strings.TrimPrefix(c.Output.Format, ".")
	if c.Output.Format == "webvtt" {
		c.Output.Format = "vtt"
	}
	c.Output.Title = strings.TrimSpace(c.Output.Title)
	if c.Output.Title == "" {
		c.Output.Title = defaultOutputTitle
	}
	c.Output.Font = strings.TrimSpace(c.Output.Font)
	if c.Output.Font == "" {
		c.Output.Font = defaultFont
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// canonicalStyleName maps accepted spellings ("Host A", "hosta") to the
// canonical names HostA, HostB, and Default. Unknown names are returned
// trimmed so validation can report them.
func canonicalStyleName(value string) string {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(strings.ReplaceAll(trimmed, " ", "")) {
	case "hosta":
		return "HostA"
	case "hostb":
		return "HostB"
	case "default":
		return "Default"
	default:
		return trimmed
	}
}
