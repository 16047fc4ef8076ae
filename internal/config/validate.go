package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAssemblyAI(); err != nil {
		return err
	}
	if err := c.validateSegmentation(); err != nil {
		return err
	}
	if err := c.validateStyles(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAssemblyAI() error {
	if c.AssemblyAI.SpeakersExpected < 0 {
		return errors.New("assemblyai.speakers_expected must be zero (auto) or positive")
	}
	if c.AssemblyAI.TimeoutSeconds < 0 {
		return errors.New("assemblyai.timeout_seconds must be positive")
	}
	if code := c.AssemblyAI.LanguageCode; code != "" {
		if _, err := language.Parse(code); err != nil {
			return fmt.Errorf("assemblyai.language_code %q is not a valid language tag: %w", code, err)
		}
	}
	return nil
}

func (c *Config) validateSegmentation() error {
	if c.Segmentation.GapThresholdMs <= 0 {
		return errors.New("segmentation.gap_threshold_ms must be positive")
	}
	if c.Segmentation.MaxLineLengthChars <= 0 {
		return errors.New("segmentation.max_line_length_chars must be positive")
	}
	return nil
}

func (c *Config) validateStyles() error {
	for i, rule := range c.Styles.Rules {
		if rule.Pattern == "" {
			return fmt.Errorf("styles.rules[%d].pattern must be set", i)
		}
		switch rule.Style {
		case "HostA", "HostB", "Default":
		default:
			return fmt.Errorf("styles.rules[%d].style %q must be one of HostA, HostB, Default", i, rule.Style)
		}
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Format {
	case "ass", "srt", "vtt":
	default:
		return fmt.Errorf("output.format %q must be one of ass, srt, vtt", c.Output.Format)
	}
	if c.Output.PlayResX <= 0 || c.Output.PlayResY <= 0 {
		return errors.New("output.play_res_x and output.play_res_y must be positive")
	}
	if c.Output.FontSize <= 0 {
		return errors.New("output.font_size must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}

// RequireAPIKey reports a configuration error when no AssemblyAI key is set.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.AssemblyAI.APIKey) != "" {
		return nil
	}
	path, err := DefaultConfigPath()
	if err != nil {
		path = defaultConfigPath
	}
	return fmt.Errorf("assemblyai.api_key is required for transcription. Set %s or edit %s (create with 'podsubs config init')",
		assemblyAIAPIKeyEnvVarName, path)
}
