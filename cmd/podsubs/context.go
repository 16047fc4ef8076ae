package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"podsubs/internal/config"
	"podsubs/internal/logging"
	"podsubs/internal/pipeline"
	"podsubs/internal/services"
	"podsubs/internal/services/assemblyai"
	"podsubs/internal/transcriptcache"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonFlag:     jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if level := c.logLevelOverride(); level != "" {
			cfg.Logging.Level = level
			if err := cfg.Validate(); err != nil {
				c.configErr = services.Wrap(services.ErrConfiguration, "config", "--log-level", "", err)
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) logLevelOverride() string {
	if c.logLevelFlag == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// logger writes to the command's stderr and to the configured log file.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	var errOut io.Writer = os.Stderr
	if cmd != nil {
		errOut = cmd.ErrOrStderr()
	}
	logger, err := logging.NewFromConfig(cfg, errOut)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "config", "logging", "", err)
	}
	return logger, nil
}

// openCache returns nil when caching is disabled. Callers close the store.
func (c *commandContext) openCache() (*transcriptcache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	store, err := transcriptcache.Open(cfg.Paths.CachePath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "cache", "open", cfg.Paths.CachePath, err)
	}
	return store, nil
}

func (c *commandContext) newTranscriber(logger *slog.Logger) (*assemblyai.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "api key", "", err)
	}
	a := cfg.AssemblyAI
	return assemblyai.NewClient(assemblyai.Config{
		APIKey:             a.APIKey,
		BaseURL:            a.BaseURL,
		SpeechModel:        a.SpeechModel,
		LanguageCode:       a.LanguageCode,
		LanguageDetection:  a.LanguageDetection,
		SpeakerLabels:      a.SpeakerLabels,
		SpeakersExpected:   a.SpeakersExpected,
		Punctuate:          a.Punctuate,
		FormatText:         a.FormatText,
		Summarization:      a.Summarization,
		IABCategories:      a.IABCategories,
		TimeoutSeconds:     a.TimeoutSeconds,
		SpeakerLabelPrefix: a.SpeakerLabelPrefix,
	}, assemblyai.WithLogger(logger))
}

// pipelineOptions maps config onto runner options without collaborators.
func (c *commandContext) pipelineOptions(logger *slog.Logger) (pipeline.Options, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.Logger = logger
	return opts, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func usageError(format string, args ...any) error {
	return services.Wrap(services.ErrValidation, "cli", "arguments", fmt.Sprintf(format, args...), nil)
}
