package assemblyai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"podsubs/internal/logging"
	"podsubs/internal/services"
	"podsubs/internal/transcript"
)

const (
	stageName             = "transcribe"
	defaultBaseURL        = "https://api.assemblyai.com"
	defaultRequestTimeout = 30 * time.Minute
)

// Config captures the request settings sent with every transcript.
type Config struct {
	APIKey             string
	BaseURL            string
	SpeechModel        string
	LanguageCode       string
	LanguageDetection  bool
	SpeakerLabels      bool
	SpeakersExpected   int
	Punctuate          bool
	FormatText         bool
	Summarization      bool
	IABCategories      bool
	TimeoutSeconds     int
	// SpeakerLabelPrefix is prepended to non-empty speaker labels.
	SpeakerLabelPrefix string
}

// transcriptsAPI is the subset of the SDK transcript service used here.
type transcriptsAPI interface {
	TranscribeFromURL(ctx context.Context, audioURL string, params *aai.TranscriptOptionalParams) (aai.Transcript, error)
	TranscribeFromReader(ctx context.Context, reader io.Reader, params *aai.TranscriptOptionalParams) (aai.Transcript, error)
}

// Client wraps the AssemblyAI transcript API.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	transcripts transcriptsAPI
	logger      *slog.Logger
	timeout     time.Duration
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client handed to the SDK.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func withTranscripts(api transcriptsAPI) Option {
	return func(c *Client) {
		c.transcripts = api
	}
}

// NewClient constructs a client. A missing API key is a configuration error.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "new client", "AssemblyAI API key is not configured", nil)
	}

	client := &Client{
		cfg:     cfg,
		timeout: defaultRequestTimeout,
	}
	if cfg.TimeoutSeconds > 0 {
		client.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "assemblyai")
	if client.transcripts == nil {
		sdkOpts := []aai.ClientOption{
			aai.WithAPIKey(cfg.APIKey),
			aai.WithBaseURL(cfg.BaseURL),
		}
		if client.httpClient != nil {
			sdkOpts = append(sdkOpts, aai.WithHTTPClient(client.httpClient))
		}
		client.transcripts = aai.NewClientWithOptions(sdkOpts...).Transcripts
	}
	return client, nil
}

// Transcribe submits source and waits for the finished transcript.
func (c *Client) Transcribe(ctx context.Context, source string) (transcript.Transcript, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return transcript.Transcript{}, services.Wrap(services.ErrValidation, stageName, "transcribe", "audio source is empty", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	logger := logging.WithContext(ctx, c.logger)
	params := c.params()
	started := time.Now()

	var (
		raw aai.Transcript
		err error
	)
	if transcript.IsRemote(source) {
		logger.Info("submitting audio url",
			logging.String(logging.FieldEventType, "transcription_submit"),
			logging.String("speech_model", c.cfg.SpeechModel),
		)
		raw, err = c.transcripts.TranscribeFromURL(ctx, source, params)
	} else {
		raw, err = c.transcribeFile(ctx, logger, source, params)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return transcript.Transcript{}, services.Wrap(services.ErrTransient, stageName, "transcribe",
				fmt.Sprintf("transcription did not finish within %s", c.timeout), err)
		}
		return transcript.Transcript{}, services.Wrap(services.ErrExternalService, stageName, "transcribe", "AssemblyAI request failed", err)
	}

	result, err := Convert(raw, c.cfg.SpeakerLabelPrefix)
	if err != nil {
		return transcript.Transcript{}, err
	}
	logger.Info("transcription complete",
		logging.String(logging.FieldEventType, "transcription_complete"),
		logging.String("transcript_id", result.ID),
		logging.Int("words", len(result.Words)),
		logging.String("language", result.LanguageCode),
		logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
	)
	return result, nil
}

func (c *Client) transcribeFile(ctx context.Context, logger *slog.Logger, path string, params *aai.TranscriptOptionalParams) (aai.Transcript, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return aai.Transcript{}, services.Wrap(services.ErrNotFound, stageName, "open audio", path, err)
		}
		return aai.Transcript{}, services.Wrap(services.ErrValidation, stageName, "open audio", path, err)
	}
	defer file.Close()

	logger.Info("uploading audio file",
		logging.String(logging.FieldEventType, "transcription_upload"),
		logging.String("speech_model", c.cfg.SpeechModel),
	)
	return c.transcripts.TranscribeFromReader(ctx, file, params)
}

func (c *Client) params() *aai.TranscriptOptionalParams {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels:     ptr(c.cfg.SpeakerLabels),
		Punctuate:         ptr(c.cfg.Punctuate),
		FormatText:        ptr(c.cfg.FormatText),
		Summarization:     ptr(c.cfg.Summarization),
		IABCategories:     ptr(c.cfg.IABCategories),
		LanguageDetection: ptr(c.cfg.LanguageDetection),
	}
	if model := strings.TrimSpace(c.cfg.SpeechModel); model != "" {
		params.SpeechModel = aai.SpeechModel(model)
	}
	if code := strings.TrimSpace(c.cfg.LanguageCode); code != "" {
		// An explicit language overrides detection.
		params.LanguageCode = aai.TranscriptLanguageCode(code)
		params.LanguageDetection = ptr(false)
	}
	if c.cfg.SpeakerLabels && c.cfg.SpeakersExpected > 0 {
		params.SpeakersExpected = ptr(int64(c.cfg.SpeakersExpected))
	}
	return params
}

func ptr[T any](v T) *T {
	return &v
}
