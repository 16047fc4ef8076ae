package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"podsubs/internal/cuefmt"
	"podsubs/internal/fileutil"
	"podsubs/internal/logging"
	"podsubs/internal/preflight"
	"podsubs/internal/render"
	"podsubs/internal/segment"
	"podsubs/internal/services"
	"podsubs/internal/transcript"
	"podsubs/internal/transcriptcache"
)

const (
	stageResolve   = "resolve"
	stageWords     = "words"
	stageSaveWords = "save_words"
	stageSegment   = "segment"
	stageRender    = "render"
	stageWrite     = "write"

	wordsSuffix = "_timestamps"
)

// Request describes one run. Exactly one of Source or WordsPath is set.
type Request struct {
	// Source is an audio file path or URL to transcribe.
	Source string
	// WordsPath is a saved words JSON file to render without transcribing.
	WordsPath string
	// OutputDir defaults to the source's directory, or the working directory
	// for URLs.
	OutputDir string
	// BaseName overrides the derived output file stem.
	BaseName string
	// Format overrides the runner's default format.
	Format    render.Format
	SkipCache bool
	// DryRun stops after rendering; nothing is written.
	DryRun bool
}

// Result reports what a run produced.
type Result struct {
	RunID      string
	OutputPath string
	// WordsPath is the words JSON written or read by this run.
	WordsPath string
	Format    render.Format
	Words     []transcript.Word
	Cues      []segment.Cue
	Formatted []cuefmt.Cue
	Summary   segment.Summary
	Rendered  []byte
	FromCache bool
	Duration  time.Duration
}

// Runner executes pipeline requests.
type Runner struct {
	transcriber Transcriber
	cache       Cache
	segmenter   *segment.Segmenter
	formatter   cuefmt.Formatter
	renderOpts  render.Options
	format      render.Format
	saveWords   bool
	logger      *slog.Logger
}

// New constructs a runner.
func New(opts Options) *Runner {
	logger := logging.NewComponentLogger(opts.Logger, "pipeline")
	format := opts.Format
	if format == "" {
		format = render.FormatASS
	}
	return &Runner{
		transcriber: opts.Transcriber,
		cache:       opts.Cache,
		segmenter:   segment.NewSegmenter(opts.Segment, opts.Logger),
		formatter:   cuefmt.NewFormatter(opts.Rules),
		renderOpts:  opts.Render,
		format:      format,
		saveWords:   opts.SaveWordsJSON,
		logger:      logger,
	}
}

type plan struct {
	outputDir  string
	baseName   string
	format     render.Format
	outputPath string
}

// Run executes every stage for req.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithSource(ctx, firstNonEmpty(req.Source, req.WordsPath))
	result := Result{RunID: runID}

	p, err := runStage(ctx, r.logger, stageResolve, func(ctx context.Context) (plan, error) {
		return r.resolve(req)
	})
	if err != nil {
		return result, err
	}
	result.Format = p.format

	type acquired struct {
		words     []transcript.Word
		fromCache bool
	}
	got, err := runStage(ctx, r.logger, stageWords, func(ctx context.Context) (acquired, error) {
		if req.WordsPath != "" {
			words, err := loadWords(req.WordsPath)
			return acquired{words: words}, err
		}
		words, fromCache, err := r.acquire(ctx, req)
		return acquired{words: words, fromCache: fromCache}, err
	})
	if err != nil {
		return result, err
	}
	result.Words = got.words
	result.FromCache = got.fromCache
	result.WordsPath = req.WordsPath

	if req.WordsPath == "" && r.saveWords && !req.DryRun {
		wordsPath := filepath.Join(p.outputDir, transcript.WordsFileName(p.baseName))
		if _, err := runStage(ctx, r.logger, stageSaveWords, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, saveWords(wordsPath, got.words)
		}); err != nil {
			return result, err
		}
		result.WordsPath = wordsPath
	}

	segCtx := services.WithStage(ctx, stageSegment)
	result.Cues, result.Summary = r.segmenter.Segment(segCtx, got.words)
	result.Formatted = r.formatter.Format(result.Cues)

	result.Rendered, err = runStage(ctx, r.logger, stageRender, func(ctx context.Context) ([]byte, error) {
		data, err := render.New(p.format, r.renderOpts, r.formatter).Bytes(result.Cues)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, stageRender, "render", string(p.format), err)
		}
		return data, nil
	})
	if err != nil {
		return result, err
	}

	if !req.DryRun {
		if _, err := runStage(ctx, r.logger, stageWrite, func(ctx context.Context) (struct{}, error) {
			if err := fileutil.WriteFileLocked(ctx, p.outputPath, result.Rendered, 0o644); err != nil {
				return struct{}{}, services.Wrap(services.ErrTransient, stageWrite, "write subtitles", p.outputPath, err)
			}
			return struct{}{}, nil
		}); err != nil {
			return result, err
		}
		result.OutputPath = p.outputPath
	}

	result.Duration = time.Since(started)
	logging.WithContext(ctx, r.logger).Info("subtitles generated",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("output", result.OutputPath),
		logging.String("words_json", result.WordsPath),
		logging.String("format", p.format.String()),
		logging.Int("cues", result.Summary.Cues),
		logging.Bool("from_cache", result.FromCache),
		logging.Bool("dry_run", req.DryRun),
		logging.Duration("elapsed", result.Duration.Round(time.Millisecond)),
	)
	return result, nil
}

func (r *Runner) resolve(req Request) (plan, error) {
	source := strings.TrimSpace(req.Source)
	wordsPath := strings.TrimSpace(req.WordsPath)
	switch {
	case source == "" && wordsPath == "":
		return plan{}, services.Wrap(services.ErrValidation, stageResolve, "resolve request", "an audio source or words JSON path is required", nil)
	case source != "" && wordsPath != "":
		return plan{}, services.Wrap(services.ErrValidation, stageResolve, "resolve request", "audio source and words JSON are mutually exclusive", nil)
	case source != "" && r.transcriber == nil:
		return plan{}, services.Wrap(services.ErrConfiguration, stageResolve, "resolve request", "no transcriber configured", nil)
	}

	format := req.Format
	if format == "" {
		format = r.format
	}

	base := strings.TrimSpace(req.BaseName)
	if base == "" {
		if source != "" {
			base = transcript.BaseName(source)
		} else {
			base = strings.TrimSuffix(transcript.BaseName(wordsPath), wordsSuffix)
		}
	}

	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = "."
		if local := firstNonEmpty(wordsPath, source); !transcript.IsRemote(local) {
			outputDir = filepath.Dir(local)
		}
	}

	p := plan{
		outputDir:  outputDir,
		baseName:   base,
		format:     format,
		outputPath: filepath.Join(outputDir, base+format.Extension()),
	}
	if req.DryRun {
		return p, nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return plan{}, services.Wrap(services.ErrValidation, stageResolve, "create output directory", outputDir, err)
	}
	if check := preflight.CheckOutputReady(outputDir); !check.Passed {
		return plan{}, services.Wrap(services.ErrValidation, stageResolve, check.Name, check.Detail, nil)
	}
	return p, nil
}

func (r *Runner) acquire(ctx context.Context, req Request) ([]transcript.Word, bool, error) {
	logger := logging.WithContext(ctx, r.logger)
	source := strings.TrimSpace(req.Source)

	var key string
	if r.cache != nil {
		var err error
		key, err = transcriptcache.KeyForSource(source)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, false, services.Wrap(services.ErrNotFound, stageWords, "open audio", source, err)
			}
			return nil, false, services.Wrap(services.ErrValidation, stageWords, "hash audio", source, err)
		}
	}

	if key != "" && !req.SkipCache {
		entry, ok, err := r.cache.Get(ctx, key)
		switch {
		case err != nil:
			logging.WarnWithContext(logger, "transcript cache lookup failed", "transcript_cache_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "run 'podsubs cache clear' if the database is corrupt"),
				logging.String(logging.FieldImpact, "audio will be transcribed again"),
			)
		case ok:
			logger.Info("transcript cache hit",
				logging.String(logging.FieldDecisionType, "transcript_cache"),
				logging.String("decision_result", "hit"),
				logging.String("cache_key", key),
				logging.Int("words", len(entry.Words)),
			)
			return entry.Words, true, nil
		default:
			logger.Info("transcript cache miss",
				logging.String(logging.FieldDecisionType, "transcript_cache"),
				logging.String("decision_result", "miss"),
				logging.String("cache_key", key),
			)
		}
	}

	result, err := r.transcriber.Transcribe(ctx, source)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		entry := transcriptcache.Entry{
			Key:          key,
			Source:       source,
			TranscriptID: result.ID,
			LanguageCode: result.LanguageCode,
			Words:        result.Words,
		}
		if err := r.cache.Put(ctx, entry); err != nil {
			logging.WarnWithContext(logger, "transcript cache store failed", "transcript_cache_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "next run will transcribe again"),
			)
		}
	}
	return result.Words, false, nil
}

func loadWords(path string) ([]transcript.Word, error) {
	words, err := transcript.LoadWords(path)
	if err == nil {
		return words, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, services.Wrap(services.ErrNotFound, stageWords, "load words", path, err)
	}
	return nil, services.Wrap(services.ErrValidation, stageWords, "load words", path, err)
}

func saveWords(path string, words []transcript.Word) error {
	if err := transcript.WriteWords(path, words); err != nil {
		return services.Wrap(services.ErrTransient, stageSaveWords, "write words", path, err)
	}
	return nil
}

// runStage annotates ctx with the stage name and logs its start and outcome.
func runStage[T any](ctx context.Context, base *slog.Logger, name string, fn func(context.Context) (T, error)) (T, error) {
	stageCtx := services.WithStage(ctx, name)
	logger := logging.WithContext(stageCtx, base)
	started := time.Now()
	logger.Debug("stage started", logging.String(logging.FieldEventType, "stage_start"))

	out, err := fn(stageCtx)
	if err != nil {
		logging.ErrorWithContext(logger, "stage failed", "stage_failure",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
		)
		return out, err
	}
	logger.Debug("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)),
	)
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// String summarizes the result for CLI output.
func (r Result) String() string {
	target := r.OutputPath
	if target == "" {
		target = "(dry run)"
	}
	return fmt.Sprintf("%s: %d cues from %d words", target, len(r.Cues), len(r.Words))
}
