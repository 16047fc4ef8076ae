package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"podsubs/internal/pipeline"
	"podsubs/internal/render"
)

type outputFlags struct {
	outputDir string
	format    string
	name      string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "Directory for generated files (default: next to the input)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Subtitle format: ass, srt, or vtt (default: output.format)")
	cmd.Flags().StringVar(&f.name, "name", "", "Output file stem (default: derived from the input name)")
}

func (f *outputFlags) apply(ctx *commandContext, req *pipeline.Request) error {
	req.OutputDir = strings.TrimSpace(f.outputDir)
	if req.OutputDir == "" {
		if cfg, err := ctx.ensureConfig(); err == nil {
			req.OutputDir = cfg.Paths.OutputDir
		}
	}
	req.BaseName = strings.TrimSpace(f.name)
	if strings.TrimSpace(f.format) != "" {
		format, err := render.ParseFormat(f.format)
		if err != nil {
			return usageError("%v", err)
		}
		req.Format = format
	}
	return nil
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var flags outputFlags
	var noCache bool

	cmd := &cobra.Command{
		Use:   "generate <audio-file-or-url>",
		Short: "Transcribe audio and write styled subtitles",
		Long: `Transcribe a podcast episode with AssemblyAI, save the word timings as
<name>_timestamps.json, and write <name>.ass (or .srt/.vtt).

Local files are uploaded; anything containing "://" is fetched by URL.
Transcripts are cached by content so re-runs with new segmentation settings
skip the transcription service.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			opts, err := ctx.pipelineOptions(logger)
			if err != nil {
				return err
			}
			transcriber, err := ctx.newTranscriber(logger)
			if err != nil {
				return err
			}
			opts.Transcriber = transcriber

			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
				opts.Cache = store
			}

			req := pipeline.Request{Source: args[0], SkipCache: noCache}
			if err := flags.apply(ctx, &req); err != nil {
				return err
			}
			result, err := pipeline.New(opts).Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printRunResult(cmd, ctx, result)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Transcribe even when a cached transcript exists")
	return cmd
}

type runSummary struct {
	RunID      string `json:"run_id"`
	OutputPath string `json:"output_path"`
	WordsPath  string `json:"words_path,omitempty"`
	Format     string `json:"format"`
	Words      int    `json:"words"`
	Cues       int    `json:"cues"`
	Speakers   int    `json:"speakers"`
	FromCache  bool   `json:"from_cache"`
	DurationMs int64  `json:"duration_ms"`
}

func printRunResult(cmd *cobra.Command, ctx *commandContext, result pipeline.Result) error {
	summary := runSummary{
		RunID:      result.RunID,
		OutputPath: result.OutputPath,
		WordsPath:  result.WordsPath,
		Format:     result.Format.String(),
		Words:      len(result.Words),
		Cues:       len(result.Cues),
		Speakers:   result.Summary.Speakers,
		FromCache:  result.FromCache,
		DurationMs: result.Duration.Milliseconds(),
	}
	if ctx.jsonOutput() {
		return writeJSON(cmd, summary)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles: %s\n", summary.OutputPath)
	if summary.WordsPath != "" {
		fmt.Fprintf(out, "Words:     %s\n", summary.WordsPath)
	}
	fmt.Fprintf(out, "Cues:      %d from %d words (%d speakers)\n", summary.Cues, summary.Words, summary.Speakers)
	fmt.Fprintf(out, "Cached:    %s\n", yesNo(summary.FromCache))
	return nil
}
