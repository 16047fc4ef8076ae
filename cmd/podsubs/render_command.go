package main

import (
	"github.com/spf13/cobra"

	"podsubs/internal/pipeline"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var flags outputFlags
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "render <words.json>",
		Short: "Render subtitles from a saved words JSON file",
		Long: `Re-segment and render a words JSON file (such as <name>_timestamps.json
written by generate) without contacting the transcription service.`,
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
			req := pipeline.Request{WordsPath: args[0], DryRun: toStdout}
			if err := flags.apply(ctx, &req); err != nil {
				return err
			}
			result, err := pipeline.New(opts).Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			if toStdout {
				_, err := cmd.OutOrStdout().Write(result.Rendered)
				return err
			}
			return printRunResult(cmd, ctx, result)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write subtitles to stdout instead of a file")
	return cmd
}
