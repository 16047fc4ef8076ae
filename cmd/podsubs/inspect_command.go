package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"podsubs/internal/cuefmt"
	"podsubs/internal/pipeline"
)

const inspectTextWidth = 60

type inspectOutput struct {
	Words    int          `json:"words"`
	Speakers int          `json:"speakers"`
	Clamped  int          `json:"clamped"`
	Cues     []cuefmt.Cue `json:"cues"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <words.json>",
		Short: "Show how a words JSON file segments into cues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			opts, err := ctx.pipelineOptions(logger)
			if err != nil {
				return err
			}
			result, err := pipeline.New(opts).Run(cmd.Context(), pipeline.Request{WordsPath: args[0], DryRun: true})
			if err != nil {
				return err
			}

			formatted := result.Formatted
			if formatted == nil {
				formatted = []cuefmt.Cue{}
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, inspectOutput{
					Words:    result.Summary.Words,
					Speakers: result.Summary.Speakers,
					Clamped:  result.Summary.Clamped,
					Cues:     formatted,
				})
			}

			out := cmd.OutOrStdout()
			if len(formatted) == 0 {
				fmt.Fprintln(out, "No cues (words file is empty)")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Start", "End", "Style", "Speaker", "Text"},
				cueRows(formatted),
				[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d cues from %d words, %d speakers, %d end times clamped\n",
				len(formatted), result.Summary.Words, result.Summary.Speakers, result.Summary.Clamped)
			return nil
		},
	}
}

func cueRows(cues []cuefmt.Cue) [][]string {
	rows := make([][]string, 0, len(cues))
	for i, cue := range cues {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			cue.StartDisplay,
			cue.EndDisplay,
			cue.Style.String(),
			cue.Speaker,
			truncate(cue.Text, inspectTextWidth),
		})
	}
	return rows
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-1]) + "…"
}
