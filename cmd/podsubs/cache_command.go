package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"podsubs/internal/services"
	"podsubs/internal/transcriptcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the transcript cache",
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func withCache(ctx *commandContext, fn func(*transcriptcache.Store) error) error {
	store, err := ctx.openCache()
	if err != nil {
		return err
	}
	if store == nil {
		return services.Wrap(services.ErrConfiguration, "cache", "open", "transcript cache is disabled (cache.enabled = false)", nil)
	}
	defer store.Close()
	return fn(store)
}

type cacheEntryView struct {
	Key          string    `json:"key"`
	Source       string    `json:"source"`
	TranscriptID string    `json:"transcript_id,omitempty"`
	LanguageCode string    `json:"language_code,omitempty"`
	Words        int       `json:"words"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, func(store *transcriptcache.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				views := make([]cacheEntryView, 0, len(entries))
				for _, e := range entries {
					views = append(views, cacheEntryView{
						Key:          e.Key,
						Source:       e.Source,
						TranscriptID: e.TranscriptID,
						LanguageCode: e.LanguageCode,
						Words:        e.WordCount,
						DurationMs:   e.DurationMs,
						CreatedAt:    e.CreatedAt,
					})
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, views)
				}
				out := cmd.OutOrStdout()
				if len(views) == 0 {
					fmt.Fprintf(out, "Transcript cache is empty (%s)\n", store.Path())
					return nil
				}
				rows := make([][]string, 0, len(views))
				for _, v := range views {
					rows = append(rows, []string{
						shortKey(v.Key),
						v.Source,
						strconv.Itoa(v.Words),
						formatAudioDuration(v.DurationMs),
						v.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Key", "Source", "Words", "Length", "Cached"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key-or-source>",
		Short: "Remove one cached transcript",
		Long:  "Remove a cached transcript by cache key, audio URL, or local audio path.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, func(store *transcriptcache.Store) error {
				key := resolveCacheKey(args[0])
				removed, err := store.Remove(cmd.Context(), key)
				if err != nil {
					return err
				}
				if !removed {
					return services.Wrap(services.ErrNotFound, "cache", "remove", "no cached transcript for "+args[0], nil)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", key)
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, func(store *transcriptcache.Store) error {
				count, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached transcript(s)\n", count)
				return nil
			})
		},
	}
}

// resolveCacheKey accepts a raw key, a URL, or a local file that is hashed.
func resolveCacheKey(value string) string {
	if key, err := transcriptcache.KeyForSource(value); err == nil {
		return key
	}
	return value
}

func shortKey(key string) string {
	const limit = 24
	if len(key) <= limit {
		return key
	}
	return key[:limit-1] + "…"
}

func formatAudioDuration(ms int64) string {
	d := (time.Duration(ms) * time.Millisecond).Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
