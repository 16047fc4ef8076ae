package preflight

import (
	"context"

	"podsubs/internal/config"
)

// minFreeBytes is the free space required wherever podsubs writes output.
const minFreeBytes = 64 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Network checks are skipped when offline is true.
func RunAll(ctx context.Context, cfg *config.Config, offline bool) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	outputDir := outputDirectory(cfg)
	results = append(results,
		CheckDirectoryAccess("Output directory", outputDir),
		CheckFreeSpace("Output free space", outputDir, minFreeBytes),
	)

	if cfg.Cache.Enabled {
		results = append(results, CheckCachePath("Transcript cache", cfg.Paths.CachePath))
	}

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	results = append(results, CheckAPIKey("AssemblyAI API key", cfg.AssemblyAI.APIKey))
	if !offline && cfg.AssemblyAI.APIKey != "" {
		results = append(results, CheckAssemblyAI(ctx, cfg.AssemblyAI.BaseURL, cfg.AssemblyAI.APIKey))
	}
	return results
}

// CheckOutputReady verifies the output directory is writable and has room.
// It returns the first failing result, or a passing one.
func CheckOutputReady(dir string) Result {
	if r := CheckDirectoryAccess("Output directory", dir); !r.Passed {
		return r
	}
	return CheckFreeSpace("Output free space", dir, minFreeBytes)
}

// Failed filters results down to failures.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

func outputDirectory(cfg *config.Config) string {
	if cfg.Paths.OutputDir != "" {
		return cfg.Paths.OutputDir
	}
	return "."
}
