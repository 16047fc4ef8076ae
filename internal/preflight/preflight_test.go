package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podsubs/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected pass with 1 byte minimum, got: %s", result.Detail)
	}
	result := CheckFreeSpace("space", dir, 1<<62)
	if result.Passed {
		t.Fatal("expected failure with an impossible minimum")
	}
	if !strings.Contains(result.Detail, "need") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
	if result := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestCheckCachePath(t *testing.T) {
	dir := t.TempDir()
	if result := CheckCachePath("cache", filepath.Join(dir, "transcripts.db")); !result.Passed {
		t.Fatalf("expected pass for existing dir, got: %s", result.Detail)
	}
	result := CheckCachePath("cache", filepath.Join(dir, "new", "transcripts.db"))
	if !result.Passed || !strings.Contains(result.Detail, "created on first use") {
		t.Fatalf("expected lazy-create pass, got %+v", result)
	}
	if result := CheckCachePath("cache", ""); result.Passed {
		t.Fatal("expected failure for empty path")
	}
}

func TestCheckAPIKeyMasksValue(t *testing.T) {
	result := CheckAPIKey("key", "abcd1234efgh5678")
	if !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if strings.Contains(result.Detail, "1234efgh") || !strings.Contains(result.Detail, "abcd") {
		t.Fatalf("expected masked key, got %s", result.Detail)
	}
	if result := CheckAPIKey("key", " "); result.Passed {
		t.Fatal("expected failure for blank key")
	}
}

func TestCheckAssemblyAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/transcript" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"transcripts":[]}`))
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		key    string
		passed bool
		detail string
	}{
		{name: "valid key", key: "good-key", passed: true, detail: "API reachable"},
		{name: "invalid key", key: "bad-key", detail: "invalid api key"},
		{name: "missing key", key: "", detail: "missing api key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckAssemblyAI(context.Background(), srv.URL+"/", tt.key)
			if result.Passed != tt.passed {
				t.Fatalf("passed=%v want %v (%s)", result.Passed, tt.passed, result.Detail)
			}
			if !strings.Contains(result.Detail, tt.detail) {
				t.Fatalf("detail %q does not contain %q", result.Detail, tt.detail)
			}
		})
	}
}

func TestRunAllSkipsDisabledAndOfflineChecks(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = dir
	cfg.Paths.LogDir = ""
	cfg.Cache.Enabled = false
	cfg.AssemblyAI.APIKey = "key-123456789"

	results := RunAll(context.Background(), &cfg, true)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	got := strings.Join(names, ",")
	if got != "Output directory,Output free space,AssemblyAI API key" {
		t.Fatalf("unexpected checks: %s", got)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestCheckOutputReady(t *testing.T) {
	if result := CheckOutputReady(t.TempDir()); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if result := CheckOutputReady(filepath.Join(t.TempDir(), "missing")); result.Passed || result.Name != "Output directory" {
		t.Fatalf("expected directory failure, got %+v", result)
	}
}
