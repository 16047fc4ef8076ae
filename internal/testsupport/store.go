package testsupport

import (
	"context"
	"testing"

	"podsubs/internal/config"
	"podsubs/internal/transcript"
	"podsubs/internal/transcriptcache"
)

// MustOpenCache opens the transcript cache for cfg and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *transcriptcache.Store {
	t.Helper()

	store, err := transcriptcache.Open(cfg.Paths.CachePath)
	if err != nil {
		t.Fatalf("transcriptcache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedCache stores words under key in the cache.
func SeedCache(t testing.TB, store *transcriptcache.Store, key, source string, words []transcript.Word) {
	t.Helper()

	err := store.Put(context.Background(), transcriptcache.Entry{
		Key:          key,
		Source:       source,
		TranscriptID: "tr_" + key,
		Words:        words,
	})
	if err != nil {
		t.Fatalf("seed cache %s: %v", key, err)
	}
}
