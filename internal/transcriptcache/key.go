package transcriptcache

import (
	"fmt"
	"strings"

	"podsubs/internal/fileutil"
	"podsubs/internal/transcript"
)

// KeyForSource derives the cache key for an audio source. Local files are
// keyed by content so renamed copies still hit the cache.
func KeyForSource(source string) (string, error) {
	source = strings.TrimSpace(source)
	if transcript.IsRemote(source) {
		return source, nil
	}
	sum, err := fileutil.HashFile(source)
	if err != nil {
		return "", fmt.Errorf("hash audio: %w", err)
	}
	return "sha256:" + sum, nil
}
