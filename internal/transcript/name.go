package transcript

import (
	"path/filepath"
	"strings"
)

// fallbackBaseName is used when a URL has no usable final path segment.
const fallbackBaseName = "downloaded_audio"

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// IsRemote reports whether source should be fetched by URL rather than read
// from the local filesystem.
func IsRemote(source string) bool {
	return strings.Contains(source, "://")
}

// BaseName derives the output base name for a source path or URL. URLs use
// their last path segment without the query string; local paths use the file
// name. The extension is stripped and filesystem-unsafe characters replaced.
func BaseName(source string) string {
	source = strings.TrimSpace(source)
	var name string
	if IsRemote(source) {
		segments := strings.Split(source, "/")
		name = strings.SplitN(segments[len(segments)-1], "?", 2)[0]
		name = strings.SplitN(name, "#", 2)[0]
		if name == "" {
			name = fallbackBaseName
		}
	} else {
		name = filepath.Base(source)
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.TrimSpace(fileNameReplacer.Replace(name))
	if name == "" || name == "." {
		return fallbackBaseName
	}
	return name
}

// WordsFileName returns the words JSON artifact name for a base name.
func WordsFileName(base string) string {
	return base + "_timestamps.json"
}
