package transcript

import "testing"

func TestBaseName(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"/tmp/episode-12.mp3", "episode-12"},
		{"relative/dir/show.final.wav", "show.final"},
		{"https://cdn.example.com/audio/ep5.m4a?token=abc", "ep5"},
		{"https://cdn.example.com/audio/", "downloaded_audio"},
		{"https://cdn.example.com/a/b:c*d.mp3", "b-c-d"},
		{"noext", "noext"},
	}
	for _, tc := range cases {
		if got := BaseName(tc.source); got != tc.want {
			t.Errorf("BaseName(%q) = %q, want %q", tc.source, got, tc.want)
		}
	}
}

func TestIsRemote(t *testing.T) {
	if !IsRemote("s3://bucket/key.mp3") {
		t.Fatal("expected scheme URL to be remote")
	}
	if IsRemote("/var/audio/file.mp3") {
		t.Fatal("expected local path to be local")
	}
}

func TestWordsFileName(t *testing.T) {
	if got := WordsFileName("show"); got != "show_timestamps.json" {
		t.Fatalf("unexpected words file name %q", got)
	}
}
