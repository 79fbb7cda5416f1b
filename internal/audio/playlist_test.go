package audio

import (
	"strings"
	"testing"

	"github.com/handiism/fomu/internal/model"
)

func createTestTracks() []*model.Track {
	return []*model.Track{
		model.NewTrack("clear-skies", "Clear Skies", "Scott Buckley", "", model.PoolCalmFocus),
		model.NewTrack("snowfall", "Snowfall", "Scott Buckley", "", model.PoolCalmFocus),
	}
}

func TestPlaylistCreator_M3U(t *testing.T) {
	content := NewPlaylistCreator(FormatM3U, false).CreatePlaylist("focus", createTestTracks())

	if content != "clear-skies.mp3\nsnowfall.mp3\n" {
		t.Errorf("M3U = %q", content)
	}
}

func TestPlaylistCreator_M3UExtended(t *testing.T) {
	content := NewPlaylistCreator(FormatM3U, true).CreatePlaylist("focus", createTestTracks())

	if !strings.HasPrefix(content, "#EXTM3U\n#PLAYLIST:focus\n") {
		t.Error("Extended M3U should start with #EXTM3U and the playlist title")
	}
	if !strings.Contains(content, "#EXTINF:-1,Scott Buckley - Snowfall\nsnowfall.mp3\n") {
		t.Errorf("Extended M3U missing EXTINF entry:\n%s", content)
	}
}

func TestPlaylistCreator_PLS(t *testing.T) {
	content := NewPlaylistCreator(FormatPLS, false).CreatePlaylist("focus", createTestTracks())

	if !strings.HasPrefix(content, "[playlist]") {
		t.Error("PLS should start with [playlist]")
	}
	for _, want := range []string{"File1=clear-skies.mp3", "Title2=Scott Buckley - Snowfall", "NumberOfEntries=2", "Version=2"} {
		if !strings.Contains(content, want) {
			t.Errorf("PLS missing %q", want)
		}
	}
}

func TestParsePlaylistFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    PlaylistFormat
		wantErr bool
	}{
		{"m3u", FormatM3U, false},
		{"", FormatM3U, false},
		{"PLS", FormatPLS, false},
		{"wpl", FormatM3U, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlaylistFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePlaylistFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePlaylistFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
