package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/handiism/fomu/internal/model"
)

func TestTagger_SaveTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	payload := []byte("raw audio payload")
	if err := os.WriteFile(path, payload, 0644); err != nil {
		t.Fatal(err)
	}

	track := model.NewTrack("clear-skies", "Clear Skies", "Scott Buckley",
		"https://example.test/clear-skies.mp3", model.PoolCalmFocus, model.PoolAtmospheric)

	if err := NewTagger(nil).SaveTags(track, path); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("id3v2.Open() error = %v", err)
	}
	defer tag.Close()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"title", tag.Title(), "Clear Skies"},
		{"artist", tag.Artist(), "Scott Buckley"},
		{"album", tag.Album(), DefaultAlbum},
		{"genre", tag.Genre(), "calm-focus"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}

	comments := tag.GetFrames(tag.CommonID("Comments"))
	if len(comments) != 1 {
		t.Fatalf("got %d comment frames, want 1", len(comments))
	}
	if cf, ok := comments[0].(id3v2.CommentFrame); !ok || cf.Text != track.SourceURL {
		t.Errorf("comment = %+v, want source URL", comments[0])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(data, payload) {
		t.Error("audio payload not preserved after tagging")
	}
}

func TestTagger_Disabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(path, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}

	tagger := NewTagger(&TagConfig{ModifyTags: false})
	if err := tagger.SaveTags(model.NewTrack("x", "X", "Y", ""), path); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "payload" {
		t.Errorf("file modified with tagging disabled: %q", data)
	}
}

func TestTagger_MissingFile(t *testing.T) {
	err := NewTagger(nil).SaveTags(model.NewTrack("x", "X", "Y", ""), filepath.Join(t.TempDir(), "nope.mp3"))
	if err == nil {
		t.Error("SaveTags() on a missing file returned nil error")
	}
}

func TestTagger_EmptyAndKeep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(path, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}
	original := model.NewTrack("clear-skies", "Clear Skies", "Scott Buckley",
		"https://example.test/clear-skies.mp3", model.PoolCalmFocus)
	if err := NewTagger(nil).SaveTags(original, path); err != nil {
		t.Fatalf("first SaveTags() error = %v", err)
	}

	tagger := NewTagger(&TagConfig{
		ModifyTags:  true,
		Artist:      TagEmpty,
		AlbumArtist: TagEmpty,
		Album:       TagDoNotModify,
		TrackTitle:  TagDoNotModify,
		Genre:       TagEmpty,
		Comments:    TagEmpty,
	})
	renamed := model.NewTrack("clear-skies", "Renamed", "Someone Else", "https://example.test/other.mp3", model.PoolAtmospheric)
	if err := tagger.SaveTags(renamed, path); err != nil {
		t.Fatalf("second SaveTags() error = %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("id3v2.Open() error = %v", err)
	}
	defer tag.Close()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"title kept", tag.Title(), "Clear Skies"},
		{"album kept", tag.Album(), DefaultAlbum},
		{"artist emptied", tag.Artist(), ""},
		{"genre emptied", tag.Genre(), ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if n := len(tag.GetFrames("TPE2")); n != 0 {
		t.Errorf("got %d album artist frames, want 0", n)
	}
	if n := len(tag.GetFrames(tag.CommonID("Comments"))); n != 0 {
		t.Errorf("got %d comment frames, want 0", n)
	}
}

func TestParseTagEditAction(t *testing.T) {
	tests := []struct {
		in      string
		want    TagEditAction
		wantErr bool
	}{
		{"modify", TagModify, false},
		{"empty", TagEmpty, false},
		{"keep", TagDoNotModify, false},
		{"", TagModify, true},
		{"Keep", TagModify, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTagEditAction(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTagEditAction(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTagEditAction(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
