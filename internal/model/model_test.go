package model

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.mp3", "normal-file.mp3"},
		{"file:with:colons.mp3", "file_with_colons.mp3"},
		{"file<with>brackets.mp3", "file_with_brackets.mp3"},
		{"file/with\\slashes.mp3", "file_with_slashes.mp3"},
		{"file|with|pipes.mp3", "file_with_pipes.mp3"},
		{"file?with*wildcards.mp3", "file_with_wildcards.mp3"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewTrack_FileName(t *testing.T) {
	track := NewTrack("she-moved-mountains", "She Moved Mountains", "Scott Buckley", "http://example.com/a.mp3", PoolCalmFocus)

	if track.FileName != "she-moved-mountains.mp3" {
		t.Errorf("FileName = %q, want %q", track.FileName, "she-moved-mountains.mp3")
	}
	if !track.InPool(PoolCalmFocus) {
		t.Error("track should be in calm-focus")
	}
	if track.InPool(PoolAtmospheric) {
		t.Error("track should not be in atmospheric")
	}
}

func TestNewTrack_UnsafeID(t *testing.T) {
	track := NewTrack("a/b:c", "Odd", "Artist", "http://example.com/a.mp3")

	if track.FileName != "a_b_c.mp3" {
		t.Errorf("FileName = %q, want %q", track.FileName, "a_b_c.mp3")
	}
}

func TestPreset_HzCenter(t *testing.T) {
	p := Preset{Name: "focus", HzMin: 14, HzMax: 16}
	if got := p.HzCenter(); got != 15 {
		t.Errorf("HzCenter() = %v, want 15", got)
	}
}
