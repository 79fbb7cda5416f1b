package audio

import (
	"fmt"
	"strings"

	"github.com/handiism/fomu/internal/model"
)

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// FormatM3U creates .m3u files (most compatible).
	// Can be extended with EXTINF lines for title info.
	FormatM3U PlaylistFormat = iota

	// FormatPLS creates .pls files (Winamp/SHOUTcast format).
	FormatPLS
)

// ParsePlaylistFormat maps "m3u" or "pls" to a format.
func ParsePlaylistFormat(s string) (PlaylistFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m3u", "":
		return FormatM3U, nil
	case "pls":
		return FormatPLS, nil
	default:
		return FormatM3U, fmt.Errorf("unknown playlist format %q (want m3u or pls)", s)
	}
}

// Extension returns the file extension including the dot.
func (f PlaylistFormat) Extension() string {
	if f == FormatPLS {
		return ".pls"
	}
	return ".m3u"
}

// PlaylistCreator generates playlist files for the cached tracks of a
// preset, so the cache can be played by other players too.
//
// Track paths in the playlist are the bare file names; the playlist is
// written next to the tracks.
//
// Example:
//
//	creator := NewPlaylistCreator(FormatM3U, true)
//	content := creator.CreatePlaylist("focus", tracks)
//	os.WriteFile(filepath.Join(cacheDir, "focus.m3u"), []byte(content), 0644)
//
//	// Result:
//	// #EXTM3U
//	// #PLAYLIST:focus
//	// #EXTINF:-1,Scott Buckley - Clear Skies
//	// clear-skies.mp3
type PlaylistCreator struct {
	format   PlaylistFormat
	extended bool // For M3U: include EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// extended only applies to M3U.
func NewPlaylistCreator(format PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// CreatePlaylist generates playlist content for tracks.
func (p *PlaylistCreator) CreatePlaylist(title string, tracks []*model.Track) string {
	switch p.format {
	case FormatPLS:
		return p.createPLS(tracks)
	default:
		return p.createM3U(title, tracks)
	}
}

// createM3U generates an M3U playlist. Durations are unknown until a track
// is decoded, so EXTINF uses -1.
func (p *PlaylistCreator) createM3U(title string, tracks []*model.Track) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
		if title != "" {
			fmt.Fprintf(&sb, "#PLAYLIST:%s\n", title)
		}
	}

	for _, track := range tracks {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:-1,%s - %s\n", track.Artist, track.Title)
		}
		sb.WriteString(track.FileName + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=clear-skies.mp3
//	Title1=Scott Buckley - Clear Skies
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(tracks []*model.Track) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, track := range tracks {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, track.FileName)
		fmt.Fprintf(&sb, "Title%d=%s - %s\n", idx, track.Artist, track.Title)
		fmt.Fprintf(&sb, "Length%d=-1\n", idx)
	}

	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(tracks))
	sb.WriteString("Version=2\n")

	return sb.String()
}
