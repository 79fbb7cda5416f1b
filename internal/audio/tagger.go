package audio

import (
	"fmt"

	"github.com/bogem/id3v2"
	"github.com/handiism/fomu/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value (sets to empty string).
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the catalog.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// ParseTagEditAction converts a config value ("modify", "empty" or "keep").
func ParseTagEditAction(s string) (TagEditAction, error) {
	switch s {
	case "modify":
		return TagModify, nil
	case "empty":
		return TagEmpty, nil
	case "keep":
		return TagDoNotModify, nil
	}
	return TagModify, fmt.Errorf("unknown tag action %q", s)
}

// DefaultAlbum is written to the TALB frame of every downloaded track.
const DefaultAlbum = "fomu"

// TagConfig holds tagging configuration for each ID3 field.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    Artist:      TagModify,      // Update artist from the catalog
//	    TrackTitle:  TagModify,      // Update title from the catalog
//	    Genre:       TagModify,      // Primary pool, e.g. "calm-focus"
//	    Comments:    TagModify,      // Source URL
//	    AlbumArtist: TagDoNotModify, // Keep existing album artist
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, SaveTags does nothing.
	ModifyTags bool

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// AlbumArtist controls the TPE2 (Album artist) frame.
	AlbumArtist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Genre controls the TCON (Content type) frame.
	Genre TagEditAction

	// Comments controls the COMM (Comments) frame.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration, which modifies
// every supported frame.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Artist:      TagModify,
		AlbumArtist: TagModify,
		Album:       TagModify,
		TrackTitle:  TagModify,
		Genre:       TagModify,
		Comments:    TagModify,
	}
}

// Tagger writes ID3 tags to MP3 files.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//
//	// After downloading track, before it is renamed into the cache
//	err := tagger.SaveTags(track, tmpPath)
//	if err != nil {
//	    log.Printf("Failed to tag %s: %v", track.ID, err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags for track to the MP3 file at path.
//
// Existing tags are parsed and kept unless the configuration says
// otherwise. Returns an error if the file cannot be opened or saved.
func (t *Tagger) SaveTags(track *model.Track, path string) error {
	if !t.config.ModifyTags {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags of %s: %w", path, err)
	}
	defer tag.Close()

	t.updateStringTags(tag, track)

	return tag.Save()
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, track *model.Track) {
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(track.Artist)
	}

	switch t.config.AlbumArtist {
	case TagEmpty:
		tag.DeleteFrames("TPE2")
	case TagModify:
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, track.Artist)
	}

	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(DefaultAlbum)
	}

	switch t.config.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(track.Title)
	}

	switch t.config.Genre {
	case TagEmpty:
		tag.SetGenre("")
	case TagModify:
		if len(track.Pools) > 0 {
			tag.SetGenre(string(track.Pools[0]))
		}
	}

	switch t.config.Comments {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Comments"))
	case TagModify:
		tag.DeleteFrames(tag.CommonID("Comments"))
		if track.SourceURL != "" {
			tag.AddCommentFrame(id3v2.CommentFrame{
				Encoding:    id3v2.EncodingUTF8,
				Language:    "eng",
				Description: "source",
				Text:        track.SourceURL,
			})
		}
	}
}
