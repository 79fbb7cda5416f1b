// Package audio provides audio output and audio file services.
//
// # Output
//
// Output and Handle are the capability the playback engine drives:
//
//	out, err := audio.NewBeepOutput(logger)
//	h, err := out.Load(mp3Bytes)
//	h.SetVolume(0.8)
//	h.Play()
//
//	for ev := range out.Events() {
//	    // ev.Kind is EventCompleted or EventError for handle ev.Handle
//	}
//
// BeepOutput decodes MP3 with gopxl/beep and plays through the system
// speaker. Completion is reported on the Events channel from the audio
// callback, which never blocks.
//
// # ID3 Tagging
//
// Use the Tagger to write ID3 tags to downloaded files before they enter
// the cache:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(track, tmpPath)
//
// The tagger supports:
//   - Artist, Album Artist
//   - Album ("fomu"), Title
//   - Genre (the track's first pool)
//   - Comment (source URL)
//
// # Playlist Generation
//
// Generate playlists of cached tracks:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist("focus", tracks)
//	os.WriteFile("focus.m3u", []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
package audio
