// Package cache tracks which catalog tracks are available locally.
//
// File presence is the source of truth: on Open the store marks a track
// Ready iff its final file exists in the cache directory. Downloads are
// written to a temporary name and renamed into place, so a partial file
// is never mistaken for a Ready one.
package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/handiism/fomu/internal/catalog"
	ioutils "github.com/handiism/fomu/internal/io"
)

var (
	ErrUnknownTrack      = errors.New("track not in cache catalog")
	ErrInvalidTransition = errors.New("invalid cache status transition")
)

// Observer is notified after every effective status change.
type Observer func(id string, from, to Status)

// Option configures a Store.
type Option func(*Store)

// WithObserver registers fn to receive status changes.
func WithObserver(fn Observer) Option {
	return func(s *Store) {
		s.observer = fn
	}
}

// Store maps track ids to cache entries backed by a directory.
//
// The downloader is the only writer of Downloading/Ready/Failed; the
// playback engine only reads. The mutex keeps the map consistent.
type Store struct {
	dir      string
	catalog  *catalog.Catalog
	entries  map[string]*Entry
	observer Observer
	mu       sync.RWMutex
}

// Open creates the cache directory if needed, removes temporary files left
// by an interrupted run and rehydrates entry statuses from disk.
func Open(dir string, c *catalog.Catalog, opts ...Option) (*Store, error) {
	if err := ioutils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if _, err := ioutils.RemoveTemps(dir); err != nil {
		return nil, fmt.Errorf("remove stale downloads: %w", err)
	}

	s := &Store{
		dir:     dir,
		catalog: c,
		entries: make(map[string]*Entry, len(c.Tracks())),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, t := range c.Tracks() {
		e := &Entry{TrackID: t.ID, Status: Missing}
		path := filepath.Join(dir, t.FileName)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() && info.Size() > 0 {
			e.Status = Ready
			e.Path = path
		}
		s.entries[t.ID] = e
	}

	return s, nil
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the final, stable location of a track's file, whether or not
// it exists yet.
func (s *Store) Path(id string) (string, error) {
	t, err := s.catalog.Track(id)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTrack, id)
	}
	return filepath.Join(s.dir, t.FileName), nil
}

// Has reports whether the track is Ready.
func (s *Store) Has(id string) bool {
	return s.Status(id) == Ready
}

// Status returns the track's status. Unknown ids are Missing.
func (s *Store) Status(id string) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[id]; ok {
		return e.Status
	}
	return Missing
}

// Entry returns a copy of the track's entry.
func (s *Store) Entry(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Snapshot returns copies of all entries in catalog order.
func (s *Store) Snapshot() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for _, id := range s.catalog.IDs() {
		if e, ok := s.entries[id]; ok {
			out = append(out, *e)
		}
	}
	return out
}

// ReadyCount returns how many tracks are Ready.
func (s *Store) ReadyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.entries {
		if e.Status == Ready {
			n++
		}
	}
	return n
}

// MarkDownloading moves a Missing or Failed track to Downloading.
func (s *Store) MarkDownloading(id string) error {
	return s.transition(id, Downloading, "")
}

// MarkReady records a completed download. Marking a Ready track again is a
// no-op and keeps the original path.
func (s *Store) MarkReady(id, path string) error {
	return s.transition(id, Ready, path)
}

// MarkFailed records a failed download attempt.
func (s *Store) MarkFailed(id string) error {
	return s.transition(id, Failed, "")
}

// MarkMissing reverts an abandoned download.
func (s *Store) MarkMissing(id string) error {
	return s.transition(id, Missing, "")
}

func (s *Store) transition(id string, to Status, path string) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownTrack, id)
	}
	from := e.Status
	if from == to {
		s.mu.Unlock()
		return nil
	}
	if !canTransition(from, to) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, id, from, to)
	}
	e.Status = to
	if to == Ready {
		e.Path = path
	} else {
		e.Path = ""
	}
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(id, from, to)
	}
	return nil
}

// WriteAtomic stores data as the track's file via a temporary file and a
// rename. prepare, if set, runs on the temporary file first. It returns the
// final path; the caller decides when to MarkReady.
func (s *Store) WriteAtomic(ctx context.Context, id string, data []byte, prepare func(tmpPath string) error) (string, error) {
	path, err := s.Path(id)
	if err != nil {
		return "", err
	}
	if err := ioutils.WriteFileAtomic(ctx, path, data, prepare); err != nil {
		return "", err
	}
	return path, nil
}

// Clear deletes every downloaded track file and resets all entries to
// Missing. It must not run while a downloader is active.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(name, ".mp3") && !ioutils.IsTemp(name) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return count, err
		}
		if strings.HasSuffix(name, ".mp3") {
			count++
		}
	}

	s.mu.Lock()
	for _, e := range s.entries {
		e.Status = Missing
		e.Path = ""
	}
	s.mu.Unlock()

	return count, nil
}
