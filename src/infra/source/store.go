package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/contre95/maichart/src/catalog"
)

var (
	ErrSourceUnavailable = errors.New("catalog source unavailable")
	ErrMalformedSource   = errors.New("catalog source malformed")
	ErrDuplicateSongID   = errors.New("duplicate song id")
)

// LoadObserver is told about a successful catalog load.
type LoadObserver interface {
	CatalogLoaded(songs []*catalog.Song, took time.Duration)
}

// Options tunes how a Store loads its source file.
type Options struct {
	// RejectDuplicateIDs fails the load when two records share a songId.
	// When false duplicates are only logged and lookups return the first one.
	RejectDuplicateIDs bool
	Observer           LoadObserver
	// Today supplies the release date of records without one. Defaults to catalog.Today.
	Today func() catalog.Date
}

// Store is a catalog.Catalog backed by a single JSON file.
// The file is parsed on first use and the result, or the failure, is kept for the process lifetime.
type Store struct {
	path string
	opts Options

	once  sync.Once
	songs []*catalog.Song
	err   error
}

// NewStore creates a store for the given source path. Nothing is read until the first access.
func NewStore(path string, opts Options) *Store {
	if opts.Today == nil {
		opts.Today = catalog.Today
	}
	return &Store{path: path, opts: opts}
}

// Path returns the source file path.
func (s *Store) Path() string {
	return s.path
}

// Songs returns the loaded songs, loading them on the first call.
func (s *Store) Songs() ([]*catalog.Song, error) {
	s.once.Do(s.load)
	return s.songs, s.err
}

// Load forces the initial load and returns its error.
func (s *Store) Load() error {
	_, err := s.Songs()
	return err
}

func (s *Store) load() {
	start := time.Now()
	songs, err := readSongs(s.path, s.opts.Today())
	if err == nil {
		err = s.checkDuplicates(songs)
	}
	if err != nil {
		slog.Error("Failed to load catalog", "path", s.path, "error", err)
		s.err = err
		return
	}

	took := time.Since(start)
	s.songs = songs
	slog.Info("Catalog loaded", "path", s.path, "songs", len(songs), "duration", took.String())
	if s.opts.Observer != nil {
		s.opts.Observer.CatalogLoaded(songs, took)
	}
}

type document struct {
	Songs *[]json.RawMessage `json:"songs"`
}

func readSongs(path string, today catalog.Date) ([]*catalog.Song, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedSource, path, err)
	}
	if doc.Songs == nil {
		return nil, fmt.Errorf("%w: %s: missing \"songs\" array", ErrMalformedSource, path)
	}

	songs := make([]*catalog.Song, 0, len(*doc.Songs))
	for i, raw := range *doc.Songs {
		song, err := catalog.CoerceSong(raw, today)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		songs = append(songs, &song)
	}
	return songs, nil
}

func (s *Store) checkDuplicates(songs []*catalog.Song) error {
	seen := make(map[string]int, len(songs))
	for i, song := range songs {
		if song.SongID == "" {
			continue
		}
		first, dup := seen[song.SongID]
		if !dup {
			seen[song.SongID] = i
			continue
		}
		if s.opts.RejectDuplicateIDs {
			return fmt.Errorf("%w: %q at records %d and %d", ErrDuplicateSongID, song.SongID, first, i)
		}
		slog.Warn("Duplicate song id, lookups return the first record", "song_id", song.SongID, "first_index", first, "index", i)
	}
	return nil
}
