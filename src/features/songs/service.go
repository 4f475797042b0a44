package songs

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/contre95/maichart/src/catalog"
	"golang.org/x/text/cases"
)

// Page selects a window of an ordered result list.
type Page struct {
	Skip  int
	Limit int
	// All returns the whole list and ignores Skip and Limit.
	All bool
}

// slice copies the selected window. A Skip past the end gives an empty page.
func (p Page) slice(songs []*catalog.Song) []*catalog.Song {
	if p.All {
		return slices.Clone(songs)
	}
	skip := max(p.Skip, 0)
	if skip >= len(songs) || p.Limit < 1 {
		return []*catalog.Song{}
	}
	end := len(songs)
	if p.Limit < end-skip {
		end = skip + p.Limit
	}
	return slices.Clone(songs[skip:end])
}

// SearchParams holds the optional search filters. Zero strings and nil pointers are not applied.
type SearchParams struct {
	Title    string
	Artist   string
	Category string
	Version  string
	BPMMin   *int
	BPMMax   *int
	IsNew    *bool
	IsLocked *bool

	// Sheet level filters. A song matches when one of its sheets passes all of them.
	Difficulty catalog.Difficulty
	SheetType  catalog.SheetType
	LevelMin   *float64
	LevelMax   *float64

	Page Page
}

func (p SearchParams) sheetFiltersActive() bool {
	return p.Difficulty != "" || p.SheetType != "" || p.LevelMin != nil || p.LevelMax != nil
}

// Service answers read queries over the catalog. It never modifies the songs it returns.
type Service struct {
	catalog catalog.Catalog
}

// NewService creates a new songs service.
func NewService(c catalog.Catalog) *Service {
	return &Service{catalog: c}
}

// GetAll returns a page of the catalog in source order together with the catalog size.
func (s *Service) GetAll(page Page) ([]*catalog.Song, int, error) {
	songs, err := s.catalog.Songs()
	if err != nil {
		return nil, 0, err
	}
	return page.slice(songs), len(songs), nil
}

// GetByID returns the first song with the given id, or nil when there is none.
func (s *Service) GetByID(id string) (*catalog.Song, error) {
	songs, err := s.catalog.Songs()
	if err != nil {
		return nil, err
	}
	for _, song := range songs {
		if song.SongID == id {
			return song, nil
		}
	}
	return nil, nil
}

// Search filters the catalog and returns the requested page of matches plus the match count.
func (s *Service) Search(params SearchParams) ([]*catalog.Song, int, error) {
	songs, err := s.catalog.Songs()
	if err != nil {
		return nil, 0, err
	}

	m := newMatcher(params)
	var matched []*catalog.Song
	for _, song := range songs {
		if m.match(song) {
			matched = append(matched, song)
		}
	}
	slog.Debug("Search completed", "matched", len(matched), "catalog", len(songs))
	return params.Page.slice(matched), len(matched), nil
}

// Categories returns the distinct song categories in ascending order.
func (s *Service) Categories() ([]string, error) {
	return s.distinct(func(song *catalog.Song) string { return song.Category })
}

// Versions returns the distinct song versions in ascending order.
func (s *Service) Versions() ([]string, error) {
	return s.distinct(func(song *catalog.Song) string { return song.Version })
}

// Artists returns the distinct artists in ascending order.
func (s *Service) Artists() ([]string, error) {
	return s.distinct(func(song *catalog.Song) string { return song.Artist })
}

func (s *Service) distinct(field func(*catalog.Song) string) ([]string, error) {
	songs, err := s.catalog.Songs()
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, song := range songs {
		set[field(song)] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set)), nil
}

// matcher evaluates SearchParams against songs. Text filters are compared case folded.
type matcher struct {
	params  SearchParams
	fold    cases.Caser
	needles map[string]string
}

func newMatcher(params SearchParams) *matcher {
	m := &matcher{params: params, fold: cases.Fold(), needles: make(map[string]string, 4)}
	for name, value := range map[string]string{
		"title":    params.Title,
		"artist":   params.Artist,
		"category": params.Category,
		"version":  params.Version,
	} {
		if value != "" {
			m.needles[name] = m.fold.String(value)
		}
	}
	return m
}

func (m *matcher) contains(name, haystack string) bool {
	needle, ok := m.needles[name]
	if !ok {
		return true
	}
	return strings.Contains(m.fold.String(haystack), needle)
}

func (m *matcher) match(song *catalog.Song) bool {
	p := m.params
	if !m.contains("title", song.Title) ||
		!m.contains("artist", song.Artist) ||
		!m.contains("category", song.Category) ||
		!m.contains("version", song.Version) {
		return false
	}
	if p.BPMMin != nil && song.BPM < *p.BPMMin {
		return false
	}
	if p.BPMMax != nil && song.BPM > *p.BPMMax {
		return false
	}
	if p.IsNew != nil && song.IsNew != *p.IsNew {
		return false
	}
	if p.IsLocked != nil && song.IsLocked != *p.IsLocked {
		return false
	}
	if !p.sheetFiltersActive() {
		return true
	}
	return slices.ContainsFunc(song.Sheets, m.matchSheet)
}

func (m *matcher) matchSheet(sheet catalog.Sheet) bool {
	p := m.params
	if p.Difficulty != "" && sheet.Difficulty != p.Difficulty {
		return false
	}
	if p.SheetType != "" && sheet.Type != p.SheetType {
		return false
	}
	if p.LevelMin != nil && sheet.LevelValue < *p.LevelMin {
		return false
	}
	if p.LevelMax != nil && sheet.LevelValue > *p.LevelMax {
		return false
	}
	return true
}
