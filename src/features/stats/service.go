package stats

import (
	"log/slog"
	"math"

	"github.com/contre95/maichart/src/catalog"
)

// Facets lists the distinct values of the catalog's faceted fields.
type Facets interface {
	Categories() ([]string, error)
	Versions() ([]string, error)
	Artists() ([]string, error)
}

// Summary is the catalog overview served by /songs/stats/summary.
type Summary struct {
	TotalSongs      int     `json:"total_songs"`
	TotalSheets     int     `json:"total_sheets"`
	TotalCategories int     `json:"total_categories"`
	TotalVersions   int     `json:"total_versions"`
	TotalArtists    int     `json:"total_artists"`
	AverageBPM      float64 `json:"average_bpm"`
	NewSongs        int     `json:"new_songs"`
	LockedSongs     int     `json:"locked_songs"`
}

// Service computes catalog statistics. Nothing is cached, every call walks the full catalog.
type Service struct {
	catalog catalog.Catalog
	facets  Facets
}

// NewService creates a new stats service.
func NewService(c catalog.Catalog, facets Facets) *Service {
	return &Service{catalog: c, facets: facets}
}

// Summary returns the aggregate numbers over all songs.
func (s *Service) Summary() (*Summary, error) {
	songs, err := s.catalog.Songs()
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalSongs: len(songs)}
	bpmSum := 0
	for _, song := range songs {
		summary.TotalSheets += len(song.Sheets)
		bpmSum += song.BPM
		if song.IsNew {
			summary.NewSongs++
		}
		if song.IsLocked {
			summary.LockedSongs++
		}
	}
	if len(songs) > 0 {
		summary.AverageBPM = roundTenth(float64(bpmSum) / float64(len(songs)))
	}

	if summary.TotalCategories, err = count(s.facets.Categories); err != nil {
		return nil, err
	}
	if summary.TotalVersions, err = count(s.facets.Versions); err != nil {
		return nil, err
	}
	if summary.TotalArtists, err = count(s.facets.Artists); err != nil {
		return nil, err
	}

	slog.Debug("Stats summary computed", "songs", summary.TotalSongs, "sheets", summary.TotalSheets)
	return summary, nil
}

func count(list func() ([]string, error)) (int, error) {
	values, err := list()
	return len(values), err
}

// roundTenth rounds to one decimal place, halves away from zero.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
