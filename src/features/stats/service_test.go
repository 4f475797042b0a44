package stats

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contre95/maichart/src/catalog"
	"github.com/contre95/maichart/src/features/songs"
	"github.com/gofiber/fiber/v2"
)

// MockCatalog is an in-memory catalog.Catalog.
type MockCatalog struct {
	songs []*catalog.Song
	err   error
}

func (m *MockCatalog) Songs() ([]*catalog.Song, error) {
	return m.songs, m.err
}

func newService(m *MockCatalog) *Service {
	return NewService(m, songs.NewService(m))
}

func TestSummary(t *testing.T) {
	mock := &MockCatalog{songs: []*catalog.Song{
		{Title: "a", Artist: "x", Category: "POPS", Version: "v1", BPM: 0, IsNew: true, Sheets: make([]catalog.Sheet, 2)},
		{Title: "b", Artist: "y", Category: "POPS", Version: "v2", BPM: 200, IsLocked: true, Sheets: make([]catalog.Sheet, 5)},
		{Title: "c", Artist: "x", Category: "GAME", Version: "v2", BPM: 300, IsNew: true, IsLocked: true},
	}}

	summary, err := newService(mock).Summary()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := Summary{
		TotalSongs:      3,
		TotalSheets:     7,
		TotalCategories: 2,
		TotalVersions:   2,
		TotalArtists:    2,
		AverageBPM:      166.7,
		NewSongs:        2,
		LockedSongs:     2,
	}
	if *summary != want {
		t.Errorf("expected %+v, got %+v", want, *summary)
	}
}

func TestSummary_EmptyCatalog(t *testing.T) {
	summary, err := newService(&MockCatalog{songs: []*catalog.Song{}}).Summary()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.AverageBPM != 0 || summary.TotalSongs != 0 || summary.TotalArtists != 0 {
		t.Errorf("expected zero summary, got %+v", *summary)
	}
}

func TestSummary_PropagatesCatalogError(t *testing.T) {
	loadErr := errors.New("source unavailable")
	if _, err := newService(&MockCatalog{err: loadErr}).Summary(); !errors.Is(err, loadErr) {
		t.Errorf("expected %v, got %v", loadErr, err)
	}
}

func TestGetSummaryRoute(t *testing.T) {
	mock := &MockCatalog{songs: []*catalog.Song{{BPM: 150, Sheets: make([]catalog.Sheet, 1)}}}
	app := fiber.New()
	RegisterRoutes(app, newService(mock))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/songs/stats/summary", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"total_songs", "total_sheets", "total_categories", "total_versions", "total_artists", "average_bpm", "new_songs", "locked_songs"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q in %s", key, body)
		}
	}
	if got["average_bpm"] != 150.0 {
		t.Errorf("expected average_bpm 150, got %v", got["average_bpm"])
	}
}
