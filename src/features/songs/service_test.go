package songs

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/contre95/maichart/src/catalog"
	"github.com/contre95/maichart/src/infra/source"
)

// MockCatalog is an in-memory catalog.Catalog.
type MockCatalog struct {
	songs []*catalog.Song
	err   error
}

func (m *MockCatalog) Songs() ([]*catalog.Song, error) {
	return m.songs, m.err
}

func ptr[T any](v T) *T {
	return &v
}

func sheet(d catalog.Difficulty, t catalog.SheetType, level float64) catalog.Sheet {
	return catalog.Sheet{Difficulty: d, Type: t, LevelValue: level}
}

func sampleSongs() []*catalog.Song {
	return []*catalog.Song{
		{SongID: "s1", Title: "Foo", Artist: "Alpha", Category: "POPS", Version: "maimai", BPM: 150, Sheets: []catalog.Sheet{}},
		{SongID: "s2", Title: "Bar Foo", Artist: "Beta", Category: "GAME", Version: "FiNALE", BPM: 200, IsNew: true,
			Sheets: []catalog.Sheet{sheet(catalog.DifficultyExpert, catalog.SheetTypeStd, 10.0)}},
		{SongID: "s3", Title: "Oshama", Artist: "Alpha", Category: "maimai", Version: "maimai PLUS", BPM: 300, IsLocked: true,
			Sheets: []catalog.Sheet{
				sheet(catalog.DifficultyMaster, catalog.SheetTypeDX, 13.2),
				sheet(catalog.DifficultyBasic, catalog.SheetTypeDX, 3.0),
			}},
		{SongID: "s4", Title: "Quiet", Artist: "Gamma", Category: "POPS", Version: "FiNALE", BPM: 0,
			Sheets: []catalog.Sheet{sheet(catalog.DifficultyMaster, catalog.SheetTypeStd, 12.7)}},
		{SongID: "s2", Title: "Shadow", Artist: "Delta", Category: "GAME", Version: "DX", BPM: 180, Sheets: []catalog.Sheet{}},
	}
}

func ids(songs []*catalog.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.SongID + ":" + s.Title
	}
	return out
}

func TestGetAll_PaginationWindow(t *testing.T) {
	service := NewService(&MockCatalog{songs: sampleSongs()})
	const total = 5

	for skip := 0; skip <= total+2; skip++ {
		for limit := 1; limit <= total+2; limit++ {
			page, gotTotal, err := service.GetAll(Page{Skip: skip, Limit: limit})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotTotal != total {
				t.Errorf("skip=%d limit=%d: expected total %d, got %d", skip, limit, total, gotTotal)
			}
			want := 0
			if skip < total {
				want = min(limit, total-skip)
			}
			if len(page) != want {
				t.Errorf("skip=%d limit=%d: expected %d songs, got %d", skip, limit, want, len(page))
			}
			if len(page) > 0 && page[0] != sampleSongsAt(service, skip) {
				t.Errorf("skip=%d: page does not start at the requested offset", skip)
			}
		}
	}

	page, _, err := service.GetAll(Page{Skip: 1, Limit: math.MaxInt})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != total-1 {
		t.Errorf("limit=MaxInt: expected %d songs, got %d", total-1, len(page))
	}
}

func sampleSongsAt(s *Service, i int) *catalog.Song {
	songs, _ := s.catalog.Songs()
	return songs[i]
}

func TestGetAll_AllIgnoresWindow(t *testing.T) {
	service := NewService(&MockCatalog{songs: sampleSongs()})

	page, total, err := service.GetAll(Page{Skip: 3, Limit: 1, All: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != total || total != 5 {
		t.Errorf("expected the whole catalog, got %d of %d", len(page), total)
	}
}

func TestGetAll_PageIsACopy(t *testing.T) {
	mock := &MockCatalog{songs: sampleSongs()}
	service := NewService(mock)

	page, _, _ := service.GetAll(Page{Skip: 0, Limit: 2})
	page[0] = nil
	if mock.songs[0] == nil {
		t.Error("modifying a page changed the catalog")
	}
}

func TestGetByID(t *testing.T) {
	service := NewService(&MockCatalog{songs: sampleSongs()})

	song, err := service.GetByID("s2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if song == nil || song.Title != "Bar Foo" {
		t.Fatalf("expected the first s2 record, got %+v", song)
	}

	missing, err := service.GetByID("nope")
	if err != nil {
		t.Fatalf("expected not found to be a plain nil, got %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil, got %+v", missing)
	}
}

func TestSearch_Filters(t *testing.T) {
	tests := []struct {
		name   string
		params SearchParams
		want   []string
	}{
		{"no filters", SearchParams{}, []string{"s1:Foo", "s2:Bar Foo", "s3:Oshama", "s4:Quiet", "s2:Shadow"}},
		{"title case insensitive", SearchParams{Title: "foo"}, []string{"s1:Foo", "s2:Bar Foo"}},
		{"artist", SearchParams{Artist: "ALPHA"}, []string{"s1:Foo", "s3:Oshama"}},
		{"category substring", SearchParams{Category: "mai"}, []string{"s3:Oshama"}},
		{"version", SearchParams{Version: "finale"}, []string{"s2:Bar Foo", "s4:Quiet"}},
		{"bpm range", SearchParams{BPMMin: ptr(160), BPMMax: ptr(250)}, []string{"s2:Bar Foo", "s2:Shadow"}},
		{"bpm max keeps unspecified", SearchParams{BPMMax: ptr(100)}, []string{"s4:Quiet"}},
		{"is new", SearchParams{IsNew: ptr(true)}, []string{"s2:Bar Foo"}},
		{"is locked false", SearchParams{IsLocked: ptr(false)}, []string{"s1:Foo", "s2:Bar Foo", "s4:Quiet", "s2:Shadow"}},
		{"difficulty", SearchParams{Difficulty: catalog.DifficultyMaster}, []string{"s3:Oshama", "s4:Quiet"}},
		{"sheet type", SearchParams{SheetType: catalog.SheetTypeStd}, []string{"s2:Bar Foo", "s4:Quiet"}},
		{"level range", SearchParams{LevelMin: ptr(12.0), LevelMax: ptr(13.0)}, []string{"s4:Quiet"}},
		{"combined text and sheet", SearchParams{Title: "foo", Difficulty: catalog.DifficultyExpert}, []string{"s2:Bar Foo"}},
	}

	service := NewService(&MockCatalog{songs: sampleSongs()})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Page = Page{All: true}
			page, total, err := service.Search(tt.params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ids(page); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if total != len(tt.want) {
				t.Errorf("expected total %d, got %d", len(tt.want), total)
			}
		})
	}
}

func TestSearch_SheetFiltersMustHoldOnOneSheet(t *testing.T) {
	service := NewService(&MockCatalog{songs: sampleSongs()})
	all := Page{All: true}

	page, _, _ := service.Search(SearchParams{Title: "oshama", Difficulty: catalog.DifficultyMaster, LevelMin: ptr(13.0), Page: all})
	if len(page) != 1 {
		t.Errorf("expected the master 13.2 sheet to match, got %v", ids(page))
	}

	page, _, _ = service.Search(SearchParams{Title: "oshama", Difficulty: catalog.DifficultyMaster, LevelMin: ptr(14.0), Page: all})
	if len(page) != 0 {
		t.Errorf("expected no match for level 14, got %v", ids(page))
	}

	// basic matches the difficulty and master matches the level, but no single sheet matches both.
	page, _, _ = service.Search(SearchParams{Title: "oshama", Difficulty: catalog.DifficultyBasic, LevelMin: ptr(13.0), Page: all})
	if len(page) != 0 {
		t.Errorf("expected predicates to be evaluated per sheet, got %v", ids(page))
	}
}

func TestSearch_ZeroSheetSongsFailSheetFilters(t *testing.T) {
	service := NewService(&MockCatalog{songs: sampleSongs()})

	page, _, _ := service.Search(SearchParams{LevelMin: ptr(1.0), Page: Page{All: true}})
	for _, song := range page {
		if len(song.Sheets) == 0 {
			t.Errorf("song %s without sheets passed a sheet filter", song.SongID)
		}
	}
}

func TestSearch_AddingFiltersNeverGrowsResults(t *testing.T) {
	service := NewService(&MockCatalog{songs: sampleSongs()})
	steps := []func(*SearchParams){
		func(p *SearchParams) { p.Version = "a" },
		func(p *SearchParams) { p.BPMMin = ptr(1) },
		func(p *SearchParams) { p.SheetType = catalog.SheetTypeDX },
		func(p *SearchParams) { p.IsLocked = ptr(true) },
		func(p *SearchParams) { p.Title = "zzz" },
	}

	params := SearchParams{Page: Page{All: true}}
	_, previous, _ := service.Search(params)
	for i, step := range steps {
		step(&params)
		_, total, err := service.Search(params)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total > previous {
			t.Errorf("step %d: result grew from %d to %d", i, previous, total)
		}
		previous = total
	}
}

func TestSearch_PaginatesFilteredList(t *testing.T) {
	service := NewService(&MockCatalog{songs: sampleSongs()})

	page, total, err := service.Search(SearchParams{Artist: "alpha", Page: Page{Skip: 1, Limit: 10}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if got := ids(page); !slices.Equal(got, []string{"s3:Oshama"}) {
		t.Errorf("expected second match only, got %v", got)
	}

	page, total, _ = service.Search(SearchParams{Artist: "alpha", Page: Page{Skip: 5, Limit: 10}})
	if len(page) != 0 || total != 2 {
		t.Errorf("expected empty page with total 2, got %d songs, total %d", len(page), total)
	}
}

func TestMetadata_SortedAndDistinct(t *testing.T) {
	service := NewService(&MockCatalog{songs: sampleSongs()})

	tests := []struct {
		name string
		get  func() ([]string, error)
		want []string
	}{
		{"categories", service.Categories, []string{"GAME", "POPS", "maimai"}},
		{"versions", service.Versions, []string{"DX", "FiNALE", "maimai", "maimai PLUS"}},
		{"artists", service.Artists, []string{"Alpha", "Beta", "Delta", "Gamma"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestService_PropagatesCatalogErrors(t *testing.T) {
	loadErr := errors.New("boom")
	service := NewService(&MockCatalog{err: loadErr})

	if _, _, err := service.GetAll(Page{Limit: 1}); !errors.Is(err, loadErr) {
		t.Errorf("GetAll: expected %v, got %v", loadErr, err)
	}
	if _, err := service.GetByID("x"); !errors.Is(err, loadErr) {
		t.Errorf("GetByID: expected %v, got %v", loadErr, err)
	}
	if _, _, err := service.Search(SearchParams{}); !errors.Is(err, loadErr) {
		t.Errorf("Search: expected %v, got %v", loadErr, err)
	}
	if _, err := service.Artists(); !errors.Is(err, loadErr) {
		t.Errorf("Artists: expected %v, got %v", loadErr, err)
	}
}

func TestSearch_FromSourceFile(t *testing.T) {
	const content = `{"songs":[
		{"songId":"s1","title":"Foo","bpm":150,"sheets":[]},
		{"songId":"s2","title":"Bar Foo","bpm":200,"sheets":[{"difficulty":"expert","levelValue":10.0,"type":"std"}]}
	]}`
	path := filepath.Join(t.TempDir(), "songs.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	service := NewService(source.NewStore(path, source.Options{}))

	songs, total, err := service.Search(SearchParams{Title: "foo", Page: Page{Limit: 100}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || !slices.Equal(ids(songs), []string{"s1:Foo", "s2:Bar Foo"}) {
		t.Errorf("title=foo: expected s1 and s2, got %v (total %d)", ids(songs), total)
	}

	songs, total, err = service.Search(SearchParams{
		Title:      "foo",
		Difficulty: catalog.DifficultyExpert,
		Page:       Page{Limit: 100},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || !slices.Equal(ids(songs), []string{"s2:Bar Foo"}) {
		t.Errorf("title=foo difficulty=expert: expected s2 only, got %v (total %d)", ids(songs), total)
	}
}
