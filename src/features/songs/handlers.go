package songs

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/contre95/maichart/src/catalog"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Limits bounds the page size accepted by the list endpoints.
type Limits struct {
	Default int
	Max     int
}

// ListResponse is the body of every paginated songs endpoint.
type ListResponse struct {
	Songs []*catalog.Song `json:"songs"`
	Total int             `json:"total"`
}

// Handler is the handler for the songs feature.
type Handler struct {
	service  *Service
	limits   Limits
	validate *validator.Validate
}

// NewHandler creates a new handler for the songs feature.
func NewHandler(service *Service, limits Limits) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("query")
	})
	return &Handler{service: service, limits: limits, validate: v}
}

// searchQuery mirrors the accepted query string of /songs/search.
type searchQuery struct {
	Title      string   `query:"title"`
	Artist     string   `query:"artist"`
	Category   string   `query:"category"`
	Version    string   `query:"version"`
	Difficulty string   `query:"difficulty" validate:"omitempty,oneof=basic advanced expert master remaster"`
	SheetType  string   `query:"sheet_type" validate:"omitempty,oneof=dx std utage"`
	LevelMin   *float64 `query:"level_min" validate:"omitempty,gte=1,lte=15"`
	LevelMax   *float64 `query:"level_max" validate:"omitempty,gte=1,lte=15"`
	BPMMin     *int     `query:"bpm_min" validate:"omitempty,gte=1"`
	BPMMax     *int     `query:"bpm_max" validate:"omitempty,gte=1"`
	IsNew      *bool    `query:"is_new"`
	IsLocked   *bool    `query:"is_locked"`
	Skip       int      `query:"skip" validate:"gte=0"`
	Limit      int      `query:"limit" validate:"gte=1"`
}

// ListSongs is the handler for GET /songs.
func (h *Handler) ListSongs(c *fiber.Ctx) error {
	slog.Debug("ListSongs handler called")

	var q searchQuery
	var err error
	if q.Skip, err = queryInt(c, "skip", 0); err != nil {
		return unprocessable(c, err)
	}
	if q.Limit, err = queryInt(c, "limit", h.limits.Default); err != nil {
		return unprocessable(c, err)
	}
	if err := h.check(q); err != nil {
		return unprocessable(c, err)
	}

	songs, total, err := h.service.GetAll(Page{Skip: q.Skip, Limit: q.Limit})
	if err != nil {
		slog.Error("Error loading songs", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Error loading songs"})
	}
	return c.JSON(ListResponse{Songs: songs, Total: total})
}

// GetSong is the handler for GET /songs/:id.
func (h *Handler) GetSong(c *fiber.Ctx) error {
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		return unprocessable(c, fmt.Errorf("song_id: %w", err))
	}
	slog.Debug("GetSong handler called", "song_id", id)

	song, err := h.service.GetByID(id)
	if err != nil {
		slog.Error("Error loading song", "song_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Error loading song"})
	}
	if song == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Song not found"})
	}
	return c.JSON(song)
}

// SearchSongs is the handler for GET /songs/search.
func (h *Handler) SearchSongs(c *fiber.Ctx) error {
	slog.Debug("SearchSongs handler called", "query", string(c.Request().URI().QueryString()))

	q, err := h.parseSearchQuery(c)
	if err != nil {
		return unprocessable(c, err)
	}
	if err := h.check(q); err != nil {
		return unprocessable(c, err)
	}

	songs, total, err := h.service.Search(SearchParams{
		Title:      q.Title,
		Artist:     q.Artist,
		Category:   q.Category,
		Version:    q.Version,
		Difficulty: catalog.Difficulty(q.Difficulty),
		SheetType:  catalog.SheetType(q.SheetType),
		LevelMin:   q.LevelMin,
		LevelMax:   q.LevelMax,
		BPMMin:     q.BPMMin,
		BPMMax:     q.BPMMax,
		IsNew:      q.IsNew,
		IsLocked:   q.IsLocked,
		Page:       Page{Skip: q.Skip, Limit: q.Limit},
	})
	if err != nil {
		slog.Error("Error searching songs", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Error searching songs"})
	}
	return c.JSON(ListResponse{Songs: songs, Total: total})
}

// GetCategories is the handler for GET /songs/metadata/categories.
func (h *Handler) GetCategories(c *fiber.Ctx) error {
	return h.metadata(c, "categories", h.service.Categories)
}

// GetVersions is the handler for GET /songs/metadata/versions.
func (h *Handler) GetVersions(c *fiber.Ctx) error {
	return h.metadata(c, "versions", h.service.Versions)
}

// GetArtists is the handler for GET /songs/metadata/artists.
func (h *Handler) GetArtists(c *fiber.Ctx) error {
	return h.metadata(c, "artists", h.service.Artists)
}

func (h *Handler) metadata(c *fiber.Ctx, name string, list func() ([]string, error)) error {
	values, err := list()
	if err != nil {
		slog.Error("Error loading metadata", "field", name, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Error loading " + name})
	}
	return c.JSON(values)
}

func (h *Handler) parseSearchQuery(c *fiber.Ctx) (searchQuery, error) {
	q := searchQuery{
		Title:      c.Query("title"),
		Artist:     c.Query("artist"),
		Category:   c.Query("category"),
		Version:    c.Query("version"),
		Difficulty: c.Query("difficulty"),
		SheetType:  c.Query("sheet_type"),
	}
	var err error
	if q.LevelMin, err = queryOptFloat(c, "level_min"); err != nil {
		return q, err
	}
	if q.LevelMax, err = queryOptFloat(c, "level_max"); err != nil {
		return q, err
	}
	if q.BPMMin, err = queryOptInt(c, "bpm_min"); err != nil {
		return q, err
	}
	if q.BPMMax, err = queryOptInt(c, "bpm_max"); err != nil {
		return q, err
	}
	if q.IsNew, err = queryOptBool(c, "is_new"); err != nil {
		return q, err
	}
	if q.IsLocked, err = queryOptBool(c, "is_locked"); err != nil {
		return q, err
	}
	if q.Skip, err = queryInt(c, "skip", 0); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(c, "limit", h.limits.Default); err != nil {
		return q, err
	}
	return q, nil
}

// check runs the struct rules and the configured page size ceiling.
func (h *Handler) check(q searchQuery) error {
	if err := h.validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, len(verrs))
		for i, fe := range verrs {
			msgs[i] = fmt.Sprintf("%s: failed %s", fe.Field(), strings.TrimSuffix(fe.Tag()+"="+fe.Param(), "="))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	if h.limits.Max > 0 && q.Limit > h.limits.Max {
		return fmt.Errorf("limit: must be at most %d", h.limits.Max)
	}
	return nil
}

func unprocessable(c *fiber.Ctx, err error) error {
	slog.Debug("Rejected query parameters", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": err.Error()})
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	v, err := queryOptInt(c, key)
	if err != nil || v == nil {
		return def, err
	}
	return *v, nil
}

func queryOptInt(c *fiber.Ctx, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: expected an integer, got %q", key, raw)
	}
	return &n, nil
}

func queryOptFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: expected a number, got %q", key, raw)
	}
	return &f, nil
}

func queryOptBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	switch strings.ToLower(raw) {
	case "yes", "on":
		raw = "true"
	case "no", "off":
		raw = "false"
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: expected a boolean, got %q", key, raw)
	}
	return &b, nil
}
