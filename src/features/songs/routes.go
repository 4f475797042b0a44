package songs

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the songs feature.
func RegisterRoutes(app *fiber.App, service *Service, limits Limits) {
	handler := NewHandler(service, limits)

	songs := app.Group("/songs")
	songs.Get("/", handler.ListSongs)
	songs.Get("/search", handler.SearchSongs)
	songs.Get("/metadata/categories", handler.GetCategories)
	songs.Get("/metadata/versions", handler.GetVersions)
	songs.Get("/metadata/artists", handler.GetArtists)
	// Keep last so the static paths above win.
	songs.Get("/:id", handler.GetSong)
}
