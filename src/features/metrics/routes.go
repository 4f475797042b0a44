package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes exposes the registry in the Prometheus text format under path.
func RegisterRoutes(app *fiber.App, m *Metrics, path string) {
	handler := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	app.Get(path, adaptor.HTTPHandler(handler))
}
