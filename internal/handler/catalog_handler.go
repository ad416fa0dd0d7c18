package handler

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-client/internal/backdrop"
	"movie-discovery-client/internal/models"
	"movie-discovery-client/internal/service"
)

const streamKeepAlive = 15 * time.Second

// MovieDetailer fetches a single movie.
type MovieDetailer interface {
	MovieDetail(ctx context.Context, tmdbID int) (*models.MovieDetail, error)
}

// CatalogHandler serves the dropdown directories, the shared background and
// movie details.
type CatalogHandler struct {
	service   string
	directory *service.DirectoryService
	backdrop  *backdrop.Store
	details   MovieDetailer
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(name string, directory *service.DirectoryService, store *backdrop.Store, details MovieDetailer) *CatalogHandler {
	return &CatalogHandler{service: name, directory: directory, backdrop: store, details: details}
}

// Health returns the service health status.
// @Summary Health check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *CatalogHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": h.service})
}

// Background returns the current background image URL, empty for none.
// @Summary Current background image
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]string
// @Router /background [get]
func (h *CatalogHandler) Background(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"image_url": h.backdrop.Current()})
}

// BackgroundStream pushes every background change as a server-sent event.
func (h *CatalogHandler) BackgroundStream(c fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	ch := h.backdrop.Subscribe()
	current := h.backdrop.Current()

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer h.backdrop.Unsubscribe(ch)

		ticker := time.NewTicker(streamKeepAlive)
		defer ticker.Stop()

		if writeEvent(w, "background", current) != nil {
			return
		}
		for {
			select {
			case url, ok := <-ch:
				if !ok || writeEvent(w, "background", url) != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if w.Flush() != nil {
					return
				}
			}
		}
	})
}

func writeEvent(w *bufio.Writer, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}

// Languages lists the language dropdown, narrowed by ?search=.
// @Summary List languages
// @Tags catalog
// @Produce json
// @Param search query string false "English name contains"
// @Success 200 {array} models.Language
// @Router /languages [get]
func (h *CatalogHandler) Languages(c fiber.Ctx) error {
	return c.JSON(h.directory.Languages(c.Query("search")))
}

// Genres returns the genre table.
func (h *CatalogHandler) Genres(c fiber.Ctx) error {
	return c.JSON(h.directory.Genres())
}

// Calendar lists the years and months of the release-month dropdown.
func (h *CatalogHandler) Calendar(c fiber.Ctx) error {
	return c.JSON(h.directory.Calendar())
}

// MovieDetail returns detailed movie info from TMDB.
// @Summary Get movie detail
// @Tags movies
// @Produce json
// @Param id path int true "TMDB movie ID"
// @Success 200 {object} models.MovieDetail
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id} [get]
func (h *CatalogHandler) MovieDetail(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return badRequest(c, "invalid movie id")
	}

	detail, err := h.details.MovieDetail(c.Context(), id)
	if err != nil {
		return catalogError(c, err, "failed to retrieve movie detail")
	}
	return c.JSON(detail)
}
