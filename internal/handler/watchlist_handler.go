package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-client/internal/models"
	"movie-discovery-client/internal/service"
)

// WatchlistHandler handles HTTP requests for the watchlist.
type WatchlistHandler struct {
	svc *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(svc *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{svc: svc}
}

// List returns the filtered and sorted watchlist.
// @Summary Get watchlist
// @Tags watchlist
// @Produce json
// @Param search query string false "Title contains"
// @Param genre query string false "Genre name" default(All Genres)
// @Param language query string false "ISO 639-1 code"
// @Param sort query string false "rating or popularity"
// @Param order query string false "asc or desc" default(desc)
// @Success 200 {object} models.WatchlistView
// @Failure 400 {object} ErrorResponse
// @Router /watchlist [get]
func (h *WatchlistHandler) List(c fiber.Ctx) error {
	var params models.WatchlistParams
	if err := c.Bind().Query(&params); err != nil {
		return badRequest(c, "invalid query parameters")
	}

	view, err := h.svc.View(params)
	if err != nil {
		if errors.Is(err, service.ErrUnknownSort) {
			return badRequest(c, err.Error())
		}
		slog.Error("failed to build watchlist", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to build watchlist"})
	}
	return c.JSON(view)
}

// Add saves a movie summary as shown on a browse card.
// @Summary Add to watchlist
// @Tags watchlist
// @Accept json
// @Produce json
// @Param movie body models.Movie true "Movie"
// @Success 201 {object} map[string]interface{}
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /watchlist [post]
func (h *WatchlistHandler) Add(c fiber.Ctx) error {
	var m models.Movie
	if err := c.Bind().JSON(&m); err != nil {
		return badRequest(c, "invalid request body")
	}
	if m.ID <= 0 {
		return badRequest(c, "invalid movie id")
	}

	added, err := h.svc.Add(c.Context(), m)
	if err != nil {
		slog.Error("failed to save watchlist", "movie_id", m.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to save watchlist"})
	}

	status := fiber.StatusOK
	if added {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"id": m.ID, "added": added})
}

// Remove deletes a movie from the watchlist.
// @Summary Remove from watchlist
// @Tags watchlist
// @Produce json
// @Param id path int true "TMDB movie ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /watchlist/{id} [delete]
func (h *WatchlistHandler) Remove(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return badRequest(c, "invalid movie id")
	}

	removed, err := h.svc.Remove(c.Context(), id)
	if err != nil {
		slog.Error("failed to save watchlist", "movie_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to save watchlist"})
	}
	if !removed {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "movie not in watchlist"})
	}
	return c.JSON(fiber.Map{"id": id, "removed": true})
}

// Contains reports whether a movie is saved.
func (h *WatchlistHandler) Contains(c fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return badRequest(c, "invalid movie id")
	}
	return c.JSON(fiber.Map{"id": id, "in_watchlist": h.svc.Contains(id)})
}
