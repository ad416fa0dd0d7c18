package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-client/internal/browse"
	"movie-discovery-client/internal/discovery"
	"movie-discovery-client/internal/models"
)

// BrowseHandler serves the browse page, both as a stateful session and as a
// one-shot query endpoint.
type BrowseHandler struct {
	session   *browse.Session
	pipeline  *discovery.Pipeline
	presenter browse.Presenter
}

// NewBrowseHandler creates a new BrowseHandler.
func NewBrowseHandler(session *browse.Session, pipeline *discovery.Pipeline, presenter browse.Presenter) *BrowseHandler {
	return &BrowseHandler{session: session, pipeline: pipeline, presenter: presenter}
}

type searchRequest struct {
	Text string `json:"text"`
}

type languageRequest struct {
	Code string `json:"code"`
}

type dateRequest struct {
	Year  int    `json:"year"`
	Month string `json:"month"`
}

// Movies runs a full query cycle for the query parameters and returns one page.
// @Summary Browse movies
// @Tags movies
// @Produce json
// @Param query query string false "Search text"
// @Param language query string false "ISO 639-1 code or all" default(all)
// @Param year query int false "Release year"
// @Param month query string false "Release month (01-12)"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} models.BrowseView
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /movies [get]
func (h *BrowseHandler) Movies(c fiber.Ctx) error {
	filters := models.FilterState{
		SearchText: c.Query("query"),
		Language:   c.Query("language", models.LanguageAll),
		Year:       fiber.Query(c, "year", 0),
		Month:      c.Query("month"),
	}.Normalize()
	if err := filters.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	view, err := browse.Browse(c.Context(), h.pipeline, h.presenter, filters, fiber.Query(c, "page", 1))
	if err != nil {
		return catalogError(c, err, "failed to retrieve movies")
	}
	return c.JSON(view)
}

// View returns the current browse page. With wait=true it first waits for the
// pending search and the running cycle.
func (h *BrowseHandler) View(c fiber.Ctx) error {
	if fiber.Query(c, "wait", false) {
		h.session.Wait()
	}
	return c.JSON(h.session.View())
}

// SetSearch records typed search text; the cycle starts after the debounce window.
func (h *BrowseHandler) SetSearch(c fiber.Ctx) error {
	var req searchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	h.session.SetSearch(req.Text)
	return c.Status(fiber.StatusAccepted).JSON(h.session.View())
}

// ClearSearch empties the search box.
func (h *BrowseHandler) ClearSearch(c fiber.Ctx) error {
	h.session.SetSearch("")
	return c.Status(fiber.StatusAccepted).JSON(h.session.View())
}

// SetLanguage selects a language code; "all" removes the filter.
func (h *BrowseHandler) SetLanguage(c fiber.Ctx) error {
	var req languageRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	h.session.SetLanguage(req.Code)
	return c.JSON(h.session.View())
}

// ClearLanguage removes the language filter.
func (h *BrowseHandler) ClearLanguage(c fiber.Ctx) error {
	h.session.ClearLanguage()
	return c.JSON(h.session.View())
}

// SetDate selects a year, or a month of that year.
func (h *BrowseHandler) SetDate(c fiber.Ctx) error {
	var req dateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	var err error
	if req.Year == 0 && req.Month != "" {
		err = h.session.SetMonth(req.Month)
	} else {
		err = h.session.SelectDate(req.Year, req.Month)
	}
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(h.session.View())
}

// ClearDate removes the year and month filters.
func (h *BrowseHandler) ClearDate(c fiber.Ctx) error {
	h.session.ClearDate()
	return c.JSON(h.session.View())
}

// Next moves to the next page of the session.
func (h *BrowseHandler) Next(c fiber.Ctx) error {
	h.session.Next()
	return c.JSON(h.session.View())
}

// Prev moves to the previous page of the session.
func (h *BrowseHandler) Prev(c fiber.Ctx) error {
	h.session.Prev()
	return c.JSON(h.session.View())
}

// ToggleMenu clicks a dropdown trigger: language, calendar or years.
func (h *BrowseHandler) ToggleMenu(c fiber.Ctx) error {
	if err := h.session.ToggleMenu(c.Params("name")); err != nil {
		if errors.Is(err, browse.ErrUnknownMenu) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
		}
		return err
	}
	return c.JSON(h.session.View().Menus)
}

// DismissMenus is a click outside every dropdown.
func (h *BrowseHandler) DismissMenus(c fiber.Ctx) error {
	h.session.DismissMenus()
	return c.JSON(h.session.View().Menus)
}
