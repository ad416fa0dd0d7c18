package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-client/internal/service"
)

// BannerHandler controls the home-page carousel.
type BannerHandler struct {
	svc *service.BannerService
}

// NewBannerHandler creates a new BannerHandler.
func NewBannerHandler(svc *service.BannerService) *BannerHandler {
	return &BannerHandler{svc: svc}
}

// Get returns the carousel state.
// @Summary Get carousel state
// @Tags banner
// @Produce json
// @Success 200 {object} models.BannerView
// @Router /banner [get]
func (h *BannerHandler) Get(c fiber.Ctx) error {
	return c.JSON(h.svc.View())
}

// Next advances to the next slide.
func (h *BannerHandler) Next(c fiber.Ctx) error {
	h.svc.Next()
	return c.JSON(h.svc.View())
}

// Prev goes back to the previous slide.
func (h *BannerHandler) Prev(c fiber.Ctx) error {
	h.svc.Prev()
	return c.JSON(h.svc.View())
}

// Pause stops auto-advance, as hovering the carousel does.
func (h *BannerHandler) Pause(c fiber.Ctx) error {
	h.svc.Pause()
	return c.JSON(h.svc.View())
}

// Resume restarts auto-advance.
func (h *BannerHandler) Resume(c fiber.Ctx) error {
	h.svc.Resume()
	return c.JSON(h.svc.View())
}

// Select jumps to the slide at index, as clicking a dot does.
func (h *BannerHandler) Select(c fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return badRequest(c, "invalid slide index")
	}
	if err := h.svc.Select(index); err != nil {
		if errors.Is(err, service.ErrSlideOutOfRange) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
		}
		return err
	}
	return c.JSON(h.svc.View())
}
