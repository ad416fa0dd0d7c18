package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-client/internal/tmdb"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msg})
}

// catalogError maps a TMDB failure to a response.
func catalogError(c fiber.Ctx, err error, msg string) error {
	var apiErr *tmdb.APIError
	switch {
	case errors.Is(err, tmdb.ErrMissingAPIKey):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "TMDB API key is not configured"})
	case errors.Is(err, context.Canceled):
		slog.Debug("request cancelled", "path", c.Path())
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "request cancelled"})
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "not found"})
	default:
		slog.Error(msg, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: msg})
	}
}
