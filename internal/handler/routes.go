package handler

import "github.com/gofiber/fiber/v3"

// Handlers groups the route handlers of the API.
type Handlers struct {
	Browse    *BrowseHandler
	Watchlist *WatchlistHandler
	Banner    *BannerHandler
	Catalog   *CatalogHandler
}

// RegisterRoutes mounts every API route on api.
func RegisterRoutes(api fiber.Router, h Handlers) {
	api.Get("/health", h.Catalog.Health)

	api.Get("/movies", h.Browse.Movies)
	api.Get("/movies/:id", h.Catalog.MovieDetail)

	browse := api.Group("/browse")
	browse.Get("/", h.Browse.View)
	browse.Put("/search", h.Browse.SetSearch)
	browse.Delete("/search", h.Browse.ClearSearch)
	browse.Put("/language", h.Browse.SetLanguage)
	browse.Delete("/language", h.Browse.ClearLanguage)
	browse.Put("/date", h.Browse.SetDate)
	browse.Delete("/date", h.Browse.ClearDate)
	browse.Post("/next", h.Browse.Next)
	browse.Post("/prev", h.Browse.Prev)
	browse.Post("/menus/dismiss", h.Browse.DismissMenus)
	browse.Post("/menus/:name/toggle", h.Browse.ToggleMenu)

	watchlist := api.Group("/watchlist")
	watchlist.Get("/", h.Watchlist.List)
	watchlist.Post("/", h.Watchlist.Add)
	watchlist.Get("/:id", h.Watchlist.Contains)
	watchlist.Delete("/:id", h.Watchlist.Remove)

	banner := api.Group("/banner")
	banner.Get("/", h.Banner.Get)
	banner.Post("/next", h.Banner.Next)
	banner.Post("/prev", h.Banner.Prev)
	banner.Post("/pause", h.Banner.Pause)
	banner.Post("/resume", h.Banner.Resume)
	banner.Put("/slide/:index", h.Banner.Select)

	api.Get("/background", h.Catalog.Background)
	api.Get("/background/stream", h.Catalog.BackgroundStream)
	api.Get("/languages", h.Catalog.Languages)
	api.Get("/genres", h.Catalog.Genres)
	api.Get("/calendar", h.Catalog.Calendar)
}
