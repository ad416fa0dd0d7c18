package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"movie-discovery-client/internal/metrics"
	"movie-discovery-client/internal/models"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/original"
	redisCachePrefix    = "discovery:tmdb:"

	// MaxPages caps the number of pages a single FetchPages call may request.
	MaxPages = 50

	// maxUpstreamPage is the highest page TMDB serves for list endpoints.
	maxUpstreamPage = 500
)

var (
	ErrMissingAPIKey  = errors.New("tmdb: api key is not configured")
	ErrPageOutOfRange = errors.New("tmdb: page out of range")
)

// APIError is a non-200 answer from TMDB.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("TMDB API returned status %d: %s", e.StatusCode, e.Body)
}

// Client is the TMDB API client.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	http         *http.Client
	limiter      *rate.Limiter
	redis        *redis.Client
	cacheTTL     time.Duration
}

// Config configures a Client. Zero values select defaults; a nil Redis disables the page cache.
type Config struct {
	APIKey            string
	BaseURL           string
	ImageBaseURL      string
	HTTPClient        *http.Client
	Redis             *redis.Client
	CacheTTL          time.Duration
	RequestsPerSecond float64
	Burst             int
}

// NewClient creates a new TMDB API client.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	imageBaseURL := strings.TrimSpace(cfg.ImageBaseURL)
	if imageBaseURL == "" {
		imageBaseURL = defaultImageBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		baseURL:      strings.TrimRight(baseURL, "/"),
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
		http:         httpClient,
		limiter:      rate.NewLimiter(limit, burst),
		redis:        cfg.Redis,
		cacheTTL:     cfg.CacheTTL,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// ImageURL returns the full image URL for a TMDB image path, or "" for an empty path.
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + path
}

// ---- TMDB Response Types ----

// PageResponse is one page of a TMDB list endpoint.
type PageResponse struct {
	Page         int            `json:"page"`
	Results      []models.Movie `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type movieDetailResponse struct {
	ID               int            `json:"id"`
	Title            string         `json:"title"`
	OriginalTitle    string         `json:"original_title"`
	Overview         string         `json:"overview"`
	ReleaseDate      string         `json:"release_date"`
	Popularity       float64        `json:"popularity"`
	VoteAverage      float64        `json:"vote_average"`
	PosterPath       string         `json:"poster_path"`
	BackdropPath     string         `json:"backdrop_path"`
	Genres           []models.Genre `json:"genres"`
	OriginalLanguage string         `json:"original_language"`
	Runtime          int            `json:"runtime"`
}

type genreListResponse struct {
	Genres []models.Genre `json:"genres"`
}

// ---- Client Methods ----

// Page fetches one page of the given query.
func (c *Client) Page(ctx context.Context, q Query, page int) (*PageResponse, error) {
	if page < 1 || page > maxUpstreamPage {
		return nil, fmt.Errorf("%w: %d", ErrPageOutOfRange, page)
	}

	params := q.values()
	params.Set("page", strconv.Itoa(page))
	cacheKey := redisCachePrefix + string(q.Mode) + ":" + params.Encode()

	if cached, ok := c.cachedPage(ctx, cacheKey); ok {
		return cached, nil
	}

	started := time.Now()
	var result PageResponse
	err := c.getJSON(ctx, q.path(), params, &result)
	metrics.CatalogRequestDuration.WithLabelValues(string(q.Mode)).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.CatalogRequestsTotal.WithLabelValues(string(q.Mode), requestStatus(err)).Inc()
		return nil, err
	}
	metrics.CatalogRequestsTotal.WithLabelValues(string(q.Mode), "ok").Inc()

	c.storePage(ctx, cacheKey, &result)
	return &result, nil
}

// FetchPages fetches pages 1..budget of q sequentially and returns their results in order.
// It stops early once the upstream total page count is reached, and aborts with the
// context error as soon as ctx is cancelled. budget is capped at MaxPages.
func (c *Client) FetchPages(ctx context.Context, q Query, budget int) ([]models.Movie, error) {
	pages := min(budget, MaxPages)

	var all []models.Movie
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := c.Page(ctx, q, page)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", q.Mode, page, err)
		}
		all = append(all, resp.Results...)

		totalPages := max(resp.TotalPages, 1)
		if page >= totalPages {
			break
		}
	}
	return all, nil
}

// Genres fetches all movie genres from TMDB.
func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	var result genreListResponse
	if err := c.getJSON(ctx, "/genre/movie/list", url.Values{}, &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}

// Languages fetches the languages TMDB knows about.
func (c *Client) Languages(ctx context.Context) ([]models.Language, error) {
	var result []models.Language
	if err := c.getJSON(ctx, "/configuration/languages", url.Values{}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// MovieDetail fetches detailed movie info from TMDB.
func (c *Client) MovieDetail(ctx context.Context, tmdbID int) (*models.MovieDetail, error) {
	var result movieDetailResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", tmdbID), url.Values{}, &result); err != nil {
		return nil, err
	}

	genres := make([]string, 0, len(result.Genres))
	for _, g := range result.Genres {
		genres = append(genres, g.Name)
	}
	return &models.MovieDetail{
		ID:            result.ID,
		Title:         result.Title,
		OriginalTitle: result.OriginalTitle,
		Overview:      result.Overview,
		ReleaseDate:   result.ReleaseDate,
		Genres:        genres,
		Language:      result.OriginalLanguage,
		Duration:      result.Runtime,
		Popularity:    result.Popularity,
		VoteAverage:   result.VoteAverage,
		PosterURL:     c.ImageURL(result.PosterPath),
		BackdropURL:   c.ImageURL(result.BackdropPath),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, target any) error {
	if !c.Enabled() {
		return ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("rate limiter: %w", err)
	}

	slog.Debug("fetching TMDB", "path", path, "page", params.Get("page"))

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// ---- Redis page cache ----

func (c *Client) cachedPage(ctx context.Context, key string) (*PageResponse, bool) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return nil, false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			slog.Warn("tmdb page cache read failed", "error", err)
		}
		return nil, false
	}
	var page PageResponse
	if json.Unmarshal(data, &page) != nil {
		return nil, false
	}
	metrics.CatalogCacheHitsTotal.Inc()
	return &page, true
}

func (c *Client) storePage(ctx context.Context, key string, page *PageResponse) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil && ctx.Err() == nil {
		slog.Error("failed to set tmdb page cache", "key", key, "error", err)
	}
}

func requestStatus(err error) string {
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	return "error"
}
