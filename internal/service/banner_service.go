package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"movie-discovery-client/internal/backdrop"
	"movie-discovery-client/internal/models"
	"movie-discovery-client/internal/tmdb"
)

const (
	// BannerSize is the maximum number of slides.
	BannerSize = 10

	DefaultBannerInterval = 3 * time.Second
)

var ErrSlideOutOfRange = errors.New("slide out of range")

// BannerCatalog fetches a single page of a query.
type BannerCatalog interface {
	Page(ctx context.Context, q tmdb.Query, page int) (*tmdb.PageResponse, error)
}

// BannerService runs the home-page carousel of this month's releases and writes
// the active slide's image to the shared backdrop.
type BannerService struct {
	catalog  BannerCatalog
	backdrop *backdrop.Store
	imageURL func(path string) string
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	month  string
	slides []models.Movie
	active int
	paused bool
}

// NewBannerService creates a new BannerService.
func NewBannerService(catalog BannerCatalog, store *backdrop.Store, imageURL func(string) string, interval time.Duration) *BannerService {
	if interval <= 0 {
		interval = DefaultBannerInterval
	}
	if imageURL == nil {
		imageURL = func(path string) string { return models.TMDBImageBaseOriginal + path }
	}
	return &BannerService{
		catalog:  catalog,
		backdrop: store,
		imageURL: imageURL,
		interval: interval,
		now:      time.Now,
	}
}

// Refresh loads the most popular movies released in the current month.
func (s *BannerService) Refresh(ctx context.Context) error {
	now := s.now()
	month := fmt.Sprintf("%04d-%02d", now.Year(), int(now.Month()))

	q := tmdb.DiscoverQuery("", now.Year(), month[5:])
	resp, err := s.catalog.Page(ctx, q, 1)
	if err != nil {
		return fmt.Errorf("failed to fetch banner movies: %w", err)
	}

	slides := make([]models.Movie, 0, BannerSize)
	for _, m := range resp.Results {
		if !strings.HasPrefix(m.ReleaseDate, month) {
			continue
		}
		slides = append(slides, m)
		if len(slides) == BannerSize {
			break
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.month = month
	s.slides = slides
	s.active = 0
	s.publishLocked()

	slog.Info("banner refreshed", "month", month, "slides", len(slides))
	return nil
}

// Run advances the carousel every interval until ctx is done. Paused carousels
// and empty ones stay put.
func (s *BannerService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.paused {
				s.moveLocked(1)
			}
			s.mu.Unlock()
		}
	}
}

// Next advances to the next slide, wrapping to the first.
func (s *BannerService) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveLocked(1)
}

// Prev goes back one slide, wrapping to the last.
func (s *BannerService) Prev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveLocked(-1)
}

// Select jumps to slide index.
func (s *BannerService) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.slides) {
		return fmt.Errorf("%w: %d", ErrSlideOutOfRange, index)
	}
	s.active = index
	s.publishLocked()
	return nil
}

// Pause stops autoplay, as hovering the banner does.
func (s *BannerService) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume restarts autoplay.
func (s *BannerService) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

// View returns the carousel state.
func (s *BannerService) View() models.BannerView {
	s.mu.Lock()
	defer s.mu.Unlock()

	slides := make([]models.BannerSlide, 0, len(s.slides))
	for _, m := range s.slides {
		image := models.BannerPlaceholderImageURL
		if path := m.ImagePath(); path != "" {
			image = s.imageURL(path)
		}
		slides = append(slides, models.BannerSlide{ID: m.ID, Title: m.Title, ImageURL: image})
	}
	return models.BannerView{
		Month:  s.month,
		Active: s.active,
		Paused: s.paused,
		Slides: slides,
	}
}

// moveLocked steps the active slide by delta, wrapping around.
func (s *BannerService) moveLocked(delta int) {
	n := len(s.slides)
	if n == 0 {
		return
	}
	s.active = ((s.active+delta)%n + n) % n
	s.publishLocked()
}

func (s *BannerService) publishLocked() {
	if s.backdrop == nil || len(s.slides) == 0 {
		return
	}
	if path := s.slides[s.active].ImagePath(); path != "" {
		s.backdrop.Set(s.imageURL(path))
	}
}
