// Package backdrop holds the page-wide background image shared by the banner and
// the browse view.
package backdrop

import "sync"

// Store is an observable "current background image" value.
// An empty URL means no background.
type Store struct {
	mu      sync.RWMutex
	current string
	subs    map[<-chan string]chan string
}

// New creates a Store with no background.
func New() *Store {
	return &Store{subs: make(map[<-chan string]chan string)}
}

// Set replaces the current background and notifies subscribers when it changed.
func (s *Store) Set(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if url == s.current {
		return
	}
	s.current = url
	for _, ch := range s.subs {
		// keep only the latest value in the buffer
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- url:
		default:
		}
	}
}

// Current returns the current background image URL.
func (s *Store) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe returns a channel receiving every new background. Slow readers only
// see the most recent value.
func (s *Store) Subscribe() <-chan string {
	ch := make(chan string, 1)
	s.mu.Lock()
	s.subs[ch] = ch
	s.mu.Unlock()
	return ch
}

// Unsubscribe stops delivery to ch and closes it.
func (s *Store) Unsubscribe(ch <-chan string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(c)
	}
}
