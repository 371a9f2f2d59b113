package server

import (
	"context"
	"time"
)

// refreshLoop re-fetches the Record Store lists on the configured interval.
// A zero or negative interval disables periodic refresh after the initial
// fetch.
func (s *Server) refreshLoop(ctx context.Context) {
	s.refresh(ctx)

	if s.Interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// refresh fetches posts and species jointly and installs the result. Every
// attempt is tagged with a monotonic generation; a slow response that loses
// the race against a newer one is discarded instead of overwriting fresher
// data.
func (s *Server) refresh(ctx context.Context) {
	s.mu.Lock()
	s.nextGen++
	gen := s.nextGen
	s.mu.Unlock()

	posts, species, err := s.Client.FetchAll(ctx)
	if err != nil {
		s.Log.Warnf("Refresh failed, keeping current view: %v", err)
		return
	}
	fetchedAt := time.Now().UTC()

	s.mu.Lock()
	if gen < s.state.generation {
		s.mu.Unlock()
		s.Log.Debugf("Discarding stale refresh (generation %d < %d)", gen, s.state.generation)
		return
	}
	s.state = viewState{posts: posts, species: species, fetchedAt: fetchedAt, generation: gen}
	s.mu.Unlock()

	s.Log.Infof("View refreshed: %d posts, %d species", len(posts), len(species))

	if s.DB != nil {
		if err := s.DB.ReplaceSnapshot(ctx, posts, species, fetchedAt); err != nil {
			s.Log.Warnf("Could not persist snapshot: %v", err)
		}
	}
}
