package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Failures records what went wrong during an aggregation pass without failing it
type Failures struct {
	MoviesList  bool
	TVShowsList bool
	DetailIDs   []int
}

// Any reports whether anything degraded
func (f Failures) Any() bool {
	return f.MoviesList || f.TVShowsList || len(f.DetailIDs) > 0
}

// ListFailed reports whether the list request for c failed
func (f Failures) ListFailed(c Category) bool {
	if c == TVSeries {
		return f.TVShowsList
	}
	return f.MoviesList
}

// Session is the result of one aggregation pass. A newer session supersedes
// an older one entirely.
type Session struct {
	ID        uuid.UUID
	FetchedAt time.Time
	Movies    []Title
	TVShows   []Title
	Failures  Failures
}

func newSession() *Session {
	return &Session{
		ID:        uuid.New(),
		FetchedAt: time.Now(),
		Movies:    []Title{},
		TVShows:   []Title{},
	}
}

// Titles returns the titles for a category in list order
func (s *Session) Titles(c Category) []Title {
	if s == nil {
		return nil
	}
	if c == TVSeries {
		return s.TVShows
	}
	return s.Movies
}

// All returns movies followed by TV shows
func (s *Session) All() []Title {
	if s == nil {
		return nil
	}
	all := make([]Title, 0, len(s.Movies)+len(s.TVShows))
	all = append(all, s.Movies...)
	return append(all, s.TVShows...)
}

// Len returns the total number of titles in the session
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Movies) + len(s.TVShows)
}

func (s *Session) setTitles(c Category, titles []Title) {
	if c == TVSeries {
		s.TVShows = titles
		return
	}
	s.Movies = titles
}

func (s *Session) markListFailed(c Category) {
	if c == TVSeries {
		s.Failures.TVShowsList = true
		return
	}
	s.Failures.MoviesList = true
}
