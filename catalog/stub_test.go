package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/s0up4200/marquee/watchmode"
)

// stubSource implements Source for testing
type stubSource struct {
	mu sync.Mutex

	lists      map[watchmode.TitleType][]watchmode.Title
	listErrs   map[watchmode.TitleType]error
	details    map[int]watchmode.TitleDetails
	detailErrs map[int]error
	hang       map[int]bool
	delay      time.Duration

	// Track calls for verification
	listCalls   int
	detailCalls int
	detailIDs   []int
	lastParams  []watchmode.ListParams
	inFlight    int
	maxInFlight int
}

func newStubSource() *stubSource {
	return &stubSource{
		lists:      make(map[watchmode.TitleType][]watchmode.Title),
		listErrs:   make(map[watchmode.TitleType]error),
		details:    make(map[int]watchmode.TitleDetails),
		detailErrs: make(map[int]error),
		hang:       make(map[int]bool),
	}
}

func (s *stubSource) ListTitles(ctx context.Context, params watchmode.ListParams) (*watchmode.ListResponse, error) {
	s.mu.Lock()
	s.listCalls++
	s.lastParams = append(s.lastParams, params)
	err := s.listErrs[params.Types]
	titles := s.lists[params.Types]
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &watchmode.ListResponse{Titles: titles, Page: 1, TotalPages: 1, TotalResults: len(titles)}, nil
}

func (s *stubSource) GetTitleDetails(ctx context.Context, id int) (*watchmode.TitleDetails, error) {
	s.mu.Lock()
	s.detailCalls++
	s.detailIDs = append(s.detailIDs, id)
	s.inFlight++
	s.maxInFlight = max(s.maxInFlight, s.inFlight)
	delay := s.delay
	hang := s.hang[id]
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.detailErrs[id]; err != nil {
		return nil, err
	}
	d, ok := s.details[id]
	if !ok {
		return nil, &watchmode.APIError{StatusCode: 404, Message: "Not Found"}
	}
	return &d, nil
}

func (s *stubSource) calls() (lists, details int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls, s.detailCalls
}

func intPtr(n int) *int {
	return &n
}

func floatPtr(f float64) *float64 {
	return &f
}
