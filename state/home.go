package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/catalog"
)

// DefaultLoadTimeout bounds a whole aggregation started by the Home store
const DefaultLoadTimeout = 30 * time.Second

// Loader produces sessions and commits the one that wins
type Loader interface {
	Fetch(ctx context.Context) (*catalog.Session, error)
	Commit(session *catalog.Session)
}

var _ Loader = (*catalog.Aggregator)(nil)

// Home is the payload of a successful home screen load
type Home struct {
	SessionID uuid.UUID
	FetchedAt time.Time
	Movies    []catalog.Title
	TVShows   []catalog.Title
	Selected  catalog.Category
	Visible   []catalog.Title
	Failures  catalog.Failures
}

// HomeStore drives the home screen: it runs aggregations, keeps only the
// newest result and derives the visible titles from the selected category.
type HomeStore struct {
	loader  Loader
	logger  zerolog.Logger
	timeout time.Duration

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	states *Observable[State[Home]]
	cats   *Observable[catalog.Category]

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	session    *catalog.Session
	category   catalog.Category
	machine    *Machine[Kind]
	closed     bool
}

// HomeOption configures a HomeStore
type HomeOption func(*HomeStore)

// WithLoadTimeout bounds each aggregation. Zero disables the timeout.
func WithLoadTimeout(d time.Duration) HomeOption {
	return func(s *HomeStore) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithCategory sets the initially selected category
func WithCategory(c catalog.Category) HomeOption {
	return func(s *HomeStore) {
		s.category = c
	}
}

// NewHomeStore creates a store in the Loading state. Nothing is fetched
// until Load is called.
func NewHomeStore(loader Loader, logger zerolog.Logger, opts ...HomeOption) *HomeStore {
	ctx, stop := context.WithCancel(context.Background())

	s := &HomeStore{
		loader:  loader,
		logger:  logger,
		timeout: DefaultLoadTimeout,
		ctx:     ctx,
		stop:    stop,
		machine: newUIMachine(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.states = NewObservable[State[Home]](Loading[Home]{})
	s.cats = NewObservable(s.category)
	return s
}

// State returns the current home state
func (s *HomeStore) State() State[Home] {
	return s.states.Get()
}

// Category returns the selected category
func (s *HomeStore) Category() catalog.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// Generation returns the generation of the newest load
func (s *HomeStore) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Subscribe returns a conflated subscription to state changes
func (s *HomeStore) Subscribe() *Subscription[State[Home]] {
	return s.states.Subscribe()
}

// SubscribeCategory returns a conflated subscription to category changes
func (s *HomeStore) SubscribeCategory() *Subscription[catalog.Category] {
	return s.cats.Subscribe()
}

// Load starts a new aggregation, superseding any in flight, and returns its
// generation. Only the newest generation's result is ever published.
func (s *HomeStore) Load() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.generation
	}

	s.generation++
	gen := s.generation

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := s.loadContext()
	s.cancel = cancel

	s.publishLocked(Loading[Home]{})

	s.logger.Debug().Uint64("generation", gen).Msg("Loading catalog")

	s.wg.Add(1)
	go s.run(ctx, cancel, gen)

	return gen
}

// Retry starts a fresh load after a failure
func (s *HomeStore) Retry() uint64 {
	s.logger.Info().Msg("Retrying catalog load")
	return s.Load()
}

// SelectCategory changes the selected category and re-derives the visible
// titles from the session already held. It never triggers a fetch.
func (s *HomeStore) SelectCategory(c catalog.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.category = c
	s.cats.Set(c)

	if s.machine.Current() == KindSuccess && s.session != nil {
		s.publishLocked(Success[Home]{Value: s.homeLocked()})
	}
}

// Wait blocks until every started load has finished
func (s *HomeStore) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight loads and closes every subscription. Results that
// arrive afterwards are dropped.
func (s *HomeStore) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel = nil
	s.mu.Unlock()

	s.stop()
	s.states.Close()
	s.cats.Close()
}

func (s *HomeStore) loadContext() (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(s.ctx, s.timeout)
	}
	return context.WithCancel(s.ctx)
}

func (s *HomeStore) run(ctx context.Context, cancel context.CancelFunc, gen uint64) {
	defer s.wg.Done()
	defer cancel()

	session, err := s.loader.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.generation {
		s.logger.Debug().
			Uint64("generation", gen).
			Uint64("current", s.generation).
			Bool("closed", s.closed).
			Msg("Discarding stale catalog result")
		return
	}
	s.cancel = nil

	if err != nil {
		s.logger.Error().Err(err).Uint64("generation", gen).Msg("Failed to load catalog")
		s.publishLocked(Failure[Home]{
			Message: fmt.Sprintf("Failed to load data: %v", err),
			Err:     err,
		})
		return
	}

	s.loader.Commit(session)
	s.session = session
	s.publishLocked(Success[Home]{Value: s.homeLocked()})

	s.logger.Info().
		Uint64("generation", gen).
		Int("movies", len(session.Movies)).
		Int("tv_shows", len(session.TVShows)).
		Msg("Catalog loaded")
}

func (s *HomeStore) homeLocked() Home {
	return Home{
		SessionID: s.session.ID,
		FetchedAt: s.session.FetchedAt,
		Movies:    catalog.CloneTitles(s.session.Movies),
		TVShows:   catalog.CloneTitles(s.session.TVShows),
		Selected:  s.category,
		Visible:   catalog.CloneTitles(s.session.Titles(s.category)),
		Failures:  s.session.Failures,
	}
}

// publishLocked moves the machine and publishes next. Repeating Loading is
// accepted but not republished.
func (s *HomeStore) publishLocked(next State[Home]) {
	from := s.machine.Current()
	if err := s.machine.Transition(next.Kind()); err != nil {
		s.logger.Error().Err(err).Msg("Rejected home state change")
		return
	}
	if from == KindLoading && next.Kind() == KindLoading {
		return
	}
	s.states.Set(next)
}
