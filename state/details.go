package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/marquee/catalog"
)

// Resolver looks up a single title
type Resolver interface {
	Resolve(ctx context.Context, id int) (catalog.Title, error)
}

var _ Resolver = (*catalog.Resolver)(nil)

// DetailsStore drives the details screen for one title at a time
type DetailsStore struct {
	resolver Resolver
	logger   zerolog.Logger
	timeout  time.Duration

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	states *Observable[State[catalog.Title]]

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	id         int
	machine    *Machine[Kind]
	closed     bool
}

// DetailsOption configures a DetailsStore
type DetailsOption func(*DetailsStore)

// WithResolveTimeout bounds each lookup. Zero disables the timeout.
func WithResolveTimeout(d time.Duration) DetailsOption {
	return func(s *DetailsStore) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// NewDetailsStore creates a store in the Loading state
func NewDetailsStore(resolver Resolver, logger zerolog.Logger, opts ...DetailsOption) *DetailsStore {
	ctx, stop := context.WithCancel(context.Background())

	s := &DetailsStore{
		resolver: resolver,
		logger:   logger,
		timeout:  DefaultLoadTimeout,
		ctx:      ctx,
		stop:     stop,
		machine:  newUIMachine(),
		states:   NewObservable[State[catalog.Title]](Loading[catalog.Title]{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// State returns the current details state
func (s *DetailsStore) State() State[catalog.Title] {
	return s.states.Get()
}

// ID returns the title ID of the newest load
func (s *DetailsStore) ID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Subscribe returns a conflated subscription to state changes
func (s *DetailsStore) Subscribe() *Subscription[State[catalog.Title]] {
	return s.states.Subscribe()
}

// Load resolves id, superseding any lookup in flight, and returns its generation
func (s *DetailsStore) Load(id int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return s.generation
	}

	s.generation++
	gen := s.generation
	s.id = id

	if s.cancel != nil {
		s.cancel()
	}
	var ctx context.Context
	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(s.ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(s.ctx)
	}
	s.cancel = cancel

	s.publishLocked(Loading[catalog.Title]{})

	s.wg.Add(1)
	go s.run(ctx, cancel, gen, id)

	return gen
}

// Wait blocks until every started lookup has finished
func (s *DetailsStore) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight lookups and closes every subscription
func (s *DetailsStore) Close() {
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
}

func (s *DetailsStore) run(ctx context.Context, cancel context.CancelFunc, gen uint64, id int) {
	defer s.wg.Done()
	defer cancel()

	title, err := s.resolver.Resolve(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.generation {
		s.logger.Debug().Int("id", id).Uint64("generation", gen).Msg("Discarding stale details result")
		return
	}
	s.cancel = nil

	if err != nil {
		s.logger.Warn().Err(err).Int("id", id).Msg("Failed to load details")
		s.publishLocked(Failure[catalog.Title]{
			Message: fmt.Sprintf("Failed to load details: %v", err),
			Err:     err,
		})
		return
	}

	s.publishLocked(Success[catalog.Title]{Value: title})
}

func (s *DetailsStore) publishLocked(next State[catalog.Title]) {
	from := s.machine.Current()
	if err := s.machine.Transition(next.Kind()); err != nil {
		s.logger.Error().Err(err).Int("id", s.id).Msg("Rejected details state change")
		return
	}
	if from == KindLoading && next.Kind() == KindLoading {
		return
	}
	s.states.Set(next)
}
