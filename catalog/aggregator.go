package catalog

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/marquee/watchmode"
)

// Aggregation defaults
const (
	DefaultPageSize       = 20
	DefaultDetailLimit    = 20
	DefaultConcurrency    = 10
	DefaultRequestTimeout = 15 * time.Second
)

// Aggregator fetches both category lists, enriches them with details and
// produces a Session. It owns no state besides its configuration, so one
// Aggregator can serve any number of passes.
type Aggregator struct {
	source Source
	cache  *Cache
	logger zerolog.Logger

	pageSize       int
	sortBy         string
	fanOut         FanOutPolicy
	detailLimit    int
	concurrency    int
	requestTimeout time.Duration
	listFailure    ListFailurePolicy
}

// AggregatorOption configures an Aggregator
type AggregatorOption func(*Aggregator)

// WithPageSize sets the limit sent with each list request
func WithPageSize(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.pageSize = n
		}
	}
}

// WithSortBy sets the list sort order
func WithSortBy(sortBy string) AggregatorOption {
	return func(a *Aggregator) {
		if sortBy != "" {
			a.sortBy = sortBy
		}
	}
}

// WithFanOut sets the detail fan-out policy and the bound used by FanOutBounded
func WithFanOut(policy FanOutPolicy, limit int) AggregatorOption {
	return func(a *Aggregator) {
		a.fanOut = policy
		if limit > 0 {
			a.detailLimit = limit
		}
	}
}

// WithConcurrency caps the number of in-flight detail requests
func WithConcurrency(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithRequestTimeout bounds every individual list or details call.
// Zero disables the per-request timeout.
func WithRequestTimeout(d time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		if d >= 0 {
			a.requestTimeout = d
		}
	}
}

// WithListFailurePolicy sets how a failed list request affects the session
func WithListFailurePolicy(p ListFailurePolicy) AggregatorOption {
	return func(a *Aggregator) {
		a.listFailure = p
	}
}

// NewAggregator creates an aggregator that reads from source and commits into cache
func NewAggregator(source Source, cache *Cache, logger zerolog.Logger, opts ...AggregatorOption) (*Aggregator, error) {
	if source == nil {
		return nil, &PreconditionError{Reason: "aggregator requires a source"}
	}
	if cache == nil {
		return nil, &PreconditionError{Reason: "aggregator requires a cache"}
	}

	a := &Aggregator{
		source:         source,
		cache:          cache,
		logger:         logger,
		pageSize:       DefaultPageSize,
		sortBy:         watchmode.SortPopularityDesc,
		fanOut:         FanOutBounded,
		detailLimit:    DefaultDetailLimit,
		concurrency:    DefaultConcurrency,
		requestTimeout: DefaultRequestTimeout,
		listFailure:    DegradeToEmpty,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Aggregate runs Fetch and commits the resulting session into the cache
func (a *Aggregator) Aggregate(ctx context.Context) (*Session, error) {
	session, err := a.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	a.Commit(session)
	return session, nil
}

// Commit replaces the cache contents with every title in session
func (a *Aggregator) Commit(session *Session) {
	if session == nil {
		return
	}
	a.cache.Replace(session.All())

	a.logger.Debug().
		Str("session", session.ID.String()).
		Int("titles", session.Len()).
		Msg("Committed session to cache")
}

// Fetch runs one aggregation pass without touching the cache
func (a *Aggregator) Fetch(ctx context.Context) (*Session, error) {
	start := time.Now()
	session := newSession()

	results := make([]categoryResult, len(Categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range Categories {
		g.Go(func() error {
			titles, failedIDs, err := a.fetchCategory(gctx, category)
			if err != nil {
				if IsPrecondition(err) || a.listFailure == FailSession {
					return err
				}
				a.logger.Warn().
					Err(err).
					Str("category", category.String()).
					Msg("Failed to list titles, continuing with an empty category")
				results[i] = categoryResult{listFailed: true}
				return nil
			}
			results[i] = categoryResult{titles: titles, failedIDs: failedIDs}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, category := range Categories {
		r := results[i]
		if r.listFailed {
			session.markListFailed(category)
			continue
		}
		session.setTitles(category, r.titles)
		session.Failures.DetailIDs = append(session.Failures.DetailIDs, r.failedIDs...)
	}

	a.logger.Debug().
		Str("session", session.ID.String()).
		Int("movies", len(session.Movies)).
		Int("tv_shows", len(session.TVShows)).
		Int("detail_failures", len(session.Failures.DetailIDs)).
		Dur("elapsed", time.Since(start)).
		Msg("Aggregation finished")

	return session, nil
}

type categoryResult struct {
	titles     []Title
	failedIDs  []int
	listFailed bool
}

// fetchCategory lists one category and enriches its leading items with details
func (a *Aggregator) fetchCategory(ctx context.Context, category Category) ([]Title, []int, error) {
	resp, err := a.list(ctx, category)
	if err != nil {
		return nil, nil, classify("list", category, err)
	}

	var items []watchmode.Title
	if resp != nil {
		items = resp.Titles
	}

	titles := a.collect(items, category)
	failedIDs := a.enrich(ctx, titles)
	return titles, failedIDs, nil
}

func (a *Aggregator) list(ctx context.Context, category Category) (*watchmode.ListResponse, error) {
	ctx, cancel := a.withRequestTimeout(ctx)
	defer cancel()

	return a.source.ListTitles(ctx, watchmode.ListParams{
		Types:  category.apiType(),
		Limit:  a.pageSize,
		SortBy: a.sortBy,
	})
}

// collect converts list items into titles, keeping list order. Items of the
// other category and repeated IDs are dropped.
func (a *Aggregator) collect(items []watchmode.Title, category Category) []Title {
	titles := make([]Title, 0, len(items))
	seen := make(map[int]struct{}, len(items))

	for _, item := range items {
		if c, ok := CategoryFromType(item.Type); ok && c != category {
			a.logger.Debug().
				Int("id", item.ID).
				Str("type", item.Type).
				Str("category", category.String()).
				Msg("Dropping title listed under the wrong category")
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		titles = append(titles, FromListItem(item, category))
	}

	return titles
}

// detailCount returns how many leading titles get a details request
func (a *Aggregator) detailCount(n int) int {
	switch a.fanOut {
	case FanOutNone:
		return 0
	case FanOutAll:
		return n
	default:
		return min(n, a.detailLimit)
	}
}

// enrich fetches details for the leading titles concurrently and merges them
// in place. It returns the IDs whose details call failed; those titles keep
// their list-level record.
func (a *Aggregator) enrich(ctx context.Context, titles []Title) []int {
	n := a.detailCount(len(titles))
	if n == 0 {
		return nil
	}

	failed := make([]bool, n)

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i := range n {
		g.Go(func() error {
			details, err := a.details(ctx, titles[i].ID)
			if err != nil || details == nil {
				a.logger.Warn().
					Err(err).
					Int("id", titles[i].ID).
					Str("title", titles[i].Name).
					Msg("Failed to get title details")
				failed[i] = true
				// Continue with the list-level record
				return nil
			}
			titles[i] = titles[i].WithDetails(*details)
			return nil
		})
	}
	g.Wait()

	var failedIDs []int
	for i, f := range failed {
		if f {
			failedIDs = append(failedIDs, titles[i].ID)
		}
	}
	return failedIDs
}

func (a *Aggregator) details(ctx context.Context, id int) (*watchmode.TitleDetails, error) {
	ctx, cancel := a.withRequestTimeout(ctx)
	defer cancel()
	return a.source.GetTitleDetails(ctx, id)
}

func (a *Aggregator) withRequestTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.requestTimeout)
}
