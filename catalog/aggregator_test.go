package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/watchmode"
)

func newTestAggregator(t *testing.T, source Source, cache *Cache, opts ...AggregatorOption) *Aggregator {
	t.Helper()
	agg, err := NewAggregator(source, cache, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return agg
}

func ids(titles []Title) []int {
	out := make([]int, 0, len(titles))
	for _, t := range titles {
		out = append(out, t.ID)
	}
	return out
}

func TestNewAggregator_Preconditions(t *testing.T) {
	_, err := NewAggregator(nil, NewCache(), zerolog.Nop())
	assert.True(t, IsPrecondition(err))

	_, err = NewAggregator(newStubSource(), nil, zerolog.Nop())
	assert.True(t, IsPrecondition(err))
}

func TestAggregate_ExampleScenario(t *testing.T) {
	source := newStubSource()
	source.lists[watchmode.TypeMovie] = []watchmode.Title{
		{ID: 1, Title: "A", Type: "movie"},
		{ID: 2, Title: "B", Type: "movie"},
	}
	source.details[1] = watchmode.TitleDetails{ID: 1, Poster: "p1"}
	source.hang[2] = true

	cache := NewCache()
	agg := newTestAggregator(t, source, cache, WithRequestTimeout(50*time.Millisecond))

	session, err := agg.Aggregate(context.Background())
	require.NoError(t, err)

	require.Len(t, session.Movies, 2)
	assert.Equal(t, "A", session.Movies[0].Name)
	assert.Equal(t, "p1", session.Movies[0].PosterURL)
	assert.Equal(t, "B", session.Movies[1].Name)
	assert.Empty(t, session.Movies[1].PosterURL)
	assert.Equal(t, []int{2}, session.Failures.DetailIDs)
	assert.Empty(t, session.TVShows)

	_, ok := cache.Get(1)
	assert.True(t, ok)
	_, ok = cache.Get(2)
	assert.True(t, ok)
}

func TestFetch_ListParams(t *testing.T) {
	source := newStubSource()
	agg := newTestAggregator(t, source, NewCache())

	_, err := agg.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, source.lastParams, 2)
	types := map[watchmode.TitleType]bool{}
	for _, p := range source.lastParams {
		types[p.Types] = true
		assert.Equal(t, 20, p.Limit)
		assert.Equal(t, "popularity_desc", p.SortBy)
	}
	assert.True(t, types[watchmode.TypeMovie])
	assert.True(t, types[watchmode.TypeTVSeries])
}

func TestFetch_CategoriesNeverMix(t *testing.T) {
	source := newStubSource()
	source.lists[watchmode.TypeMovie] = []watchmode.Title{
		{ID: 1, Title: "Movie", Type: "movie"},
		{ID: 2, Title: "Stray series", Type: "tv_series"},
		{ID: 3, Title: "Untyped"},
	}
	source.lists[watchmode.TypeTVSeries] = []watchmode.Title{
		{ID: 10, Title: "Series", Type: "tv_series"},
		{ID: 11, Title: "Stray movie", Type: "movie"},
		{ID: 12, Title: "Mini", Type: "tv_miniseries"},
	}

	agg := newTestAggregator(t, source, NewCache(), WithFanOut(FanOutNone, 0))
	session, err := agg.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, ids(session.Movies))
	assert.Equal(t, []int{10, 12}, ids(session.TVShows))
	for _, m := range session.Movies {
		assert.Equal(t, Movie, m.Category)
	}
	for _, s := range session.TVShows {
		assert.Equal(t, TVSeries, s.Category)
	}
}

func TestFetch_PartialDetailFailure(t *testing.T) {
	source := newStubSource()
	source.lists[watchmode.TypeMovie] = []watchmode.Title{
		{ID: 1, Title: "One", Type: "movie"},
		{ID: 2, Title: "Two", Type: "movie", Year: intPtr(2001)},
		{ID: 3, Title: "Three", Type: "movie"},
	}
	for _, id := range []int{1, 3} {
		source.details[id] = watchmode.TitleDetails{
			ID:         id,
			GenreNames: []string{"Drama"},
			UserRating: floatPtr(7.5),
		}
	}
	source.detailErrs[2] = errors.New("connection reset")

	agg := newTestAggregator(t, source, NewCache())
	session, err := agg.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, session.Movies, 3)
	assert.Equal(t, []int{1, 2, 3}, ids(session.Movies))

	second := session.Movies[1]
	assert.Equal(t, "Two", second.Name)
	assert.Equal(t, 2001, second.Year())
	assert.Nil(t, second.Genres)
	assert.Nil(t, second.UserRating)

	assert.Equal(t, []string{"Drama"}, session.Movies[0].Genres)
	assert.Equal(t, []string{"Drama"}, session.Movies[2].Genres)
	assert.Equal(t, []int{2}, session.Failures.DetailIDs)
}

func TestFetch_DuplicateIDsKeepFirst(t *testing.T) {
	source := newStubSource()
	source.lists[watchmode.TypeMovie] = []watchmode.Title{
		{ID: 1, Title: "First", Type: "movie"},
		{ID: 1, Title: "Again", Type: "movie"},
		{ID: 2, Title: "Second", Type: "movie"},
	}

	agg := newTestAggregator(t, source, NewCache(), WithFanOut(FanOutNone, 0))
	session, err := agg.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, ids(session.Movies))
	assert.Equal(t, "First", session.Movies[0].Name)
}

func TestFetch_FanOutPolicies(t *testing.T) {
	list := make([]watchmode.Title, 30)
	for i := range list {
		list[i] = watchmode.Title{ID: i + 1, Title: "T", Type: "movie"}
	}

	tests := []struct {
		name        string
		policy      FanOutPolicy
		limit       int
		wantDetails int
	}{
		{"bounded default", FanOutBounded, 0, 20},
		{"bounded custom", FanOutBounded, 5, 5},
		{"all", FanOutAll, 0, 30},
		{"none", FanOutNone, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newStubSource()
			source.lists[watchmode.TypeMovie] = list
			for _, item := range list {
				source.details[item.ID] = watchmode.TitleDetails{ID: item.ID, PlotOverview: "x"}
			}

			agg := newTestAggregator(t, source, NewCache(), WithFanOut(tt.policy, tt.limit))
			session, err := agg.Fetch(context.Background())
			require.NoError(t, err)

			_, details := source.calls()
			assert.Equal(t, tt.wantDetails, details)
			assert.Len(t, session.Movies, 30)
			assert.Empty(t, session.Failures.DetailIDs)

			for i, m := range session.Movies {
				assert.Equal(t, i < tt.wantDetails, m.HasDetails(), "title %d", m.ID)
			}
		})
	}
}

func TestFetch_ConcurrencyLimit(t *testing.T) {
	source := newStubSource()
	source.delay = 10 * time.Millisecond
	for i := 1; i <= 12; i++ {
		source.lists[watchmode.TypeMovie] = append(source.lists[watchmode.TypeMovie], watchmode.Title{ID: i, Type: "movie"})
		source.details[i] = watchmode.TitleDetails{ID: i}
	}

	agg := newTestAggregator(t, source, NewCache(), WithConcurrency(3))
	_, err := agg.Fetch(context.Background())
	require.NoError(t, err)

	source.mu.Lock()
	defer source.mu.Unlock()
	assert.LessOrEqual(t, source.maxInFlight, 3)
	assert.Equal(t, 12, source.detailCalls)
}

func TestFetch_ListFailurePolicies(t *testing.T) {
	listErr := &watchmode.APIError{StatusCode: 500, Message: "Internal Server Error"}

	newSource := func() *stubSource {
		source := newStubSource()
		source.lists[watchmode.TypeTVSeries] = []watchmode.Title{{ID: 10, Title: "Series", Type: "tv_series"}}
		source.listErrs[watchmode.TypeMovie] = listErr
		return source
	}

	t.Run("degrade to empty", func(t *testing.T) {
		agg := newTestAggregator(t, newSource(), NewCache(), WithFanOut(FanOutNone, 0))
		session, err := agg.Fetch(context.Background())
		require.NoError(t, err)

		assert.Empty(t, session.Movies)
		assert.NotNil(t, session.Movies)
		assert.True(t, session.Failures.MoviesList)
		assert.False(t, session.Failures.TVShowsList)
		assert.Equal(t, []int{10}, ids(session.TVShows))
	})

	t.Run("fail session", func(t *testing.T) {
		agg := newTestAggregator(t, newSource(), NewCache(), WithListFailurePolicy(FailSession))
		session, err := agg.Fetch(context.Background())
		require.Error(t, err)
		assert.Nil(t, session)

		var transportErr *TransportError
		require.True(t, errors.As(err, &transportErr))
		assert.Equal(t, Movie, transportErr.Category)
		assert.ErrorIs(t, err, listErr)
	})
}

func TestFetch_UnauthorizedIsAlwaysFatal(t *testing.T) {
	source := newStubSource()
	source.listErrs[watchmode.TypeMovie] = &watchmode.APIError{StatusCode: 401, Message: "Unauthorized"}

	agg := newTestAggregator(t, source, NewCache())
	_, err := agg.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
	assert.ErrorIs(t, err, watchmode.ErrUnauthorized)
}

func TestFetch_CancelledContext(t *testing.T) {
	agg := newTestAggregator(t, newStubSource(), NewCache())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agg.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregate_Idempotent(t *testing.T) {
	source := newStubSource()
	source.lists[watchmode.TypeMovie] = []watchmode.Title{
		{ID: 1, Title: "A", Type: "movie"},
		{ID: 2, Title: "B", Type: "movie"},
	}
	source.lists[watchmode.TypeTVSeries] = []watchmode.Title{
		{ID: 3, Title: "C", Type: "tv_series"},
	}
	source.details[1] = watchmode.TitleDetails{ID: 1, Poster: "p1"}

	cache := NewCache()
	agg := newTestAggregator(t, source, cache)

	_, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	first := cache.Titles()

	_, err = agg.Aggregate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, cache.Titles())
	assert.Equal(t, 3, cache.Len())
}

func TestFetch_DoesNotTouchCache(t *testing.T) {
	source := newStubSource()
	source.lists[watchmode.TypeMovie] = []watchmode.Title{{ID: 1, Title: "A", Type: "movie"}}

	cache := NewCache()
	agg := newTestAggregator(t, source, cache)

	session, err := agg.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())

	agg.Commit(session)
	assert.Equal(t, 1, cache.Len())
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", session.ID.String())
}
