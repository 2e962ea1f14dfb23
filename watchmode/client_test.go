package watchmode

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-key", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		apiKey  string
		wantErr error
	}{
		{
			name:    "valid config",
			baseURL: "https://api.watchmode.com/v1/",
			apiKey:  "test-key",
		},
		{
			name:    "missing URL",
			baseURL: "",
			apiKey:  "test-key",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "missing API key",
			baseURL: DefaultBaseURL,
			apiKey:  "  ",
			wantErr: ErrMissingAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.apiKey, logger)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://api.watchmode.com/v1", client.baseURL)
			assert.Equal(t, tt.apiKey, client.apiKey)
		})
	}

	t.Run("missing key is an invalid config", func(t *testing.T) {
		_, err := NewClient(DefaultBaseURL, "", logger)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient(DefaultBaseURL, "test-key", logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient(DefaultBaseURL, "test-key", logger, WithHTTPClient(customClient))
		require.NoError(t, err)
		assert.Equal(t, customClient, client.httpClient)
	})

	t.Run("with rate limit", func(t *testing.T) {
		client, err := NewClient(DefaultBaseURL, "test-key", logger, WithRateLimit(2, 0))
		require.NoError(t, err)
		require.NotNil(t, client.limiter)
		assert.Equal(t, 1, client.limiter.Burst())

		client, err = NewClient(DefaultBaseURL, "test-key", logger, WithRateLimit(0, 5))
		require.NoError(t, err)
		assert.Nil(t, client.limiter)
	})
}

func TestListTitles(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/list-titles/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("apiKey"))
		assert.Equal(t, "tv_series", q.Get("types"))
		assert.Equal(t, "20", q.Get("limit"))
		assert.Equal(t, "popularity_desc", q.Get("sort_by"))
		assert.Empty(t, q.Get("page"))

		w.Write([]byte(`{
			"titles": [
				{"id": 345534, "title": "Severance", "type": "tv_series", "year": 2022, "imdb_id": "tt11280740", "tmdb_id": 95396, "tmdb_type": "tv"},
				{"id": 3173903, "title": "The Bear", "type": "tv_series", "year": null}
			],
			"page": 1,
			"total_pages": 3,
			"total_results": 60
		}`))
	})

	resp, err := client.ListTitles(context.Background(), ListParams{
		Types:  TypeTVSeries,
		Limit:  20,
		SortBy: SortPopularityDesc,
	})
	require.NoError(t, err)
	require.Len(t, resp.Titles, 2)

	first := resp.Titles[0]
	assert.Equal(t, 345534, first.ID)
	assert.Equal(t, "Severance", first.Title)
	require.NotNil(t, first.Year)
	assert.Equal(t, 2022, *first.Year)
	assert.Equal(t, "tt11280740", first.IMDbID)
	assert.Equal(t, 95396, first.TMDbID)
	assert.Nil(t, resp.Titles[1].Year)
	assert.True(t, resp.HasMorePages())
	assert.Equal(t, 60, resp.TotalResults)
}

func TestGetTitleDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/title/1295258/details/", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))

		json.NewEncoder(w).Encode(map[string]any{
			"id":              1295258,
			"title":           "Oppenheimer",
			"type":            "movie",
			"year":            2023,
			"plot_overview":   "The story of J. Robert Oppenheimer.",
			"release_date":    "2023-07-21",
			"poster":          "https://cdn.watchmode.com/posters/01295258_poster_w185.jpg",
			"genre_names":     []string{"Drama", "History"},
			"user_rating":     8.4,
			"runtime_minutes": 181,
		})
	})

	details, err := client.GetTitleDetails(context.Background(), 1295258)
	require.NoError(t, err)
	assert.Equal(t, "Oppenheimer", details.Title)
	assert.Equal(t, "2023-07-21", details.ReleaseDate)
	assert.Equal(t, []string{"Drama", "History"}, details.GenreNames)
	require.NotNil(t, details.UserRating)
	assert.InDelta(t, 8.4, *details.UserRating, 0.001)
	require.NotNil(t, details.RuntimeMinutes)
	assert.Equal(t, 181, *details.RuntimeMinutes)
	assert.Empty(t, details.Backdrop)
}

func TestSearchTitles(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/autocomplete-search/", r.URL.Path)
		assert.Equal(t, "breaking bad", r.URL.Query().Get("search_value"))
		assert.Equal(t, "2", r.URL.Query().Get("search_type"))
		w.Write([]byte(`{"results":[{"id":3173903,"name":"Breaking Bad","type":"tv_series","year":2008,"tmdb_id":1396}]}`))
	})

	resp, err := client.SearchTitles(context.Background(), " breaking bad ", 0)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Breaking Bad", resp.Results[0].Name)

	resp, err = client.SearchTitles(context.Background(), "", SearchTitlesOnly)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 1, calls)
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"success":false}`))
			})

			_, err := client.GetTitleDetails(context.Background(), 7)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, `{"success":false}`, apiErr.Body)
		})
	}
}

func TestAPIError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &APIError{
			StatusCode: 404,
			Message:    "Not Found",
		}
		assert.Equal(t, "watchmode API error: status 404: Not Found", err.Error())
	})

	t.Run("classification", func(t *testing.T) {
		tests := []struct {
			code         int
			unauthorized bool
			notFound     bool
		}{
			{401, true, false},
			{403, true, false},
			{404, false, true},
			{500, false, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			assert.Equal(t, tt.unauthorized, err.IsUnauthorized())
			assert.Equal(t, tt.notFound, err.IsNotFound())
		}
	})
}

func TestMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"titles": [`))
	})

	_, err := client.ListTitles(context.Background(), ListParams{Types: TypeMovie})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestRequestHonoursContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ListTitles(ctx, ListParams{Types: TypeMovie})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTestConnection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/status/", r.URL.Path)
		w.Write([]byte(`{"quota":1000,"quotaUsed":12}`))
	}, WithUserAgent("marquee-test"))

	require.NoError(t, client.TestConnection(context.Background()))
}
