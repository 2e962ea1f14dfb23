// Package watchmode provides a client for the Watchmode catalog API.
//
// Watchmode exposes a paginated title listing, per-title details and an
// autocomplete search. This package implements the small subset of the API
// that marquee needs to browse popular movies and TV series.
//
// # Usage
//
// Create a client with the API base URL and a static API key:
//
//	logger := zerolog.New(os.Stderr)
//	client, err := watchmode.NewClient(
//		watchmode.DefaultBaseURL,
//		"your-api-key",
//		logger,
//		watchmode.WithTimeout(15*time.Second),
//		watchmode.WithRateLimit(2, 4),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.ListTitles(ctx, watchmode.ListParams{
//		Types:  watchmode.TypeMovie,
//		Limit:  20,
//		SortBy: watchmode.SortPopularityDesc,
//	})
//
// # Authentication
//
// The API key is sent as the apiKey query parameter on every request.
//
// # Error Handling
//
// Non-200 responses are returned as *APIError. The sentinel errors
// ErrUnauthorized, ErrNotFound and ErrRateLimited match through errors.Is:
//
//	if errors.Is(err, watchmode.ErrUnauthorized) {
//		// bad or revoked key
//	}
package watchmode
