package watchmode

import (
	"context"
)

// API defines the interface for Watchmode operations
type API interface {
	// TestConnection verifies the client can reach Watchmode with its key
	TestConnection(ctx context.Context) error

	// ListTitles retrieves one page of titles
	ListTitles(ctx context.Context, params ListParams) (*ListResponse, error)

	// GetTitleDetails retrieves the full record for a single title
	GetTitleDetails(ctx context.Context, id int) (*TitleDetails, error)

	// SearchTitles runs an autocomplete search by name
	SearchTitles(ctx context.Context, query string, searchType SearchType) (*SearchResponse, error)
}

var _ API = (*Client)(nil)
