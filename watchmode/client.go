package watchmode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Watchmode API root
const DefaultBaseURL = "https://api.watchmode.com/v1"

const defaultTimeout = 30 * time.Second

// Client represents a Watchmode API client
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a new Watchmode client
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: watchmode URL is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// doRequest performs an authenticated GET and decodes the JSON body into out
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.apiKey)

	requestURL := fmt.Sprintf("%s/%s/?%s", c.baseURL, strings.Trim(endpoint, "/"), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Watchmode API request")

	if resp.StatusCode != http.StatusOK {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// TestConnection checks that the API is reachable and the key is accepted
func (c *Client) TestConnection(ctx context.Context) error {
	return c.doRequest(ctx, "status", nil, nil)
}

// ListTitles retrieves one page of titles matching params
func (c *Client) ListTitles(ctx context.Context, params ListParams) (*ListResponse, error) {
	var response ListResponse
	if err := c.doRequest(ctx, "list-titles", params.values(), &response); err != nil {
		return nil, fmt.Errorf("failed to list %s titles: %w", params.Types, err)
	}

	c.logger.Debug().
		Str("types", string(params.Types)).
		Int("count", len(response.Titles)).
		Int("total", response.TotalResults).
		Msg("Retrieved titles from Watchmode")

	return &response, nil
}

// GetTitleDetails retrieves the details record for a single title
func (c *Client) GetTitleDetails(ctx context.Context, id int) (*TitleDetails, error) {
	var details TitleDetails
	endpoint := "title/" + strconv.Itoa(id) + "/details"
	if err := c.doRequest(ctx, endpoint, nil, &details); err != nil {
		return nil, fmt.Errorf("failed to get details for title %d: %w", id, err)
	}
	return &details, nil
}

// SearchTitles runs an autocomplete search for query
func (c *Client) SearchTitles(ctx context.Context, query string, searchType SearchType) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResponse{}, nil
	}
	if searchType == 0 {
		searchType = SearchTitlesOnly
	}

	params := url.Values{}
	params.Set("search_value", query)
	params.Set("search_type", strconv.Itoa(int(searchType)))

	var response SearchResponse
	if err := c.doRequest(ctx, "autocomplete-search", params, &response); err != nil {
		return nil, fmt.Errorf("failed to search titles: %w", err)
	}
	return &response, nil
}
