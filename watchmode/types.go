package watchmode

import (
	"net/url"
	"strconv"
)

// TitleType is the value of the types filter on list-titles
type TitleType string

const (
	// TypeMovie lists feature films
	TypeMovie TitleType = "movie"
	// TypeTVSeries lists TV series
	TypeTVSeries TitleType = "tv_series"
)

// Sort orders accepted by list-titles
const (
	SortPopularityDesc = "popularity_desc"
	SortPopularityAsc  = "popularity_asc"
	SortReleaseDesc    = "release_date_desc"
	SortTitleAsc       = "title_asc"
)

// SearchType selects what autocomplete-search matches
type SearchType int

const (
	// SearchTitlesAndPeople matches both titles and people
	SearchTitlesAndPeople SearchType = 1
	// SearchTitlesOnly matches titles
	SearchTitlesOnly SearchType = 2
	// SearchMoviesOnly matches movies
	SearchMoviesOnly SearchType = 3
	// SearchTVOnly matches TV titles
	SearchTVOnly SearchType = 4
)

// ListParams are the query parameters for list-titles
type ListParams struct {
	Types  TitleType
	Limit  int
	SortBy string
	Page   int
}

func (p ListParams) values() url.Values {
	params := url.Values{}
	if p.Types != "" {
		params.Set("types", string(p.Types))
	}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.SortBy != "" {
		params.Set("sort_by", p.SortBy)
	}
	if p.Page > 1 {
		params.Set("page", strconv.Itoa(p.Page))
	}
	return params
}

// Title is a single entry in a list-titles response
type Title struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Year     *int   `json:"year"`
	YearEnd  *int   `json:"year_end"`
	IMDbID   string `json:"imdb_id"`
	TMDbID   int    `json:"tmdb_id"`
	TMDbType string `json:"tmdb_type"`
	ImageURL string `json:"image_url,omitempty"`
}

// ListResponse represents the paginated response from list-titles
type ListResponse struct {
	Titles       []Title `json:"titles"`
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// HasMorePages checks if there are more pages to fetch
func (r *ListResponse) HasMorePages() bool {
	return r.Page < r.TotalPages
}

// TitleDetails is the response from title/{id}/details
type TitleDetails struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Type           string   `json:"type"`
	Year           *int     `json:"year"`
	PlotOverview   string   `json:"plot_overview"`
	ReleaseDate    string   `json:"release_date"`
	Poster         string   `json:"poster"`
	Backdrop       string   `json:"backdrop"`
	GenreNames     []string `json:"genre_names"`
	UserRating     *float64 `json:"user_rating"`
	RuntimeMinutes *int     `json:"runtime_minutes"`
	IMDbID         string   `json:"imdb_id"`
	TMDbID         int      `json:"tmdb_id"`
	TMDbType       string   `json:"tmdb_type"`
}

// SearchResult is one autocomplete match
type SearchResult struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Year     *int   `json:"year"`
	ImageURL string `json:"image_url"`
	TMDbID   int    `json:"tmdb_id"`
}

// SearchResponse represents the response from autocomplete-search
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}
