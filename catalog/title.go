package catalog

import (
	"fmt"
	"strings"

	"github.com/s0up4200/marquee/watchmode"
)

// Category is the top-level catalog partition a title belongs to
type Category int

const (
	// Movie is the default category
	Movie Category = iota
	// TVSeries covers series, miniseries and specials
	TVSeries
)

// Categories lists every category in display order
var Categories = []Category{Movie, TVSeries}

func (c Category) String() string {
	switch c {
	case Movie:
		return "movies"
	case TVSeries:
		return "tv_shows"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Label returns a human readable name for the category
func (c Category) Label() string {
	switch c {
	case TVSeries:
		return "TV Shows"
	default:
		return "Movies"
	}
}

// apiType is the list-titles types filter for the category
func (c Category) apiType() watchmode.TitleType {
	if c == TVSeries {
		return watchmode.TypeTVSeries
	}
	return watchmode.TypeMovie
}

// ParseCategory converts a user supplied name into a Category
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movies", "movie":
		return Movie, nil
	case "tv", "tv_shows", "tvshows", "shows", "tv_series":
		return TVSeries, nil
	default:
		return Movie, fmt.Errorf("unknown category %q (want movies or tv)", s)
	}
}

// CategoryFromType maps a Watchmode title type onto a Category
func CategoryFromType(apiType string) (Category, bool) {
	switch apiType {
	case "movie", "short_film", "tv_movie":
		return Movie, true
	case "tv_series", "tv_miniseries", "tv_special":
		return TVSeries, true
	default:
		return Movie, false
	}
}

// ExternalIDs holds cross-reference identifiers for a title
type ExternalIDs struct {
	IMDbID   string
	TMDbID   int
	TMDbType string
}

// Title is a single catalog entry. Titles are values and are never mutated
// once built; use WithDetails to derive an enriched copy.
type Title struct {
	ID          int
	Name        string
	Category    Category
	ReleaseYear *int
	External    ExternalIDs

	// Detail-level fields, empty when only the list record is known
	PosterURL      string
	Synopsis       string
	ReleaseDate    string
	BackdropURL    string
	Genres         []string
	UserRating     *float64
	RuntimeMinutes *int
}

// FromListItem builds a list-level title. The fallback category is used when
// the API type is missing or unknown.
func FromListItem(item watchmode.Title, fallback Category) Title {
	category, ok := CategoryFromType(item.Type)
	if !ok {
		category = fallback
	}

	return Title{
		ID:          item.ID,
		Name:        item.Title,
		Category:    category,
		ReleaseYear: copyInt(item.Year),
		External: ExternalIDs{
			IMDbID:   item.IMDbID,
			TMDbID:   item.TMDbID,
			TMDbType: item.TMDbType,
		},
		PosterURL: item.ImageURL,
	}
}

// FromDetails builds a title from a details record alone
func FromDetails(d watchmode.TitleDetails) Title {
	category, _ := CategoryFromType(d.Type)
	t := Title{
		ID:          d.ID,
		Name:        d.Title,
		Category:    category,
		ReleaseYear: copyInt(d.Year),
		External: ExternalIDs{
			IMDbID:   d.IMDbID,
			TMDbID:   d.TMDbID,
			TMDbType: d.TMDbType,
		},
	}
	return t.WithDetails(d)
}

// WithDetails returns a copy of t with every non-empty detail field applied
func (t Title) WithDetails(d watchmode.TitleDetails) Title {
	out := t.clone()

	if d.Title != "" && out.Name == "" {
		out.Name = d.Title
	}
	if out.ReleaseYear == nil {
		out.ReleaseYear = copyInt(d.Year)
	}
	if d.Poster != "" {
		out.PosterURL = d.Poster
	}
	if d.PlotOverview != "" {
		out.Synopsis = d.PlotOverview
	}
	if d.ReleaseDate != "" {
		out.ReleaseDate = d.ReleaseDate
	}
	if d.Backdrop != "" {
		out.BackdropURL = d.Backdrop
	}
	if len(d.GenreNames) > 0 {
		out.Genres = append([]string(nil), d.GenreNames...)
	}
	if d.UserRating != nil {
		rating := *d.UserRating
		out.UserRating = &rating
	}
	if d.RuntimeMinutes != nil {
		out.RuntimeMinutes = copyInt(d.RuntimeMinutes)
	}
	if out.External.IMDbID == "" {
		out.External.IMDbID = d.IMDbID
	}
	if out.External.TMDbID == 0 {
		out.External.TMDbID = d.TMDbID
		out.External.TMDbType = d.TMDbType
	}

	return out
}

// HasDetails reports whether any detail-level field is populated
func (t Title) HasDetails() bool {
	return t.Synopsis != "" || t.ReleaseDate != "" || len(t.Genres) > 0 ||
		t.UserRating != nil || t.RuntimeMinutes != nil || t.BackdropURL != ""
}

// Year returns the release year or 0 when unknown
func (t Title) Year() int {
	if t.ReleaseYear == nil {
		return 0
	}
	return *t.ReleaseYear
}

// clone copies the pointer and slice fields so the result shares no state with t
func (t Title) clone() Title {
	out := t
	out.ReleaseYear = copyInt(t.ReleaseYear)
	out.RuntimeMinutes = copyInt(t.RuntimeMinutes)
	if t.UserRating != nil {
		rating := *t.UserRating
		out.UserRating = &rating
	}
	if t.Genres != nil {
		out.Genres = append([]string(nil), t.Genres...)
	}
	return out
}

// CloneTitles returns deep copies of titles in the same order
func CloneTitles(titles []Title) []Title {
	if titles == nil {
		return nil
	}
	out := make([]Title, len(titles))
	for i, t := range titles {
		out[i] = t.clone()
	}
	return out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
