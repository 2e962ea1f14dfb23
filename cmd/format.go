package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/state"
	"github.com/s0up4200/marquee/watchmode"
)

// formatTitleList formats titles as a tree for console display
func formatTitleList(label string, titles []catalog.Title, showDetails bool) string {
	if len(titles) == 0 {
		return fmt.Sprintf("No %s found\n", strings.ToLower(label))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", label, len(titles))

	for i, t := range titles {
		isLast := i == len(titles)-1
		prefix := "├"
		if isLast {
			prefix = "╰"
		}

		fmt.Fprintf(&sb, "%s── %s%s\n", prefix, t.Name, yearSuffix(t))

		if showDetails {
			indent := "│   "
			if isLast {
				indent = "    "
			}
			writeTitleFacts(&sb, indent, t)
		}

		if !isLast && showDetails {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// formatTitleDetails formats a single title
func formatTitleDetails(t catalog.Title) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s%s\n", t.Name, yearSuffix(t))
	fmt.Fprintf(&sb, "%s\n", strings.Repeat("─", max(len([]rune(t.Name))+len(yearSuffix(t)), 10)))

	fmt.Fprintf(&sb, "ID: %d | %s\n", t.ID, t.Category.Label())
	writeTitleFacts(&sb, "", t)

	if t.Synopsis != "" {
		fmt.Fprintf(&sb, "\n%s\n", t.Synopsis)
	}
	if t.PosterURL != "" {
		fmt.Fprintf(&sb, "\nPoster: %s\n", t.PosterURL)
	}
	if t.BackdropURL != "" {
		fmt.Fprintf(&sb, "Backdrop: %s\n", t.BackdropURL)
	}
	if t.External.IMDbID != "" {
		fmt.Fprintf(&sb, "IMDb: https://www.imdb.com/title/%s/\n", t.External.IMDbID)
	}

	return sb.String()
}

// formatSearchResults formats autocomplete results from the API
func formatSearchResults(query string, results []watchmode.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No titles found for %q\n", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nResults for %q (%d):\n\n", query, len(results))

	for i, r := range results {
		prefix := "├"
		if i == len(results)-1 {
			prefix = "╰"
		}
		year := ""
		if r.Year != nil {
			year = fmt.Sprintf(" (%d)", *r.Year)
		}
		fmt.Fprintf(&sb, "%s── %s%s [%s] #%d\n", prefix, r.Name, year, strings.ReplaceAll(r.Type, "_", " "), r.ID)
	}

	sb.WriteString("\n")
	return sb.String()
}

// formatSessionSummary describes where the displayed data came from
func formatSessionSummary(home state.Home, now time.Time) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Fetched %s (%s movies, %s TV shows)\n",
		humanize.RelTime(home.FetchedAt, now, "ago", "from now"),
		humanize.Comma(int64(len(home.Movies))),
		humanize.Comma(int64(len(home.TVShows))),
	)

	var warnings []string
	if home.Failures.MoviesList {
		warnings = append(warnings, "movies list unavailable")
	}
	if home.Failures.TVShowsList {
		warnings = append(warnings, "TV shows list unavailable")
	}
	if n := len(home.Failures.DetailIDs); n > 0 {
		warnings = append(warnings, fmt.Sprintf("details missing for %d %s", n, plural(n, "title", "titles")))
	}
	if len(warnings) > 0 {
		fmt.Fprintf(&sb, "⚠ %s\n", strings.Join(warnings, ", "))
	}

	return sb.String()
}

func writeTitleFacts(sb *strings.Builder, indent string, t catalog.Title) {
	var parts []string
	if t.UserRating != nil {
		parts = append(parts, fmt.Sprintf("Rating: %.1f", *t.UserRating))
	}
	if t.RuntimeMinutes != nil {
		parts = append(parts, "Runtime: "+formatRuntime(*t.RuntimeMinutes))
	}
	if t.ReleaseDate != "" {
		parts = append(parts, "Released: "+t.ReleaseDate)
	}
	if len(parts) > 0 {
		fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(parts, " | "))
	}
	if len(t.Genres) > 0 {
		fmt.Fprintf(sb, "%sGenres: %s\n", indent, strings.Join(t.Genres, ", "))
	}
}

func yearSuffix(t catalog.Title) string {
	if t.ReleaseYear == nil {
		return ""
	}
	return " (" + strconv.Itoa(*t.ReleaseYear) + ")"
}

func formatRuntime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
