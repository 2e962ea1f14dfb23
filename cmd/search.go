package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/state"
	"github.com/s0up4200/marquee/watchmode"
)

var (
	searchRemote bool
	searchLimit  int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search titles by name",
	Long: `Fuzzy search the names of the popular titles. Use --remote to query the
Watchmode autocomplete search instead.`,
	Example: `  marquee search "bear"
  marquee search "breaking bad" --remote`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVarP(&searchRemote, "remote", "r", false, "search with the Watchmode API")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 10, "maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	if searchRemote {
		resp, err := client.SearchTitles(cmd.Context(), query, watchmode.SearchTitlesOnly)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		results := resp.Results
		if searchLimit > 0 && len(results) > searchLimit {
			results = results[:searchLimit]
		}
		fmt.Fprint(out, formatSearchResults(query, results))
		return nil
	}

	home, err := loadHome(cmd.Context(), catalog.Movie)
	if err != nil {
		return err
	}

	fmt.Fprint(out, formatSessionSummary(home, time.Now()))
	matches := searchHome(home, query, searchLimit)
	if len(matches) == 0 {
		fmt.Fprintf(out, "No titles found for %q\n", query)
		return nil
	}
	fmt.Fprint(out, formatTitleList(fmt.Sprintf("Matches for %q", query), matches, false))
	return nil
}

// searchHome ranks the session's titles, breaking ties by list order
func searchHome(home state.Home, query string, limit int) []catalog.Title {
	titles := make([]catalog.Title, 0, len(home.Movies)+len(home.TVShows))
	titles = append(titles, home.Movies...)
	titles = append(titles, home.TVShows...)
	return catalog.Search(titles, query, limit)
}
