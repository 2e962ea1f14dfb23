package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/filter"
)

var (
	categoryName string
	filterExpr   string
	showDetails  bool
	listAll      bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List popular titles",
	Long: `Fetch the most popular movies and TV shows and list the titles of the
selected category. Use --filter with an expression or the name of a filter
from the config file to narrow the list down.`,
	Example: `  marquee list
  marquee list --category tv
  marquee list --filter 'Year >= 2020 and hasGenre("Drama")'
  marquee list --filter dramas --details`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&categoryName, "category", "c", "movies", "category to show (movies or tv)")
	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression or named filter from config")
	listCmd.Flags().BoolVarP(&showDetails, "details", "D", false, "show rating, runtime and genres")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "list both categories")
}

func runList(cmd *cobra.Command, args []string) error {
	category, err := catalog.ParseCategory(categoryName)
	if err != nil {
		return err
	}

	f, err := resolveFilter(filterExpr)
	if err != nil {
		return err
	}

	home, err := loadHome(cmd.Context(), category)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, formatSessionSummary(home, time.Now()))

	categories := []catalog.Category{category}
	if listAll {
		categories = catalog.Categories
	}

	for _, c := range categories {
		var titles []catalog.Title
		if c == home.Selected {
			titles = home.Visible
		} else {
			titles = home.TVShows
			if c == catalog.Movie {
				titles = home.Movies
			}
		}
		fmt.Fprint(out, formatTitleList(c.Label(), filter.Apply(f, titles), showDetails))
	}

	return nil
}

// resolveFilter compiles a filter given inline or by name from the config.
// An empty value means no filter.
func resolveFilter(value string) (filter.Filter, error) {
	expression := value
	if named, ok := cfg.Filters[value]; ok {
		expression = named
	}

	compiled, err := filter.Parse(filter.NewCompiler(), expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	if compiled == nil {
		return nil, nil
	}

	logger.Debug().Str("filter", compiled.Expression()).Msg("Using filter")
	return compiled, nil
}
