package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/state"
)

var detailsRemote bool

// detailsCmd represents the details command
var detailsCmd = &cobra.Command{
	Use:   "details <id>",
	Short: "Show details for a title",
	Long: `Show the details of a title by its Watchmode ID.

By default the popular lists are loaded first and the title is looked up in
the resulting catalog. Use --remote to fetch titles that are not part of it.`,
	Example: `  marquee details 1295258
  marquee details 3173903 --remote`,
	Args: cobra.ExactArgs(1),
	RunE: runDetails,
}

func init() {
	detailsCmd.Flags().BoolVarP(&detailsRemote, "remote", "r", false, "fetch from the API when the title is not cached")
}

func runDetails(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid title ID %q", args[0])
	}

	ctx := cmd.Context()

	if !detailsRemote {
		if _, err := loadHome(ctx, catalog.Movie); err != nil {
			return err
		}
	}

	resolver, err := newResolver(detailsRemote)
	if err != nil {
		return err
	}

	title, err := loadDetails(ctx, resolver, id)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), formatTitleDetails(title))
	return nil
}

func loadDetails(ctx context.Context, resolver state.Resolver, id int) (catalog.Title, error) {
	store := state.NewDetailsStore(resolver, logger, state.WithResolveTimeout(cfg.Catalog.RequestTimeout))
	defer store.Close()

	stop := context.AfterFunc(ctx, store.Close)
	defer stop()

	store.Load(id)
	store.Wait()

	type result struct {
		title catalog.Title
		err   error
	}

	r := state.Match(store.State(),
		func() result {
			if err := ctx.Err(); err != nil {
				return result{err: err}
			}
			return result{err: errors.New("details lookup did not finish")}
		},
		func(t catalog.Title) result { return result{title: t} },
		func(message string, err error) result { return result{err: errors.New(message)} },
	)
	return r.title, r.err
}
