package cmd

import (
	"context"
	"errors"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/state"
)

// loadHome runs one aggregation through a Home store and returns its result.
// The cache is populated as a side effect.
func loadHome(ctx context.Context, category catalog.Category) (state.Home, error) {
	store := state.NewHomeStore(aggregator, logger,
		state.WithLoadTimeout(cfg.Catalog.LoadTimeout),
		state.WithCategory(category),
	)
	defer store.Close()

	stop := context.AfterFunc(ctx, store.Close)
	defer stop()

	store.Load()
	store.Wait()

	type result struct {
		home state.Home
		err  error
	}

	r := state.Match(store.State(),
		func() result {
			if err := ctx.Err(); err != nil {
				return result{err: err}
			}
			return result{err: errors.New("catalog load did not finish")}
		},
		func(home state.Home) result { return result{home: home} },
		func(message string, err error) result { return result{err: errors.New(message)} },
	)
	return r.home, r.err
}

// newResolver builds a details resolver over the shared cache
func newResolver(remote bool) (*catalog.Resolver, error) {
	opts, err := cfg.Details.ResolverOptions(cfg.Catalog.RequestTimeout)
	if err != nil {
		return nil, err
	}
	if remote {
		opts = append(opts, catalog.WithMissPolicy(catalog.MissRemoteFetch))
	}
	return catalog.NewResolver(cache, client, logger, opts...)
}
