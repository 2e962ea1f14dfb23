package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Resolver looks titles up by ID, reading the cache first
type Resolver struct {
	cache   *Cache
	source  Source
	logger  zerolog.Logger
	miss    MissPolicy
	timeout time.Duration
	group   singleflight.Group
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithMissPolicy sets what happens when a title is not cached
func WithMissPolicy(p MissPolicy) ResolverOption {
	return func(r *Resolver) {
		r.miss = p
	}
}

// WithResolveTimeout bounds a remote details request made on a miss
func WithResolveTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// NewResolver creates a resolver over cache. source may be nil when the miss
// policy is MissCacheOnly.
func NewResolver(cache *Cache, source Source, logger zerolog.Logger, opts ...ResolverOption) (*Resolver, error) {
	if cache == nil {
		return nil, &PreconditionError{Reason: "resolver requires a cache"}
	}

	r := &Resolver{
		cache:   cache,
		source:  source,
		logger:  logger,
		miss:    MissCacheOnly,
		timeout: DefaultRequestTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.miss == MissRemoteFetch && r.source == nil {
		return nil, &PreconditionError{Reason: "remote miss policy requires a source"}
	}

	return r, nil
}

// Resolve returns the title for id. A cache hit never reaches the network.
func (r *Resolver) Resolve(ctx context.Context, id int) (Title, error) {
	if t, ok := r.cache.Get(id); ok {
		return t, nil
	}

	if r.miss == MissCacheOnly {
		return Title{}, &NotFoundError{ID: id}
	}

	// The shared request is detached from ctx. Each caller stops waiting on
	// its own ctx.
	ch := r.group.DoChan(strconv.Itoa(id), func() (any, error) {
		return r.fetch(context.WithoutCancel(ctx), id)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Title{}, res.Err
		}
		if res.Shared {
			r.logger.Debug().Int("id", id).Msg("Shared in-flight details request")
		}
		return res.Val.(Title).clone(), nil
	case <-ctx.Done():
		return Title{}, ctx.Err()
	}
}

func (r *Resolver) fetch(ctx context.Context, id int) (Title, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	details, err := r.source.GetTitleDetails(ctx, id)
	if err != nil {
		r.logger.Warn().Err(err).Int("id", id).Msg("Failed to fetch title details")
		return Title{}, &NotFoundError{ID: id, Err: err}
	}
	if details == nil {
		return Title{}, &NotFoundError{ID: id}
	}

	t := FromDetails(*details)
	if t.ID == 0 {
		t.ID = id
	}
	r.cache.Put(t)

	r.logger.Debug().Int("id", id).Str("title", t.Name).Msg("Cached title from details request")
	return t, nil
}
