package catalog

import (
	"context"
	"errors"

	"github.com/s0up4200/marquee/watchmode"
)

// Source defines the catalog API operations the aggregator and resolver need
type Source interface {
	ListTitles(ctx context.Context, params watchmode.ListParams) (*watchmode.ListResponse, error)
	GetTitleDetails(ctx context.Context, id int) (*watchmode.TitleDetails, error)
}

var _ Source = (*watchmode.Client)(nil)

// classify turns a source error into a precondition error when retrying can
// never help, and a transport error otherwise
func classify(op string, c Category, err error) error {
	if errors.Is(err, watchmode.ErrUnauthorized) {
		return &PreconditionError{Reason: "API key was rejected", Err: err}
	}
	if errors.Is(err, watchmode.ErrInvalidConfig) {
		return &PreconditionError{Reason: "invalid API configuration", Err: err}
	}
	return &TransportError{Op: op, Category: c, Err: err}
}
