// Package state holds the observable UI states built on top of the catalog:
// a tagged Loading/Success/Failure value, conflated subscriptions and the
// Home and Details stores that drive them.
package state

// Kind names the variant held by a State
type Kind string

const (
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
	KindFailure Kind = "failure"
)

// State is a Loading, Success or Failure value. The set of implementations
// is closed; use Match to consume one.
type State[T any] interface {
	Kind() Kind
	isState()
}

// Loading means a load is in flight and no result is available yet
type Loading[T any] struct{}

// Success carries a loaded value
type Success[T any] struct {
	Value T
}

// Failure carries a human readable message and the underlying error
type Failure[T any] struct {
	Message string
	Err     error
}

func (Loading[T]) Kind() Kind { return KindLoading }
func (Success[T]) Kind() Kind { return KindSuccess }
func (Failure[T]) Kind() Kind { return KindFailure }

func (Loading[T]) isState() {}
func (Success[T]) isState() {}
func (Failure[T]) isState() {}

// Match calls the handler for the variant held by s. A nil state is treated
// as Loading.
func Match[T, R any](
	s State[T],
	onLoading func() R,
	onSuccess func(T) R,
	onFailure func(message string, err error) R,
) R {
	switch v := s.(type) {
	case Success[T]:
		return onSuccess(v.Value)
	case Failure[T]:
		return onFailure(v.Message, v.Err)
	default:
		return onLoading()
	}
}

// Value returns the payload of a Success state
func Value[T any](s State[T]) (T, bool) {
	if v, ok := s.(Success[T]); ok {
		return v.Value, true
	}
	var zero T
	return zero, false
}
