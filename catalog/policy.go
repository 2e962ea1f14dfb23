package catalog

import (
	"fmt"
	"strings"
)

// FanOutPolicy controls which list items get a details request
type FanOutPolicy int

const (
	// FanOutBounded fetches details for the first DetailLimit items of each category
	FanOutBounded FanOutPolicy = iota
	// FanOutAll fetches details for every listed item
	FanOutAll
	// FanOutNone never fetches details
	FanOutNone
)

func (p FanOutPolicy) String() string {
	switch p {
	case FanOutBounded:
		return "bounded"
	case FanOutAll:
		return "all"
	case FanOutNone:
		return "none"
	default:
		return fmt.Sprintf("fanout(%d)", int(p))
	}
}

// ParseFanOutPolicy converts a config value into a FanOutPolicy
func ParseFanOutPolicy(s string) (FanOutPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bounded":
		return FanOutBounded, nil
	case "all":
		return FanOutAll, nil
	case "none":
		return FanOutNone, nil
	default:
		return FanOutBounded, fmt.Errorf("unknown fan-out policy %q", s)
	}
}

// ListFailurePolicy controls what a failed list request does to the session
type ListFailurePolicy int

const (
	// DegradeToEmpty substitutes an empty category and flags it in Failures
	DegradeToEmpty ListFailurePolicy = iota
	// FailSession fails the whole aggregation with a TransportError
	FailSession
)

func (p ListFailurePolicy) String() string {
	switch p {
	case DegradeToEmpty:
		return "degrade"
	case FailSession:
		return "fail"
	default:
		return fmt.Sprintf("listfailure(%d)", int(p))
	}
}

// ParseListFailurePolicy converts a config value into a ListFailurePolicy
func ParseListFailurePolicy(s string) (ListFailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "degrade", "degrade_to_empty":
		return DegradeToEmpty, nil
	case "fail", "fail_session":
		return FailSession, nil
	default:
		return DegradeToEmpty, fmt.Errorf("unknown list failure policy %q", s)
	}
}

// MissPolicy controls what the resolver does when a title is not cached
type MissPolicy int

const (
	// MissCacheOnly reports a miss as NotFoundError
	MissCacheOnly MissPolicy = iota
	// MissRemoteFetch asks the source for the details record and caches it
	MissRemoteFetch
)

func (p MissPolicy) String() string {
	switch p {
	case MissCacheOnly:
		return "cache"
	case MissRemoteFetch:
		return "remote"
	default:
		return fmt.Sprintf("miss(%d)", int(p))
	}
}

// ParseMissPolicy converts a config value into a MissPolicy
func ParseMissPolicy(s string) (MissPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cache", "cache_only":
		return MissCacheOnly, nil
	case "remote", "remote_fetch":
		return MissRemoteFetch, nil
	default:
		return MissCacheOnly, fmt.Errorf("unknown miss policy %q", s)
	}
}
