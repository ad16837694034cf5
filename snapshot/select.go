package snapshot

import (
	"fmt"
	"sort"

	"netstate/index"
)

// InitialStatusPolicy decides which descriptor anchors a relay's hibernation status at window start.
type InitialStatusPolicy string

const (
	// PolicyFallback prefers the latest descriptor at or before valid-after and falls back
	// to the earliest one after it.
	PolicyFallback InitialStatusPolicy = "fallback"
	// PolicyStrict only accepts descriptors published at or before valid-after.
	PolicyStrict InitialStatusPolicy = "strict"
)

// ParsePolicy converts a configuration value into a policy.
func ParsePolicy(s string) (InitialStatusPolicy, error) {
	switch p := InitialStatusPolicy(s); p {
	case PolicyFallback, PolicyStrict:
		return p, nil
	case "":
		return PolicyFallback, nil
	default:
		return "", fmt.Errorf("unknown initial status policy %q", s)
	}
}

// Window is a consensus validity window in unix seconds, both ends inclusive.
type Window struct {
	ValidAfter int64
	FreshUntil int64
}

// SelectBest returns the newest descriptor that is younger than maxAge at valid-after
// and published no later than both pubTime and fresh-until. entries must be ascending.
func SelectBest(entries []index.Entry, w Window, pubTime, maxAge int64) (index.Entry, bool) {
	upper := min(pubTime, w.FreshUntil)
	for i := len(entries) - 1; i >= 0; i-- {
		t := entries[i].Published
		if t > upper {
			continue
		}
		if w.ValidAfter-t < maxAge {
			return entries[i], true
		}
		// everything before is older still
		break
	}
	return index.Entry{}, false
}

// SelectInitialStatus returns the descriptor representing the relay at valid-after.
func SelectInitialStatus(entries []index.Entry, validAfter int64, policy InitialStatusPolicy) (index.Entry, bool) {
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Published > validAfter })
	if i > 0 {
		return entries[i-1], true
	}
	if policy == PolicyStrict || i == len(entries) {
		return index.Entry{}, false
	}
	return entries[i], true
}

// FreshPeriod returns the descriptors published inside the window.
func FreshPeriod(entries []index.Entry, w Window) []index.Entry {
	lo := sort.Search(len(entries), func(i int) bool { return entries[i].Published >= w.ValidAfter })
	hi := sort.Search(len(entries), func(i int) bool { return entries[i].Published > w.FreshUntil })
	if lo >= hi {
		return nil
	}
	return entries[lo:hi]
}
