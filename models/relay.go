package models

import "time"

// Flag is a status flag assigned to a relay by a consensus.
type Flag string

const (
	FlagRunning Flag = "Running"
	FlagGuard   Flag = "Guard"
	FlagExit    Flag = "Exit"
	FlagBadExit Flag = "BadExit"
)

// RelayDescriptor is a relay-published self description.
type RelayDescriptor struct {
	Fingerprint       string    `json:"fingerprint"`
	Published         time.Time `json:"published"`
	Hibernating       bool      `json:"hibernating"`
	Nickname          string    `json:"nickname"`
	Family            []string  `json:"family"`
	Address           string    `json:"address"`
	ExitPolicy        []string  `json:"exit_policy"`
	AverageBandwidth  int64     `json:"average_bandwidth"`
	ObservedBandwidth int64     `json:"observed_bandwidth"`
	BurstBandwidth    int64     `json:"burst_bandwidth"`
	Uptime            int64     `json:"uptime"`
}

// SlimDescriptor is the subset of a descriptor kept in a snapshot.
type SlimDescriptor struct {
	Fingerprint       string    `json:"fingerprint"`
	Published         time.Time `json:"published"`
	Hibernating       bool      `json:"hibernating"`
	Nickname          string    `json:"nickname"`
	Family            []string  `json:"family,omitempty"`
	Address           string    `json:"address"`
	ExitPolicy        []string  `json:"exit_policy,omitempty"`
	AverageBandwidth  int64     `json:"average_bandwidth"`
	ObservedBandwidth int64     `json:"observed_bandwidth"`
	BurstBandwidth    int64     `json:"burst_bandwidth"`
	Uptime            int64     `json:"uptime"`
}

// Slim returns the form of the descriptor stored in snapshots.
func (d *RelayDescriptor) Slim() SlimDescriptor {
	return SlimDescriptor{
		Fingerprint:       d.Fingerprint,
		Published:         d.Published,
		Hibernating:       d.Hibernating,
		Nickname:          d.Nickname,
		Family:            d.Family,
		Address:           d.Address,
		ExitPolicy:        d.ExitPolicy,
		AverageBandwidth:  d.AverageBandwidth,
		ObservedBandwidth: d.ObservedBandwidth,
		BurstBandwidth:    d.BurstBandwidth,
		Uptime:            d.Uptime,
	}
}

// RouterStatusEntry is a relay's status as asserted by one consensus.
type RouterStatusEntry struct {
	Fingerprint string    `json:"fingerprint"`
	Nickname    string    `json:"nickname"`
	Flags       []Flag    `json:"flags"`
	Bandwidth   int64     `json:"bandwidth"`
	Unmeasured  bool      `json:"unmeasured"`
	Published   time.Time `json:"published"` // as recorded by the authorities, not the descriptor itself
}

// HasFlag reports whether the entry carries flag f.
func (r RouterStatusEntry) HasFlag(f Flag) bool {
	for _, got := range r.Flags {
		if got == f {
			return true
		}
	}
	return false
}
