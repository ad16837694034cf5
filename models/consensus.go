package models

import "time"

// DefaultWeightScale is used when a consensus carries no bwweightscale parameter.
const DefaultWeightScale = 10000

// ConsensusDocument is an already-parsed consensus as handed over by the parser.
type ConsensusDocument struct {
	ValidAfter       time.Time           `json:"valid_after"`
	FreshUntil       time.Time           `json:"fresh_until"`
	BandwidthWeights map[string]int64    `json:"bandwidth_weights"`
	Params           map[string]int64    `json:"params"`
	Entries          []RouterStatusEntry `json:"relays"`
}

// ConsensusMetadata holds the validity window and weighting parameters of one consensus.
type ConsensusMetadata struct {
	ValidAfter       time.Time        `json:"valid_after"`
	FreshUntil       time.Time        `json:"fresh_until"`
	BandwidthWeights map[string]int64 `json:"bandwidth_weights"`
	WeightScale      int64            `json:"weight_scale"`
}

// HibernationEvent records a relay's hibernation status from Offset seconds after valid-after on.
// Offset 0 is the status inferred for the start of the window.
type HibernationEvent struct {
	Offset      int64  `json:"offset"`
	Fingerprint string `json:"fingerprint"`
	Hibernating bool   `json:"hibernating"`
}

// NetworkStateSnapshot is the reconciled view of one consensus period.
type NetworkStateSnapshot struct {
	Metadata    ConsensusMetadata            `json:"metadata"`
	Relays      map[string]RouterStatusEntry `json:"relays"`
	Descriptors map[string]SlimDescriptor    `json:"descriptors"`
	Events      []HibernationEvent           `json:"events"` // descending offset
}

// SnapshotNameLayout formats valid-after into an artifact name.
const SnapshotNameLayout = "2006-01-02-15-04-05-network_state"

// Name returns the artifact name of the snapshot.
func (s *NetworkStateSnapshot) Name() string {
	return s.Metadata.ValidAfter.UTC().Format(SnapshotNameLayout)
}
