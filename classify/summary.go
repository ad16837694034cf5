package classify

import (
	"time"

	"netstate/models"
)

// Summary is the bandwidth picture of one snapshot.
type Summary struct {
	ValidAfter        time.Time        `json:"valid_after"`
	FreshUntil        time.Time        `json:"fresh_until"`
	BandwidthWeights  map[string]int64 `json:"bandwidth_weights"`
	WeightScale       int64            `json:"weight_scale"`
	Total             int64            `json:"total_bandwidth"`
	Guard             int64            `json:"guard_bandwidth"`
	Exit              int64            `json:"exit_bandwidth"`
	GuardExit         int64            `json:"guard_exit_bandwidth"`
	Middle            int64            `json:"middle_bandwidth"`
	Guards            int              `json:"guards"`
	Exits             int              `json:"exits"`
	GuardExits        int              `json:"guard_exits"`
	Middles           int              `json:"middles"`
	Descriptors       int              `json:"descriptors"`
	HibernationEvents int              `json:"hibernation_events"`
}

// Summarize classifies the relays of snap.
func Summarize(snap *models.NetworkStateSnapshot) Summary {
	res := Relays(snap.Relays)
	scale := snap.Metadata.WeightScale
	if scale == 0 {
		scale = models.DefaultWeightScale
	}
	return Summary{
		ValidAfter:        snap.Metadata.ValidAfter,
		FreshUntil:        snap.Metadata.FreshUntil,
		BandwidthWeights:  snap.Metadata.BandwidthWeights,
		WeightScale:       scale,
		Total:             res.Total,
		Guard:             res.Guard,
		Exit:              res.Exit,
		GuardExit:         res.GuardExit,
		Middle:            res.Middle,
		Guards:            len(res.Guards),
		Exits:             len(res.Exits),
		GuardExits:        len(res.GuardExits),
		Middles:           len(res.Middles),
		Descriptors:       len(snap.Descriptors),
		HibernationEvents: len(snap.Events),
	}
}
