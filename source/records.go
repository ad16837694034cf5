package source

import (
	"errors"
	"fmt"
	"time"

	"netstate/models"
)

// TimeLayout is the timestamp format used by directory documents, always UTC.
const TimeLayout = "2006-01-02 15:04:05"

var ErrBadRecord = errors.New("bad record")

type descriptorRecord struct {
	Fingerprint       string   `json:"fingerprint"`
	Published         string   `json:"published"`
	Hibernating       bool     `json:"hibernating"`
	Nickname          string   `json:"nickname"`
	Family            []string `json:"family"`
	Address           string   `json:"address"`
	ExitPolicy        []string `json:"exit_policy"`
	AverageBandwidth  int64    `json:"average_bandwidth"`
	ObservedBandwidth int64    `json:"observed_bandwidth"`
	BurstBandwidth    int64    `json:"burst_bandwidth"`
	Uptime            int64    `json:"uptime"`
}

type statusRecord struct {
	Fingerprint string   `json:"fingerprint"`
	Nickname    string   `json:"nickname"`
	Flags       []string `json:"flags"`
	Bandwidth   int64    `json:"bandwidth"`
	Unmeasured  bool     `json:"unmeasured"`
	Published   string   `json:"published"`
}

type consensusRecord struct {
	ValidAfter       string           `json:"valid_after"`
	FreshUntil       string           `json:"fresh_until"`
	BandwidthWeights map[string]int64 `json:"bandwidth_weights"`
	Params           map[string]int64 `json:"params"`
	Relays           []statusRecord   `json:"relays"`
}

// parseTime returns the zero time for an empty value.
func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(TimeLayout, v, time.UTC)
}

func (r *descriptorRecord) toModel() (*models.RelayDescriptor, error) {
	if r.Fingerprint == "" {
		return nil, fmt.Errorf("%w: descriptor without fingerprint", ErrBadRecord)
	}
	published, err := parseTime(r.Published)
	if err != nil || published.IsZero() {
		return nil, fmt.Errorf("%w: descriptor %s has invalid published time %q", ErrBadRecord, r.Fingerprint, r.Published)
	}
	return &models.RelayDescriptor{
		Fingerprint:       r.Fingerprint,
		Published:         published,
		Hibernating:       r.Hibernating,
		Nickname:          r.Nickname,
		Family:            r.Family,
		Address:           r.Address,
		ExitPolicy:        r.ExitPolicy,
		AverageBandwidth:  r.AverageBandwidth,
		ObservedBandwidth: r.ObservedBandwidth,
		BurstBandwidth:    r.BurstBandwidth,
		Uptime:            r.Uptime,
	}, nil
}

func (r *consensusRecord) toModel() (*models.ConsensusDocument, error) {
	validAfter, err := parseTime(r.ValidAfter)
	if err != nil {
		return nil, fmt.Errorf("%w: valid-after %q", ErrBadRecord, r.ValidAfter)
	}
	freshUntil, err := parseTime(r.FreshUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: fresh-until %q", ErrBadRecord, r.FreshUntil)
	}

	doc := &models.ConsensusDocument{
		ValidAfter:       validAfter,
		FreshUntil:       freshUntil,
		BandwidthWeights: r.BandwidthWeights,
		Params:           r.Params,
		Entries:          make([]models.RouterStatusEntry, 0, len(r.Relays)),
	}
	for _, s := range r.Relays {
		published, err := parseTime(s.Published)
		if err != nil {
			return nil, fmt.Errorf("%w: relay %s published %q", ErrBadRecord, s.Fingerprint, s.Published)
		}
		flags := make([]models.Flag, len(s.Flags))
		for i, f := range s.Flags {
			flags[i] = models.Flag(f)
		}
		doc.Entries = append(doc.Entries, models.RouterStatusEntry{
			Fingerprint: s.Fingerprint,
			Nickname:    s.Nickname,
			Flags:       flags,
			Bandwidth:   s.Bandwidth,
			Unmeasured:  s.Unmeasured,
			Published:   published,
		})
	}
	return doc, nil
}
