package snapshot

import (
	"iter"
	"sort"
	"time"

	"netstate/index"
	"netstate/models"
)

// DefaultMaxAge bounds how old a descriptor may be at valid-after.
const DefaultMaxAge = 48 * time.Hour

// DescriptorLookup is the read side of the descriptor index.
type DescriptorLookup interface {
	Lookup(fingerprint string) []index.Entry
}

// PeriodSource is one consensus period.
type PeriodSource interface {
	Metadata() (models.ConsensusMetadata, error)
	Entries() iter.Seq[models.RouterStatusEntry]
}

// Stats counts relays with and without a selected descriptor.
type Stats struct {
	Found    int
	NotFound int
}

// Builder merges consensus periods with the descriptor index.
type Builder struct {
	descriptors DescriptorLookup
	maxAge      int64
	policy      InitialStatusPolicy
}

type Option func(*Builder)

func WithMaxAge(d time.Duration) Option {
	return func(b *Builder) { b.maxAge = int64(d / time.Second) }
}

func WithInitialStatusPolicy(p InitialStatusPolicy) Option {
	return func(b *Builder) { b.policy = p }
}

func NewBuilder(descriptors DescriptorLookup, opts ...Option) *Builder {
	b := &Builder{
		descriptors: descriptors,
		maxAge:      int64(DefaultMaxAge / time.Second),
		policy:      PolicyFallback,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the snapshot of one period. Metadata errors and ErrEmptyPeriod are returned as is; an
// *InconsistentDescriptorsError means the input data is broken and the batch must stop.
func (b *Builder) Build(period PeriodSource) (*models.NetworkStateSnapshot, Stats, error) {
	var stats Stats

	md, err := period.Metadata()
	if err != nil {
		return nil, stats, err
	}
	w := Window{ValidAfter: md.ValidAfter.Unix(), FreshUntil: md.FreshUntil.Unix()}

	snap := &models.NetworkStateSnapshot{
		Metadata:    md,
		Relays:      make(map[string]models.RouterStatusEntry),
		Descriptors: make(map[string]models.SlimDescriptor),
	}

	for r := range period.Entries() {
		snap.Relays[r.Fingerprint] = r

		best, events, err := b.resolve(&r, w)
		if err != nil {
			return nil, stats, err
		}
		if best == nil {
			stats.NotFound++
			continue
		}
		stats.Found++
		snap.Descriptors[r.Fingerprint] = best.Slim()
		snap.Events = append(snap.Events, events...)
	}

	if len(snap.Relays) == 0 {
		return nil, stats, ErrEmptyPeriod
	}

	sort.SliceStable(snap.Events, func(i, j int) bool {
		return snap.Events[i].Offset > snap.Events[j].Offset
	})
	return snap, stats, nil
}

func (b *Builder) resolve(r *models.RouterStatusEntry, w Window) (*models.RelayDescriptor, []models.HibernationEvent, error) {
	entries := b.descriptors.Lookup(r.Fingerprint)
	pubTime := r.Published.Unix()

	best, ok := SelectBest(entries, w, pubTime, b.maxAge)
	if !ok {
		return nil, nil, nil
	}

	initial, ok := SelectInitialStatus(entries, w.ValidAfter, b.policy)
	if !ok {
		return nil, nil, &InconsistentDescriptorsError{
			Fingerprint: r.Fingerprint,
			Nickname:    r.Nickname,
			Published:   pubTime,
			Selected:    best.Published,
			ValidAfter:  w.ValidAfter,
		}
	}

	return best.Descriptor, RelayTimeline(r.Fingerprint, initial, FreshPeriod(entries, w), w.ValidAfter), nil
}
