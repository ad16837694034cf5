package consensus

import (
	"errors"
	"iter"

	"netstate/models"
)

var (
	ErrMissingValidAfter = errors.New("consensus has no valid-after time")
	ErrMissingFreshUntil = errors.New("consensus has no fresh-until time")
)

const weightScaleParam = "bwweightscale"

// PeriodReader exposes one consensus document as metadata plus a stream of status entries.
type PeriodReader struct {
	doc           *models.ConsensusDocument
	mustBeRunning bool
}

// NewPeriodReader wraps doc. With mustBeRunning set, entries without the Running flag are dropped.
func NewPeriodReader(doc *models.ConsensusDocument, mustBeRunning bool) *PeriodReader {
	return &PeriodReader{doc: doc, mustBeRunning: mustBeRunning}
}

// Metadata extracts the validity window and weight parameters.
func (r *PeriodReader) Metadata() (models.ConsensusMetadata, error) {
	if r.doc.ValidAfter.IsZero() {
		return models.ConsensusMetadata{}, ErrMissingValidAfter
	}
	if r.doc.FreshUntil.IsZero() {
		return models.ConsensusMetadata{}, ErrMissingFreshUntil
	}

	scale, ok := r.doc.Params[weightScaleParam]
	if !ok || scale <= 0 {
		scale = models.DefaultWeightScale
	}

	return models.ConsensusMetadata{
		ValidAfter:       r.doc.ValidAfter,
		FreshUntil:       r.doc.FreshUntil,
		BandwidthWeights: r.doc.BandwidthWeights,
		WeightScale:      scale,
	}, nil
}

// Entries yields status entries in document order.
func (r *PeriodReader) Entries() iter.Seq[models.RouterStatusEntry] {
	return func(yield func(models.RouterStatusEntry) bool) {
		for i := range r.doc.Entries {
			e := r.doc.Entries[i]
			if r.mustBeRunning && !e.HasFlag(models.FlagRunning) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}
