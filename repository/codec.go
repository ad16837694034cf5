package repository

import (
	"encoding/json"
	"fmt"
	"io"

	"netstate/models"
)

// consensusSection is the first object of an artifact.
type consensusSection struct {
	Metadata models.ConsensusMetadata            `json:"metadata"`
	Relays   map[string]models.RouterStatusEntry `json:"relays"`
}

// Encode writes the snapshot as three consecutive JSON values: the consensus with its relays,
// the selected descriptors and the hibernation events.
func Encode(w io.Writer, snap *models.NetworkStateSnapshot) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(consensusSection{Metadata: snap.Metadata, Relays: snap.Relays}); err != nil {
		return fmt.Errorf("encode consensus: %w", err)
	}
	if err := enc.Encode(snap.Descriptors); err != nil {
		return fmt.Errorf("encode descriptors: %w", err)
	}
	events := snap.Events
	if events == nil {
		events = []models.HibernationEvent{}
	}
	if err := enc.Encode(events); err != nil {
		return fmt.Errorf("encode hibernation events: %w", err)
	}
	return nil
}

// Decode reads the three values written by Encode, in the same order.
func Decode(r io.Reader) (*models.NetworkStateSnapshot, error) {
	dec := json.NewDecoder(r)

	var cons consensusSection
	if err := dec.Decode(&cons); err != nil {
		return nil, fmt.Errorf("%w: consensus: %w", ErrCorrupt, err)
	}
	snap := &models.NetworkStateSnapshot{Metadata: cons.Metadata, Relays: cons.Relays}
	if err := dec.Decode(&snap.Descriptors); err != nil {
		return nil, fmt.Errorf("%w: descriptors: %w", ErrCorrupt, err)
	}
	if err := dec.Decode(&snap.Events); err != nil {
		return nil, fmt.Errorf("%w: hibernation events: %w", ErrCorrupt, err)
	}

	if snap.Metadata.WeightScale == 0 {
		snap.Metadata.WeightScale = models.DefaultWeightScale
	}
	if snap.Relays == nil {
		snap.Relays = map[string]models.RouterStatusEntry{}
	}
	if snap.Descriptors == nil {
		snap.Descriptors = map[string]models.SlimDescriptor{}
	}
	return snap, nil
}
