package snapshot

import (
	"errors"
	"fmt"
)

// ErrInconsistentDescriptors marks a relay whose timeline could not be anchored although a
// descriptor was selected for it. It aborts a batch.
var ErrInconsistentDescriptors = errors.New("inconsistent descriptors")

// ErrEmptyPeriod is returned for a period that yields no status entries.
var ErrEmptyPeriod = errors.New("consensus period has no relays")

type InconsistentDescriptorsError struct {
	Fingerprint string
	Nickname    string
	Published   int64 // consensus-recorded publish time
	Selected    int64 // publish time of the selected descriptor
	ValidAfter  int64
}

func (e *InconsistentDescriptorsError) Error() string {
	return fmt.Sprintf("%s: relay %s:%s has descriptor %d before published time %d "+
		"but none for the initial hibernation status of the period starting %d",
		ErrInconsistentDescriptors, e.Nickname, e.Fingerprint, e.Selected, e.Published, e.ValidAfter)
}

func (e *InconsistentDescriptorsError) Is(target error) bool {
	return target == ErrInconsistentDescriptors
}
