package index

import (
	"sort"

	"netstate/models"
)

// Entry is one descriptor of a relay keyed by its publish time in unix seconds.
type Entry struct {
	Published  int64
	Descriptor *models.RelayDescriptor
}

// DescriptorIndex keeps every descriptor seen for each fingerprint ordered by publish time.
// It only grows; the whole index is loaded before any consensus is processed.
type DescriptorIndex struct {
	byFingerprint map[string][]Entry
	count         int
}

func NewDescriptorIndex() *DescriptorIndex {
	return &DescriptorIndex{byFingerprint: make(map[string][]Entry)}
}

// Add inserts a descriptor. A descriptor with the same fingerprint and publish time replaces the earlier one.
func (x *DescriptorIndex) Add(d *models.RelayDescriptor) {
	ts := d.Published.Unix()
	entries := x.byFingerprint[d.Fingerprint]

	i := sort.Search(len(entries), func(i int) bool { return entries[i].Published >= ts })
	if i < len(entries) && entries[i].Published == ts {
		entries[i].Descriptor = d
		return
	}

	entries = append(entries, Entry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = Entry{Published: ts, Descriptor: d}
	x.byFingerprint[d.Fingerprint] = entries
	x.count++
}

// Lookup returns the descriptors of a relay in ascending publish time. The slice must not be modified.
func (x *DescriptorIndex) Lookup(fingerprint string) []Entry {
	return x.byFingerprint[fingerprint]
}

// Len is the number of stored descriptors.
func (x *DescriptorIndex) Len() int {
	return x.count
}

// Relays is the number of distinct fingerprints.
func (x *DescriptorIndex) Relays() int {
	return len(x.byFingerprint)
}
