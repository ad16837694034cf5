package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "netstate"

// Counters observed while processing a batch.
type Counters struct {
	RelaysFound       prometheus.Counter
	RelaysNotFound    prometheus.Counter
	DocumentsWritten  prometheus.Counter
	DocumentsSkipped  *prometheus.CounterVec
	DescriptorsLoaded prometheus.Counter
}

// NewCounters creates the counters and registers them with reg when it is not nil.
func NewCounters(reg prometheus.Registerer) *Counters {
	c := &Counters{
		RelaysFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relays_found_total",
			Help:      "relays of a consensus with a selected descriptor",
		}),
		RelaysNotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relays_not_found_total",
			Help:      "relays of a consensus without an eligible descriptor",
		}),
		DocumentsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_written_total",
			Help:      "network state snapshots persisted",
		}),
		DocumentsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_skipped_total",
			Help:      "consensus documents skipped",
		}, []string{"reason"}),
		DescriptorsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "descriptors_loaded_total",
			Help:      "relay descriptors added to the index",
		}),
	}
	if reg != nil {
		reg.MustRegister(c.RelaysFound, c.RelaysNotFound, c.DocumentsWritten, c.DocumentsSkipped, c.DescriptorsLoaded)
	}
	return c
}
