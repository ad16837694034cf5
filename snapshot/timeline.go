package snapshot

import (
	"netstate/index"
	"netstate/logger"
	"netstate/models"

	"go.uber.org/zap"
)

// RelayTimeline reconstructs the hibernation changes of one relay. The first event is the
// status at window start; each further event is a flip seen in fresh, which must be ascending.
func RelayTimeline(fingerprint string, initial index.Entry, fresh []index.Entry, validAfter int64) []models.HibernationEvent {
	current := initial.Descriptor.Hibernating
	events := []models.HibernationEvent{{Offset: 0, Fingerprint: fingerprint, Hibernating: current}}
	if current {
		logger.Logger.Debug("Relay hibernating at period start",
			zap.String("nickname", initial.Descriptor.Nickname), zap.String("fingerprint", fingerprint))
	}

	for _, e := range fresh {
		if e.Descriptor.Hibernating == current {
			continue
		}
		current = e.Descriptor.Hibernating
		events = append(events, models.HibernationEvent{
			Offset:      e.Published - validAfter,
			Fingerprint: fingerprint,
			Hibernating: current,
		})

		msg := "Relay stopped hibernating"
		if current {
			msg = "Relay started hibernating"
		}
		logger.Logger.Debug(msg, zap.String("nickname", e.Descriptor.Nickname),
			zap.String("fingerprint", fingerprint), zap.Int64("published", e.Published))
	}
	return events
}
