package classify

import "netstate/models"

// Result holds the role buckets of the running relays of one consensus and their bandwidth sums.
// Total is the sum over all classified relays, so Total == Guard+Exit+GuardExit+Middle.
type Result struct {
	Total     int64
	Guard     int64
	Exit      int64
	GuardExit int64
	Middle    int64

	Guards     map[string]models.RouterStatusEntry
	GuardExits map[string]models.RouterStatusEntry
	Middles    map[string]models.RouterStatusEntry
	Exits      map[string]models.RouterStatusEntry
}

// Relays buckets relays by position. Relays without the Running flag are ignored and
// an exit flagged BadExit counts as a non-exit.
func Relays(relays map[string]models.RouterStatusEntry) Result {
	res := Result{
		Guards:     make(map[string]models.RouterStatusEntry),
		GuardExits: make(map[string]models.RouterStatusEntry),
		Middles:    make(map[string]models.RouterStatusEntry),
		Exits:      make(map[string]models.RouterStatusEntry),
	}

	for fp, r := range relays {
		if !r.HasFlag(models.FlagRunning) {
			continue
		}
		isGuard := r.HasFlag(models.FlagGuard)
		isExit := r.HasFlag(models.FlagExit) && !r.HasFlag(models.FlagBadExit)
		res.Total += r.Bandwidth

		switch {
		case isGuard && !isExit:
			res.Guard += r.Bandwidth
			res.Guards[fp] = r
		case isExit && !isGuard:
			res.Exit += r.Bandwidth
			res.Exits[fp] = r
		case isGuard && isExit:
			res.GuardExit += r.Bandwidth
			res.GuardExits[fp] = r
		default:
			res.Middle += r.Bandwidth
			res.Middles[fp] = r
		}
	}
	return res
}
