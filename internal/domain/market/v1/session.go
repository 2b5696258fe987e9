package marketv1

// SessionState represents whether the market accepts order flow.
type SessionState string

const (
	// SessionOpen is the trading window of a cycle.
	SessionOpen SessionState = "open"
	// SessionClosed is the after-hours window of a cycle.
	SessionClosed SessionState = "closed"
)

const (
	// TicksPerSession is the number of open ticks in one trading cycle.
	TicksPerSession int64 = 390
	// TicksPerCycle is the full length of one trading cycle, open plus closed.
	TicksPerCycle int64 = 630
)

// StateAtTick derives the session state purely from the tick counter:
// ticks [0, 390) of every 630-tick cycle are open, the rest are closed.
func StateAtTick(tick int64) SessionState {
	if IsOpen(tick) {
		return SessionOpen
	}
	return SessionClosed
}

// IsOpen reports whether the market is open at the given tick.
func IsOpen(tick int64) bool {
	if tick < 0 {
		return false
	}
	return tick%TicksPerCycle < TicksPerSession
}

// IsSessionBoundary reports whether the given tick is the first tick of an
// open or closed window, i.e. the state differs from the previous tick's.
func IsSessionBoundary(tick int64) bool {
	if tick <= 0 {
		return tick == 0
	}
	return IsOpen(tick) != IsOpen(tick-1)
}
