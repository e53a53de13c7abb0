package session

import "sync/atomic"

// flags holds the three independent atomic signals §9's design notes call
// out explicitly: distinct lifetimes, deliberately not coalesced into one
// mode enum.
//
//   - paintOk: false while the operator is in Command mode (and briefly
//     while a panel paints); gates both the poller's main-stream paints
//     and the pause-buffer drain.
//   - pollEnabled: false while cores are stopped or mid-reset, so the
//     poller skips driver calls entirely rather than hammering a device
//     with no active cores.
//   - discardPausedOutput: true immediately after :stop, so any output
//     staged in the pause buffer from the tail end of the previous run is
//     dropped instead of spilling into the next session.
type flags struct {
	paintOk             atomic.Bool
	pollEnabled         atomic.Bool
	discardPausedOutput atomic.Bool
}

func newFlags() *flags {
	f := &flags{}
	f.paintOk.Store(true)
	f.pollEnabled.Store(false)
	return f
}
