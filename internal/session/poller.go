package session

import (
	"fmt"
	"time"

	"github.com/launchpad-dev/launchpad/internal/driver"
)

// pollInterval is the spin-sleep between passes over every core when no
// backend data is waiting. The original C source busy-polls; this adds a
// small sleep so the goroutine doesn't pin a CPU when idle, which costs
// nothing against the latency properties S1/S2 care about.
const pollInterval = 2 * time.Millisecond

// RunPoller is the UART Poller background worker of §4.2. It runs until
// quit is closed. On each pass it visits every enabled, in-range core;
// for a core with data waiting it drains one byte at a time into that
// core's OutputLine (or, in single-core mode, straight to the screen),
// honouring the three independent flags of §5:
//
//   - pollEnabled gates whether driver calls happen at all (false while
//     cores are stopped or being reconfigured);
//   - paintOk gates whether completed lines go straight to the screen or
//     are staged in the shared pause buffer;
//   - discardPausedOutput, checked only at the moment paintOk flips back
//     to true, decides whether staged output is drained to the screen or
//     thrown away (§9's "paused output drained vs. discarded" contract).
func (s *Session) RunPoller() {
	for {
		select {
		case <-s.quit:
			return
		default:
		}

		if !s.flags.pollEnabled.Load() {
			s.drainOrDiscardPause()
			time.Sleep(pollInterval)
			continue
		}

		enabled := s.cfg.EnabledCores().Indices(s.deviceCfg.NumberCores)
		s.multiCore = len(enabled) > 1
		any := false
		for _, core := range enabled {
			if s.pollOneCore(core) {
				any = true
			}
		}
		s.drainOrDiscardPause()
		if !any {
			time.Sleep(pollInterval)
		}
	}
}

// pollOneCore drains at most one waiting byte from core's UART. Returns
// true if a byte was read.
func (s *Session) pollOneCore(core int) bool {
	s.deviceMu.Lock()
	has, st := s.drv.UARTHasData(core)
	if st != driver.Success {
		s.deviceMu.Unlock()
		s.checkFatal("uart has data", st)
		return false
	}
	if !has {
		s.deviceMu.Unlock()
		return false
	}
	b, st := s.drv.ReadUART(core)
	s.deviceMu.Unlock()
	if st != driver.Success {
		s.checkFatal("read uart", st)
		return false
	}

	s.emit(core, b)
	return true
}

// emit routes one output byte for core through its OutputLine (multi-core
// mode) or passes it straight through (single-core mode), then stages or
// paints the result per paintOk, per §4.2 and §9's "[i]: " prefixing note.
func (s *Session) emit(core int, b byte) {
	if !s.multiCore {
		if b == '\r' {
			return
		}
		s.output([]byte{b})
		return
	}

	res := s.lines[core].Write(b)
	if res.Overflowed {
		s.output([]byte(fmt.Sprintf("[%d]: WARNING output line truncated, buffer full\n", core)))
		return
	}
	if res.Flushed {
		s.output([]byte(fmt.Sprintf("[%d]: %s\n", core, res.Line)))
	}
}

// output sends assembled bytes either straight to the screen (paintOk) or
// into the shared pause buffer (painting suspended).
func (s *Session) output(data []byte) {
	if s.flags.paintOk.Load() {
		for _, b := range data {
			s.screen.WriteStreamByte(b)
		}
		return
	}
	s.pause.Stage(data)
}

// drainOrDiscardPause is called once per poll pass: if painting has been
// re-enabled and there is staged output, it is either flushed to the
// screen or thrown away depending on discardPausedOutput, which is reset
// once consumed.
func (s *Session) drainOrDiscardPause() {
	if !s.flags.paintOk.Load() || s.pause.Len() == 0 {
		return
	}
	if s.flags.discardPausedOutput.Load() {
		s.pause.Discard()
		s.flags.discardPausedOutput.Store(false)
		return
	}
	data := s.pause.Drain()
	for _, b := range data {
		s.screen.WriteStreamByte(b)
	}
}
