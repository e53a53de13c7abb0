// Package session implements Launchpad's interactive UART session: the
// Session Controller, UART Poller, Command Processor, and Screen Manager
// of spec.md §4, cooperating over the shared state of §3.
package session

import (
	"fmt"
	"log"
	"sync"

	"github.com/launchpad-dev/launchpad/internal/config"
	"github.com/launchpad-dev/launchpad/internal/driver"
)

// Session owns every piece of shared state spec.md §3 and §5 describe:
// the device driver (behind one lock), the user-intent configuration, the
// runtime status, the per-core line buffers, the pause buffer, and the
// three independent atomic flags.
type Session struct {
	drv       driver.Driver
	deviceCfg driver.DeviceConfiguration
	cfg       *config.LaunchpadConfig
	status    *DeviceStatus
	flags     *flags
	pause     *PauseBuffer
	screen    *Screen
	log       *log.Logger

	deviceMu sync.Mutex // serialises every driver call, per §5

	lines     [driver.MaxCores]OutputLine // only touched by the poller
	multiCore bool                        // |enabled_cores| > 1, recomputed on each poller pass

	baseDir string // directory load_and_distribute resolves executable paths against

	quit chan struct{}
}

// New constructs a Session. deviceCfg must already have been read from drv
// via Initialise+GetConfiguration (done once at startup, outside the
// interactive loop, per §3's "immutable for the session lifetime").
func New(drv driver.Driver, deviceCfg driver.DeviceConfiguration, cfg *config.LaunchpadConfig, scr *Screen, logger *log.Logger, baseDir string) *Session {
	s := &Session{
		drv:       drv,
		deviceCfg: deviceCfg,
		cfg:       cfg,
		status:    NewDeviceStatus(),
		flags:     newFlags(),
		pause:     NewPauseBuffer(),
		screen:    scr,
		log:       logger,
		baseDir:   baseDir,
		quit:      make(chan struct{}),
	}
	// New's precondition is that drv has already been successfully
	// Initialise()'d (see the doc comment above): §3's "initialised: true
	// after successful driver init" holds from construction onward.
	s.status.setInitialised(true)
	return s
}

// fatal tears down the terminal and aborts the process, per §7's policy
// for driver failures: "restore terminal, diagnostic to stderr, abort."
func (s *Session) fatal(op string, st driver.Status) {
	if s.screen != nil {
		s.screen.Close()
	}
	s.log.Fatalf("fatal driver error during %s: %s", op, st)
}

// checkFatal aborts the process if st is not Success, mirroring the
// original C source's check_device_status helper. Driver calls made from
// the session pass through here, except the start/stop sequences of
// lifecycle.go, whose failures doStart/doStop hand to fatal directly.
func (s *Session) checkFatal(op string, st driver.Status) {
	if st != driver.Success {
		s.fatal(op, st)
	}
}

func (s *Session) numActiveEnabled() int {
	return s.cfg.EnabledCores().Count(s.deviceCfg.NumberCores)
}

// bannerLines returns the up-to-three advisory lines §4.1 prints at
// startup, in order: idle cores, no executable, no enabled cores.
func (s *Session) bannerLines() []string {
	var lines []string
	if !s.status.Running() {
		lines = append(lines, "Launchpad started but cores idle, use ':h' command for help")
	}
	if s.cfg.ExecutablePath() == "" {
		lines = append(lines, "No executable specified, provide one via the ':exe' command")
	}
	if s.numActiveEnabled() == 0 {
		lines = append(lines, "No cores enabled, enable these via the ':e' or ':c' commands")
	}
	return lines
}

func coreWarning(core, numCores int) string {
	return fmt.Sprintf("Core %d enabled but the device only has %d cores, will be ignored", core, numCores)
}
