package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/launchpad-dev/launchpad/internal/driver"
)

// loadAndDistribute reads the configured executable and writes it to
// either every enabled core's instruction memory (SharedNothing,
// SharedDataOnly — each core has its own instruction space) or once to
// the shared instruction memory (SharedInstrOnly, SharedEverything),
// per §4.5. Must be called under s.deviceMu.
func (s *Session) loadAndDistribute() error {
	path := s.cfg.ExecutablePath()
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading executable %s: %w", s.cfg.ExecutablePath(), err)
	}

	switch s.deviceCfg.ArchitectureType {
	case driver.SharedNothing, driver.SharedDataOnly:
		for _, i := range s.cfg.EnabledCores().Indices(s.deviceCfg.NumberCores) {
			s.checkFatal(fmt.Sprintf("writing instructions to core %d", i), s.drv.WriteCoreInstructions(i, 0, data))
		}
	default: // SharedInstrOnly, SharedEverything
		s.checkFatal("writing shared instruction memory", s.drv.WriteInstructions(0, data))
	}
	return nil
}

// startCores starts every enabled, in-range core and returns how many
// were started. The original C source's bulk "start all cores" path is
// dead code (guarded by `1==2`, per §9's open question); this
// implementation always iterates per-core, which spec.md explicitly
// permits and which keeps cores_active bookkeeping exact regardless of
// whether the device's core count matches the enabled set. Must be
// called under s.deviceMu.
func (s *Session) startCores() (int, error) {
	started := 0
	for _, i := range s.cfg.EnabledCores().Indices(s.deviceCfg.NumberCores) {
		if st := s.drv.StartCore(i); st != driver.Success {
			return started, fmt.Errorf("starting core %d: %s", i, st)
		}
		s.status.setCoreActive(i, true)
		started++
	}
	return started, nil
}

// stopCores stops every core device-wide and clears cores_active. Must be
// called under s.deviceMu.
func (s *Session) stopCores() error {
	if st := s.drv.StopAllCores(); st != driver.Success {
		return fmt.Errorf("stopping cores: %s", st)
	}
	s.status.clearAllCoresActive()
	return nil
}
