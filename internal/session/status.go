package session

import (
	"sync/atomic"

	"github.com/launchpad-dev/launchpad/internal/driver"
)

// DeviceStatus is runtime state, shared between the Session Controller and
// the UART Poller. initialised/running are single-writer (the Session
// Controller) but readable from the poller without
// synchronisation beyond atomics — see spec.md §5's shared-resource
// policy: the poller's reads after a :stop are gated by pollEnabled, and
// all writes precede any work the poller could observe.
type DeviceStatus struct {
	initialised atomic.Bool
	running     atomic.Bool
	coresActive [driver.MaxCores]atomic.Bool
}

// NewDeviceStatus returns a status with everything false/idle.
func NewDeviceStatus() *DeviceStatus {
	return &DeviceStatus{}
}

func (d *DeviceStatus) Initialised() bool      { return d.initialised.Load() }
func (d *DeviceStatus) setInitialised(v bool)  { d.initialised.Store(v) }
func (d *DeviceStatus) Running() bool          { return d.running.Load() }
func (d *DeviceStatus) setRunning(v bool)      { d.running.Store(v) }

func (d *DeviceStatus) CoreActive(i int) bool {
	if i < 0 || i >= driver.MaxCores {
		return false
	}
	return d.coresActive[i].Load()
}

func (d *DeviceStatus) setCoreActive(i int, v bool) {
	if i >= 0 && i < driver.MaxCores {
		d.coresActive[i].Store(v)
	}
}

// clearAllCoresActive sets every core's active flag to false, used by
// :stop and :reset.
func (d *DeviceStatus) clearAllCoresActive() {
	for i := range d.coresActive {
		d.coresActive[i].Store(false)
	}
}
