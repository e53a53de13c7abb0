// Package simdriver is an in-memory Driver implementation used for
// development and for the session package's tests. It requires no real
// hardware: core "execution" is simulated by an operator (or a test)
// injecting UART bytes with Inject, mirroring the way the original
// device's cores would produce console output.
//
// Grounded on the shadow-register / mutex-guarded worker table pattern in
// IntuitionEngine's coprocessor_manager.go: a fixed-size table of worker
// state indexed by core, one mutex guarding all of it, and a start/stop
// lifecycle per entry.
package simdriver

import (
	"fmt"
	"sync"

	"github.com/launchpad-dev/launchpad/internal/driver"
)

type coreState struct {
	active    bool
	uartOut   []byte // bytes the core has "produced", FIFO
	loadedLen int
}

// SimDriver is a Driver backed by in-process state. Safe for concurrent
// use; every exported method that touches mutable state takes the single
// internal mutex, same as the real device would serialise access through
// its register window. The remaining methods only validate the core index
// against numCores, which never changes after New.
type SimDriver struct {
	mu          sync.Mutex
	initialised bool
	numCores    int
	arch        driver.ArchitectureType
	cores       [driver.MaxCores]coreState
}

// New creates a simulated device with numCores cores of the given
// architecture type. numCores must be <= driver.MaxCores.
func New(numCores int, arch driver.ArchitectureType) *SimDriver {
	return &SimDriver{numCores: numCores, arch: arch}
}

func (d *SimDriver) Initialise() driver.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initialised = true
	return driver.Success
}

func (d *SimDriver) Finalise() driver.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initialised = false
	return driver.Success
}

func (d *SimDriver) Reset() driver.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.cores[:d.numCores] {
		d.cores[i] = coreState{}
	}
	d.initialised = false
	return driver.Success
}

func (d *SimDriver) GetConfiguration() (driver.DeviceConfiguration, driver.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cfg := driver.DeviceConfiguration{
		DeviceName:             "launchpad-sim",
		CPUName:                "soft-core-sim",
		NumberCores:            d.numCores,
		ClockFreqMHz:           100,
		PCIeBarWindow:          0,
		Revision:               1,
		Version:                'A',
		InstructionSpaceSizeMB: 16,
		PerCoreDataSpaceMB:     4,
		SharedDataSpaceKB:      512,
		ArchitectureType:       d.arch,
	}
	cfg.DDRBankMapping = make([]int, d.numCores)
	cfg.DDRBaseAddr = make([]uint64, d.numCores)
	for i := 0; i < d.numCores; i++ {
		cfg.DDRBankMapping[i] = i % 4
		cfg.DDRBaseAddr[i] = uint64(i) * 0x10000000
	}
	return cfg, driver.Success
}

func (d *SimDriver) GetHostBoardStatus() (driver.HostBoardStatus, driver.Status) {
	return driver.HostBoardStatus{
		TempCelsius:    42.0,
		PowerDrawWatts: 12.5,
		SerialNumber:   1,
		BoardType:      driver.BoardPA100,
	}, driver.Success
}

func (d *SimDriver) coreOK(core int) bool {
	return core >= 0 && core < d.numCores
}

func (d *SimDriver) StartCore(core int) driver.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.coreOK(core) {
		return driver.UnknownCore
	}
	if d.cores[core].active {
		return driver.AlreadyRunning
	}
	d.cores[core].active = true
	return driver.Success
}

func (d *SimDriver) StartAllCores() driver.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < d.numCores; i++ {
		d.cores[i].active = true
	}
	return driver.Success
}

func (d *SimDriver) StopCore(core int) driver.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.coreOK(core) {
		return driver.UnknownCore
	}
	d.cores[core].active = false
	return driver.Success
}

func (d *SimDriver) StopAllCores() driver.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := 0; i < d.numCores; i++ {
		d.cores[i].active = false
	}
	return driver.Success
}

func (d *SimDriver) WriteInstructions(addr uint64, data []byte) driver.Status {
	return driver.Success
}

func (d *SimDriver) WriteData(addr uint64, data []byte) driver.Status {
	return driver.Success
}

func (d *SimDriver) ReadData(addr uint64, buf []byte) driver.Status {
	return driver.Success
}

func (d *SimDriver) WriteCoreInstructions(core int, addr uint64, data []byte) driver.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.coreOK(core) {
		return driver.UnknownCore
	}
	d.cores[core].loadedLen = len(data)
	return driver.Success
}

func (d *SimDriver) WriteCoreData(core int, addr uint64, data []byte) driver.Status {
	if !d.coreOK(core) {
		return driver.UnknownCore
	}
	return driver.Success
}

func (d *SimDriver) ReadCoreData(core int, addr uint64, buf []byte) driver.Status {
	if !d.coreOK(core) {
		return driver.UnknownCore
	}
	return driver.Success
}

func (d *SimDriver) ReadGPIO(core, pin int) (byte, driver.Status) {
	if !d.coreOK(core) {
		return 0, driver.UnknownCore
	}
	return 0, driver.Success
}

func (d *SimDriver) WriteGPIO(core, pin int, value byte) driver.Status {
	if !d.coreOK(core) {
		return driver.UnknownCore
	}
	return driver.Success
}

func (d *SimDriver) UARTHasData(core int) (bool, driver.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.coreOK(core) {
		return false, driver.UnknownCore
	}
	return len(d.cores[core].uartOut) > 0, driver.Success
}

func (d *SimDriver) ReadUART(core int) (byte, driver.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.coreOK(core) {
		return 0, driver.UnknownCore
	}
	c := &d.cores[core]
	if len(c.uartOut) == 0 {
		return 0, driver.Error
	}
	b := c.uartOut[0]
	c.uartOut = c.uartOut[1:]
	return b, driver.Success
}

// WriteUART delivers a keystroke to the core's input. The simulator has no
// program semantics to react to input, so this is a no-op beyond
// validating the core index — real firmware would consume it.
func (d *SimDriver) WriteUART(core int, b byte) driver.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.coreOK(core) {
		return driver.UnknownCore
	}
	return driver.Success
}

func (d *SimDriver) RaiseInterrupt(core, irq int) driver.Status {
	if !d.coreOK(core) {
		return driver.UnknownCore
	}
	return driver.Success
}

// Inject appends bytes to core's simulated UART output queue, as if the
// core's program had just written them. Used by tests to drive scenarios
// without real hardware; the sim backend of cmd/launchpad never calls it.
func (d *SimDriver) Inject(core int, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.coreOK(core) {
		return fmt.Errorf("simdriver: inject: core %d out of range (have %d cores)", core, d.numCores)
	}
	d.cores[core].uartOut = append(d.cores[core].uartOut, data...)
	return nil
}
