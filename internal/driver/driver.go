// Package driver defines the device driver contract Launchpad consumes.
//
// A driver is a fixed set of operations against a multi-core soft-CPU
// accelerator: initialisation, core lifecycle, instruction/data memory
// access, GPIO, UART, and interrupts. Every method returns a Status; any
// non-Success status observed by the session is fatal (see §7 of the
// design notes carried in the project README-equivalent: SPEC_FULL.md).
package driver

import "fmt"

// Status mirrors the original C driver's LP_STATUS_CODE values.
type Status int

const (
	Success Status = iota
	Error
	NotInitialised
	AlreadyRunning
	AlreadyStopped
	NotImplemented
	UnknownCore
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	case NotInitialised:
		return "not initialised"
	case AlreadyRunning:
		return "already running"
	case AlreadyStopped:
		return "already stopped"
	case NotImplemented:
		return "not implemented"
	case UnknownCore:
		return "unknown core"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// StatusError wraps a non-Success Status as an error, for driver calls
// made from contexts that want a Go error rather than a raw code.
type StatusError struct {
	Op     string
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Status)
}

// Check wraps st as an error if it isn't Success, tagging it with op.
func Check(op string, st Status) error {
	if st == Success {
		return nil
	}
	return &StatusError{Op: op, Status: st}
}

// MaxCores is the largest core index space Launchpad will address,
// independent of any particular device's actual core count.
const MaxCores = 128

// ArchitectureType describes how cores share instruction/data memory.
type ArchitectureType int

const (
	SharedNothing ArchitectureType = iota
	SharedInstrOnly
	SharedDataOnly
	SharedEverything
)

func (a ArchitectureType) String() string {
	switch a {
	case SharedNothing:
		return "shared-nothing"
	case SharedInstrOnly:
		return "shared-instruction-only"
	case SharedDataOnly:
		return "shared-data-only"
	case SharedEverything:
		return "shared-everything"
	default:
		return "unknown"
	}
}

// BoardType identifies the physical host board.
type BoardType int

const (
	BoardPA100 BoardType = iota
	BoardPA101
	BoardUnknown
)

func (b BoardType) String() string {
	switch b {
	case BoardPA100:
		return "PA100"
	case BoardPA101:
		return "PA101"
	default:
		return "unknown"
	}
}

// DeviceConfiguration is read once at startup and immutable thereafter.
type DeviceConfiguration struct {
	DeviceName     string
	CPUName        string
	NumberCores    int
	ClockFreqMHz   int
	PCIeBarWindow  int
	Revision       int
	Version        byte
	DDRBankMapping []int
	DDRBaseAddr    []uint64

	InstructionSpaceSizeMB  int
	PerCoreDataSpaceMB      int
	SharedDataSpaceKB       int
	ArchitectureType        ArchitectureType
}

// HostBoardStatus is a point-in-time read of the physical board's health.
type HostBoardStatus struct {
	TempCelsius    float32
	PowerDrawWatts float32
	TimeAliveSec   uint64
	PowerCycles    uint64
	SerialNumber   int
	BoardType      BoardType
}

// Driver is the capability interface a device backend implements. It is
// the Go expression of the original function-pointer table: one
// implementation per backend (simulated, real hardware over serial, ...).
// Every call is expected to be safe to invoke concurrently only insofar as
// the caller serialises access with its own lock — the session does this
// via a single mutex (see the deviceMu field of internal/session.Session) rather than
// requiring drivers to be internally thread-safe.
type Driver interface {
	Initialise() Status
	Finalise() Status
	Reset() Status

	GetConfiguration() (DeviceConfiguration, Status)
	GetHostBoardStatus() (HostBoardStatus, Status)

	StartCore(core int) Status
	StartAllCores() Status
	StopCore(core int) Status
	StopAllCores() Status

	WriteInstructions(addr uint64, data []byte) Status
	WriteData(addr uint64, data []byte) Status
	ReadData(addr uint64, buf []byte) Status

	WriteCoreInstructions(core int, addr uint64, data []byte) Status
	WriteCoreData(core int, addr uint64, data []byte) Status
	ReadCoreData(core int, addr uint64, buf []byte) Status

	ReadGPIO(core, pin int) (byte, Status)
	WriteGPIO(core, pin int, value byte) Status

	UARTHasData(core int) (bool, Status)
	ReadUART(core int) (byte, Status)
	WriteUART(core int, b byte) Status

	RaiseInterrupt(core, irq int) Status
}
