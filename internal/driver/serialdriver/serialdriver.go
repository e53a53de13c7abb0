package serialdriver

import (
	"encoding/binary"
	"fmt"
	"syscall"
	"time"

	"go.bug.st/serial"

	"github.com/launchpad-dev/launchpad/internal/driver"
)

const readTimeout = 2 * time.Second

// SerialDriver talks to a real accelerator board over a single physical
// UART using go.bug.st/serial, the way exer/cex's dev.Arduino talks to a
// Nano: open, then synchronous request/response framing with EINTR retry.
type SerialDriver struct {
	port serial.Port
}

// Open opens the named serial device at baudRate (commonly 115200, as in
// exer/cex) and returns a Driver. The caller must call Close when done.
func Open(deviceName string, baudRate int) (*SerialDriver, error) {
	mode := &serial.Mode{BaudRate: baudRate, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit}
	port, err := serial.Open(deviceName, mode)
	if err != nil {
		return nil, fmt.Errorf("opening accelerator device %s: %w", deviceName, err)
	}
	return &SerialDriver{port: port}, nil
}

// Close releases the serial port.
func (d *SerialDriver) Close() error {
	return d.port.Close()
}

func isRetryableSyscallError(err error) bool {
	const eIntr = 4
	if errno, ok := err.(syscall.Errno); ok {
		return errno == eIntr
	}
	return false
}

func (d *SerialDriver) writeBytes(b []byte) error {
	for {
		n, err := d.port.Write(b)
		if !isRetryableSyscallError(err) {
			if err != nil {
				return err
			}
			if n != len(b) {
				return fmt.Errorf("serialdriver: short write, wrote %d of %d bytes", n, len(b))
			}
			return nil
		}
	}
}

func (d *SerialDriver) readBytes(n int) ([]byte, error) {
	d.port.SetReadTimeout(readTimeout)
	buf := make([]byte, n)
	read := 0
	for read < n {
		m, err := d.port.Read(buf[read:])
		if isRetryableSyscallError(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if m == 0 {
			return nil, fmt.Errorf("serialdriver: no response after %v", readTimeout)
		}
		read += m
	}
	return buf, nil
}

// frame sends [cmd][core][len-lo][len-hi][payload] and reads back
// [status][len-lo][len-hi][payload], returning the response payload.
func (d *SerialDriver) frame(cmd, core byte, payload []byte) ([]byte, driver.Status) {
	hdr := make([]byte, 4, 4+len(payload))
	hdr[0] = cmd
	hdr[1] = core
	binary.LittleEndian.PutUint16(hdr[2:4], uint16(len(payload)))
	if err := d.writeBytes(append(hdr, payload...)); err != nil {
		return nil, driver.Error
	}

	resp, err := d.readBytes(3)
	if err != nil {
		return nil, driver.Error
	}
	status := resp[0]
	respLen := binary.LittleEndian.Uint16(resp[1:3])

	var respPayload []byte
	if respLen > 0 {
		respPayload, err = d.readBytes(int(respLen))
		if err != nil {
			return nil, driver.Error
		}
	}
	if status != replyOK {
		return respPayload, driver.Error
	}
	return respPayload, driver.Success
}

func (d *SerialDriver) Initialise() driver.Status {
	_, st := d.frame(cmdInitialise, coreAll, nil)
	return st
}

func (d *SerialDriver) Finalise() driver.Status {
	_, st := d.frame(cmdFinalise, coreAll, nil)
	return st
}

func (d *SerialDriver) Reset() driver.Status {
	_, st := d.frame(cmdReset, coreAll, nil)
	return st
}

func (d *SerialDriver) GetConfiguration() (driver.DeviceConfiguration, driver.Status) {
	resp, st := d.frame(cmdGetConfig, coreAll, nil)
	if st != driver.Success || len(resp) < 8 {
		return driver.DeviceConfiguration{}, st
	}
	cfg := driver.DeviceConfiguration{
		NumberCores:             int(binary.LittleEndian.Uint16(resp[0:2])),
		ClockFreqMHz:            int(binary.LittleEndian.Uint16(resp[2:4])),
		InstructionSpaceSizeMB:  int(resp[4]),
		PerCoreDataSpaceMB:      int(resp[5]),
		SharedDataSpaceKB:       int(binary.LittleEndian.Uint16(resp[6:8])),
		ArchitectureType:        driver.ArchitectureType(0),
		DeviceName:              "accelerator",
		CPUName:                 "soft-core",
	}
	return cfg, driver.Success
}

func (d *SerialDriver) GetHostBoardStatus() (driver.HostBoardStatus, driver.Status) {
	resp, st := d.frame(cmdGetStatus, coreAll, nil)
	if st != driver.Success || len(resp) < 4 {
		return driver.HostBoardStatus{}, st
	}
	return driver.HostBoardStatus{
		TempCelsius: float32(binary.LittleEndian.Uint16(resp[0:2])) / 10.0,
		SerialNumber: int(binary.LittleEndian.Uint16(resp[2:4])),
		BoardType:    driver.BoardUnknown,
	}, driver.Success
}

func (d *SerialDriver) StartCore(core int) driver.Status {
	_, st := d.frame(cmdStartCore, byte(core), nil)
	return st
}

func (d *SerialDriver) StartAllCores() driver.Status {
	_, st := d.frame(cmdStartAll, coreAll, nil)
	return st
}

func (d *SerialDriver) StopCore(core int) driver.Status {
	_, st := d.frame(cmdStopCore, byte(core), nil)
	return st
}

func (d *SerialDriver) StopAllCores() driver.Status {
	_, st := d.frame(cmdStopAll, coreAll, nil)
	return st
}

func addrPayload(addr uint64, data []byte) []byte {
	p := make([]byte, 8, 8+len(data))
	binary.LittleEndian.PutUint64(p, addr)
	return append(p, data...)
}

func (d *SerialDriver) WriteInstructions(addr uint64, data []byte) driver.Status {
	_, st := d.frame(cmdWriteInstr, coreAll, addrPayload(addr, data))
	return st
}

func (d *SerialDriver) WriteData(addr uint64, data []byte) driver.Status {
	_, st := d.frame(cmdWriteData, coreAll, addrPayload(addr, data))
	return st
}

func (d *SerialDriver) ReadData(addr uint64, buf []byte) driver.Status {
	resp, st := d.frame(cmdReadData, coreAll, addrPayload(addr, make([]byte, len(buf))))
	if st == driver.Success {
		copy(buf, resp)
	}
	return st
}

func (d *SerialDriver) WriteCoreInstructions(core int, addr uint64, data []byte) driver.Status {
	_, st := d.frame(cmdWriteCoreInstr, byte(core), addrPayload(addr, data))
	return st
}

func (d *SerialDriver) WriteCoreData(core int, addr uint64, data []byte) driver.Status {
	_, st := d.frame(cmdWriteCoreData, byte(core), addrPayload(addr, data))
	return st
}

func (d *SerialDriver) ReadCoreData(core int, addr uint64, buf []byte) driver.Status {
	resp, st := d.frame(cmdReadCoreData, byte(core), addrPayload(addr, make([]byte, len(buf))))
	if st == driver.Success {
		copy(buf, resp)
	}
	return st
}

func (d *SerialDriver) ReadGPIO(core, pin int) (byte, driver.Status) {
	resp, st := d.frame(cmdReadGPIO, byte(core), []byte{byte(pin)})
	if st != driver.Success || len(resp) < 1 {
		return 0, st
	}
	return resp[0], driver.Success
}

func (d *SerialDriver) WriteGPIO(core, pin int, value byte) driver.Status {
	_, st := d.frame(cmdWriteGPIO, byte(core), []byte{byte(pin), value})
	return st
}

func (d *SerialDriver) UARTHasData(core int) (bool, driver.Status) {
	resp, st := d.frame(cmdUARTHasData, byte(core), nil)
	if st != driver.Success || len(resp) < 1 {
		return false, st
	}
	return resp[0] != 0, driver.Success
}

func (d *SerialDriver) ReadUART(core int) (byte, driver.Status) {
	resp, st := d.frame(cmdReadUART, byte(core), nil)
	if st != driver.Success || len(resp) < 1 {
		return 0, st
	}
	return resp[0], driver.Success
}

func (d *SerialDriver) WriteUART(core int, b byte) driver.Status {
	_, st := d.frame(cmdWriteUART, byte(core), []byte{b})
	return st
}

func (d *SerialDriver) RaiseInterrupt(core, irq int) driver.Status {
	_, st := d.frame(cmdRaiseIRQ, byte(core), []byte{byte(irq)})
	return st
}
