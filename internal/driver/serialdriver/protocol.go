// Package serialdriver implements driver.Driver over a single physical
// UART, multiplexing the accelerator's register and per-core UART
// traffic through a small framed command protocol.
//
// Grounded on gmofishsauce-wut4/exer/cex: dev/arduino.go's synchronous
// open/read/write-with-EINTR-retry style around go.bug.st/serial, and
// serial_protocol.go's fixed-size command-byte framing.
package serialdriver

// Command bytes, framed as [cmd][core][len][payload...]. One physical
// link carries every core's UART and every register operation; core 0xFF
// addresses device-wide operations (reset, configuration, start/stop all).
const (
	cmdInitialise byte = 0x01
	cmdFinalise   byte = 0x02
	cmdReset      byte = 0x03
	cmdGetConfig  byte = 0x04
	cmdGetStatus  byte = 0x05

	cmdStartCore byte = 0x10
	cmdStartAll  byte = 0x11
	cmdStopCore  byte = 0x12
	cmdStopAll   byte = 0x13

	cmdWriteInstr     byte = 0x20
	cmdWriteData      byte = 0x21
	cmdReadData       byte = 0x22
	cmdWriteCoreInstr byte = 0x23
	cmdWriteCoreData  byte = 0x24
	cmdReadCoreData   byte = 0x25

	cmdReadGPIO  byte = 0x30
	cmdWriteGPIO byte = 0x31

	cmdUARTHasData byte = 0x40
	cmdReadUART    byte = 0x41
	cmdWriteUART   byte = 0x42

	cmdRaiseIRQ byte = 0x50

	coreAll byte = 0xFF
)

// replyOK / replyErr are the first byte of every response frame,
// following the same pass/fail-then-payload shape as the status codes in
// driver.Status.
const (
	replyOK  byte = 0x00
	replyErr byte = 0x01
)
