package serialdriver

import "testing"

func TestCommandBytesAreDistinct(t *testing.T) {
	cmds := []byte{
		cmdInitialise, cmdFinalise, cmdReset, cmdGetConfig, cmdGetStatus,
		cmdStartCore, cmdStartAll, cmdStopCore, cmdStopAll,
		cmdWriteInstr, cmdWriteData, cmdReadData,
		cmdWriteCoreInstr, cmdWriteCoreData, cmdReadCoreData,
		cmdReadGPIO, cmdWriteGPIO,
		cmdUARTHasData, cmdReadUART, cmdWriteUART,
		cmdRaiseIRQ,
	}
	seen := make(map[byte]bool, len(cmds))
	for _, c := range cmds {
		if seen[c] {
			t.Fatalf("duplicate command byte 0x%02x", c)
		}
		seen[c] = true
		if c == coreAll {
			t.Fatalf("command byte 0x%02x collides with the coreAll sentinel", c)
		}
	}
}

func TestReplyCodesDistinct(t *testing.T) {
	if replyOK == replyErr {
		t.Fatal("replyOK and replyErr must differ")
	}
}
