package session

import (
	"log"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/launchpad-dev/launchpad/internal/config"
	"github.com/launchpad-dev/launchpad/internal/driver"
	"github.com/launchpad-dev/launchpad/internal/driver/simdriver"
)

// newTestSession builds a Session wired to a SimDriver and a tcell
// simulation screen, with every one of numCores cores enabled.
func newTestSession(t *testing.T, numCores int) (*Session, *simdriver.SimDriver, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	sim.SetSize(80, 24)

	scr, err := NewScreen(sim)
	if err != nil {
		t.Fatalf("NewScreen: %v", err)
	}

	drv := simdriver.New(numCores, driver.SharedNothing)
	if st := drv.Initialise(); st != driver.Success {
		t.Fatalf("initialise: %s", st)
	}
	deviceCfg, st := drv.GetConfiguration()
	if st != driver.Success {
		t.Fatalf("get configuration: %s", st)
	}

	cfg := config.New()
	set, isAll, err := config.ParseCoreSpec("all")
	if err != nil {
		t.Fatalf("parse core spec: %v", err)
	}
	cfg.Replace(set, isAll)

	logger := log.New(testWriter{t}, "", 0)
	s := New(drv, deviceCfg, cfg, scr, logger, t.TempDir())
	s.multiCore = numCores > 1
	return s, drv, sim
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func contentsRune(contents []tcell.SimCell, width, x, y int) rune {
	idx := y*width + x
	if idx < 0 || idx >= len(contents) || len(contents[idx].Runes) == 0 {
		return 0
	}
	return contents[idx].Runes[0]
}

func rowString(sim tcell.SimulationScreen, y, width int) string {
	contents, w, _ := sim.GetContents()
	if width <= 0 {
		width = w
	}
	out := make([]rune, 0, width)
	for x := 0; x < width; x++ {
		r := contentsRune(contents, w, x, y)
		if r == 0 {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}

// TestSingleCoreEcho is scenario S1: one core, no "[i]: " prefix expected.
func TestSingleCoreEcho(t *testing.T) {
	s, drv, sim := newTestSession(t, 1)
	drv.Inject(0, []byte("Hi\n"))

	for i := 0; i < 3; i++ {
		s.pollOneCore(0)
	}

	got := rowString(sim, 0, 80)
	want := "Hi"
	if got[:len(want)] != want {
		t.Fatalf("row 0: got %q, want prefix %q", got, want)
	}
}

// TestTwoCoreMultiplex is scenario S2: two cores, flushed lines carry
// "[i]: " prefixes in flush order.
func TestTwoCoreMultiplex(t *testing.T) {
	s, drv, sim := newTestSession(t, 2)
	drv.Inject(0, []byte("AB\n"))
	drv.Inject(1, []byte("CD\n"))

	// Drain core 0 fully, then core 1, matching the scenario's described
	// flush order.
	for i := 0; i < 3; i++ {
		s.pollOneCore(0)
	}
	for i := 0; i < 3; i++ {
		s.pollOneCore(1)
	}

	row0 := rowString(sim, 0, 80)
	row1 := rowString(sim, 1, 80)
	if want := "[0]: AB"; row0[:len(want)] != want {
		t.Fatalf("row 0: got %q, want prefix %q", row0, want)
	}
	if want := "[1]: CD"; row1[:len(want)] != want {
		t.Fatalf("row 1: got %q, want prefix %q", row1, want)
	}
}

// TestOverflowWarning is scenario S5: a core's line buffer fills before a
// newline arrives; every subsequent byte until the newline produces a
// warning line.
func TestOverflowWarning(t *testing.T) {
	s, drv, sim := newTestSession(t, 2)
	overflowing := make([]byte, MaxBufferSize+5)
	for i := range overflowing {
		overflowing[i] = 'x'
	}
	overflowing = append(overflowing, '\n')
	drv.Inject(0, overflowing)

	// Leave the trailing newline unread: flushing the 2048-byte line would
	// wrap over ~26 rows and scroll the warning lines off the 24-row screen.
	for i := 0; i < len(overflowing)-1; i++ {
		s.pollOneCore(0)
	}

	row0 := rowString(sim, 0, 80)
	want := "[0]: WARNING"
	if len(row0) < len(want) || row0[:len(want)] != want {
		t.Fatalf("row 0: got %q, want prefix %q", row0, want)
	}
}

// TestPausedOutputDrainsOnResume is scenario S6: output produced while
// paintOk==false is staged, then painted once paintOk flips back to true
// (discardPausedOutput left false).
func TestPausedOutputDrainsOnResume(t *testing.T) {
	s, drv, sim := newTestSession(t, 1)
	s.flags.paintOk.Store(false)
	drv.Inject(0, []byte("Hi\n"))

	for i := 0; i < 3; i++ {
		s.pollOneCore(0)
	}
	if s.pause.Len() == 0 {
		t.Fatal("expected output to be staged while paintOk==false")
	}

	s.flags.paintOk.Store(true)
	s.drainOrDiscardPause()

	if s.pause.Len() != 0 {
		t.Fatal("pause buffer should be empty after draining")
	}
	got := rowString(sim, 0, 80)
	if got[:2] != "Hi" {
		t.Fatalf("row 0: got %q, want prefix %q", got, "Hi")
	}
}

// TestPausedOutputDiscardedAfterStop is the discard half of S6:
// discardPausedOutput==true drops staged bytes instead of painting them.
func TestPausedOutputDiscardedAfterStop(t *testing.T) {
	s, drv, sim := newTestSession(t, 1)
	s.flags.paintOk.Store(false)
	drv.Inject(0, []byte("Hi\n"))
	for i := 0; i < 3; i++ {
		s.pollOneCore(0)
	}

	s.flags.discardPausedOutput.Store(true)
	s.flags.paintOk.Store(true)
	s.drainOrDiscardPause()

	if s.pause.Len() != 0 {
		t.Fatal("pause buffer should be empty after a discard")
	}
	got := rowString(sim, 0, 80)
	for _, r := range got {
		if r != ' ' {
			t.Fatalf("expected row 0 to remain blank after discard, got %q", got)
		}
	}
}
