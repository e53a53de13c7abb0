package session

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newTestScreen(t *testing.T) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	sim.SetSize(20, 6)
	scr, err := NewScreen(sim)
	if err != nil {
		t.Fatalf("NewScreen: %v", err)
	}
	return scr, sim
}

func TestScreenWriteStreamByte(t *testing.T) {
	scr, sim := newTestScreen(t)
	for _, b := range []byte("Hi") {
		scr.WriteStreamByte(b)
	}
	got := rowString(sim, 0, 20)
	if got[:2] != "Hi" {
		t.Fatalf("got %q", got)
	}
}

func TestScreenCommandModeAppendErase(t *testing.T) {
	scr, sim := newTestScreen(t)
	scr.EnterCommandMode()
	col := 2
	col = scr.AppendCommandChar(':', col)
	col = scr.AppendCommandChar('q', col)

	_, h := scr.Size()
	got := rowString(sim, h-1, 20)
	if got[0] != '>' {
		t.Fatalf("expected prompt '>' at column 0, got %q", got)
	}
	if got[2] != ':' || got[3] != 'q' {
		t.Fatalf("expected echoed \":q\", got %q", got)
	}

	col = scr.EraseCommandChar(col)
	got = rowString(sim, h-1, 20)
	if got[3] != ' ' {
		t.Fatalf("expected erased character to be blank, got %q", got)
	}
	_ = col
}

func TestScreenShowErrorAndNotice(t *testing.T) {
	scr, sim := newTestScreen(t)
	_, h := scr.Size()

	scr.ShowError("bad command")
	got := rowString(sim, h-1, 20)
	want := "Error: bad command"
	if len(got) < len(want) || got[:len(want)] != want {
		t.Fatalf("got %q, want prefix %q", got, want)
	}

	scr.ShowNotice("please wait")
	got = rowString(sim, h-1, 20)
	want = "please wait"
	if got[:len(want)] != want {
		t.Fatalf("got %q, want prefix %q", got, want)
	}
}

func TestScreenScrollsWhenFull(t *testing.T) {
	scr, sim := newTestScreen(t)
	_, h := scr.Size()
	// height-1 content rows (row 0..h-2) plus one overlay row; writing more
	// lines than fit should scroll rather than panic or overwrite row 0's
	// first byte with something un-checkable.
	for i := 0; i < h+3; i++ {
		scr.WriteStreamLine("", "line")
	}
	// The most recent line should still be visible on some content row.
	found := false
	for y := 0; y < h-1; y++ {
		if row := rowString(sim, y, 20); row[:4] == "line" {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected at least one \"line\" row to survive scrolling")
	}
}

func TestScreenClearResetsCursor(t *testing.T) {
	scr, _ := newTestScreen(t)
	scr.WriteStreamByte('x')
	scr.Clear()
	if scr.row != 0 || scr.col != 0 {
		t.Fatalf("want cursor reset to (0,0), got (%d,%d)", scr.row, scr.col)
	}
}
