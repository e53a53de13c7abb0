package session

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Color pairs, matching the original ncurses init_pair calls in
// uart_interactive.c: (1) white-on-red for errors, (2) blue-on-green for
// transient notices, (3) green-on-default for Launchpad banner prints.
var (
	styleError  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed)
	styleNotice = tcell.StyleDefault.Foreground(tcell.ColorBlue).Background(tcell.ColorGreen)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleNormal = tcell.StyleDefault
)

// Screen is the Screen Manager of §4.4: a set of conventions for
// coordinating cursor position between streaming UART output, the
// command-line overlay, and transient panels, built on tcell.Screen the
// way the original built them on ncurses's printw/getyx/move/refresh.
//
// tcell addresses a cell grid rather than a scrolling character stream,
// so Screen keeps its own (row, col) write cursor and implements
// scrolling by shifting the grid up a line at a time — the Go equivalent
// of ncurses's scrollok(stdscr, true).
type Screen struct {
	tty tcell.Screen

	row, col int // current streaming-output cursor
	mainRow  int // main_screen_row / main_screen_col of §4.1: the
	mainCol  int // position just before Command mode was entered

	width, height int
}

// NewScreen initialises a full-screen cbreak, no-echo terminal session.
// tty is injectable so tests can supply a tcell.NewSimulationScreen().
func NewScreen(tty tcell.Screen) (*Screen, error) {
	if err := tty.Init(); err != nil {
		return nil, err
	}
	tty.SetStyle(styleNormal)
	tty.EnableMouse() // harmless if unsupported; Launchpad never consumes mouse events
	tty.DisableMouse()
	w, h := tty.Size()
	s := &Screen{tty: tty, width: w, height: h}
	tty.Clear()
	tty.Show()
	return s, nil
}

// Close restores the terminal. Safe to call from any goroutine, but
// callers must ensure no concurrent paint is in flight (see §9's note on
// gating endwin()-equivalent cleanup behind a shutdown latch).
func (s *Screen) Close() {
	s.tty.Fini()
}

// Underlying exposes the wrapped tcell.Screen for the Session Controller's
// event loop.
func (s *Screen) Underlying() tcell.Screen {
	return s.tty
}

func (s *Screen) advance() {
	s.col++
	if s.col >= s.width {
		s.newline()
	}
}

func (s *Screen) newline() {
	s.col = 0
	s.row++
	if s.row >= s.height-1 { // last row (height-1) is reserved for overlays
		s.scrollUp()
		s.row = s.height - 2
	}
}

// scrollUp shifts every cell up by one row, clearing the new bottom
// content row. Row height-1 (the overlay row) is left untouched.
func (s *Screen) scrollUp() {
	for y := 1; y < s.height-1; y++ {
		for x := 0; x < s.width; x++ {
			r, comb, style, _ := s.tty.GetContent(x, y)
			s.tty.SetContent(x, y-1, r, comb, style)
		}
	}
	for x := 0; x < s.width; x++ {
		s.tty.SetContent(x, s.height-2, ' ', nil, styleNormal)
	}
}

func (s *Screen) putRune(r rune, style tcell.Style) {
	if r == '\n' {
		s.newline()
		return
	}
	s.tty.SetContent(s.col, s.row, r, nil, style)
	s.advance()
}

func (s *Screen) putString(str string, style tcell.Style) {
	for _, r := range str {
		s.putRune(r, style)
	}
}

// WriteStreamByte paints a single byte in the main streaming region: raw
// UART bytes in single-core mode, the bytes of assembled "[core]: " lines
// in multi-core mode, and Passthrough keystroke echo. Carriage returns are
// not special-cased here — the poller drops them and the echo path turns
// Enter into a newline before calling this.
func (s *Screen) WriteStreamByte(b byte) {
	s.putRune(rune(b), styleNormal)
	s.tty.ShowCursor(s.col, s.row)
	s.tty.Show()
}

// WriteStreamLine paints one assembled, newline-terminated line with an
// optional "[core]: " prefix. The poller does not use it: multi-core lines
// reach the screen byte by byte through WriteStreamByte. The trailing newline is always
// appended, matching the C source's `printw("[%d]: %s", core_id, buf)`
// plus the newline the flush already consumed from the source bytes.
func (s *Screen) WriteStreamLine(prefix, body string) {
	if prefix != "" {
		s.putString(prefix, styleNormal)
	}
	s.putString(body, styleNormal)
	s.newline()
	s.tty.ShowCursor(s.col, s.row)
	s.tty.Show()
}

// Banner paints the startup advisory lines (§4.1) in color pair 3.
func (s *Screen) Banner(lines []string) {
	for _, l := range lines {
		s.putString("Launchpad> "+l, styleBanner)
		s.newline()
	}
	s.tty.ShowCursor(s.col, s.row)
	s.tty.Show()
}

// EnterCommandMode records the current cursor as main_row/main_col, wipes
// the bottom line, and prints the "> " prompt.
func (s *Screen) EnterCommandMode() {
	s.mainRow, s.mainCol = s.row, s.col
	s.clearLine(s.height - 1)
	s.tty.SetContent(0, s.height-1, '>', nil, styleNormal)
	s.tty.SetContent(1, s.height-1, ' ', nil, styleNormal)
	s.tty.ShowCursor(2, s.height-1)
	s.tty.Show()
}

func (s *Screen) clearLine(y int) {
	for x := 0; x < s.width; x++ {
		s.tty.SetContent(x, y, ' ', nil, styleNormal)
	}
}

// AppendCommandChar echoes ch at the current bottom-line cursor position,
// returning the new cursor column.
func (s *Screen) AppendCommandChar(ch rune, col int) int {
	s.tty.SetContent(col, s.height-1, ch, nil, styleNormal)
	col++
	s.tty.ShowCursor(col, s.height-1)
	s.tty.Show()
	return col
}

// EraseCommandChar blanks the character immediately before col, returning
// the new (decremented) cursor column. No-op if col is already at the
// prompt origin (column 2, just past "> ").
func (s *Screen) EraseCommandChar(col int) int {
	if col <= 2 {
		return col
	}
	col--
	s.tty.SetContent(col, s.height-1, ' ', nil, styleNormal)
	s.tty.ShowCursor(col, s.height-1)
	s.tty.Show()
	return col
}

// ExitCommandMode restores the cursor to main_row/main_col (or (0,0) if
// newScreen is set, e.g. after :clear) and wipes the bottom line.
func (s *Screen) ExitCommandMode(newScreen bool) {
	s.clearLine(s.height - 1)
	if newScreen {
		s.row, s.col = 0, 0
	} else {
		s.row, s.col = s.mainRow, s.mainCol
	}
	s.tty.ShowCursor(s.col, s.row)
	s.tty.Show()
}

// ShowError paints a red bottom-line message (§4.4) that persists until
// the next paint cycle.
func (s *Screen) ShowError(msg string) {
	s.clearLine(s.height - 1)
	s.putStringAt(0, s.height-1, "Error: "+msg, styleError)
	s.tty.Show()
}

// ShowNotice paints a green bottom-line transient notice, e.g. "please
// wait" during :reset.
func (s *Screen) ShowNotice(msg string) {
	s.clearLine(s.height - 1)
	s.putStringAt(0, s.height-1, msg, styleNotice)
	s.tty.Show()
}

func (s *Screen) putStringAt(x, y int, str string, style tcell.Style) {
	for _, r := range str {
		if x >= s.width {
			break
		}
		s.tty.SetContent(x, y, r, nil, style)
		x++
	}
}

// ShowPanel paints a titled multi-line panel (help/status/config/message)
// below the saved main-stream cursor, following §4.4's save-move-print-
// update-restore idiom: render at main_row+(col>0?1:0), then advance
// main_row/main_col to the panel's new bottom with column forced to 0,
// and restore the streaming cursor so output resumes there.
func (s *Screen) ShowPanel(lines []string) {
	savedRow, savedCol := s.row, s.col
	start := s.mainRow
	if s.mainCol > 0 {
		start++
	}
	y := start
	for _, l := range lines {
		if y >= s.height-1 {
			s.scrollUp()
			y = s.height - 2
		}
		s.clearLine(y)
		s.putStringAt(0, y, l, styleNormal)
		y++
	}
	s.mainRow, s.mainCol = y, 0
	s.row, s.col = savedRow, savedCol
	s.tty.ShowCursor(s.col, s.row)
	s.tty.Show()
}

// Clear wipes the whole screen; the next main paint resumes at (0,0).
func (s *Screen) Clear() {
	s.tty.Clear()
	s.row, s.col = 0, 0
	s.mainRow, s.mainCol = 0, 0
	s.tty.Show()
}

// Size returns the current terminal geometry.
func (s *Screen) Size() (int, int) { return s.width, s.height }

// helpLines is a plain-data builder kept here (rather than in command.go,
// where statusLines and configLines live) since it is fixed screen
// content, not command logic.

func helpLines() []string {
	return strings.Split(strings.TrimRight(`Launchpad Interactive Help
--------------------------
Escape key to enter command mode, the following commands apply:
:status      - Display current soft core status including active and enabled cores
:config      - Display soft core CPU and board configuration and status
:clear       - Clears the output screen
:stop        - Stop all cores
:start       - Start all enabled cores
:exe, :bin   - Specify the binary executable that cores should run
:e, :enable  - Enables core(s) provided as a singleton, list or range (does not start)
:c, :cores   - Sets core(s) provided as a singleton, list or range as the active set (does not start)
:d, :disable - Disables core(s) provided as a singleton, list or range (does not stop)
:reset       - Reset device and stop all cores
:h, :help    - Display this help message
:q, :quit    - Quit Launchpad

Enter (empty command) quits command mode without a command`, "\n"), "\n")
}
