package session

import (
	"github.com/gdamore/tcell/v2"

	"github.com/launchpad-dev/launchpad/internal/driver"
)

// maxCommandLen caps the in-band command buffer, matching the original
// C source's fixed MAX_COMMAND_LEN scratch array.
const maxCommandLen = 50

// mode is the Session Controller's two-state machine of §3: Passthrough
// (every keystroke goes to the cores' UART) or Command (keystrokes build
// a line, dispatched on Enter).
type mode int

const (
	modePassthrough mode = iota
	modeCommand
)

// Run is the Session Controller's event loop. It owns the terminal key
// loop, starts the UART Poller as a background goroutine, and tears both
// down on exit. Blocks until the operator issues :q/:quit or the tty is
// closed out from under it.
func (s *Session) Run() error {
	s.screen.Banner(s.bannerLines())

	go s.RunPoller()
	// Deferred calls run LIFO: signal the poller to stop first, then
	// finalise the driver, and only then tear down the screen, so the
	// poller's last iteration (if any) still has a live screen/driver to
	// use before it observes quit.
	defer s.screen.Close()
	defer func() { s.checkFatal("finalise", s.drv.Finalise()) }()
	defer close(s.quit)

	m := modePassthrough
	var cmdBuf []byte
	cmdCol := 2

	for {
		ev := s.screen.Underlying().PollEvent()
		if ev == nil {
			// tcell returns nil once the screen has been finalised.
			return nil
		}
		switch e := ev.(type) {
		case *tcell.EventResize:
			s.screen.Underlying().Sync()

		case *tcell.EventKey:
			switch m {
			case modePassthrough:
				if e.Key() == tcell.KeyEscape {
					s.flags.paintOk.Store(false)
					s.screen.EnterCommandMode()
					cmdBuf = cmdBuf[:0]
					cmdCol = 2
					m = modeCommand
					continue
				}
				s.forwardKey(e)

			case modeCommand:
				switch e.Key() {
				case tcell.KeyEnter:
					line := string(cmdBuf)
					if line == "" {
						s.exitCommandMode(false)
						m = modePassthrough
						continue
					}
					quit := s.dispatchCommandLine(line)
					m = modePassthrough
					if quit {
						return nil
					}

				case tcell.KeyEscape:
					s.exitCommandMode(false)
					m = modePassthrough

				case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
					if len(cmdBuf) > 0 {
						cmdBuf = cmdBuf[:len(cmdBuf)-1]
						cmdCol = s.screen.EraseCommandChar(cmdCol)
					}

				default:
					if r := e.Rune(); r != 0 && len(cmdBuf) < maxCommandLen {
						cmdBuf = append(cmdBuf, byte(r))
						cmdCol = s.screen.AppendCommandChar(r, cmdCol)
					}
				}
			}
		}
	}
}

// forwardKey echoes one Passthrough-mode keystroke to the screen, then
// forwards it to every enabled, in-range core's UART input, per §3's
// "echo + forward" rule — the same thing the original C source's
// `printw("%c", ch); refresh();` does ahead of its passthrough/command
// branch, needed because the terminal runs cbreak/no-echo (§4.1). Non-rune
// keys (arrows, function keys) are silently dropped — the original only
// ever forwards the single byte ncurses' getch() returns, which never
// exceeds one byte for a printable key or control character.
func (s *Session) forwardKey(e *tcell.EventKey) {
	var b byte
	switch e.Key() {
	case tcell.KeyEnter:
		b = '\r'
	case tcell.KeyTab:
		b = '\t'
	case tcell.KeyCtrlC:
		b = 0x03
	default:
		r := e.Rune()
		if r == 0 || r > 0xff {
			return
		}
		b = byte(r)
	}

	echo := b
	if echo == '\r' {
		echo = '\n'
	}
	s.screen.WriteStreamByte(echo)

	s.deviceMu.Lock()
	defer s.deviceMu.Unlock()
	for _, core := range s.cfg.EnabledCores().Indices(s.deviceCfg.NumberCores) {
		if st := s.drv.WriteUART(core, b); st != driver.Success {
			s.checkFatal("write uart", st)
		}
	}
}

// dispatchCommandLine parses and executes one completed command line,
// paints the result, and reports whether the session should terminate.
func (s *Session) dispatchCommandLine(line string) bool {
	cmd := ParseCommandLine(line)
	if cmd.Kind == CmdReset {
		s.screen.ShowNotice("Please wait - resetting soft cores")
	}
	out := s.Execute(cmd)

	switch out.Result {
	case ResultNewScreen:
		s.screen.Clear()
		s.exitCommandMode(true)
		s.flags.discardPausedOutput.Store(false)
		return false

	case ResultNotRecognised, ResultError:
		s.exitCommandMode(false)
		msg := out.Message
		if msg == "" {
			msg = "command failed"
		}
		s.screen.ShowError(msg)

	case ResultSuccess:
		// paintOk stays false until the panel or notice is painted.
		s.screen.ExitCommandMode(false)
		switch cmd.Kind {
		case CmdHelp:
			s.screen.ShowPanel(helpLines())
		case CmdStatus:
			s.screen.ShowPanel(s.statusLines())
		case CmdConfig:
			s.screen.ShowPanel(s.configLines())
		default:
			if out.Message != "" {
				s.screen.ShowNotice(out.Message)
			}
		}
		s.flags.paintOk.Store(true)
	}
	return out.Quit
}

// exitCommandMode restores Passthrough painting and the streaming cursor.
func (s *Session) exitCommandMode(newScreen bool) {
	s.screen.ExitCommandMode(newScreen)
	s.flags.paintOk.Store(true)
}
