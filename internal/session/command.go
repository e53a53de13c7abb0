package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/launchpad-dev/launchpad/internal/config"
	"github.com/launchpad-dev/launchpad/internal/driver"
)

// CommandKind is the tagged-sum variant a parsed command line resolves
// to. §9 calls for the check_command_portion/get_arg_portion string
// gymnastics of the original to collapse into one parser returning a
// sum type; this is that sum.
type CommandKind int

const (
	CmdUnrecognised CommandKind = iota
	CmdQuit
	CmdHelp
	CmdClear
	CmdStatus
	CmdConfig
	CmdReset
	CmdStop
	CmdStart
	CmdEnable
	CmdReplace
	CmdDisable
	CmdSetExecutable
)

// Command is a parsed command line: a kind plus its single argument
// token, if the keyword takes one.
type Command struct {
	Kind CommandKind
	Arg  string
}

// keywords maps every recognised token (including both long and short
// spellings) to its CommandKind. Matching is keyword-exact or
// keyword-plus-single-space-plus-argument, per §4.3.
var keywords = map[string]CommandKind{
	":q": CmdQuit, ":quit": CmdQuit,
	":h": CmdHelp, ":help": CmdHelp,
	":clear":  CmdClear,
	":status": CmdStatus,
	":config": CmdConfig,
	":reset":  CmdReset,
	":stop":   CmdStop,
	":start":  CmdStart,
	":e": CmdEnable, ":enable": CmdEnable,
	":c": CmdReplace, ":cores": CmdReplace,
	":d": CmdDisable, ":disable": CmdDisable,
	":exe": CmdSetExecutable, ":bin": CmdSetExecutable,
}

// argTaking is the set of kinds that require a single trailing argument
// token (the rest of the line after one space).
var argTaking = map[CommandKind]bool{
	CmdEnable: true, CmdReplace: true, CmdDisable: true, CmdSetExecutable: true,
}

// ParseCommandLine parses a raw command buffer (no leading ':' stripped —
// the whole token including ':' is matched, per §4.3).
func ParseCommandLine(raw string) Command {
	// Try exact match first (no-argument commands).
	if kind, ok := keywords[raw]; ok {
		return Command{Kind: kind}
	}
	// Try "keyword<space>argument".
	if idx := strings.IndexByte(raw, ' '); idx > 0 {
		kw := raw[:idx]
		if kind, ok := keywords[kw]; ok && argTaking[kind] {
			return Command{Kind: kind, Arg: raw[idx+1:]}
		}
	}
	return Command{Kind: CmdUnrecognised}
}

// CommandResult classifies what a dispatched command did to the screen
// and session state, per §4.3's table.
type CommandResult int

const (
	ResultSuccess CommandResult = iota
	ResultNotRecognised
	ResultError
	ResultNewScreen
	ResultIgnore
)

// Outcome is the full result of executing one command line: how to treat
// the screen/session, a human-readable message (used for errors and
// notices), and whether the session should terminate.
type Outcome struct {
	Result CommandResult
	Message string
	Quit    bool
}

// Execute dispatches a parsed command, mutating session state and
// invoking driver calls under s.deviceMu where the table in §4.3 calls
// for it. It never paints the screen itself — paints live in the Session
// Controller's key loop, which has the exclusive view of when it is safe
// to touch the overlay area.
func (s *Session) Execute(cmd Command) Outcome {
	switch cmd.Kind {
	case CmdQuit:
		return Outcome{Result: ResultSuccess, Quit: true}

	case CmdHelp, CmdStatus, CmdConfig:
		// Screen content is rendered by the controller via s.screen; the
		// command processor just signals success.
		return Outcome{Result: ResultSuccess}

	case CmdClear:
		return Outcome{Result: ResultNewScreen}

	case CmdReset:
		s.doReset()
		return Outcome{Result: ResultSuccess, Message: "Reset successful, cores all idle"}

	case CmdStop:
		return s.doStop()

	case CmdStart:
		return s.doStart()

	case CmdEnable:
		return s.doEnableOrReplace(cmd.Arg, true)

	case CmdReplace:
		return s.doEnableOrReplace(cmd.Arg, false)

	case CmdDisable:
		return s.doDisable(cmd.Arg)

	case CmdSetExecutable:
		return s.doSetExecutable(cmd.Arg)

	default:
		return Outcome{Result: ResultNotRecognised, Message: "Command not recognised"}
	}
}

func (s *Session) doReset() {
	s.deviceMu.Lock()
	s.status.setInitialised(false)
	s.checkFatal("reset", s.drv.Reset())
	s.flags.pollEnabled.Store(false)
	s.checkFatal("initialise", s.drv.Initialise())
	s.status.setInitialised(true)
	s.deviceMu.Unlock()
	s.status.clearAllCoresActive()
	// running is left as-is, per §4.3: the operator must re-:start.
}

func (s *Session) doStop() Outcome {
	if !s.status.Running() {
		return Outcome{Result: ResultError, Message: "Cores are already stopped"}
	}
	s.deviceMu.Lock()
	err := s.stopCores()
	s.flags.pollEnabled.Store(false)
	s.deviceMu.Unlock()
	if err != nil {
		s.fatal("stop", driver.Error)
	}
	s.status.setRunning(false)
	s.flags.discardPausedOutput.Store(true)
	return Outcome{Result: ResultSuccess, Message: "All cores stopped and idle"}
}

func (s *Session) doStart() Outcome {
	if s.status.Running() {
		return Outcome{Result: ResultError, Message: "Cores are already running"}
	}
	if s.numActiveEnabled() == 0 {
		return Outcome{Result: ResultError, Message: "No cores are enabled, enable at-least one before starting"}
	}
	if s.cfg.ExecutablePath() == "" {
		return Outcome{Result: ResultError, Message: "No executable file has been specified, you must provide this to start the cores"}
	}

	s.deviceMu.Lock()
	if err := s.loadAndDistribute(); err != nil {
		s.deviceMu.Unlock()
		return Outcome{Result: ResultError, Message: err.Error()}
	}
	started, err := s.startCores()
	s.flags.pollEnabled.Store(true)
	s.flags.discardPausedOutput.Store(false)
	s.deviceMu.Unlock()
	if err != nil {
		s.fatal("start", driver.Error)
	}
	s.status.setRunning(true)
	return Outcome{Result: ResultSuccess, Message: fmt.Sprintf("%d cores started", started)}
}

func (s *Session) doEnableOrReplace(arg string, additive bool) Outcome {
	if s.status.Running() {
		return Outcome{Result: ResultError, Message: "Can only change active cores in a stopped state, stop running cores first"}
	}
	if strings.TrimSpace(arg) == "" {
		return Outcome{Result: ResultError, Message: "Must provide arguments with enable or core command"}
	}
	spec, isAll, err := config.ParseCoreSpec(arg)
	if err != nil {
		return Outcome{Result: ResultError, Message: err.Error()}
	}
	if additive {
		s.cfg.Enable(spec, isAll)
	} else {
		s.cfg.Replace(spec, isAll)
	}
	numActive := s.numActiveEnabled()
	msg := fmt.Sprintf("There are now %d cores enabled", numActive)
	if warnings := s.cfg.EnabledCores().OutOfRange(s.deviceCfg.NumberCores); len(warnings) > 0 {
		msg = coreWarning(warnings[0], s.deviceCfg.NumberCores)
	}
	return Outcome{Result: ResultSuccess, Message: msg}
}

func (s *Session) doDisable(arg string) Outcome {
	if s.status.Running() {
		return Outcome{Result: ResultError, Message: "Can only change active cores in a stopped state, stop running cores first"}
	}
	if strings.TrimSpace(arg) == "" {
		return Outcome{Result: ResultError, Message: "Must provide arguments with enable or core command"}
	}
	spec, _, err := config.ParseCoreSpec(arg)
	if err != nil {
		return Outcome{Result: ResultError, Message: err.Error()}
	}
	before := s.cfg.EnabledCores()
	hasDisabled := false
	for _, i := range spec.Indices(driver.MaxCores) {
		if before.Has(i) {
			hasDisabled = true
			break
		}
	}
	s.cfg.Disable(spec)
	numActive := s.numActiveEnabled()
	var msg string
	if hasDisabled {
		msg = fmt.Sprintf("Core(s) disabled, there are now %d cores enabled", numActive)
	} else {
		msg = fmt.Sprintf("No cores in disable list were enabled, there are still %d cores enabled", numActive)
	}
	return Outcome{Result: ResultSuccess, Message: msg}
}

func (s *Session) doSetExecutable(arg string) Outcome {
	if s.status.Running() {
		return Outcome{Result: ResultError, Message: "Can only change executable in a stopped state, stop running cores first"}
	}
	path := strings.TrimSpace(arg)
	if path == "" {
		return Outcome{Result: ResultError, Message: "Must provide arguments with enable or core command"}
	}
	resolved := path
	if !filepath.IsAbs(path) {
		resolved = filepath.Join(s.baseDir, path)
	}
	if _, err := os.Stat(resolved); err != nil {
		return Outcome{Result: ResultError, Message: "Specified file does not exist"}
	}
	s.cfg.SetExecutablePath(path)
	return Outcome{Result: ResultSuccess, Message: fmt.Sprintf("Successfully changed executable to '%s'", path)}
}

// statusLines builds the content of the :status panel.
func (s *Session) statusLines() []string {
	lines := []string{"Launchpad Current Status", "------------------------"}
	if s.status.Initialised() {
		lines = append(lines, "Device initialised")
	} else {
		lines = append(lines, "Device not initialised")
	}
	if s.status.Running() {
		lines = append(lines, "Soft cores currently running")
	} else {
		lines = append(lines, "Soft cores currently stopped")
	}
	enabled := s.cfg.EnabledCores()
	for i := 0; i < s.deviceCfg.NumberCores; i++ {
		activeStr := "inactive"
		if s.status.CoreActive(i) {
			activeStr = "active"
		}
		enabledStr := "disabled"
		if enabled.Has(i) {
			enabledStr = "enabled"
		}
		lines = append(lines, fmt.Sprintf("Core %d: %s (%s)", i, activeStr, enabledStr))
	}
	exe := s.cfg.ExecutablePath()
	if exe == "" {
		exe = "(none)"
	}
	lines = append(lines, fmt.Sprintf("Executable: %s", exe))
	return lines
}

// configLines builds the content of the :config panel: the opaque
// human-readable configuration report (spec.md's external collaborator,
// out of scope to re-specify) plus the host board status SPEC_FULL.md's
// original_source supplement adds.
func (s *Session) configLines() []string {
	lines := []string{
		fmt.Sprintf("Device:       %s (%s)", s.deviceCfg.DeviceName, s.deviceCfg.CPUName),
		fmt.Sprintf("Cores:        %d", s.deviceCfg.NumberCores),
		fmt.Sprintf("Architecture: %s", s.deviceCfg.ArchitectureType),
		fmt.Sprintf("Clock:        %d MHz", s.deviceCfg.ClockFreqMHz),
		fmt.Sprintf("Instr space:  %d MB", s.deviceCfg.InstructionSpaceSizeMB),
		fmt.Sprintf("Per-core RAM: %d MB", s.deviceCfg.PerCoreDataSpaceMB),
		fmt.Sprintf("Shared RAM:   %d KB", s.deviceCfg.SharedDataSpaceKB),
		fmt.Sprintf("Revision:     %d rev %c", s.deviceCfg.Revision, s.deviceCfg.Version),
	}
	s.deviceMu.Lock()
	hbs, st := s.drv.GetHostBoardStatus()
	s.deviceMu.Unlock()
	s.checkFatal("get host board status", st)
	lines = append(lines,
		fmt.Sprintf("Board:        %s serial %d", hbs.BoardType, hbs.SerialNumber),
		fmt.Sprintf("Temp:         %.1f C", hbs.TempCelsius),
		fmt.Sprintf("Power draw:   %.1f W", hbs.PowerDrawWatts),
	)
	return lines
}
