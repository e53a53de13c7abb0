// Command launchpad is the host-side control and interactive UART terminal
// for a multi-core soft-CPU FPGA accelerator. See SPEC_FULL.md for the full
// design; this file is the CLI surface spec.md §6 calls an external
// collaborator — it only parses flags and wires together the session.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/launchpad-dev/launchpad/internal/config"
	"github.com/launchpad-dev/launchpad/internal/driver"
	"github.com/launchpad-dev/launchpad/internal/driver/serialdriver"
	"github.com/launchpad-dev/launchpad/internal/driver/simdriver"
	"github.com/launchpad-dev/launchpad/internal/session"
)

func main() {
	log.SetFlags(log.Lmsgprefix | log.Lmicroseconds)
	log.SetPrefix("launchpad: ")

	var (
		binPath    string
		coreSpec   string
		doReset    bool
		doConfig   bool
		backend    string
		devicePath string
		baudRate   int
	)
	flag.StringVar(&binPath, "bin", "", "executable to load onto enabled cores")
	flag.StringVar(&binPath, "exe", "", "alias for -bin")
	flag.StringVar(&coreSpec, "c", "", "initial enabled cores: \"all\", \"n\", \"a:b\", or \"a,b,c\"")
	flag.BoolVar(&doReset, "reset", false, "reset the device, then continue into the session")
	flag.BoolVar(&doConfig, "config", false, "print the device configuration report and exit (unless -bin is also given)")
	flag.StringVar(&backend, "backend", "sim", "driver backend: \"sim\" or \"serial\"")
	flag.StringVar(&devicePath, "device", "/dev/ttyUSB0", "serial device path (backend=serial only)")
	flag.IntVar(&baudRate, "baud", 115200, "serial baud rate (backend=serial only)")
	flag.Usage = usage
	flag.Parse()

	if binPath == "" && !doReset && !doConfig {
		log.Fatal("no executable specified (-bin/-exe) and neither -reset nor -config given; nothing to do")
	}

	drv, err := openDriver(backend, devicePath, baudRate)
	if err != nil {
		log.Fatalf("opening driver: %v", err)
	}

	if st := drv.Initialise(); st != driver.Success {
		log.Fatalf("initialising device: %s", st)
	}

	if doReset {
		if st := drv.Reset(); st != driver.Success {
			log.Fatalf("resetting device: %s", st)
		}
		if st := drv.Initialise(); st != driver.Success {
			log.Fatalf("re-initialising device after reset: %s", st)
		}
	}

	deviceCfg, st := drv.GetConfiguration()
	if st != driver.Success {
		log.Fatalf("reading device configuration: %s", st)
	}

	cfg := config.New()
	if binPath != "" {
		cfg.SetExecutablePath(binPath)
	}
	if coreSpec != "" {
		set, isAll, err := config.ParseCoreSpec(coreSpec)
		if err != nil {
			log.Fatalf("invalid -c core spec: %v", err)
		}
		cfg.Replace(set, isAll)
		if warn := set.OutOfRange(deviceCfg.NumberCores); len(warn) > 0 {
			fmt.Fprintf(os.Stderr, "launchpad: warning: core %d enabled but device only has %d cores\n", warn[0], deviceCfg.NumberCores)
		}
	}

	if doConfig {
		printConfigReport(deviceCfg, drv)
		if binPath == "" {
			if st := drv.Finalise(); st != driver.Success {
				log.Fatalf("finalising device: %s", st)
			}
			return
		}
	}

	if cfg.EnabledCores().Count(deviceCfg.NumberCores) == 0 {
		log.Fatal("no cores enabled; pass -c to select at least one")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("opening terminal: %v", err)
	}
	scr, err := session.NewScreen(screen)
	if err != nil {
		log.Fatalf("initialising screen: %v", err)
	}

	baseDir, err := os.Getwd()
	if err != nil {
		baseDir = "."
	}

	sess := session.New(drv, deviceCfg, cfg, scr, log.Default(), baseDir)
	if err := sess.Run(); err != nil {
		log.Fatalf("session terminated: %v", err)
	}
}

func openDriver(backend, devicePath string, baudRate int) (driver.Driver, error) {
	switch backend {
	case "sim":
		return simdriver.New(4, driver.SharedNothing), nil
	case "serial":
		return serialdriver.Open(devicePath, baudRate)
	default:
		return nil, fmt.Errorf("unknown backend %q (want \"sim\" or \"serial\")", backend)
	}
}

func printConfigReport(cfg driver.DeviceConfiguration, drv driver.Driver) {
	fmt.Printf("Device:       %s (%s)\n", cfg.DeviceName, cfg.CPUName)
	fmt.Printf("Cores:        %d\n", cfg.NumberCores)
	fmt.Printf("Architecture: %s\n", cfg.ArchitectureType)
	fmt.Printf("Clock:        %d MHz\n", cfg.ClockFreqMHz)
	fmt.Printf("Revision:     %d rev %c\n", cfg.Revision, cfg.Version)
	if hbs, st := drv.GetHostBoardStatus(); st == driver.Success {
		fmt.Printf("Board:        %s serial %d\n", hbs.BoardType, hbs.SerialNumber)
		fmt.Printf("Temp:         %.1f C\n", hbs.TempCelsius)
		fmt.Printf("Power draw:   %.1f W\n", hbs.PowerDrawWatts)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags]\n\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}
