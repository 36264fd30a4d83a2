package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/muesli/termenv"

	"slate/config"
	"slate/device"
	"slate/device/fb"
	tcelldev "slate/device/tcell"
	"slate/device/trace"
	"slate/gui"
)

const (
	pgMain gui.PageID = iota
)

const (
	elemBox gui.ElemID = iota
	elemBtnQuit
)

const (
	fontBtn gui.FontID = iota + 1
)

const (
	maxFont       = 10
	maxPage       = 1
	maxElemPgMain = 30
)

// Pause between ticks of the interactive driver.
const tick = 10 * time.Millisecond

func main() {
	os.Exit(run(os.Args[1:]))
}

type app struct {
	quit bool
}

func (a *app) onQuit(g *gui.Gui, e *gui.Element, kind gui.TouchKind, x, y int) bool {
	if kind == gui.TouchUpIn {
		a.quit = true
	}
	return true
}

func run(args []string) int {
	log.SetFlags(0)

	cfg, err := config.Load("quitbutton", args, os.Getenv)
	var help *config.HelpError
	if errors.As(err, &help) {
		fmt.Fprint(os.Stderr, help.Usage)
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "quitbutton: %v\n", err)
		return 2
	}

	switch {
	case cfg.LogFile != "":
		file, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "quitbutton: %v\n", err)
			return 1
		}
		defer file.Close()
		log.SetOutput(file)
	case cfg.Driver == config.DriverTcell:
		log.SetOutput(io.Discard)
	}

	drv, idle := newDriver(cfg)

	g, err := gui.Init(drv, gui.Config{DisplayPath: cfg.DisplayPath, TouchPath: cfg.TouchPath},
		make([]gui.Page, maxPage), make([]gui.Font, maxFont))
	if err != nil {
		fmt.Fprintf(os.Stderr, "quitbutton: init: %v\n", err)
		return 1
	}

	a := &app{}
	if err := a.build(g, cfg); err != nil {
		g.Quit()
		fmt.Fprintf(os.Stderr, "quitbutton: %v\n", err)
		return 1
	}

	code := 0
	for !a.quit {
		if err := g.Update(); err != nil {
			log.Printf("### update: %v", err)
			code = 1
			break
		}
		if idle() {
			log.Println("input closed")
			break
		}
	}

	if err := g.Quit(); err != nil {
		log.Printf("### quit: %v", err)
	}
	return code
}

func (a *app) build(g *gui.Gui, cfg config.Config) error {
	if err := g.AddFont(fontBtn, cfg.Font, cfg.FontSize); err != nil {
		return err
	}
	if err := g.AddPage(pgMain, make([]gui.Element, maxElemPgMain)); err != nil {
		return err
	}
	g.SetBackgroundColor(device.GrayDk2)

	box, err := g.CreateBox(elemBox, pgMain, device.NewRect(10, 50, 300, 150))
	if err != nil {
		return err
	}
	box.SetColors(device.Black, device.White, device.Black)

	_, err = g.CreateTextButton(elemBtnQuit, pgMain, device.NewRect(120, 100, 80, 40),
		"Quit", fontBtn, gui.TouchFunc(a.onQuit))
	if err != nil {
		return err
	}

	return g.SetCurrentPage(pgMain)
}

// newDriver returns the configured driver and a check, run after every
// tick, telling whether no more input can arrive.
func newDriver(cfg config.Config) (device.Driver, func() bool) {
	var drv device.Driver
	var idle func() bool

	switch cfg.Driver {
	case config.DriverFb:
		var opts []fb.Option
		if cfg.Snapshot != "" {
			opts = append(opts, fb.WithSnapshot(cfg.Snapshot))
		}
		fbDriver := fb.NewDriver(cfg.Width, cfg.Height, opts...)
		for _, tap := range cfg.Taps {
			fbDriver.Tap(tap.X, tap.Y)
		}
		drv = fbDriver
		idle = func() bool { return fbDriver.Pending() == 0 }

	default:
		tcellDriver := tcelldev.NewDriver(tcelldev.WithCellSize(cfg.CellWidth, cfg.CellHeight))
		drv = tcellDriver
		idle = func() bool {
			time.Sleep(tick)
			return tcellDriver.Interrupted()
		}
	}

	if cfg.Trace {
		drv = trace.Wrap(drv, log.Default(), termenv.ColorProfile())
	}
	return drv, idle
}
