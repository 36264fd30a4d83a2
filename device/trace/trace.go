// Package trace wraps a driver and logs every call crossing the device
// boundary.
package trace

import (
	"fmt"
	"log"
	"strings"

	"github.com/muesli/ansi"
	"github.com/muesli/termenv"

	"slate/device"
)

const opWidth = 10

type Driver struct {
	next    device.Driver
	logger  *log.Logger
	profile termenv.Profile
}

// Wrap logs through logger; colors are shown as swatches in profile.
func Wrap(next device.Driver, logger *log.Logger, profile termenv.Profile) *Driver {
	return &Driver{next: next, logger: logger, profile: profile}
}

func (d *Driver) AcquireDisplay(path string) (device.Display, error) {
	display, err := d.next.AcquireDisplay(path)
	if err != nil {
		d.logf("Display", "%q: %v", path, err)
		return nil, err
	}
	w, h := display.Size()
	d.logf("Display", "%q %dx%d", path, w, h)
	if damager, ok := display.(device.Damager); ok {
		return &damagerDisplay{tracingDisplay{driver: d, next: display}, damager}, nil
	}
	return &tracingDisplay{driver: d, next: display}, nil
}

func (d *Driver) AcquireTouchSource(path string) (device.TouchSource, error) {
	touch, err := d.next.AcquireTouchSource(path)
	if err != nil {
		d.logf("Touch", "%q: %v", path, err)
		return nil, err
	}
	d.logf("Touch", "%q", path)
	return &tracingTouch{driver: d, next: touch}, nil
}

func (d *Driver) LoadFont(source string, size int) (device.Font, error) {
	font, err := d.next.LoadFont(source, size)
	if err != nil {
		d.logf("Font", "%q %d: %v", source, size, err)
		return nil, err
	}
	d.logf("Font", "%q %d", source, size)
	return font, nil
}

func (d *Driver) logf(op string, format string, args ...any) {
	d.logger.Print(pad(op, opWidth) + fmt.Sprintf(format, args...))
}

func (d *Driver) swatch(color device.Color) string {
	if d.profile == termenv.Ascii {
		return color.Hex()
	}
	return termenv.String("  ").Background(d.profile.Color(color.Hex())).String() + " " + color.Hex()
}

// pad right-pads s to width printable columns; escape sequences take none.
func pad(s string, width int) string {
	n := ansi.PrintableRuneWidth(s)
	if n >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-n)
}

type tracingDisplay struct {
	driver *Driver
	next   device.Display
}

func (t *tracingDisplay) Size() (int, int) {
	return t.next.Size()
}

func (t *tracingDisplay) DrawRect(rect device.Rect, color device.Color) {
	t.driver.logf("Rect", "%s%s", pad(rect.String(), 22), t.driver.swatch(color))
	t.next.DrawRect(rect, color)
}

func (t *tracingDisplay) DrawFrame(rect device.Rect, color device.Color) {
	t.driver.logf("Frame", "%s%s", pad(rect.String(), 22), t.driver.swatch(color))
	t.next.DrawFrame(rect, color)
}

func (t *tracingDisplay) DrawText(rect device.Rect, text string, font device.Font, color device.Color) {
	t.driver.logf("Text", "%s%s %q", pad(rect.String(), 22), t.driver.swatch(color), text)
	t.next.DrawText(rect, text, font, color)
}

func (t *tracingDisplay) Present() error {
	err := t.next.Present()
	if err != nil {
		t.driver.logf("Present", "%v", err)
	} else {
		t.driver.logf("Present", "")
	}
	return err
}

func (t *tracingDisplay) Close() error {
	t.driver.logf("Close", "display")
	return t.next.Close()
}

type damagerDisplay struct {
	tracingDisplay
	damager device.Damager
}

func (t *damagerDisplay) Damaged() bool {
	damaged := t.damager.Damaged()
	if damaged {
		t.driver.logf("Damaged", "")
	}
	return damaged
}

type tracingTouch struct {
	driver *Driver
	next   device.TouchSource
}

func (t *tracingTouch) PollTouch() []device.TouchEvent {
	events := t.next.PollTouch()
	for _, event := range events {
		t.driver.logf("Touch", "%s", event)
	}
	return events
}

func (t *tracingTouch) Close() error {
	t.driver.logf("Close", "touch")
	return t.next.Close()
}
