package gui

import (
	"errors"
	"fmt"

	"slate/device"
)

type (
	Rect  = device.Rect
	Color = device.Color
)

type (
	PageID int
	ElemID int
	FontID int
)

var (
	ErrDuplicateID      = errors.New("duplicate id")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrUnknownPage      = errors.New("unknown page")
	ErrUnknownFont      = errors.New("unknown font")
	ErrClosed           = errors.New("gui closed")
)

// Config names the devices Init acquires. An empty TouchPath leaves the
// runtime without touch input.
type Config struct {
	DisplayPath string
	TouchPath   string
}

// Gui is the runtime context. It is not safe for concurrent use; all calls,
// including touch handlers, happen on the goroutine that calls Update.
type Gui struct {
	driver  device.Driver
	display device.Display
	touch   device.TouchSource

	pages  []Page
	nPages int
	fonts  []Font
	nFonts int

	current    *Page
	background Color
	gesture    gesture
	closed     bool
}

// Init binds the page and font tables to the given storage, whose lengths
// are the capacities, and acquires the devices named by cfg.
func Init(driver device.Driver, cfg Config, pages []Page, fonts []Font) (*Gui, error) {
	display, err := driver.AcquireDisplay(cfg.DisplayPath)
	if err != nil {
		return nil, deviceError("display", cfg.DisplayPath, err)
	}

	var touch device.TouchSource
	if cfg.TouchPath != "" {
		touch, err = driver.AcquireTouchSource(cfg.TouchPath)
		if err != nil {
			display.Close()
			return nil, deviceError("touch", cfg.TouchPath, err)
		}
	}

	for i := range pages {
		pages[i] = Page{}
	}
	for i := range fonts {
		fonts[i] = Font{}
	}

	return &Gui{
		driver:     driver,
		display:    display,
		touch:      touch,
		pages:      pages,
		fonts:      fonts,
		background: device.Black,
	}, nil
}

func deviceError(kind, path string, err error) error {
	if errors.Is(err, device.ErrDeviceUnavailable) {
		return fmt.Errorf("%s %q: %w", kind, path, err)
	}
	return fmt.Errorf("%s %q: %w: %w", kind, path, device.ErrDeviceUnavailable, err)
}

func (g *Gui) AddPage(id PageID, storage []Element) error {
	if g.closed {
		return ErrClosed
	}
	if g.Page(id) != nil {
		return fmt.Errorf("page %d: %w", id, ErrDuplicateID)
	}
	if g.nPages == len(g.pages) {
		return fmt.Errorf("page %d: %d pages: %w", id, len(g.pages), ErrCapacityExceeded)
	}
	for i := range storage {
		storage[i] = Element{}
	}
	g.pages[g.nPages] = Page{id: id, elements: storage, dirty: true}
	g.nPages++
	return nil
}

// Page returns the registered page with the given id or nil.
func (g *Gui) Page(id PageID) *Page {
	for i := 0; i < g.nPages; i++ {
		if g.pages[i].id == id {
			return &g.pages[i]
		}
	}
	return nil
}

func (g *Gui) CurrentPage() *Page {
	return g.current
}

// SetCurrentPage makes the page current and schedules a full redraw.
// A gesture in progress on the previous page is abandoned without
// notifying its element.
func (g *Gui) SetCurrentPage(id PageID) error {
	if g.closed {
		return ErrClosed
	}
	page := g.Page(id)
	if page == nil {
		return fmt.Errorf("page %d: %w", id, ErrUnknownPage)
	}
	g.cancelGesture()
	g.current = page
	page.dirty = true
	return nil
}

func (g *Gui) BackgroundColor() Color {
	return g.background
}

func (g *Gui) SetBackgroundColor(color Color) {
	g.background = color
	if g.current != nil {
		g.current.dirty = true
	}
}

// Element returns the element with the given id on the given page or nil.
func (g *Gui) Element(page PageID, id ElemID) *Element {
	p := g.Page(page)
	if p == nil {
		return nil
	}
	return p.Element(id)
}

// Update runs one tick: it drains pending touch events, dispatches them to
// the current page and redraws what changed. It never waits for input.
func (g *Gui) Update() error {
	if g.closed {
		return ErrClosed
	}
	if g.touch != nil {
		for _, event := range g.touch.PollTouch() {
			g.dispatch(event)
			if g.closed {
				return nil
			}
		}
	}
	if g.current == nil {
		return nil
	}
	if damager, ok := g.display.(device.Damager); ok && damager.Damaged() {
		g.current.dirty = true
	}
	if !g.redraw(g.current) {
		return nil
	}
	return g.display.Present()
}

func (g *Gui) redraw(page *Page) bool {
	if page.dirty {
		width, height := g.display.Size()
		g.display.DrawRect(device.NewRect(0, 0, width, height), g.background)
		for i := range page.elements[:page.count] {
			element := &page.elements[i]
			element.draw(g)
			element.dirty = false
		}
		page.dirty = false
		return true
	}

	var damaged []Rect
	for i := range page.elements[:page.count] {
		element := &page.elements[i]
		if !element.dirty {
			for _, rect := range damaged {
				if rect.Overlaps(element.rect) {
					element.dirty = true
					break
				}
			}
		}
		if !element.dirty {
			continue
		}
		element.draw(g)
		element.dirty = false
		damaged = append(damaged, element.rect)
	}
	return len(damaged) > 0
}

// Quit releases the devices. Every later call fails with ErrClosed.
func (g *Gui) Quit() error {
	if g.closed {
		return ErrClosed
	}
	g.closed = true
	g.cancelGesture()
	var errs []error
	if g.touch != nil {
		if err := g.touch.Close(); err != nil {
			errs = append(errs, fmt.Errorf("touch: %w", err))
		}
	}
	if err := g.display.Close(); err != nil {
		errs = append(errs, fmt.Errorf("display: %w", err))
	}
	return errors.Join(errs...)
}
