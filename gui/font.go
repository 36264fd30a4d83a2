package gui

import (
	"errors"
	"fmt"

	"slate/device"
)

type Font struct {
	id     FontID
	source string
	size   int
	handle device.Font
}

func (f *Font) ID() FontID {
	return f.id
}

func (f *Font) Source() string {
	return f.source
}

func (f *Font) Size() int {
	return f.size
}

func (f *Font) Handle() device.Font {
	return f.handle
}

// AddFont loads a font through the driver and registers it under id.
func (g *Gui) AddFont(id FontID, source string, size int) error {
	if g.closed {
		return ErrClosed
	}
	if g.Font(id) != nil {
		return fmt.Errorf("font %d: %w", id, ErrDuplicateID)
	}
	if g.nFonts == len(g.fonts) {
		return fmt.Errorf("font %d: %d fonts: %w", id, len(g.fonts), ErrCapacityExceeded)
	}
	handle, err := g.driver.LoadFont(source, size)
	if err != nil {
		if errors.Is(err, device.ErrFontLoad) {
			return fmt.Errorf("font %d: %w", id, err)
		}
		return fmt.Errorf("font %d: %w: %w", id, device.ErrFontLoad, err)
	}
	g.fonts[g.nFonts] = Font{id: id, source: source, size: size, handle: handle}
	g.nFonts++
	return nil
}

// Font returns the registered font with the given id or nil.
func (g *Gui) Font(id FontID) *Font {
	for i := 0; i < g.nFonts; i++ {
		if g.fonts[i].id == id {
			return &g.fonts[i]
		}
	}
	return nil
}
