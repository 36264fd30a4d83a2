package gui

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"slate/device"
)

type Kind byte

const (
	KindBox Kind = iota
	KindTextButton
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "Box"
	case KindTextButton:
		return "TextButton"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

type colors struct {
	fill, frame, text Color
}

// Element is a widget with a fixed rectangle. Elements live in the storage
// passed to AddPage and are never removed, so pointers to them stay valid.
type Element struct {
	id      ElemID
	page    *Page
	kind    Kind
	rect    Rect
	normal  colors
	glow    colors
	frameOn bool
	label   string
	font    FontID
	handler TouchHandler
	glowing bool
	dirty   bool
}

func (e *Element) ID() ElemID {
	return e.id
}

func (e *Element) Kind() Kind {
	return e.kind
}

func (e *Element) Rect() Rect {
	return e.rect
}

func (e *Element) Page() *Page {
	return e.page
}

func (e *Element) Text() string {
	return e.label
}

func (e *Element) Font() FontID {
	return e.font
}

func (e *Element) Glowing() bool {
	return e.glowing
}

func (e *Element) Dirty() bool {
	return e.dirty
}

// Colors returns the colors used when the element is not glowing.
func (e *Element) Colors() (fill, frame, text Color) {
	return e.normal.fill, e.normal.frame, e.normal.text
}

func (e *Element) SetColors(fill, frame, text Color) {
	e.normal = colors{fill: fill, frame: frame, text: text}
	e.dirty = true
}

// SetGlowColors sets the colors shown while a touch is held inside a button.
func (e *Element) SetGlowColors(fill, frame, text Color) {
	e.glow = colors{fill: fill, frame: frame, text: text}
	if e.glowing {
		e.dirty = true
	}
}

func (e *Element) SetFrameEnabled(enabled bool) {
	if e.frameOn != enabled {
		e.frameOn = enabled
		e.dirty = true
	}
}

func (e *Element) SetText(text string) {
	text = norm.NFC.String(text)
	if e.label != text {
		e.label = text
		e.dirty = true
	}
}

func (e *Element) String() string {
	return fmt.Sprintf("%s(%d %s %q)", e.kind, e.id, e.rect, e.label)
}

func (e *Element) setGlow(glowing bool) {
	if e.kind != KindTextButton || e.glowing == glowing {
		return
	}
	e.glowing = glowing
	e.dirty = true
}

func (e *Element) draw(g *Gui) {
	c := e.normal
	if e.glowing {
		c = e.glow
	}
	g.display.DrawRect(e.rect, c.fill)
	if e.frameOn {
		g.display.DrawFrame(e.rect, c.frame)
	}
	if e.kind == KindTextButton && e.label != "" {
		if font := g.Font(e.font); font != nil {
			g.display.DrawText(e.rect, e.label, font.handle, c.text)
		}
	}
}

func (g *Gui) CreateBox(id ElemID, page PageID, rect Rect) (*Element, error) {
	element, err := g.newElement(id, page, rect)
	if err != nil {
		return nil, fmt.Errorf("box %d: %w", id, err)
	}
	element.kind = KindBox
	element.normal = colors{fill: device.Black, frame: device.Gray, text: device.White}
	element.glow = element.normal
	element.frameOn = true
	return element, nil
}

// CreateTextButton creates a button labelled with text; handler, which may
// be nil, receives the touches the button is hit by.
func (g *Gui) CreateTextButton(id ElemID, page PageID, rect Rect, text string, font FontID, handler TouchHandler) (*Element, error) {
	if g.Font(font) == nil {
		return nil, fmt.Errorf("button %d: font %d: %w", id, font, ErrUnknownFont)
	}
	element, err := g.newElement(id, page, rect)
	if err != nil {
		return nil, fmt.Errorf("button %d: %w", id, err)
	}
	if fn, ok := handler.(TouchFunc); ok && fn == nil {
		handler = nil
	}
	element.kind = KindTextButton
	element.normal = colors{fill: device.BlueDk4, frame: device.BlueDk2, text: device.White}
	element.glow = colors{fill: device.BlueDk1, frame: device.BlueDk2, text: device.White}
	element.frameOn = true
	element.label = norm.NFC.String(text)
	element.font = font
	element.handler = handler
	return element, nil
}

func (g *Gui) newElement(id ElemID, pageID PageID, rect Rect) (*Element, error) {
	if g.closed {
		return nil, ErrClosed
	}
	page := g.Page(pageID)
	if page == nil {
		return nil, fmt.Errorf("page %d: %w", pageID, ErrUnknownPage)
	}
	if page.Element(id) != nil {
		return nil, fmt.Errorf("page %d: %w", pageID, ErrDuplicateID)
	}
	if page.count == len(page.elements) {
		return nil, fmt.Errorf("page %d: %d elements: %w", pageID, len(page.elements), ErrCapacityExceeded)
	}
	element := &page.elements[page.count]
	*element = Element{
		id:    id,
		page:  page,
		rect:  device.NewRect(rect.X, rect.Y, rect.W, rect.H),
		dirty: true,
	}
	page.count++
	page.dirty = true
	return element, nil
}
