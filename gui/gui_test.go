package gui

import (
	"errors"
	"fmt"
	"testing"

	"slate/device"
)

type testDriver struct {
	display *testDisplay
	touch   *testTouch
	offline map[string]bool
}

func newTestDriver() *testDriver {
	return &testDriver{
		display: &testDisplay{width: 320, height: 240},
		touch:   &testTouch{},
		offline: map[string]bool{},
	}
}

func (d *testDriver) AcquireDisplay(path string) (device.Display, error) {
	if d.offline[path] {
		return nil, device.ErrDeviceUnavailable
	}
	return d.display, nil
}

func (d *testDriver) AcquireTouchSource(path string) (device.TouchSource, error) {
	if d.offline[path] {
		return nil, errors.New("no such file or directory")
	}
	return d.touch, nil
}

func (d *testDriver) LoadFont(source string, size int) (device.Font, error) {
	if source == "missing.ttf" {
		return nil, fmt.Errorf("%w: open %s", device.ErrFontLoad, source)
	}
	return testFont{source, size}, nil
}

type testFont struct {
	source string
	size   int
}

func (f testFont) Source() string { return f.source }
func (f testFont) Size() int      { return f.size }

type testDisplay struct {
	width, height int
	ops           []string
	presents      int
	closed        bool
	damaged       bool
}

func (d *testDisplay) Size() (int, int) {
	return d.width, d.height
}

func (d *testDisplay) DrawRect(rect device.Rect, color device.Color) {
	d.ops = append(d.ops, fmt.Sprintf("rect %s %s", rect, color.Hex()))
}

func (d *testDisplay) DrawFrame(rect device.Rect, color device.Color) {
	d.ops = append(d.ops, fmt.Sprintf("frame %s %s", rect, color.Hex()))
}

func (d *testDisplay) DrawText(rect device.Rect, text string, font device.Font, color device.Color) {
	d.ops = append(d.ops, fmt.Sprintf("text %s %q %s", rect, text, color.Hex()))
}

func (d *testDisplay) Present() error {
	d.presents++
	return nil
}

func (d *testDisplay) Close() error {
	d.closed = true
	return nil
}

func (d *testDisplay) Damaged() bool {
	damaged := d.damaged
	d.damaged = false
	return damaged
}

func (d *testDisplay) reset() {
	d.ops = nil
	d.presents = 0
}

type testTouch struct {
	pending []device.TouchEvent
	closed  bool
}

func (t *testTouch) PollTouch() []device.TouchEvent {
	events := t.pending
	t.pending = nil
	return events
}

func (t *testTouch) Close() error {
	t.closed = true
	return nil
}

func (t *testTouch) push(phase device.Phase, x, y int) {
	t.pending = append(t.pending, device.TouchEvent{X: x, Y: y, Phase: phase})
}

type touchRecord struct {
	element ElemID
	kind    TouchKind
	x, y    int
}

type recorder struct {
	touches []touchRecord
}

func (r *recorder) handler() TouchFunc {
	return func(g *Gui, e *Element, kind TouchKind, x, y int) bool {
		r.touches = append(r.touches, touchRecord{e.ID(), kind, x, y})
		return true
	}
}

const (
	pgMain PageID = iota
	pgOther
)

const (
	elemBox ElemID = iota
	elemQuit
)

const fontBtn FontID = 1

func newTestGui(t *testing.T) (*Gui, *testDriver) {
	t.Helper()
	drv := newTestDriver()
	g, err := Init(drv, Config{DisplayPath: "/dev/fb0", TouchPath: "/dev/input/touchscreen"}, make([]Page, 2), make([]Font, 4))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return g, drv
}

// setupMain builds the quit button screen and returns its recorder.
func setupMain(t *testing.T, g *Gui) *recorder {
	t.Helper()
	rec := &recorder{}
	if err := g.AddFont(fontBtn, "DroidSans.ttf", 12); err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	if err := g.AddPage(pgMain, make([]Element, 30)); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	g.SetBackgroundColor(device.GrayDk2)
	box, err := g.CreateBox(elemBox, pgMain, Rect{X: 10, Y: 50, W: 300, H: 150})
	if err != nil {
		t.Fatalf("CreateBox: %v", err)
	}
	box.SetColors(device.Black, device.White, device.Black)
	if _, err := g.CreateTextButton(elemQuit, pgMain, Rect{X: 120, Y: 100, W: 80, H: 40}, "Quit", fontBtn, rec.handler()); err != nil {
		t.Fatalf("CreateTextButton: %v", err)
	}
	if err := g.SetCurrentPage(pgMain); err != nil {
		t.Fatalf("SetCurrentPage: %v", err)
	}
	return rec
}

func TestInitDeviceUnavailable(t *testing.T) {
	drv := newTestDriver()
	drv.offline["/dev/fb9"] = true
	_, err := Init(drv, Config{DisplayPath: "/dev/fb9"}, make([]Page, 1), make([]Font, 1))
	if !errors.Is(err, device.ErrDeviceUnavailable) {
		t.Errorf("Expected ErrDeviceUnavailable, got %v", err)
	}

	drv = newTestDriver()
	drv.offline["/dev/input/none"] = true
	_, err = Init(drv, Config{DisplayPath: "/dev/fb0", TouchPath: "/dev/input/none"}, make([]Page, 1), make([]Font, 1))
	if !errors.Is(err, device.ErrDeviceUnavailable) {
		t.Errorf("Expected ErrDeviceUnavailable for touch, got %v", err)
	}
	if !drv.display.closed {
		t.Error("Expected display to be released after touch failure")
	}
}

func TestInitWithoutTouch(t *testing.T) {
	drv := newTestDriver()
	g, err := Init(drv, Config{DisplayPath: "/dev/fb0"}, make([]Page, 1), make([]Font, 1))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	drv.touch.push(device.PhaseDown, 1, 1)
	if err := g.Update(); err != nil {
		t.Errorf("Update: %v", err)
	}
	if len(drv.touch.pending) != 1 {
		t.Error("Expected touch source to stay unused")
	}
}

func TestAddFont(t *testing.T) {
	drv := newTestDriver()
	g, err := Init(drv, Config{DisplayPath: "/dev/fb0"}, make([]Page, 1), make([]Font, 2))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := g.AddFont(1, "a.ttf", 12); err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	if err := g.AddFont(1, "b.ttf", 12); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}
	if err := g.AddFont(2, "missing.ttf", 12); !errors.Is(err, device.ErrFontLoad) {
		t.Errorf("Expected ErrFontLoad, got %v", err)
	}
	if err := g.AddFont(3, "c.ttf", 20); err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	if err := g.AddFont(4, "d.ttf", 20); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("Expected ErrCapacityExceeded, got %v", err)
	}
	font := g.Font(3)
	if font == nil || font.Source() != "c.ttf" || font.Size() != 20 {
		t.Errorf("Unexpected font %#v", font)
	}
	if g.Font(2) != nil {
		t.Error("Expected failed font to stay unregistered")
	}
}

func TestAddPageCapacity(t *testing.T) {
	drv := newTestDriver()
	g, err := Init(drv, Config{DisplayPath: "/dev/fb0"}, make([]Page, 1), make([]Font, 1))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := g.AddPage(pgMain, make([]Element, 2)); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	if err := g.AddPage(pgMain, make([]Element, 2)); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}
	if err := g.AddPage(pgOther, make([]Element, 2)); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("Expected ErrCapacityExceeded, got %v", err)
	}
	if g.Page(pgOther) != nil {
		t.Error("Expected page table unchanged")
	}
	if err := g.SetCurrentPage(pgOther); !errors.Is(err, ErrUnknownPage) {
		t.Errorf("Expected ErrUnknownPage, got %v", err)
	}
	if g.CurrentPage() != nil {
		t.Error("Expected no current page")
	}
}

func TestCreateElementErrors(t *testing.T) {
	g, _ := newTestGui(t)
	if err := g.AddFont(fontBtn, "DroidSans.ttf", 12); err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	if err := g.AddPage(pgMain, make([]Element, 2)); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	rect := Rect{X: 0, Y: 0, W: 10, H: 10}

	if _, err := g.CreateBox(elemBox, pgOther, rect); !errors.Is(err, ErrUnknownPage) {
		t.Errorf("Expected ErrUnknownPage, got %v", err)
	}
	if _, err := g.CreateTextButton(elemQuit, pgMain, rect, "Quit", 7, nil); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("Expected ErrUnknownFont, got %v", err)
	}
	if _, err := g.CreateBox(elemBox, pgMain, rect); err != nil {
		t.Fatalf("CreateBox: %v", err)
	}

	page := g.Page(pgMain)
	before := page.Elements()
	if _, err := g.CreateBox(elemBox, pgMain, Rect{X: 5, Y: 5, W: 1, H: 1}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}
	if _, err := g.CreateTextButton(elemBox, pgMain, rect, "Dup", fontBtn, nil); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}
	after := page.Elements()
	if len(after) != len(before) || after[0].Rect() != rect {
		t.Errorf("Expected page unchanged, got %v", after)
	}

	if _, err := g.CreateTextButton(elemQuit, pgMain, rect, "Quit", fontBtn, nil); err != nil {
		t.Fatalf("CreateTextButton: %v", err)
	}
	if _, err := g.CreateBox(2, pgMain, rect); !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("Expected ErrCapacityExceeded, got %v", err)
	}
	if page.Len() != 2 || page.Cap() != 2 {
		t.Errorf("Expected 2/2 elements, got %d/%d", page.Len(), page.Cap())
	}
}

func TestNegativeSizeIsClamped(t *testing.T) {
	g, _ := newTestGui(t)
	if err := g.AddPage(pgMain, make([]Element, 1)); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	box, err := g.CreateBox(elemBox, pgMain, Rect{X: 3, Y: 4, W: -5, H: -1})
	if err != nil {
		t.Fatalf("CreateBox: %v", err)
	}
	if box.Rect() != (Rect{X: 3, Y: 4}) {
		t.Errorf("Expected empty rect, got %v", box.Rect())
	}
}

func TestTapQuitButton(t *testing.T) {
	g, drv := newTestGui(t)
	rec := setupMain(t, g)

	drv.touch.push(device.PhaseDown, 130, 110)
	drv.touch.push(device.PhaseUp, 130, 110)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := []touchRecord{
		{elemQuit, TouchDownIn, 130, 110},
		{elemQuit, TouchUpIn, 130, 110},
	}
	if len(rec.touches) != len(want) {
		t.Fatalf("Expected %v, got %v", want, rec.touches)
	}
	for i := range want {
		if rec.touches[i] != want[i] {
			t.Errorf("touch %d: expected %v, got %v", i, want[i], rec.touches[i])
		}
	}
	upIn := 0
	for _, touch := range rec.touches {
		if touch.kind == TouchUpIn {
			upIn++
		}
	}
	if upIn != 1 {
		t.Errorf("Expected exactly one UpIn, got %d", upIn)
	}
}

func TestTapOutside(t *testing.T) {
	g, drv := newTestGui(t)
	rec := setupMain(t, g)

	drv.touch.push(device.PhaseDown, 5, 5)
	drv.touch.push(device.PhaseUp, 5, 5)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(rec.touches) != 0 {
		t.Errorf("Expected no callbacks, got %v", rec.touches)
	}
}

func TestTapBoxOnly(t *testing.T) {
	g, drv := newTestGui(t)
	rec := setupMain(t, g)

	drv.touch.push(device.PhaseDown, 20, 60)
	drv.touch.push(device.PhaseUp, 20, 60)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(rec.touches) != 0 {
		t.Errorf("Expected box to absorb the tap, got %v", rec.touches)
	}
}

func TestDragOutAndBack(t *testing.T) {
	g, drv := newTestGui(t)
	rec := setupMain(t, g)
	button := g.Element(pgMain, elemQuit)

	drv.touch.push(device.PhaseDown, 130, 110)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !button.Glowing() {
		t.Error("Expected button to glow while pressed")
	}

	drv.touch.push(device.PhaseMove, 300, 10)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if button.Glowing() {
		t.Error("Expected glow off outside the button")
	}

	drv.touch.push(device.PhaseMove, 150, 120)
	drv.touch.push(device.PhaseUp, 300, 10)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := []TouchKind{TouchDownIn, TouchMoveOut, TouchMoveIn, TouchUpOut}
	if len(rec.touches) != len(want) {
		t.Fatalf("Expected %v, got %v", want, rec.touches)
	}
	for i, kind := range want {
		if rec.touches[i].kind != kind {
			t.Errorf("touch %d: expected %v, got %v", i, kind, rec.touches[i].kind)
		}
	}
	if button.Glowing() {
		t.Error("Expected glow off after release")
	}
}

func TestPressOutsideThenDragIn(t *testing.T) {
	g, drv := newTestGui(t)
	rec := setupMain(t, g)

	drv.touch.push(device.PhaseDown, 5, 5)
	drv.touch.push(device.PhaseMove, 130, 110)
	drv.touch.push(device.PhaseUp, 130, 110)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(rec.touches) != 0 {
		t.Errorf("Expected no callbacks, got %v", rec.touches)
	}
}

func TestUnpairedEventsAreIgnored(t *testing.T) {
	g, drv := newTestGui(t)
	rec := setupMain(t, g)

	drv.touch.push(device.PhaseMove, 130, 110)
	drv.touch.push(device.PhaseUp, 130, 110)
	drv.touch.push(device.Phase(9), 130, 110)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(rec.touches) != 0 {
		t.Errorf("Expected no callbacks, got %v", rec.touches)
	}
}

func TestTopmostWins(t *testing.T) {
	g, drv := newTestGui(t)
	if err := g.AddFont(fontBtn, "a.ttf", 12); err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	if err := g.AddPage(pgMain, make([]Element, 8)); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	rec := &recorder{}
	rects := []Rect{
		{X: 0, Y: 0, W: 100, H: 100},
		{X: 20, Y: 20, W: 60, H: 60},
		{X: 40, Y: 40, W: 60, H: 60},
		{X: 90, Y: 0, W: 10, H: 10},
	}
	for i, rect := range rects {
		if _, err := g.CreateTextButton(ElemID(i), pgMain, rect, fmt.Sprint(i), fontBtn, rec.handler()); err != nil {
			t.Fatalf("CreateTextButton: %v", err)
		}
	}
	if err := g.SetCurrentPage(pgMain); err != nil {
		t.Fatalf("SetCurrentPage: %v", err)
	}

	for y := 0; y < 110; y += 3 {
		for x := 0; x < 110; x += 3 {
			var want ElemID = -1
			for i, rect := range rects {
				if rect.Contains(x, y) {
					want = ElemID(i)
				}
			}
			rec.touches = nil
			drv.touch.push(device.PhaseDown, x, y)
			drv.touch.push(device.PhaseUp, x, y)
			if err := g.Update(); err != nil {
				t.Fatalf("Update: %v", err)
			}
			if want < 0 {
				if len(rec.touches) != 0 {
					t.Errorf("(%d,%d): expected no hit, got %v", x, y, rec.touches)
				}
				continue
			}
			if len(rec.touches) != 2 || rec.touches[0].element != want || rec.touches[1].element != want {
				t.Errorf("(%d,%d): expected element %d, got %v", x, y, want, rec.touches)
			}
		}
	}
}

func TestIdleUpdateDrawsNothing(t *testing.T) {
	g, drv := newTestGui(t)
	setupMain(t, g)

	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(drv.display.ops) == 0 || drv.display.presents != 1 {
		t.Fatalf("Expected first full redraw, got %v presents=%d", drv.display.ops, drv.display.presents)
	}
	if drv.display.ops[0] != "rect {0,0 320x240} #404040" {
		t.Errorf("Expected background fill first, got %q", drv.display.ops[0])
	}

	for i := 0; i < 5; i++ {
		drv.display.reset()
		if err := g.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if len(drv.display.ops) != 0 || drv.display.presents != 0 {
			t.Errorf("tick %d: expected no drawing, got %v presents=%d", i, drv.display.ops, drv.display.presents)
		}
	}
}

func TestFullRedraw(t *testing.T) {
	g, drv := newTestGui(t)
	setupMain(t, g)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := []string{
		"rect {0,0 320x240} #404040",
		"rect {10,50 300x150} #000000",
		"frame {10,50 300x150} #ffffff",
		"rect {120,100 80x40} #000020",
		"frame {120,100 80x40} #000080",
		`text {120,100 80x40} "Quit" #ffffff`,
	}
	if len(drv.display.ops) != len(want) {
		t.Fatalf("Expected %v, got %v", want, drv.display.ops)
	}
	for i := range want {
		if drv.display.ops[i] != want[i] {
			t.Errorf("op %d: expected %q, got %q", i, want[i], drv.display.ops[i])
		}
	}
}

func TestPartialRedraw(t *testing.T) {
	g, drv := newTestGui(t)
	setupMain(t, g)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	drv.display.reset()
	drv.touch.push(device.PhaseDown, 130, 110)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := []string{
		"rect {120,100 80x40} #0000c0",
		"frame {120,100 80x40} #000080",
		`text {120,100 80x40} "Quit" #ffffff`,
	}
	if len(drv.display.ops) != len(want) || drv.display.presents != 1 {
		t.Fatalf("Expected %v, got %v presents=%d", want, drv.display.ops, drv.display.presents)
	}
	for i := range want {
		if drv.display.ops[i] != want[i] {
			t.Errorf("op %d: expected %q, got %q", i, want[i], drv.display.ops[i])
		}
	}

	drv.display.reset()
	g.Element(pgMain, elemBox).SetColors(device.Yellow, device.Black, device.Black)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	// The box is below the button, so the button is repainted over it.
	if len(drv.display.ops) != 5 {
		t.Errorf("Expected box and button redraw, got %v", drv.display.ops)
	}
}

func TestEmptyElementDamagesNothing(t *testing.T) {
	g, drv := newTestGui(t)
	if err := g.AddFont(fontBtn, "DroidSans.ttf", 12); err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	if err := g.AddPage(pgMain, make([]Element, 2)); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	box, err := g.CreateBox(elemBox, pgMain, Rect{X: 130, Y: 110, W: -5, H: -5})
	if err != nil {
		t.Fatalf("CreateBox: %v", err)
	}
	if _, err := g.CreateTextButton(elemQuit, pgMain, Rect{X: 120, Y: 100, W: 80, H: 40}, "Quit", fontBtn, nil); err != nil {
		t.Fatalf("CreateTextButton: %v", err)
	}
	if err := g.SetCurrentPage(pgMain); err != nil {
		t.Fatalf("SetCurrentPage: %v", err)
	}
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	drv.display.reset()
	box.SetColors(device.Red, device.Red, device.Red)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := []string{
		"rect {130,110 0x0} #ff0000",
		"frame {130,110 0x0} #ff0000",
	}
	if len(drv.display.ops) != len(want) {
		t.Fatalf("Expected only the empty box, got %v", drv.display.ops)
	}
	for i := range want {
		if drv.display.ops[i] != want[i] {
			t.Errorf("op %d: expected %q, got %q", i, want[i], drv.display.ops[i])
		}
	}
}

func TestDamagedDisplayRedrawsPage(t *testing.T) {
	g, drv := newTestGui(t)
	setupMain(t, g)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	drv.display.reset()
	drv.display.damaged = true
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(drv.display.ops) != 6 {
		t.Errorf("Expected full redraw, got %v", drv.display.ops)
	}
}

func TestSwitchPageFromHandler(t *testing.T) {
	g, drv := newTestGui(t)
	if err := g.AddFont(fontBtn, "a.ttf", 12); err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	for _, id := range []PageID{pgMain, pgOther} {
		if err := g.AddPage(id, make([]Element, 4)); err != nil {
			t.Fatalf("AddPage: %v", err)
		}
	}
	next := TouchFunc(func(g *Gui, e *Element, kind TouchKind, x, y int) bool {
		if kind == TouchUpIn {
			if err := g.SetCurrentPage(pgOther); err != nil {
				t.Errorf("SetCurrentPage: %v", err)
			}
		}
		return true
	})
	rec := &recorder{}
	rect := Rect{X: 0, Y: 0, W: 50, H: 50}
	if _, err := g.CreateTextButton(1, pgMain, rect, "Next", fontBtn, next); err != nil {
		t.Fatalf("CreateTextButton: %v", err)
	}
	if _, err := g.CreateTextButton(1, pgOther, rect, "Back", fontBtn, rec.handler()); err != nil {
		t.Fatalf("CreateTextButton: %v", err)
	}
	if err := g.SetCurrentPage(pgMain); err != nil {
		t.Fatalf("SetCurrentPage: %v", err)
	}

	drv.touch.push(device.PhaseDown, 10, 10)
	drv.touch.push(device.PhaseUp, 10, 10)
	drv.touch.push(device.PhaseDown, 10, 10)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if g.CurrentPage().ID() != pgOther {
		t.Fatalf("Expected page %d, got %d", pgOther, g.CurrentPage().ID())
	}
	if len(rec.touches) != 1 || rec.touches[0].kind != TouchDownIn {
		t.Errorf("Expected DownIn on the new page, got %v", rec.touches)
	}
	if !g.Element(pgOther, 1).Glowing() || g.Element(pgMain, 1).Glowing() {
		t.Error("Expected only the new page's button to glow")
	}
}

func TestQuitFromHandler(t *testing.T) {
	g, drv := newTestGui(t)
	if err := g.AddFont(fontBtn, "a.ttf", 12); err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	if err := g.AddPage(pgMain, make([]Element, 1)); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	quit := TouchFunc(func(g *Gui, e *Element, kind TouchKind, x, y int) bool {
		if kind == TouchUpIn {
			if err := g.Quit(); err != nil {
				t.Errorf("Quit: %v", err)
			}
		}
		return true
	})
	if _, err := g.CreateTextButton(elemQuit, pgMain, Rect{W: 10, H: 10}, "Quit", fontBtn, quit); err != nil {
		t.Fatalf("CreateTextButton: %v", err)
	}
	if err := g.SetCurrentPage(pgMain); err != nil {
		t.Fatalf("SetCurrentPage: %v", err)
	}
	drv.touch.push(device.PhaseDown, 1, 1)
	drv.touch.push(device.PhaseUp, 1, 1)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !drv.display.closed || !drv.touch.closed {
		t.Error("Expected devices released")
	}
	if err := g.Update(); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if err := g.Quit(); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
	if err := g.AddPage(pgOther, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestSetText(t *testing.T) {
	g, _ := newTestGui(t)
	setupMain(t, g)
	if err := g.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	button := g.Element(pgMain, elemQuit)
	button.SetText("Quit")
	if button.Dirty() {
		t.Error("Expected unchanged text to keep element clean")
	}
	button.SetText("Cafe\u0301")
	if button.Text() != "Caf\u00e9" {
		t.Errorf("Expected NFC text, got %q", button.Text())
	}
	if !button.Dirty() {
		t.Error("Expected element dirty after text change")
	}
}
