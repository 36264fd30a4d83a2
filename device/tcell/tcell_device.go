package tcell

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"slate/device"
	"slate/device/fontfile"
	"slate/lifecycle"
	"slate/stream"
)

const touchQueueLimit = 256

// Driver renders pages into the terminal. Every cell stands for a
// cellWidth x cellHeight block of pixels; the mouse acts as touch input.
type Driver struct {
	cellWidth, cellHeight int
	newScreen             func() (tcell.Screen, error)
	profile               termenv.Profile

	mu      sync.Mutex
	screen  tcell.Screen
	lc      *lifecycle.Lifecycle
	refs    int
	touches *stream.Stream[device.TouchEvent]

	interrupted atomic.Bool
	damaged     atomic.Bool
}

type Option func(*Driver)

func WithCellSize(width, height int) Option {
	return func(d *Driver) {
		d.cellWidth, d.cellHeight = width, height
	}
}

// WithScreen replaces the terminal screen, e.g. with tcell.NewSimulationScreen.
func WithScreen(newScreen func() (tcell.Screen, error)) Option {
	return func(d *Driver) {
		d.newScreen = newScreen
	}
}

// WithProfile overrides the color profile detected from the environment.
func WithProfile(profile termenv.Profile) Option {
	return func(d *Driver) {
		d.profile = profile
	}
}

func NewDriver(opts ...Option) *Driver {
	d := &Driver{
		cellWidth:  8,
		cellHeight: 16,
		newScreen:  tcell.NewScreen,
		profile:    termenv.ColorProfile(),
		touches:    stream.NewStream[device.TouchEvent]("tcell-touch", touchQueueLimit),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Interrupted reports whether Ctrl+C or Esc was pressed. The terminal is in
// raw mode, so this is the only way the user can ask to leave.
func (d *Driver) Interrupted() bool {
	return d.interrupted.Load()
}

// AcquireDisplay opens the controlling terminal. The path only labels the
// display in logs.
func (d *Driver) AcquireDisplay(path string) (device.Display, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.screen == nil {
		if err := d.start(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", device.ErrDeviceUnavailable, path, err)
		}
	}
	d.refs++
	log.Printf("tcell: display %q: %s cells of %dx%d px", path, d.cellsString(), d.cellWidth, d.cellHeight)
	return &display{driver: d}, nil
}

// AcquireTouchSource attaches to the mouse of an already acquired display.
func (d *Driver) AcquireTouchSource(path string) (device.TouchSource, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.screen == nil {
		return nil, fmt.Errorf("%w: %s: no terminal", device.ErrDeviceUnavailable, path)
	}
	d.refs++
	return &touchSource{driver: d}, nil
}

// LoadFont validates the font file. Terminal cells ignore font faces.
func (d *Driver) LoadFont(source string, size int) (device.Font, error) {
	return fontfile.Load(source, size)
}

func (d *Driver) start() error {
	screen, err := d.newScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.EnableMouse()
	screen.HideCursor()
	d.screen = screen
	d.lc = lifecycle.New()
	d.lc.Go(d.pump)
	return nil
}

func (d *Driver) release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refs--
	if d.refs > 0 || d.screen == nil {
		return
	}
	screen := d.screen
	d.lc.Stop(screen.Fini)
	d.screen = nil
}

func (d *Driver) cellsString() string {
	w, h := d.screen.Size()
	return fmt.Sprintf("%dx%d", w, h)
}

func (d *Driver) pump(ctx context.Context) {
	pressed := false
	lastCol, lastLine := -1, -1
	for {
		event := d.screen.PollEvent()
		if event == nil || ctx.Err() != nil {
			return
		}
		switch ev := event.(type) {
		case *tcell.EventResize:
			d.damaged.Store(true)

		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape {
				d.interrupted.Store(true)
			}

		case *tcell.EventMouse:
			col, line := ev.Position()
			x, y := d.toPixels(col, line)
			down := ev.Buttons()&tcell.Button1 != 0
			switch {
			case down && !pressed:
				pressed = true
				d.touches.Push(device.TouchEvent{X: x, Y: y, Phase: device.PhaseDown})
			case down && (col != lastCol || line != lastLine):
				d.touches.Push(device.TouchEvent{X: x, Y: y, Phase: device.PhaseMove})
			case !down && pressed:
				pressed = false
				d.touches.Push(device.TouchEvent{X: x, Y: y, Phase: device.PhaseUp})
			}
			lastCol, lastLine = col, line
		}
	}
}

// toPixels maps a cell to the pixel at its center.
func (d *Driver) toPixels(col, line int) (int, int) {
	return col*d.cellWidth + d.cellWidth/2, line*d.cellHeight + d.cellHeight/2
}

// cells returns the cell range whose centers lie inside rect, so that a
// touch on a cell hits exactly the elements drawn on it.
func (d *Driver) cells(rect device.Rect) (col0, line0, col1, line1 int) {
	col0 = ceilDiv(rect.X-d.cellWidth/2, d.cellWidth)
	col1 = ceilDiv(rect.X+rect.W-d.cellWidth/2, d.cellWidth)
	line0 = ceilDiv(rect.Y-d.cellHeight/2, d.cellHeight)
	line1 = ceilDiv(rect.Y+rect.H-d.cellHeight/2, d.cellHeight)
	cols, lines := d.screen.Size()
	return max(col0, 0), max(line0, 0), min(col1, cols), min(line1, lines)
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b > 0 {
		q++
	}
	return q
}

func (d *Driver) color(c device.Color) tcell.Color {
	switch tc := d.profile.Convert(termenv.RGBColor(c.Hex())).(type) {
	case termenv.RGBColor:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	case termenv.ANSI256Color:
		return tcell.PaletteColor(int(tc))
	case termenv.ANSIColor:
		return tcell.PaletteColor(int(tc))
	}
	return tcell.ColorDefault
}

type display struct {
	driver *Driver
	sync   bool
	closed bool
}

func (d *display) Size() (int, int) {
	cols, lines := d.driver.screen.Size()
	return cols * d.driver.cellWidth, lines * d.driver.cellHeight
}

func (d *display) Damaged() bool {
	if d.driver.damaged.Swap(false) {
		d.sync = true
		return true
	}
	return false
}

func (d *display) DrawRect(rect device.Rect, color device.Color) {
	style := tcell.StyleDefault.Background(d.driver.color(color))
	col0, line0, col1, line1 := d.driver.cells(rect)
	for line := line0; line < line1; line++ {
		for col := col0; col < col1; col++ {
			d.driver.screen.SetContent(col, line, ' ', nil, style)
		}
	}
}

func (d *display) DrawFrame(rect device.Rect, color device.Color) {
	fg := d.driver.color(color)
	col0, line0, col1, line1 := d.driver.cells(rect)
	for line := line0; line < line1; line++ {
		for col := col0; col < col1; col++ {
			top, bottom := line == line0, line == line1-1
			left, right := col == col0, col == col1-1
			if !top && !bottom && !left && !right {
				continue
			}
			d.driver.screen.SetContent(col, line, frameRune(top, bottom, left, right), nil, d.over(col, line, fg))
		}
	}
}

func frameRune(top, bottom, left, right bool) rune {
	switch {
	case top && left:
		return '┌'
	case top && right:
		return '┐'
	case bottom && left:
		return '└'
	case bottom && right:
		return '┘'
	case top || bottom:
		return '─'
	}
	return '│'
}

// DrawText centers text on the middle line of rect, keeping the outer
// columns free for the frame.
func (d *display) DrawText(rect device.Rect, text string, _ device.Font, color device.Color) {
	col0, line0, col1, line1 := d.driver.cells(rect)
	if line1 <= line0 || col1 <= col0 {
		return
	}
	width := col1 - col0
	if width > 2 {
		width -= 2
	}
	text = runewidth.Truncate(text, width, "…")
	textWidth := runewidth.StringWidth(text)
	line := line0 + (line1-line0-1)/2
	col := col0 + (col1-col0-textWidth)/2
	fg := d.driver.color(color)
	for _, r := range text {
		d.driver.screen.SetContent(col, line, r, nil, d.over(col, line, fg))
		col += runewidth.RuneWidth(r)
	}
}

// over is a style with the given foreground over the cell's background.
func (d *display) over(col, line int, fg tcell.Color) tcell.Style {
	_, _, style, _ := d.driver.screen.GetContent(col, line)
	_, bg, _ := style.Decompose()
	return tcell.StyleDefault.Foreground(fg).Background(bg)
}

func (d *display) Present() error {
	if d.closed {
		return fmt.Errorf("present: %w", device.ErrDeviceUnavailable)
	}
	if d.sync {
		d.sync = false
		d.driver.screen.Sync()
		return nil
	}
	d.driver.screen.Show()
	return nil
}

func (d *display) Close() error {
	if !d.closed {
		d.closed = true
		d.driver.release()
	}
	return nil
}

type touchSource struct {
	driver  *Driver
	closed  bool
	dropped int
}

func (t *touchSource) PollTouch() []device.TouchEvent {
	if t.closed {
		return nil
	}
	touches := t.driver.touches
	if dropped := touches.Dropped(); dropped > t.dropped {
		log.Printf("### %s: touch queue dropped %d", touches.Name(), dropped-t.dropped)
		t.dropped = dropped
	}
	return touches.PullAll()
}

func (t *touchSource) Close() error {
	if !t.closed {
		t.closed = true
		t.driver.release()
	}
	return nil
}
