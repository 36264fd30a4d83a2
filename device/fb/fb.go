// Package fb is a driver that renders into an in-memory RGBA back buffer
// and takes touch input from Inject. It backs headless runs and tests.
package fb

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"slate/device"
	"slate/device/fontfile"
	"slate/stream"
)

const touchQueueLimit = 256

type Driver struct {
	width, height int
	snapshot      string

	mu      sync.Mutex
	offline map[string]bool
	touches *stream.Stream[device.TouchEvent]
	display *Display
}

type Option func(*Driver)

// WithSnapshot writes the back buffer as PNG to path on every Present.
func WithSnapshot(path string) Option {
	return func(d *Driver) {
		d.snapshot = path
	}
}

func NewDriver(width, height int, opts ...Option) *Driver {
	d := &Driver{
		width:   width,
		height:  height,
		offline: map[string]bool{},
		touches: stream.NewStream[device.TouchEvent]("fb-touch", touchQueueLimit),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetOffline makes acquiring the device at path fail.
func (d *Driver) SetOffline(path string, offline bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.offline[path] = offline
}

func (d *Driver) isOffline(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.offline[path]
}

func (d *Driver) AcquireDisplay(path string) (device.Display, error) {
	if d.isOffline(path) {
		return nil, fmt.Errorf("%w: %s", device.ErrDeviceUnavailable, path)
	}
	if d.width <= 0 || d.height <= 0 {
		return nil, fmt.Errorf("%w: %s: invalid size %dx%d", device.ErrDeviceUnavailable, path, d.width, d.height)
	}
	display := &Display{
		path:     path,
		buffer:   image.NewRGBA(image.Rect(0, 0, d.width, d.height)),
		snapshot: d.snapshot,
	}
	d.mu.Lock()
	d.display = display
	d.mu.Unlock()
	return display, nil
}

func (d *Driver) AcquireTouchSource(path string) (device.TouchSource, error) {
	if d.isOffline(path) {
		return nil, fmt.Errorf("%w: %s", device.ErrDeviceUnavailable, path)
	}
	return &touchSource{touches: d.touches}, nil
}

func (d *Driver) LoadFont(source string, size int) (device.Font, error) {
	return fontfile.Load(source, size)
}

// Display returns the most recently acquired display or nil.
func (d *Driver) Display() *Display {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.display
}

// Inject queues touch events for the next PollTouch. It may be called from
// any goroutine.
func (d *Driver) Inject(events ...device.TouchEvent) {
	d.touches.Push(events...)
}

// Pending counts the injected events not yet polled.
func (d *Driver) Pending() int {
	return d.touches.Len()
}

// Tap queues a press and release at the same point.
func (d *Driver) Tap(x, y int) {
	d.Inject(
		device.TouchEvent{X: x, Y: y, Phase: device.PhaseDown},
		device.TouchEvent{X: x, Y: y, Phase: device.PhaseUp},
	)
}

type touchSource struct {
	touches *stream.Stream[device.TouchEvent]
	dropped int
}

func (t *touchSource) PollTouch() []device.TouchEvent {
	if dropped := t.touches.Dropped(); dropped > t.dropped {
		log.Printf("### %s: touch queue dropped %d", t.touches.Name(), dropped-t.dropped)
		t.dropped = dropped
	}
	return t.touches.PullAll()
}

func (t *touchSource) Close() error {
	t.touches.PullAll()
	return nil
}

type Display struct {
	path     string
	buffer   *image.RGBA
	snapshot string
	frames   int
	closed   bool
}

func (d *Display) Size() (int, int) {
	b := d.buffer.Bounds()
	return b.Dx(), b.Dy()
}

func (d *Display) DrawRect(rect device.Rect, color device.Color) {
	draw.Draw(d.buffer, bounds(rect), image.NewUniform(color), image.Point{}, draw.Src)
}

func (d *Display) DrawFrame(rect device.Rect, color device.Color) {
	if rect.Empty() {
		return
	}
	src := image.NewUniform(color)
	r := bounds(rect)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(d.buffer, edge, src, image.Point{}, draw.Src)
	}
}

// DrawText centers text in rect. Glyphs outside rect are clipped.
func (d *Display) DrawText(rect device.Rect, text string, f device.Font, color device.Color) {
	face := faceOf(f)
	if face == nil {
		log.Printf("### fb: no face for font %v", f)
		return
	}
	clip := d.buffer.SubImage(bounds(rect)).(*image.RGBA)
	drawer := &font.Drawer{Dst: clip, Src: image.NewUniform(color), Face: face}
	metrics := face.Metrics()
	width := drawer.MeasureString(text)
	x := fixed.I(rect.X) + (fixed.I(rect.W)-width)/2
	y := fixed.I(rect.Y) + (fixed.I(rect.H)-metrics.Height)/2 + metrics.Ascent
	drawer.Dot = fixed.Point26_6{X: x, Y: y}
	drawer.DrawString(text)
}

func faceOf(f device.Font) font.Face {
	ff, ok := f.(*fontfile.Font)
	if !ok {
		return nil
	}
	face, err := ff.Face()
	if err != nil {
		log.Printf("### fb: %v", err)
		return nil
	}
	return face
}

func (d *Display) Present() error {
	d.frames++
	if d.snapshot == "" {
		return nil
	}
	return d.writeSnapshot()
}

func (d *Display) writeSnapshot() error {
	file, err := os.Create(d.snapshot)
	if err != nil {
		return err
	}
	if err := png.Encode(file, d.buffer); err != nil {
		file.Close()
		return fmt.Errorf("snapshot %s: %w", d.snapshot, err)
	}
	return file.Close()
}

func (d *Display) Close() error {
	d.closed = true
	return nil
}

// Image returns the back buffer.
func (d *Display) Image() *image.RGBA {
	return d.buffer
}

// Frames counts the Present calls.
func (d *Display) Frames() int {
	return d.frames
}

func (d *Display) Closed() bool {
	return d.closed
}

func bounds(rect device.Rect) image.Rectangle {
	return image.Rect(rect.X, rect.Y, rect.X+rect.W, rect.Y+rect.H)
}
