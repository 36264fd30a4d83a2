package device

import (
	"errors"
	"fmt"
)

var (
	ErrDeviceUnavailable = errors.New("device unavailable")
	ErrFontLoad          = errors.New("font load failed")
)

// Driver is the platform layer the runtime renders through.
type Driver interface {
	AcquireDisplay(path string) (Display, error)
	AcquireTouchSource(path string) (TouchSource, error)
	LoadFont(source string, size int) (Font, error)
}

type Display interface {
	Size() (width, height int)
	DrawRect(rect Rect, color Color)
	DrawFrame(rect Rect, color Color)
	DrawText(rect Rect, text string, font Font, color Color)
	Present() error
	Close() error
}

// PollTouch returns the events queued since the previous call. It never blocks.
type TouchSource interface {
	PollTouch() []TouchEvent
	Close() error
}

// Damager is implemented by displays that can lose their contents,
// e.g. a terminal after a resize.
type Damager interface {
	Damaged() bool
}

type Font interface {
	Source() string
	Size() int
}

type Phase byte

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
)

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "Down"
	case PhaseMove:
		return "Move"
	case PhaseUp:
		return "Up"
	}
	return fmt.Sprintf("Phase(%d)", p)
}

type TouchEvent struct {
	X, Y  int
	Phase Phase
}

func (e TouchEvent) String() string {
	return fmt.Sprintf("%s(%d,%d)", e.Phase, e.X, e.Y)
}

type Rect struct {
	X, Y int
	W, H int
}

func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: max(w, 0), H: max(h, 0)}
}

func (r Rect) Contains(x, y int) bool {
	return r.X <= x && x < r.X+r.W &&
		r.Y <= y && y < r.Y+r.H
}

// Overlaps reports whether the rects share a pixel. An empty rect
// overlaps nothing.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("{%d,%d %dx%d}", r.X, r.Y, r.W, r.H)
}

type Color struct {
	R, G, B uint8
}

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	return r, g, b, 0xffff
}

var (
	Black    = Color{0, 0, 0}
	White    = Color{255, 255, 255}
	Red      = Color{255, 0, 0}
	Green    = Color{0, 255, 0}
	Blue     = Color{0, 0, 255}
	Yellow   = Color{255, 255, 0}
	Gray     = Color{128, 128, 128}
	GrayDk1  = Color{96, 96, 96}
	GrayDk2  = Color{64, 64, 64}
	GrayDk3  = Color{32, 32, 32}
	GrayLt1  = Color{160, 160, 160}
	GrayLt2  = Color{192, 192, 192}
	GrayLt3  = Color{224, 224, 224}
	BlueDk1  = Color{0, 0, 192}
	BlueDk2  = Color{0, 0, 128}
	BlueDk3  = Color{0, 0, 64}
	BlueDk4  = Color{0, 0, 32}
	BlueLt1  = Color{32, 32, 255}
	BlueLt2  = Color{64, 64, 255}
	BlueLt3  = Color{96, 96, 255}
	BlueLt4  = Color{128, 128, 255}
	GreenDk1 = Color{0, 192, 0}
	GreenDk2 = Color{0, 128, 0}
	RedDk1   = Color{192, 0, 0}
	RedDk2   = Color{128, 0, 0}
)

type NamedColor struct {
	Name  string
	Color Color
}

// Palette lists the named colors in declaration order.
var Palette = []NamedColor{
	{"Black", Black}, {"White", White}, {"Red", Red}, {"Green", Green}, {"Blue", Blue}, {"Yellow", Yellow},
	{"Gray", Gray}, {"GrayDk1", GrayDk1}, {"GrayDk2", GrayDk2}, {"GrayDk3", GrayDk3},
	{"GrayLt1", GrayLt1}, {"GrayLt2", GrayLt2}, {"GrayLt3", GrayLt3},
	{"BlueDk1", BlueDk1}, {"BlueDk2", BlueDk2}, {"BlueDk3", BlueDk3}, {"BlueDk4", BlueDk4},
	{"BlueLt1", BlueLt1}, {"BlueLt2", BlueLt2}, {"BlueLt3", BlueLt3}, {"BlueLt4", BlueLt4},
	{"GreenDk1", GreenDk1}, {"GreenDk2", GreenDk2}, {"RedDk1", RedDk1}, {"RedDk2", RedDk2},
}
