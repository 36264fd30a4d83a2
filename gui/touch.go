package gui

import (
	"fmt"
	"log"

	"slate/device"
)

type TouchKind byte

const (
	TouchDownIn TouchKind = iota + 1
	TouchMoveIn
	TouchMoveOut
	TouchUpIn
	TouchUpOut
)

func (k TouchKind) String() string {
	switch k {
	case TouchDownIn:
		return "DownIn"
	case TouchMoveIn:
		return "MoveIn"
	case TouchMoveOut:
		return "MoveOut"
	case TouchUpIn:
		return "UpIn"
	case TouchUpOut:
		return "UpOut"
	}
	return fmt.Sprintf("TouchKind(%d)", k)
}

func (k TouchKind) IsMove() bool {
	return k == TouchMoveIn || k == TouchMoveOut
}

// TouchHandler receives the touches of the element it is attached to.
// The runtime ignores the result; it never stops or alters dispatch.
type TouchHandler interface {
	Touch(g *Gui, element *Element, kind TouchKind, x, y int) bool
}

type TouchFunc func(g *Gui, element *Element, kind TouchKind, x, y int) bool

func (f TouchFunc) Touch(g *Gui, element *Element, kind TouchKind, x, y int) bool {
	return f(g, element, kind, x, y)
}

// gesture tracks one press from Down to Up. The element hit on Down keeps
// receiving the gesture's events wherever the touch moves.
type gesture struct {
	down    bool
	element *Element
}

func (g *Gui) dispatch(event device.TouchEvent) {
	switch event.Phase {
	case device.PhaseDown:
		g.cancelGesture()
		g.gesture.down = true
		if g.current == nil {
			return
		}
		element := g.current.Hit(event.X, event.Y)
		if element == nil {
			return
		}
		g.gesture.element = element
		element.setGlow(true)
		g.notify(element, TouchDownIn, event.X, event.Y)

	case device.PhaseMove:
		element := g.gesture.element
		if !g.gesture.down || element == nil {
			return
		}
		inside := element.rect.Contains(event.X, event.Y)
		element.setGlow(inside)
		if inside {
			g.notify(element, TouchMoveIn, event.X, event.Y)
		} else {
			g.notify(element, TouchMoveOut, event.X, event.Y)
		}

	case device.PhaseUp:
		element := g.gesture.element
		g.gesture = gesture{}
		if element == nil {
			return
		}
		element.setGlow(false)
		if element.rect.Contains(event.X, event.Y) {
			g.notify(element, TouchUpIn, event.X, event.Y)
		} else {
			g.notify(element, TouchUpOut, event.X, event.Y)
		}

	default:
		log.Printf("### unhandled touch phase: %v", event.Phase)
	}
}

func (g *Gui) cancelGesture() {
	if g.gesture.element != nil {
		g.gesture.element.setGlow(false)
	}
	g.gesture = gesture{}
}

func (g *Gui) notify(element *Element, kind TouchKind, x, y int) {
	if element.handler == nil {
		return
	}
	element.handler.Touch(g, element, kind, x, y)
}
