package nanoui

import (
	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

// EventKind classifies an input event.
type EventKind int

const (
	EventNone EventKind = iota
	EventMouseDown
	EventMouseUp
	EventMouseMove
	EventMouseDrag
	EventMouseEnter
	EventMouseExit
	EventScroll
	EventKeyDown
	EventKeyUp
	EventModifierChange
)

// String returns the kind's name.
func (k EventKind) String() string {
	switch k {
	case EventMouseDown:
		return "mouse-down"
	case EventMouseUp:
		return "mouse-up"
	case EventMouseMove:
		return "mouse-move"
	case EventMouseDrag:
		return "mouse-drag"
	case EventMouseEnter:
		return "mouse-enter"
	case EventMouseExit:
		return "mouse-exit"
	case EventScroll:
		return "scroll"
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	case EventModifierChange:
		return "modifier-change"
	default:
		return "none"
	}
}

// MouseButton identifies which button an event refers to.
type MouseButton int

const (
	ButtonNone MouseButton = iota - 1
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Modifiers is the keyboard modifier bitset captured with an event.
type Modifiers uint32

const (
	ModCapsLock Modifiers = 1 << iota
	ModShift
	ModControl
	ModOption
	ModCommand
	ModFunction
)

// Has reports whether every modifier in m is held.
func (mods Modifiers) Has(m Modifiers) bool { return mods&m == m }

// NSEventType raw values, the subset the bridge handles.
const (
	nsLeftMouseDown     = 1
	nsLeftMouseUp       = 2
	nsRightMouseDown    = 3
	nsRightMouseUp      = 4
	nsMouseMoved        = 5
	nsLeftMouseDragged  = 6
	nsRightMouseDragged = 7
	nsMouseEntered      = 8
	nsMouseExited       = 9
	nsKeyDown           = 10
	nsKeyUp             = 11
	nsFlagsChanged      = 12
	nsScrollWheel       = 22
	nsOtherMouseDown    = 25
	nsOtherMouseUp      = 26
	nsOtherMouseDragged = 27
)

// NSEventModifierFlags bit positions.
const (
	nsFlagCapsLock = 1 << 16
	nsFlagShift    = 1 << 17
	nsFlagControl  = 1 << 18
	nsFlagOption   = 1 << 19
	nsFlagCommand  = 1 << 20
	nsFlagFunction = 1 << 23
)

// Event is an immutable snapshot of one input event, in the coordinate
// space of the view it was delivered to. The native event object it was
// read from is borrowed and not retained; an Event stays valid after the
// native event is gone.
type Event struct {
	Kind       EventKind
	Button     MouseButton
	Pos        Point   // view-local position
	WindowPos  Point   // position in window content coordinates
	Anchor     Point   // view-local position of the last mouse-down
	Wheel      Point   // scroll deltas, positive Y away from the user
	Modifiers  Modifiers
	ClickCount int
	Timestamp  float64
	Key        string // characters for key events
	KeyCode    uint16
}

// IsMouse reports whether the event is pointer-driven.
func (e *Event) IsMouse() bool {
	switch e.Kind {
	case EventMouseDown, EventMouseUp, EventMouseMove, EventMouseDrag,
		EventMouseEnter, EventMouseExit, EventScroll:
		return true
	}
	return false
}

// IsClick reports whether the event is a button press or release.
func (e *Event) IsClick() bool {
	return e.Kind == EventMouseDown || e.Kind == EventMouseUp
}

// IsDrag reports whether the event is a pressed-button move.
func (e *Event) IsDrag() bool { return e.Kind == EventMouseDrag }

// IsKey reports whether the event is keyboard-driven.
func (e *Event) IsKey() bool {
	return e.Kind == EventKeyDown || e.Kind == EventKeyUp
}

// DoubleClick reports whether this press is the second of a double click.
func (e *Event) DoubleClick() bool {
	return e.Kind == EventMouseDown && e.ClickCount >= 2
}

func kindForNSType(t uint) (EventKind, MouseButton) {
	switch t {
	case nsLeftMouseDown:
		return EventMouseDown, ButtonLeft
	case nsLeftMouseUp:
		return EventMouseUp, ButtonLeft
	case nsRightMouseDown:
		return EventMouseDown, ButtonRight
	case nsRightMouseUp:
		return EventMouseUp, ButtonRight
	case nsOtherMouseDown:
		return EventMouseDown, ButtonMiddle
	case nsOtherMouseUp:
		return EventMouseUp, ButtonMiddle
	case nsMouseMoved:
		return EventMouseMove, ButtonNone
	case nsLeftMouseDragged:
		return EventMouseDrag, ButtonLeft
	case nsRightMouseDragged:
		return EventMouseDrag, ButtonRight
	case nsOtherMouseDragged:
		return EventMouseDrag, ButtonMiddle
	case nsMouseEntered:
		return EventMouseEnter, ButtonNone
	case nsMouseExited:
		return EventMouseExit, ButtonNone
	case nsScrollWheel:
		return EventScroll, ButtonNone
	case nsKeyDown:
		return EventKeyDown, ButtonNone
	case nsKeyUp:
		return EventKeyUp, ButtonNone
	case nsFlagsChanged:
		return EventModifierChange, ButtonNone
	}
	return EventNone, ButtonNone
}

func modifiersFromFlags(flags uint) Modifiers {
	var m Modifiers
	if flags&nsFlagCapsLock != 0 {
		m |= ModCapsLock
	}
	if flags&nsFlagShift != 0 {
		m |= ModShift
	}
	if flags&nsFlagControl != 0 {
		m |= ModControl
	}
	if flags&nsFlagOption != 0 {
		m |= ModOption
	}
	if flags&nsFlagCommand != 0 {
		m |= ModCommand
	}
	if flags&nsFlagFunction != 0 {
		m |= ModFunction
	}
	return m
}

// snapshotEvent reads every field the bridge exposes out of a borrowed
// native event, converting the location into viewPeer's coordinate space.
func snapshotEvent(native objc.ID, viewPeer objc.ID) Event {
	kind, button := kindForNSType(objc.Call[uint](native, "type"))
	winPos := objc.Call[objc.Point](native, "locationInWindow")
	local := objc.Call[objc.Point](viewPeer, "convertPoint:fromView:", winPos, objc.Nil)

	e := Event{
		Kind:      kind,
		Button:    button,
		Pos:       fromNativePoint(local),
		WindowPos: fromNativePoint(winPos),
		Modifiers: modifiersFromFlags(objc.Call[uint](native, "modifierFlags")),
		Timestamp: objc.Call[float64](native, "timestamp"),
	}
	switch {
	case e.IsClick() || e.IsDrag():
		e.ClickCount = objc.Call[int](native, "clickCount")
		if n := objc.Call[int](native, "buttonNumber"); n >= 0 && e.Button == ButtonNone {
			e.Button = MouseButton(n)
		}
	case e.Kind == EventScroll:
		e.Wheel = Point{
			X: float32(objc.Call[float64](native, "deltaX")),
			Y: float32(objc.Call[float64](native, "deltaY")),
		}
	case e.IsKey():
		e.Key = objc.Call[string](native, "characters")
		e.KeyCode = uint16(objc.Call[uint](native, "keyCode"))
	case e.Kind == EventModifierChange:
		// flagsChanged events carry a key code but no characters.
		e.KeyCode = uint16(objc.Call[uint](native, "keyCode"))
	}
	return e
}

// MouseButtons is the bitmask of currently pressed buttons; bit 0 is
// left, bit 1 right, bit 2 middle.
type MouseButtons uint

// Pressed reports whether b is currently down.
func (m MouseButtons) Pressed(b MouseButton) bool {
	if b < ButtonLeft {
		return false
	}
	return m&(1<<uint(b)) != 0
}

// PressedMouseButtons polls the global pressed-button state.
func PressedMouseButtons() MouseButtons {
	return MouseButtons(objc.CallClass[uint]("NSEvent", "pressedMouseButtons"))
}
