package nanoui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/obinnaokechukwu/nanoui/internal/objc"
)

func TestKindForNSType(t *testing.T) {
	cases := []struct {
		raw    uint
		kind   EventKind
		button MouseButton
	}{
		{nsLeftMouseDown, EventMouseDown, ButtonLeft},
		{nsLeftMouseUp, EventMouseUp, ButtonLeft},
		{nsRightMouseDown, EventMouseDown, ButtonRight},
		{nsOtherMouseDown, EventMouseDown, ButtonMiddle},
		{nsMouseMoved, EventMouseMove, ButtonNone},
		{nsLeftMouseDragged, EventMouseDrag, ButtonLeft},
		{nsMouseEntered, EventMouseEnter, ButtonNone},
		{nsMouseExited, EventMouseExit, ButtonNone},
		{nsScrollWheel, EventScroll, ButtonNone},
		{nsKeyDown, EventKeyDown, ButtonNone},
		{nsKeyUp, EventKeyUp, ButtonNone},
		{nsFlagsChanged, EventModifierChange, ButtonNone},
		{999, EventNone, ButtonNone},
	}
	for _, c := range cases {
		kind, button := kindForNSType(c.raw)
		assert.Equal(t, c.kind, kind, "type %d", c.raw)
		assert.Equal(t, c.button, button, "type %d", c.raw)
	}
}

func TestModifiersFromFlags(t *testing.T) {
	m := modifiersFromFlags(nsFlagShift | nsFlagCommand)
	assert.True(t, m.Has(ModShift))
	assert.True(t, m.Has(ModCommand))
	assert.False(t, m.Has(ModControl))
	assert.True(t, m.Has(ModShift|ModCommand))
	assert.False(t, m.Has(ModShift|ModOption))

	assert.Equal(t, Modifiers(0), modifiersFromFlags(0))
	all := modifiersFromFlags(nsFlagCapsLock | nsFlagShift | nsFlagControl |
		nsFlagOption | nsFlagCommand | nsFlagFunction)
	assert.Equal(t, ModCapsLock|ModShift|ModControl|ModOption|ModCommand|ModFunction, all)
}

func TestEventPredicates(t *testing.T) {
	down := Event{Kind: EventMouseDown, Button: ButtonLeft, ClickCount: 2}
	assert.True(t, down.IsMouse())
	assert.True(t, down.IsClick())
	assert.True(t, down.DoubleClick())
	assert.False(t, down.IsDrag())
	assert.False(t, down.IsKey())

	key := Event{Kind: EventKeyDown, Key: "a"}
	assert.True(t, key.IsKey())
	assert.False(t, key.IsMouse())

	scroll := Event{Kind: EventScroll}
	assert.True(t, scroll.IsMouse())
	assert.False(t, scroll.IsClick())
}

func TestMouseButtonsMask(t *testing.T) {
	m := MouseButtons(0b101)
	assert.True(t, m.Pressed(ButtonLeft))
	assert.False(t, m.Pressed(ButtonRight))
	assert.True(t, m.Pressed(ButtonMiddle))
	assert.False(t, m.Pressed(ButtonNone))
}

func TestPressedMouseButtonsPollsRuntime(t *testing.T) {
	rt := memRT(t)
	rt.SetPressedMouseButtons(0b011)
	defer rt.SetPressedMouseButtons(0)

	m := PressedMouseButtons()
	assert.True(t, m.Pressed(ButtonLeft))
	assert.True(t, m.Pressed(ButtonRight))
	assert.False(t, m.Pressed(ButtonMiddle))
}

func TestSnapshotEventReadsKeyFields(t *testing.T) {
	rt := memRT(t)
	root := newTestRoot(t)

	ev := rt.NewEvent(objc.EventDesc{
		Type:          nsKeyDown,
		ModifierFlags: nsFlagCommand,
		Characters:    "q",
		KeyCode:       12,
		Timestamp:     1.5,
	})
	defer objc.CallVoid(ev, "release")

	e := snapshotEvent(ev, objc.ID(root.Native()))
	assert.Equal(t, EventKeyDown, e.Kind)
	assert.Equal(t, "q", e.Key)
	assert.Equal(t, uint16(12), e.KeyCode)
	assert.True(t, e.Modifiers.Has(ModCommand))
	assert.Equal(t, 1.5, e.Timestamp)
}

func TestModifierChangeDelivery(t *testing.T) {
	rt := memRT(t)
	root := newTestRoot(t)

	var got *Event
	root.OnEvent = func(e *Event) bool {
		got = e
		return true
	}

	ev := rt.NewEvent(objc.EventDesc{
		Type:          nsFlagsChanged,
		ModifierFlags: nsFlagShift | nsFlagOption,
		KeyCode:       56,
	})
	defer objc.CallVoid(ev, "release")
	objc.CallVoid(objc.ID(root.Native()), "flagsChanged:", ev)

	if assert.NotNil(t, got) {
		assert.Equal(t, EventModifierChange, got.Kind)
		assert.True(t, got.Modifiers.Has(ModShift|ModOption))
		assert.Equal(t, uint16(56), got.KeyCode)
		assert.Empty(t, got.Key)
		assert.False(t, got.IsKey())
		assert.False(t, got.IsMouse())
	}
}

func TestSnapshotEventReadsScrollDeltas(t *testing.T) {
	rt := memRT(t)
	root := newTestRoot(t)

	ev := rt.NewEvent(objc.EventDesc{
		Type:   nsScrollWheel,
		DeltaX: 3,
		DeltaY: -2,
	})
	defer objc.CallVoid(ev, "release")

	e := snapshotEvent(ev, objc.ID(root.Native()))
	assert.Equal(t, EventScroll, e.Kind)
	assert.Equal(t, Point{X: 3, Y: -2}, e.Wheel)
}
