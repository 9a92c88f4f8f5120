// Package input translates SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/heightview/internal/engine/camera"
)

// EventType identifies what happened.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventPointer
	EventWheel
)

// Event represents a processed input event.
type Event struct {
	Type    EventType
	Key     sdl.Scancode
	Pointer camera.PointerEvent
	Wheel   float32
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{Type: EventWindowResize})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Scancode,
				})
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:    EventPointer,
				Pointer: Pointer(e.XRel, e.YRel, e.State, sdl.GetModState()),
			})

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{
				Type:  EventWheel,
				Wheel: WheelDelta(float32(e.Y), e.Direction),
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Pointer converts an SDL motion delta, button mask and modifier state.
func Pointer(xrel, yrel int32, state uint32, mods sdl.Keymod) camera.PointerEvent {
	var buttons camera.Buttons
	if state&sdl.ButtonLMask() != 0 {
		buttons |= camera.ButtonPrimary
	}
	return camera.PointerEvent{
		DX:      float32(xrel),
		DY:      float32(yrel),
		Buttons: buttons,
		Shift:   mods&sdl.KMOD_SHIFT != 0,
	}
}

// wheelStep converts SDL wheel notches to browser-style pixel deltas, where
// one notch scrolls 100 units and scrolling down is positive.
const wheelStep = 100

// WheelDelta converts an SDL wheel event to a zoom delta.
func WheelDelta(notches float32, direction uint32) float32 {
	d := -notches * wheelStep
	if direction == sdl.MOUSEWHEEL_FLIPPED {
		d = -d
	}
	return d
}
