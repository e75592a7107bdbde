// Package system provides the input source shared by live play and replay.
package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Mouse button indices as stored in input records.
const (
	MouseLeft = iota
	MouseRight
	MouseMiddle

	MouseButtonCount
)

// Source holds the current input state. It normally mirrors the hardware
// each Poll, but replay can inject key/mouse state and flip on
// ignore-hardware so the injected state is not overwritten by real input.
//
// Source is passed explicitly to whatever needs it; there is no process-wide
// instance.
type Source struct {
	pressed     map[int]struct{}
	prevPressed map[int]struct{}

	mouseX, mouseY float64
	buttons        [MouseButtonCount]bool
	prevButtons    [MouseButtonCount]bool

	ignoreHardware bool
}

// NewSource creates an empty input source.
func NewSource() *Source {
	return &Source{
		pressed:     make(map[int]struct{}),
		prevPressed: make(map[int]struct{}),
	}
}

// Poll advances the frame. Hardware state is read unless ignore-hardware is
// set, in which case the injected state carries over unchanged.
func (s *Source) Poll() {
	s.prevPressed = s.pressed
	s.prevButtons = s.buttons

	if s.ignoreHardware {
		return
	}

	pressed := make(map[int]struct{})
	for _, k := range inpututil.AppendPressedKeys(nil) {
		pressed[int(k)] = struct{}{}
	}
	s.pressed = pressed

	mx, my := ebiten.CursorPosition()
	s.mouseX = float64(mx)
	s.mouseY = float64(my)

	s.buttons[MouseLeft] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.buttons[MouseRight] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	s.buttons[MouseMiddle] = ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
}

// PressedKeys returns a copy of the currently pressed key codes.
func (s *Source) PressedKeys() []int {
	keys := make([]int, 0, len(s.pressed))
	for k := range s.pressed {
		keys = append(keys, k)
	}
	return keys
}

// IsPressed reports whether a key code is held.
func (s *Source) IsPressed(code int) bool {
	_, ok := s.pressed[code]
	return ok
}

// JustPressed reports whether a key code went down this frame.
func (s *Source) JustPressed(code int) bool {
	if _, ok := s.pressed[code]; !ok {
		return false
	}
	_, was := s.prevPressed[code]
	return !was
}

// MousePosition returns the pointer position.
func (s *Source) MousePosition() (float64, float64) {
	return s.mouseX, s.mouseY
}

// MouseButtons returns the three pointer button states.
func (s *Source) MouseButtons() [MouseButtonCount]bool {
	return s.buttons
}

// MouseJustPressed reports whether a pointer button went down this frame.
func (s *Source) MouseJustPressed(button int) bool {
	if button < 0 || button >= MouseButtonCount {
		return false
	}
	return s.buttons[button] && !s.prevButtons[button]
}

// SetPressedKeys replaces the pressed key set (replay injection).
func (s *Source) SetPressedKeys(codes []int) {
	pressed := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		pressed[c] = struct{}{}
	}
	s.pressed = pressed
}

// InjectMousePosition overwrites the pointer position (replay injection).
func (s *Source) InjectMousePosition(x, y float64) {
	s.mouseX = x
	s.mouseY = y
}

// InjectMouseButton overwrites one pointer button state (replay injection).
func (s *Source) InjectMouseButton(button int, pressed bool) {
	if button < 0 || button >= MouseButtonCount {
		return
	}
	s.buttons[button] = pressed
}

// SetIgnoreHardware toggles hardware polling. While set, only injected
// state changes the source.
func (s *Source) SetIgnoreHardware(ignore bool) {
	s.ignoreHardware = ignore
}

// Clear resets all input state.
func (s *Source) Clear() {
	s.pressed = make(map[int]struct{})
	s.prevPressed = make(map[int]struct{})
	s.mouseX, s.mouseY = 0, 0
	s.buttons = [MouseButtonCount]bool{}
	s.prevButtons = [MouseButtonCount]bool{}
}
