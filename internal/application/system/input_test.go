package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The hardware polling path needs a running display; these tests cover the
// injection path used by replay, with ignore-hardware set so Poll never
// touches the real devices.

func TestInjectedKeysAndJustPressed(t *testing.T) {
	s := NewSource()
	s.SetIgnoreHardware(true)

	s.Poll()
	s.SetPressedKeys([]int{65, 87})

	assert.True(t, s.IsPressed(65))
	assert.True(t, s.JustPressed(65))
	assert.False(t, s.IsPressed(68))

	// Next frame: still held, no longer "just" pressed.
	s.Poll()
	s.SetPressedKeys([]int{65, 87})
	assert.True(t, s.IsPressed(65))
	assert.False(t, s.JustPressed(65))

	// Released.
	s.Poll()
	s.SetPressedKeys(nil)
	assert.False(t, s.IsPressed(65))
}

func TestInjectedStateSurvivesPoll(t *testing.T) {
	s := NewSource()
	s.SetIgnoreHardware(true)

	s.Poll()
	s.SetPressedKeys([]int{32})
	s.InjectMousePosition(120, 80)
	s.InjectMouseButton(MouseLeft, true)

	// With hardware ignored, Poll only rotates the frame; injected state
	// carries over until the next injection.
	s.Poll()
	assert.True(t, s.IsPressed(32))
	x, y := s.MousePosition()
	assert.Equal(t, 120.0, x)
	assert.Equal(t, 80.0, y)
	assert.True(t, s.MouseButtons()[MouseLeft])
}

func TestMouseJustPressed(t *testing.T) {
	s := NewSource()
	s.SetIgnoreHardware(true)

	s.Poll()
	s.InjectMouseButton(MouseLeft, true)
	assert.True(t, s.MouseJustPressed(MouseLeft))
	assert.False(t, s.MouseJustPressed(MouseRight))

	s.Poll()
	assert.False(t, s.MouseJustPressed(MouseLeft))

	// Out-of-range buttons are ignored.
	s.InjectMouseButton(7, true)
	assert.False(t, s.MouseJustPressed(7))
}

func TestPressedKeysCopy(t *testing.T) {
	s := NewSource()
	s.SetIgnoreHardware(true)
	s.SetPressedKeys([]int{1, 2})

	keys := s.PressedKeys()
	assert.ElementsMatch(t, []int{1, 2}, keys)

	keys[0] = 99
	assert.True(t, s.IsPressed(1))
}

func TestClear(t *testing.T) {
	s := NewSource()
	s.SetIgnoreHardware(true)
	s.SetPressedKeys([]int{65})
	s.InjectMousePosition(10, 10)
	s.InjectMouseButton(MouseLeft, true)

	s.Clear()

	assert.False(t, s.IsPressed(65))
	x, y := s.MousePosition()
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
	assert.False(t, s.MouseButtons()[MouseLeft])
}
