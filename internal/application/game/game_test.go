package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/arcadelab/swarm/internal/application/scene"
)

// mockScene is a test double for Scene interface
type mockScene struct {
	updateCalled  int
	onEnterCalled int
	onExitCalled  int
	lastDT        float64
	nextScene     scene.Scene
	updateErr     error
}

func (m *mockScene) Update(dt float64) (scene.Scene, error) {
	m.updateCalled++
	m.lastDT = dt
	return m.nextScene, m.updateErr
}

func (m *mockScene) Draw(screen *ebiten.Image) {}

func (m *mockScene) OnEnter() {
	m.onEnterCalled++
}

func (m *mockScene) OnExit() {
	m.onExitCalled++
}

func TestNew(t *testing.T) {
	initial := &mockScene{}
	g := New(initial, 800, 600, 60)

	assert.NotNil(t, g)
	assert.Equal(t, 1, initial.onEnterCalled, "OnEnter should be called on initial scene")
}

func TestGame_Update_DelegatesToCurrentScene(t *testing.T) {
	initial := &mockScene{}
	g := New(initial, 800, 600, 60)

	err := g.Update()
	assert.NoError(t, err)
	assert.Equal(t, 1, initial.updateCalled, "Update should delegate to current scene")
	assert.InDelta(t, 1.0/60.0, initial.lastDT, 1e-12)
}

func TestGame_Layout(t *testing.T) {
	g := New(&mockScene{}, 800, 600, 60)

	w, h := g.Layout(1600, 1200)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestGame_SceneTransition(t *testing.T) {
	scene1 := &mockScene{}
	scene2 := &mockScene{}

	// scene1 will transition to scene2 on first update
	scene1.nextScene = scene2

	g := New(scene1, 800, 600, 60)
	assert.Equal(t, 1, scene1.onEnterCalled, "Initial scene OnEnter called")

	err := g.Update()
	assert.NoError(t, err)

	assert.Equal(t, 1, scene1.updateCalled, "scene1 Update called")
	assert.Equal(t, 1, scene1.onExitCalled, "scene1 OnExit called on transition")
	assert.Equal(t, 1, scene2.onEnterCalled, "scene2 OnEnter called on transition")
	assert.Same(t, scene2, g.Current())

	err = g.Update()
	assert.NoError(t, err)
	assert.Equal(t, 1, scene2.updateCalled, "scene2 Update called")
}

func TestGame_NoTransitionWhenNil(t *testing.T) {
	scene1 := &mockScene{nextScene: nil}

	g := New(scene1, 800, 600, 60)

	for i := 0; i < 5; i++ {
		err := g.Update()
		assert.NoError(t, err)
	}

	assert.Equal(t, 5, scene1.updateCalled, "All updates go to scene1")
	assert.Equal(t, 0, scene1.onExitCalled, "No OnExit when no transition")
}

func TestGame_UpdateError_ExitsScene(t *testing.T) {
	scene1 := &mockScene{updateErr: assert.AnError}

	g := New(scene1, 800, 600, 60)

	err := g.Update()
	assert.Error(t, err, "Error should propagate from scene")
	assert.Equal(t, 1, scene1.onExitCalled, "OnExit runs so recordings flush before quit")
}

func TestGame_SetDT(t *testing.T) {
	scene1 := &mockScene{}
	g := New(scene1, 800, 600, 60)
	g.SetDT(0.125)

	assert.NoError(t, g.Update())
	assert.Equal(t, 0.125, scene1.lastDT)
}
