package playing

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadelab/swarm/internal/application/state"
	"github.com/arcadelab/swarm/internal/application/system"
	"github.com/arcadelab/swarm/internal/ecs"
	"github.com/arcadelab/swarm/internal/infrastructure/config"
)

// newTestScene builds a Playing scene with a hand-made world so tests stay
// deterministic: a player at the arena center and nothing else.
func newTestScene(t *testing.T, opts Options) *Playing {
	t.Helper()
	if opts.Storage == nil {
		opts.NoRecord = true
	}

	cfg := config.Default()
	p := New(cfg, opts)
	p.world = ecs.NewWorld()
	p.world.CreatePlayer(400, 300, cfg.Gameplay.MaxHealth)
	p.input.SetIgnoreHardware(true)
	return p
}

func (p *Playing) pressKeys(keys ...ebiten.Key) {
	p.input.Poll()
	codes := make([]int, len(keys))
	for i, k := range keys {
		codes[i] = int(k)
	}
	p.input.SetPressedKeys(codes)
}

func TestPlayerMovesAndClampsToArena(t *testing.T) {
	p := newTestScene(t, Options{})

	p.pressKeys(ebiten.KeyD)
	p.Step(1.0)

	x, y := p.playerXY()
	assert.Equal(t, 600.0, x) // 400 + 200 px/s
	assert.Equal(t, 300.0, y)

	p.pressKeys(ebiten.KeyD)
	p.Step(5.0)
	x, _ = p.playerXY()
	assert.Equal(t, 800.0, x) // clamped to the arena edge
}

func TestArrowKeysMoveToo(t *testing.T) {
	p := newTestScene(t, Options{})

	p.pressKeys(ebiten.KeyArrowUp)
	p.Step(0.5)

	_, y := p.playerXY()
	assert.Equal(t, 200.0, y) // 300 - 200*0.5
}

func TestFireBulletTowardCursor(t *testing.T) {
	p := newTestScene(t, Options{})

	p.input.Poll()
	p.input.InjectMousePosition(500, 300) // straight right of the player
	p.input.InjectMouseButton(system.MouseLeft, true)
	p.Step(0.01)

	require.Len(t, p.world.IsBullet, 1)
	for id := range p.world.IsBullet {
		vel := p.world.Velocity[id]
		assert.InDelta(t, 400.0, vel.X, 0.001) // bullet speed toward cursor
		assert.InDelta(t, 0.0, vel.Y, 0.001)
	}

	// Holding the button does not fire again.
	p.input.Poll()
	p.Step(0.01)
	assert.Len(t, p.world.IsBullet, 1)
}

func TestEnemyChasesPlayer(t *testing.T) {
	p := newTestScene(t, Options{})
	id := p.world.CreateEnemy(100, 300, 0, 0)

	p.input.Poll()
	p.Step(1.0)

	pos := p.world.Position[id]
	assert.InDelta(t, 115.0, pos.X, 0.001) // 15 px/s toward the player
	assert.InDelta(t, 300.0, pos.Y, 0.001)
}

func TestEnemyDriftBouncesOffBounds(t *testing.T) {
	p := newTestScene(t, Options{})
	// Put the player far away so the chase pull is negligible over one tick.
	p.world.SetPlayerPosition(790, 10)
	id := p.world.CreateEnemy(5, 590, -100, 100)

	p.input.Poll()
	p.Step(0.2)

	vel := p.world.Velocity[id]
	assert.Greater(t, vel.X, 0.0) // bounced off the left wall
	assert.Less(t, vel.Y, 0.0)    // bounced off the bottom wall
}

func TestBulletDestroysEnemyAndScores(t *testing.T) {
	p := newTestScene(t, Options{})
	enemy := p.world.CreateEnemy(200, 200, 0, 0)
	bullet := p.world.CreateBullet(195, 200, 0, 0)

	p.input.Poll()
	p.Step(0.01)

	assert.Equal(t, 1, p.Score())
	assert.False(t, p.world.Exists(enemy))
	assert.False(t, p.world.Exists(bullet))
}

func TestBulletLeavesArena(t *testing.T) {
	p := newTestScene(t, Options{})
	bullet := p.world.CreateBullet(790, 300, 400, 0)

	p.input.Poll()
	p.Step(1.0)

	assert.False(t, p.world.Exists(bullet))
}

func TestEnemyContactDamagesAndGrantsInvincibility(t *testing.T) {
	p := newTestScene(t, Options{})
	enemy := p.world.CreateEnemy(400, 300, 0, 0)

	p.input.Poll()
	p.Step(0.01)

	health := p.world.Health[p.world.PlayerID]
	assert.Equal(t, 4, health.Current)
	assert.Greater(t, health.Iframe, 0.0)
	assert.False(t, p.world.Exists(enemy))

	// A second enemy walks through while the window is open.
	second := p.world.CreateEnemy(400, 300, 0, 0)
	p.input.Poll()
	p.Step(0.01)

	health = p.world.Health[p.world.PlayerID]
	assert.Equal(t, 4, health.Current)
	assert.True(t, p.world.Exists(second))
}

func TestGameOverAtZeroHealth(t *testing.T) {
	p := newTestScene(t, Options{})
	health := p.world.Health[p.world.PlayerID]
	health.Current = 1
	p.world.Health[p.world.PlayerID] = health
	p.world.CreateEnemy(400, 300, 0, 0)

	p.input.Poll()
	p.Step(0.01)

	assert.Equal(t, state.StateGameOver, p.state)
}

func TestPeriodicEnemySpawn(t *testing.T) {
	p := newTestScene(t, Options{})

	for i := 0; i < 16; i++ { // 2 seconds at 0.125s ticks
		p.input.Poll()
		p.Step(0.125)
	}

	assert.Equal(t, 1, p.world.CountEnemies())
}
