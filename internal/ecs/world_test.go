package ecs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlayer(t *testing.T) {
	w := NewWorld()
	id := w.CreatePlayer(400, 300, 5)

	assert.Equal(t, id, w.PlayerID)
	assert.True(t, w.Exists(id))
	assert.Equal(t, Position{X: 400, Y: 300}, w.GetPlayerPosition())
	assert.Equal(t, 5, w.Health[id].Current)
	assert.True(t, strings.HasPrefix(w.Identity[id], KindPlayer+"#"))
}

func TestIdentityIsUniquePerEntity(t *testing.T) {
	w := NewWorld()
	a := w.CreateEnemy(0, 0, 1, 0)
	b := w.CreateEnemy(0, 0, 1, 0)

	require.NotEqual(t, a, b)
	assert.NotEqual(t, w.Identity[a], w.Identity[b])
	assert.True(t, strings.HasPrefix(w.Identity[a], KindEnemy+"#"))
}

func TestDestroyEntityRemovesAllComponents(t *testing.T) {
	w := NewWorld()
	id := w.CreateEnemy(10, 20, 1, 2)
	require.True(t, w.Exists(id))
	require.Equal(t, 1, w.CountEnemies())

	w.DestroyEntity(id)

	assert.False(t, w.Exists(id))
	assert.Equal(t, 0, w.CountEnemies())
	_, ok := w.Identity[id]
	assert.False(t, ok)
	_, ok = w.Velocity[id]
	assert.False(t, ok)
}

func TestEntityIDsAreNeverRecycled(t *testing.T) {
	w := NewWorld()
	a := w.CreateBullet(0, 0, 100, 0)
	w.DestroyEntity(a)
	b := w.CreateBullet(0, 0, 100, 0)

	assert.Greater(t, b, a)
}

func TestSetPlayerPosition(t *testing.T) {
	w := NewWorld()
	w.CreatePlayer(0, 0, 5)
	w.SetPlayerPosition(123, 456)
	assert.Equal(t, Position{X: 123, Y: 456}, w.GetPlayerPosition())
}

func TestHealthTakeDamage(t *testing.T) {
	h := Health{Current: 2, Max: 5}

	dead := h.TakeDamage(1, 3.0)
	assert.False(t, dead)
	assert.Equal(t, 1, h.Current)
	assert.Equal(t, 3.0, h.Iframe)
	assert.True(t, h.IsAlive())

	// Invincible while the window is open.
	dead = h.TakeDamage(1, 3.0)
	assert.False(t, dead)
	assert.Equal(t, 1, h.Current)

	h.Iframe = 0
	dead = h.TakeDamage(1, 3.0)
	assert.True(t, dead)
	assert.False(t, h.IsAlive())
}
