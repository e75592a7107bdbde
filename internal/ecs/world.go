package ecs

import (
	"github.com/google/uuid"
)

// EntityID is a unique identifier for an entity (never recycled)
type EntityID uint64

// Entity kind names. The kind prefix of an Identity string is what replay
// uses to re-create entities, so these are part of the log format.
const (
	KindPlayer     = "Player"
	KindEnemy      = "Enemy"
	KindBullet     = "Bullet"
	KindDecoration = "Decoration"
)

// World holds all component maps and the next entity ID
type World struct {
	nextID EntityID

	// Components
	Position map[EntityID]Position
	Velocity map[EntityID]Velocity
	Render   map[EntityID]Render
	Health   map[EntityID]Health

	// Identity maps an entity to its stable "Kind#uuid" key. The key is one
	// opaque value: replay matches on the whole string.
	Identity map[EntityID]string

	// Tags
	IsPlayer     map[EntityID]struct{}
	IsEnemy      map[EntityID]struct{}
	IsBullet     map[EntityID]struct{}
	IsDecoration map[EntityID]struct{}

	// Singleton references
	PlayerID EntityID
}

// NewWorld creates a new empty world
func NewWorld() *World {
	return &World{
		nextID:       1, // 0 is "nil"
		Position:     make(map[EntityID]Position),
		Velocity:     make(map[EntityID]Velocity),
		Render:       make(map[EntityID]Render),
		Health:       make(map[EntityID]Health),
		Identity:     make(map[EntityID]string),
		IsPlayer:     make(map[EntityID]struct{}),
		IsEnemy:      make(map[EntityID]struct{}),
		IsBullet:     make(map[EntityID]struct{}),
		IsDecoration: make(map[EntityID]struct{}),
	}
}

// NewEntity returns a new unique entity ID
func (w *World) NewEntity() EntityID {
	id := w.nextID
	w.nextID++
	return id
}

// DestroyEntity removes all components for an entity
func (w *World) DestroyEntity(id EntityID) {
	delete(w.Position, id)
	delete(w.Velocity, id)
	delete(w.Render, id)
	delete(w.Health, id)
	delete(w.Identity, id)
	delete(w.IsPlayer, id)
	delete(w.IsEnemy, id)
	delete(w.IsBullet, id)
	delete(w.IsDecoration, id)
}

// Exists checks if an entity has Position component
func (w *World) Exists(id EntityID) bool {
	_, ok := w.Position[id]
	return ok
}

func identity(kind string) string {
	return kind + "#" + uuid.NewString()
}

// CreatePlayer creates the player entity
func (w *World) CreatePlayer(x, y float64, maxHealth int) EntityID {
	id := w.NewEntity()

	w.Position[id] = Position{X: x, Y: y}
	w.Velocity[id] = Velocity{}
	w.Health[id] = Health{Current: maxHealth, Max: maxHealth}
	w.Identity[id] = identity(KindPlayer)
	w.IsPlayer[id] = struct{}{}

	w.PlayerID = id
	return id
}

// CreateEnemy creates an enemy entity
func (w *World) CreateEnemy(x, y, vx, vy float64) EntityID {
	id := w.NewEntity()

	w.Position[id] = Position{X: x, Y: y}
	w.Velocity[id] = Velocity{X: vx, Y: vy}
	w.Render[id] = Render{
		Kind:  RenderRectangle,
		W:     20,
		H:     20,
		Color: [4]float64{1.0, 0.5, 0.0, 1.0},
	}
	w.Identity[id] = identity(KindEnemy)
	w.IsEnemy[id] = struct{}{}

	return id
}

// CreateBullet creates a bullet entity
func (w *World) CreateBullet(x, y, vx, vy float64) EntityID {
	id := w.NewEntity()

	w.Position[id] = Position{X: x, Y: y}
	w.Velocity[id] = Velocity{X: vx, Y: vy}
	w.Render[id] = Render{
		Kind:  RenderRectangle,
		W:     10,
		H:     10,
		Color: [4]float64{0.2, 0.8, 1.0, 1.0},
	}
	w.Identity[id] = identity(KindBullet)
	w.IsBullet[id] = struct{}{}

	return id
}

// CreateDecoration creates a static decoration entity
func (w *World) CreateDecoration(x, y float64) EntityID {
	id := w.NewEntity()

	w.Position[id] = Position{X: x, Y: y}
	w.Render[id] = Render{
		Kind:  RenderCircle,
		W:     5,
		H:     5,
		Color: [4]float64{0.5, 0.5, 1.0, 0.8},
	}
	w.Identity[id] = identity(KindDecoration)
	w.IsDecoration[id] = struct{}{}

	return id
}

// GetPlayerPosition returns the player's position
func (w *World) GetPlayerPosition() Position {
	return w.Position[w.PlayerID]
}

// SetPlayerPosition moves the player
func (w *World) SetPlayerPosition(x, y float64) {
	pos := w.Position[w.PlayerID]
	pos.X, pos.Y = x, y
	w.Position[w.PlayerID] = pos
}

// CountEnemies returns the number of active enemies
func (w *World) CountEnemies() int {
	return len(w.IsEnemy)
}
