package ecs

// Position is an entity's position in screen pixels.
type Position struct {
	X, Y float64
}

// Velocity is movement speed in pixels per second.
type Velocity struct {
	X, Y float64
}

// RenderKind selects the draw primitive for an entity.
type RenderKind int

// Render kinds.
const (
	RenderRectangle RenderKind = iota
	RenderCircle
	RenderLine
	RenderCustom
)

// Render describes how an entity is drawn. Color is RGBA in 0..1.
type Render struct {
	Kind  RenderKind
	W, H  float64
	Color [4]float64
}

// Health tracks hit points with an invincibility window.
type Health struct {
	Current int
	Max     int
	Iframe  float64 // seconds of invincibility remaining
}

// TakeDamage applies damage unless invincible, returns true if dead.
func (h *Health) TakeDamage(amount int, iframe float64) bool {
	if h.Iframe > 0 {
		return false
	}
	h.Current -= amount
	h.Iframe = iframe
	return h.Current <= 0
}

// IsAlive returns true if health > 0.
func (h *Health) IsAlive() bool {
	return h.Current > 0
}
