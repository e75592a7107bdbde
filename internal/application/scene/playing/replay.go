package playing

import (
	"strings"

	"github.com/arcadelab/swarm/internal/application/state"
	"github.com/arcadelab/swarm/internal/ecs"
	"github.com/arcadelab/swarm/internal/recording"
)

// advanceReplay moves replay time forward and applies every due event:
// input records are injected into the input source, spawn records recreate
// the session's random spawns, and an end record (or queue exhaustion on a
// truncated log) finishes the replay.
func (p *Playing) advanceReplay(dt float64) {
	p.replayTime += dt

	for _, ev := range p.events.Drain(p.replayTime) {
		switch ev.Kind {
		case recording.EventInput:
			p.injectInput(ev.Input)
		case recording.EventSpawn:
			p.spawnFromRecord(ev.Spawn)
		case recording.EventEnd:
			p.state = state.StateReplayEnded
			return
		}
	}

	if p.events.Empty() {
		p.state = state.StateReplayEnded
	}
}

// injectInput applies one input delta. Absent fields keep their current
// injected state, mirroring how the delta was recorded.
func (p *Playing) injectInput(in recording.InputEvent) {
	if in.HasKeys {
		p.input.SetPressedKeys(in.Keys)
	}
	if in.HasMouse {
		p.input.InjectMousePosition(in.MouseX, in.MouseY)
	}
	if in.HasButtons {
		for i, pressed := range in.Buttons {
			p.input.InjectMouseButton(i, pressed)
		}
	}
}

// spawnFromRecord recreates an entity from its spawn record. The kind prefix
// of the identity key selects the entity type; the recorded identity is kept
// so keyframes of the original log still match.
func (p *Playing) spawnFromRecord(sp recording.SpawnEvent) {
	kind, _, found := strings.Cut(sp.ID, "#")
	if !found {
		return
	}

	var id ecs.EntityID
	switch kind {
	case ecs.KindEnemy:
		// Drift velocity is not recorded; replayed enemies chase only.
		id = p.world.CreateEnemy(sp.X, sp.Y, 0, 0)
	case ecs.KindDecoration:
		id = p.world.CreateDecoration(sp.X, sp.Y)
	case ecs.KindBullet:
		// Bullets respawn from the injected clicks, not from the log.
		return
	default:
		return
	}

	p.world.Identity[id] = sp.ID
	if sp.Render != recording.RenderCustom {
		p.world.Render[id] = ecs.Render{
			Kind:  renderKindOf(sp.Render),
			W:     sp.W,
			H:     sp.H,
			Color: sp.Color,
		}
	}
}
