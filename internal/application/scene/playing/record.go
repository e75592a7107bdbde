package playing

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arcadelab/swarm/internal/ecs"
	"github.com/arcadelab/swarm/internal/recording"
)

// worldSnapshot adapts the entity world to the recorder's scene view.
type worldSnapshot struct {
	world *ecs.World
}

// Snapshot returns every positioned entity with its stable identity key.
func (s worldSnapshot) Snapshot() []recording.Entity {
	out := make([]recording.Entity, 0, len(s.world.Position))
	for id, pos := range s.world.Position {
		e := recording.Entity{
			ID: s.world.Identity[id],
			X:  pos.X,
			Y:  pos.Y,
		}
		if r, ok := s.world.Render[id]; ok {
			e.HasRender = true
			e.Render = renderTypeOf(r.Kind)
			e.W = r.W
			e.H = r.H
			e.Color = r.Color
		}
		out = append(out, e)
	}
	return out
}

func renderTypeOf(kind ecs.RenderKind) recording.RenderType {
	switch kind {
	case ecs.RenderCircle:
		return recording.RenderCircle
	case ecs.RenderLine:
		return recording.RenderLine
	case ecs.RenderCustom:
		return recording.RenderCustom
	default:
		return recording.RenderRectangle
	}
}

func renderKindOf(rt recording.RenderType) ecs.RenderKind {
	switch rt {
	case recording.RenderCircle:
		return ecs.RenderCircle
	case recording.RenderLine:
		return ecs.RenderLine
	case recording.RenderCustom:
		return ecs.RenderCustom
	default:
		return ecs.RenderRectangle
	}
}

// inputSnapshot captures the current input source state for the recorder.
func (p *Playing) inputSnapshot() recording.InputSnapshot {
	mx, my := p.input.MousePosition()
	return recording.InputSnapshot{
		Keys:    p.input.PressedKeys(),
		MouseX:  mx,
		MouseY:  my,
		Buttons: p.input.MouseButtons(),
	}
}

// startRecording opens a fresh session log unless recording is disabled.
func (p *Playing) startRecording() {
	if p.opts.NoRecord || p.opts.Storage == nil {
		return
	}

	p.sessionName = recording.SessionFilename(time.Now())
	p.recorder = p.newRecorder()
	p.recorder.SetExtraData(p.keyframeExtra)

	if err := p.recorder.Start(worldSnapshot{p.world}, p.screenW, p.screenH); err != nil {
		p.logger.Error("failed to start session recording", "err", err)
		p.recorder = nil
		return
	}
	p.logger.Info("recording session", "path", p.recorder.Config().OutputPath)
}

func (p *Playing) newRecorder() *recording.Recorder {
	rc := p.cfg.Recording
	dir := rc.Dir
	if dir == "" {
		dir = recording.DefaultDir
	}
	r := recording.NewRecorder(recording.Config{
		OutputPath:       filepath.Join(dir, p.sessionName),
		QueueCapacity:    rc.QueueCapacity,
		KeyframeInterval: rc.KeyframeInterval,
		QuantizeDecimals: rc.QuantizeDecimals,
		MouseThreshold:   rc.MouseThreshold,
		Warmup:           rc.Warmup,
	}, p.opts.Storage)
	r.SetLogger(p.logger)
	return r
}

// keyframeExtra inlines score and player health into every keyframe so a
// resumed session can pick them back up.
func (p *Playing) keyframeExtra() string {
	hp := p.world.Health[p.world.PlayerID].Current
	return fmt.Sprintf(`"score":%d,"hp":%d`, p.score, hp)
}

func (p *Playing) stopRecording() {
	if p.recorder == nil {
		return
	}
	p.recorder.Stop()
	p.recorder = nil
}

// recordSpawn logs an entity creation so input-driven replay can recreate
// random spawns without re-rolling the dice.
func (p *Playing) recordSpawn(id ecs.EntityID) {
	if p.recorder == nil {
		return
	}

	pos := p.world.Position[id]
	e := recording.Entity{Render: recording.RenderCustom}
	if r, ok := p.world.Render[id]; ok {
		e.Render = renderTypeOf(r.Kind)
		e.W = r.W
		e.H = r.H
		e.Color = r.Color
	}
	p.recorder.RecordSpawn(p.world.Identity[id], pos.X, pos.Y, e.Render, e.W, e.H, e.Color)
}

// resumeLatest continues the most recent session log: the world, score and
// health come from its last keyframe, and the new log is seeded with the old
// history. Returns false when there is nothing to resume; the caller then
// starts a fresh session.
func (p *Playing) resumeLatest() bool {
	if p.opts.NoRecord || p.opts.Storage == nil {
		return false
	}

	paths, err := p.opts.Storage.ListRecordings()
	if err != nil || len(paths) == 0 {
		if err != nil {
			p.logger.Error("failed to list recordings", "err", err)
		}
		return false
	}
	source := paths[0]

	lines, err := p.opts.Storage.ReadLines(source)
	if err != nil {
		p.logger.Error("failed to read session log", "file", source, "err", err)
		return false
	}

	kfLine, ok := lastPlayerKeyframe(lines)
	if !ok {
		p.logger.Warn("no resumable keyframe in latest session", "file", source)
		return false
	}

	if !p.restoreFromKeyframe(kfLine) {
		return false
	}

	p.sessionName = recording.SessionFilename(time.Now())
	p.recorder = p.newRecorder()
	p.recorder.SetExtraData(p.keyframeExtra)
	if err := p.recorder.Resume(worldSnapshot{p.world}, source, kfLine); err != nil {
		p.logger.Error("failed to resume session", "file", source, "err", err)
		p.recorder = nil
		// The restored world is still playable; fall back to a fresh log.
		p.startRecording()
		return true
	}
	p.logger.Info("resumed session", "from", filepath.Base(source), "file", p.sessionName)
	return true
}

// lastPlayerKeyframe finds the last keyframe that still contains the player.
// Post-death keyframes have no player entity and cannot seed a session.
func lastPlayerKeyframe(lines []string) (string, bool) {
	marker := `"` + ecs.KindPlayer + `#`
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if raw, ok := recording.Field(line, "type"); !ok || recording.StripQuotes(raw) != "keyframe" {
			continue
		}
		if strings.Contains(line, marker) {
			return line, true
		}
	}
	return "", false
}

// restoreFromKeyframe rebuilds the world from one keyframe record,
// preserving the recorded identity keys so the continued log stays
// consistent.
func (p *Playing) restoreFromKeyframe(kfLine string) bool {
	frames := recording.ParseKeyframes([]string{kfLine})
	if frames.Len() == 0 {
		return false
	}
	entities := frames.At(frames.Duration())

	world := ecs.NewWorld()
	restored := false
	for _, e := range entities {
		kind, _, found := strings.Cut(e.ID, "#")
		if !found {
			continue
		}

		var id ecs.EntityID
		switch kind {
		case ecs.KindPlayer:
			id = world.CreatePlayer(e.X, e.Y, p.cfg.Gameplay.MaxHealth)
			restored = true
		case ecs.KindEnemy:
			// Drift velocity is not recorded; restored enemies chase only.
			id = world.CreateEnemy(e.X, e.Y, 0, 0)
		case ecs.KindDecoration:
			id = world.CreateDecoration(e.X, e.Y)
		default:
			// Bullets are short-lived and carry no recorded velocity.
			continue
		}

		world.Identity[id] = e.ID
		if e.HasRender && e.Render != recording.RenderCustom {
			world.Render[id] = ecs.Render{
				Kind:  renderKindOf(e.Render),
				W:     e.W,
				H:     e.H,
				Color: e.Color,
			}
		}
	}
	if !restored {
		return false
	}

	if raw, ok := recording.Field(kfLine, "score"); ok {
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			p.score = v
		}
	}
	if raw, ok := recording.Field(kfLine, "hp"); ok {
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			health := world.Health[world.PlayerID]
			health.Current = v
			world.Health[world.PlayerID] = health
		}
	}

	p.world = world
	return true
}
