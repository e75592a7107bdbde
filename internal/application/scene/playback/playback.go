// Package playback provides the visual replay scene: it renders a recorded
// session by interpolating between its keyframes, without re-running the
// simulation.
package playback

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/arcadelab/swarm/internal/application/scene"
	"github.com/arcadelab/swarm/internal/ecs"
	"github.com/arcadelab/swarm/internal/infrastructure/config"
	"github.com/arcadelab/swarm/internal/recording"
)

var (
	colorBG     = color.RGBA{26, 26, 46, 255}
	colorPlayer = color.RGBA{100, 200, 100, 255}
)

// Playback is the keyframe interpolation replay scene.
type Playback struct {
	cfg    *config.Config
	logger *log.Logger

	frames   *recording.KeyframeLog
	time     float64
	paused   bool
	finished bool

	returnTo func() scene.Scene

	screenW int
	screenH int
}

// New creates a playback scene from a session log. The arena size comes
// from the log's header when present, the display config otherwise.
func New(cfg *config.Config, lines []string, returnTo func() scene.Scene) *Playback {
	p := &Playback{
		cfg:      cfg,
		logger:   log.Default(),
		frames:   recording.ParseKeyframes(lines),
		returnTo: returnTo,
		screenW:  cfg.Display.Width,
		screenH:  cfg.Display.Height,
	}

	if w, h, ok := headerSize(lines); ok {
		p.screenW, p.screenH = w, h
	}

	return p
}

// SetLogger replaces the scene's logger.
func (p *Playback) SetLogger(logger *log.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// headerSize reads the recorded arena size from the log's header record.
func headerSize(lines []string) (int, int, bool) {
	for _, line := range lines {
		raw, ok := recording.Field(line, "type")
		if !ok || recording.StripQuotes(raw) != "header" {
			continue
		}

		rawW, okW := recording.Field(line, "w")
		rawH, okH := recording.Field(line, "h")
		if !okW || !okH {
			return 0, 0, false
		}
		w, errW := recording.ParseFloat(rawW)
		h, errH := recording.ParseFloat(rawH)
		if errW != nil || errH != nil || w <= 0 || h <= 0 {
			return 0, 0, false
		}
		return int(w), int(h), true
	}
	return 0, 0, false
}

// OnEnter implements scene.Scene.
func (p *Playback) OnEnter() {
	p.logger.Info("visual replay", "keyframes", p.frames.Len(), "duration", p.frames.Duration())
}

// OnExit implements scene.Scene.
func (p *Playback) OnExit() {}

// Update advances playback time (implements scene.Scene)
func (p *Playback) Update(dt float64) (scene.Scene, error) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if p.returnTo != nil {
			return p.returnTo(), nil
		}
		return nil, ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		p.paused = !p.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		p.time = 0
		p.finished = false
	}

	p.advance(dt)
	return nil, nil
}

// advance moves playback time forward, clamped at the last keyframe.
func (p *Playback) advance(dt float64) {
	if p.paused || p.finished {
		return
	}

	p.time += dt
	if p.time >= p.frames.Duration() {
		p.time = p.frames.Duration()
		p.finished = true
	}
}

// Time returns the current playback time.
func (p *Playback) Time() float64 {
	return p.time
}

// Finished reports whether playback reached the end of the log.
func (p *Playback) Finished() bool {
	return p.finished
}

// Draw renders the interpolated scene (implements scene.Scene)
func (p *Playback) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	for _, e := range p.frames.At(p.time) {
		drawEntity(screen, e)
	}

	status := fmt.Sprintf("REPLAY %.1fs / %.1fs | Space: Pause | R: Restart | ESC: Menu",
		p.time, p.frames.Duration())
	if p.finished {
		status = fmt.Sprintf("REPLAY ENDED (%.1fs) | R: Restart | ESC: Menu", p.frames.Duration())
	}
	ebitenutil.DebugPrint(screen, status)
}

// drawEntity renders one interpolated entity, centered on its position.
// Entities without a recorded shape are drawn the way the live scene draws
// the player.
func drawEntity(screen *ebiten.Image, e recording.Entity) {
	if !e.HasRender || e.Render == recording.RenderCustom {
		c := color.RGBA{200, 200, 200, 255}
		if strings.HasPrefix(e.ID, ecs.KindPlayer+"#") {
			c = colorPlayer
		}
		ebitenutil.DrawRect(screen, e.X-10, e.Y-10, 20, 20, c)
		return
	}

	c := color.RGBA{
		uint8(e.Color[0] * 255),
		uint8(e.Color[1] * 255),
		uint8(e.Color[2] * 255),
		uint8(e.Color[3] * 255),
	}

	switch e.Render {
	case recording.RenderLine:
		ebitenutil.DrawLine(screen, e.X-e.W/2, e.Y, e.X+e.W/2, e.Y, c)
	default:
		// Rectangles and circles share a square footprint.
		ebitenutil.DrawRect(screen, e.X-e.W/2, e.Y-e.H/2, e.W, e.H, c)
	}
}
