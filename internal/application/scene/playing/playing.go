// Package playing provides the arena gameplay scene, in three flavors: a
// fresh recorded session, a session resumed from the latest recording, and
// an input-driven replay of a prior recording.
package playing

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/arcadelab/swarm/internal/application/scene"
	"github.com/arcadelab/swarm/internal/application/state"
	"github.com/arcadelab/swarm/internal/application/system"
	"github.com/arcadelab/swarm/internal/ecs"
	"github.com/arcadelab/swarm/internal/infrastructure/config"
	"github.com/arcadelab/swarm/internal/infrastructure/scores"
	"github.com/arcadelab/swarm/internal/recording"
)

// Colors for rendering
var (
	colorBG       = color.RGBA{26, 26, 46, 255}
	colorPlayer   = color.RGBA{100, 200, 100, 255}
	colorFlash    = color.RGBA{255, 255, 255, 200}
	colorHealthBG = color.RGBA{60, 60, 60, 255}
	colorHealthFG = color.RGBA{100, 200, 100, 255}
)

// Mode selects how the scene runs.
type Mode int

const (
	// ModePlay is a live session driven by hardware input.
	ModePlay Mode = iota
	// ModeReplay re-runs the simulation from a recorded input stream.
	ModeReplay
)

// Options configures a Playing scene beyond the shared config.
type Options struct {
	// Storage persists and lists session logs.
	Storage recording.Storage

	// Scores persists session results. Optional.
	Scores *scores.Store

	// ReturnTo builds the scene to transition to when play ends.
	ReturnTo func() scene.Scene

	// Resume continues the most recent session instead of starting fresh.
	Resume bool

	// NoRecord disables session recording.
	NoRecord bool

	// ReplayLines switches the scene to ModeReplay, re-running the given
	// session log by injecting its input records.
	ReplayLines []string
}

// Playing is the arena gameplay scene.
type Playing struct {
	cfg    *config.Config
	opts   Options
	logger *log.Logger

	mode  Mode
	world *ecs.World
	input *system.Source
	state state.GameState

	score      int
	spawnTimer float64
	rng        *rand.Rand

	recorder    *recording.Recorder
	sessionName string

	events     *recording.EventQueue
	replayTime float64

	screenW int
	screenH int
}

// New creates a Playing scene. The world and any recording session are set
// up in OnEnter.
func New(cfg *config.Config, opts Options) *Playing {
	mode := ModePlay
	if len(opts.ReplayLines) > 0 {
		mode = ModeReplay
	}

	return &Playing{
		cfg:     cfg,
		opts:    opts,
		logger:  log.Default(),
		mode:    mode,
		input:   system.NewSource(),
		state:   state.StatePlaying,
		rng:     rand.New(rand.NewSource(rand.Int63())),
		screenW: cfg.Display.Width,
		screenH: cfg.Display.Height,
	}
}

// SetLogger replaces the scene's logger. Call before OnEnter.
func (p *Playing) SetLogger(logger *log.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Score returns the current score.
func (p *Playing) Score() int {
	return p.score
}

// World exposes the entity world, used by tests and the recorder snapshot.
func (p *Playing) World() *ecs.World {
	return p.world
}

// OnEnter builds the world and, depending on the mode, starts a fresh
// recording, resumes the latest one, or arms the replay event queue.
func (p *Playing) OnEnter() {
	p.world = ecs.NewWorld()
	p.world.CreatePlayer(float64(p.screenW)/2, float64(p.screenH)/2, p.cfg.Gameplay.MaxHealth)

	switch p.mode {
	case ModeReplay:
		p.input.SetIgnoreHardware(true)
		p.events = recording.ParseEvents(p.opts.ReplayLines)
		p.state = state.StateReplay
		p.logger.Info("replaying session input", "events", p.events.Len())
	case ModePlay:
		if p.opts.Resume && p.resumeLatest() {
			return
		}
		p.startRecording()
		p.spawnInitialEntities()
	}
}

// spawnInitialEntities populates a fresh arena. The recorder is already
// running, so every random spawn lands in the log.
func (p *Playing) spawnInitialEntities() {
	for i := 0; i < p.cfg.Gameplay.Decorations; i++ {
		x := p.rng.Float64() * float64(p.screenW)
		y := p.rng.Float64() * float64(p.screenH)
		id := p.world.CreateDecoration(x, y)
		p.recordSpawn(id)
	}
	for i := 0; i < p.cfg.Gameplay.InitialEnemies; i++ {
		p.spawnEnemy()
	}
}

// spawnEnemy places an enemy at a random spot away from the player, with a
// random drift velocity, and records the spawn.
func (p *Playing) spawnEnemy() {
	px, py := p.playerXY()
	minDist := p.cfg.Gameplay.MinSpawnDistance

	var x, y float64
	for tries := 0; tries < 32; tries++ {
		x = p.rng.Float64() * float64(p.screenW)
		y = p.rng.Float64() * float64(p.screenH)
		if math.Hypot(x-px, y-py) >= minDist {
			break
		}
	}

	angle := p.rng.Float64() * 2 * math.Pi
	drift := p.cfg.Gameplay.EnemyDriftSpeed
	id := p.world.CreateEnemy(x, y, math.Cos(angle)*drift, math.Sin(angle)*drift)
	p.recordSpawn(id)
}

// Update proceeds the game state (implements scene.Scene)
func (p *Playing) Update(dt float64) (scene.Scene, error) {
	switch p.state {
	case state.StatePlaying, state.StateReplay:
		if next := p.updatePlaying(dt); next != nil {
			return next, nil
		}
	case state.StatePaused:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			p.state = state.StatePlaying
		}
	case state.StateGameOver, state.StateReplayEnded:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
			inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			return p.returnScene()
		}
	}

	return nil, nil
}

func (p *Playing) updatePlaying(dt float64) scene.Scene {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if p.mode == ModeReplay {
			next, _ := p.returnScene()
			return next
		}
		p.state = state.StatePaused
		return nil
	}

	p.input.Poll()

	if p.mode == ModeReplay {
		p.advanceReplay(dt)
		if p.state != state.StateReplay {
			return nil
		}
	}

	p.Step(dt)

	if p.recorder != nil {
		p.recorder.Update(dt, worldSnapshot{p.world}, p.inputSnapshot())
	}

	return nil
}

// Step advances one simulation tick: player movement, firing, enemy chase,
// bullet flight, collisions, and (live only) periodic enemy spawns. Exposed
// so tests can drive the simulation without a display.
func (p *Playing) Step(dt float64) {
	p.movePlayer(dt)
	p.fireBullets()
	p.moveEnemies(dt)
	p.moveBullets(dt)
	p.resolveCollisions(dt)

	if p.mode == ModePlay {
		p.spawnTimer += dt
		if p.spawnTimer >= p.cfg.Gameplay.EnemySpawnInterval {
			p.spawnTimer = 0
			p.spawnEnemy()
		}
	}
}

func (p *Playing) movePlayer(dt float64) {
	var dx, dy float64
	if p.keyHeld(ebiten.KeyW) || p.keyHeld(ebiten.KeyArrowUp) {
		dy--
	}
	if p.keyHeld(ebiten.KeyS) || p.keyHeld(ebiten.KeyArrowDown) {
		dy++
	}
	if p.keyHeld(ebiten.KeyA) || p.keyHeld(ebiten.KeyArrowLeft) {
		dx--
	}
	if p.keyHeld(ebiten.KeyD) || p.keyHeld(ebiten.KeyArrowRight) {
		dx++
	}
	if dx == 0 && dy == 0 {
		return
	}

	// Diagonal movement keeps the same speed.
	length := math.Hypot(dx, dy)
	speed := p.cfg.Gameplay.PlayerSpeed
	px, py := p.playerXY()
	px = clamp(px+dx/length*speed*dt, 0, float64(p.screenW))
	py = clamp(py+dy/length*speed*dt, 0, float64(p.screenH))
	p.world.SetPlayerPosition(px, py)
}

func (p *Playing) keyHeld(k ebiten.Key) bool {
	return p.input.IsPressed(int(k))
}

func (p *Playing) fireBullets() {
	if !p.input.MouseJustPressed(system.MouseLeft) {
		return
	}

	px, py := p.playerXY()
	mx, my := p.input.MousePosition()
	dx, dy := mx-px, my-py
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		dist = 1
	}

	speed := p.cfg.Gameplay.BulletSpeed
	p.world.CreateBullet(px, py, dx/dist*speed, dy/dist*speed)
}

func (p *Playing) moveEnemies(dt float64) {
	px, py := p.playerXY()
	chase := p.cfg.Gameplay.EnemySpeed

	for id := range p.world.IsEnemy {
		pos := p.world.Position[id]
		vel := p.world.Velocity[id]

		dx, dy := px-pos.X, py-pos.Y
		dist := math.Hypot(dx, dy)
		if dist < 1 {
			dist = 1
		}

		pos.X += (dx/dist*chase + vel.X) * dt
		pos.Y += (dy/dist*chase + vel.Y) * dt

		// Drift bounces off the arena bounds.
		if pos.X < 0 {
			pos.X = 0
			vel.X = math.Abs(vel.X)
		} else if pos.X > float64(p.screenW) {
			pos.X = float64(p.screenW)
			vel.X = -math.Abs(vel.X)
		}
		if pos.Y < 0 {
			pos.Y = 0
			vel.Y = math.Abs(vel.Y)
		} else if pos.Y > float64(p.screenH) {
			pos.Y = float64(p.screenH)
			vel.Y = -math.Abs(vel.Y)
		}

		p.world.Position[id] = pos
		p.world.Velocity[id] = vel
	}
}

func (p *Playing) moveBullets(dt float64) {
	var gone []ecs.EntityID
	for id := range p.world.IsBullet {
		pos := p.world.Position[id]
		vel := p.world.Velocity[id]
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
		p.world.Position[id] = pos

		if pos.X < -50 || pos.X > float64(p.screenW)+50 ||
			pos.Y < -50 || pos.Y > float64(p.screenH)+50 {
			gone = append(gone, id)
		}
	}
	for _, id := range gone {
		p.world.DestroyEntity(id)
	}
}

func (p *Playing) resolveCollisions(dt float64) {
	playerID := p.world.PlayerID
	px, py := p.playerXY()

	health := p.world.Health[playerID]
	if health.Iframe > 0 {
		health.Iframe -= dt
		if health.Iframe < 0 {
			health.Iframe = 0
		}
	}

	// Bullet hits.
	hitRadius := p.cfg.Gameplay.BulletHitRadius
	var destroyed []ecs.EntityID
	for bid := range p.world.IsBullet {
		bpos := p.world.Position[bid]
		for eid := range p.world.IsEnemy {
			epos := p.world.Position[eid]
			if math.Hypot(bpos.X-epos.X, bpos.Y-epos.Y) <= hitRadius {
				destroyed = append(destroyed, bid, eid)
				p.score++
				break
			}
		}
	}
	for _, id := range destroyed {
		p.world.DestroyEntity(id)
	}

	// Enemy contact. While invincible the player passes through.
	if health.Iframe <= 0 {
		contact := p.cfg.Gameplay.ContactRadius
		for eid := range p.world.IsEnemy {
			epos := p.world.Position[eid]
			if math.Hypot(epos.X-px, epos.Y-py) > contact {
				continue
			}

			dead := health.TakeDamage(1, p.cfg.Gameplay.InvincibleDuration)
			p.world.DestroyEntity(eid)
			if dead {
				p.world.Health[playerID] = health
				p.gameOver()
				return
			}
			break
		}
	}

	p.world.Health[playerID] = health
}

func (p *Playing) gameOver() {
	if p.mode == ModeReplay {
		p.state = state.StateReplayEnded
		return
	}

	p.state = state.StateGameOver
	p.stopRecording()
	p.saveResult()
}

func (p *Playing) saveResult() {
	if p.opts.Scores == nil {
		return
	}

	duration := 0.0
	if p.recorder != nil {
		duration = p.recorder.Elapsed()
	}
	if _, err := p.opts.Scores.SaveResult(p.sessionName, p.score, duration); err != nil {
		p.logger.Error("failed to save result", "err", err)
	}
}

func (p *Playing) returnScene() (scene.Scene, error) {
	if p.opts.ReturnTo != nil {
		return p.opts.ReturnTo(), nil
	}
	return nil, ebiten.Termination
}

func (p *Playing) playerXY() (float64, float64) {
	pos := p.world.GetPlayerPosition()
	return pos.X, pos.Y
}

// OnExit stops any active recording so the log is flushed and closed.
func (p *Playing) OnExit() {
	p.stopRecording()
}

// Draw renders the arena (implements scene.Scene)
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	p.drawEntities(screen)
	p.drawPlayer(screen)
	p.drawUI(screen)

	switch p.state {
	case state.StatePaused:
		p.drawOverlay(screen, color.RGBA{0, 0, 0, 128}, "PAUSED\n\nPress ESC to resume")
	case state.StateGameOver:
		text := fmt.Sprintf("GAME OVER\n\nScore: %d\n\nPress Enter for menu", p.score)
		p.drawOverlay(screen, color.RGBA{100, 0, 0, 180}, text)
	case state.StateReplayEnded:
		p.drawOverlay(screen, color.RGBA{0, 0, 0, 160}, "REPLAY ENDED\n\nPress Enter for menu")
	}
}

func (p *Playing) drawEntities(screen *ebiten.Image) {
	for id, r := range p.world.Render {
		pos, ok := p.world.Position[id]
		if !ok {
			continue
		}
		drawShape(screen, pos.X, pos.Y, r)
	}
}

func (p *Playing) drawPlayer(screen *ebiten.Image) {
	px, py := p.playerXY()

	c := colorPlayer
	health := p.world.Health[p.world.PlayerID]
	// Flash while invincible.
	if health.Iframe > 0 && int(health.Iframe*10)%2 == 0 {
		c = colorFlash
	}

	ebitenutil.DrawRect(screen, px-10, py-10, 20, 20, c)
}

func (p *Playing) drawUI(screen *ebiten.Image) {
	barX, barW, barH := 10.0, 100.0, 10.0
	barY := float64(p.screenH - 20)

	ebitenutil.DrawRect(screen, barX, barY, barW, barH, colorHealthBG)

	health := p.world.Health[p.world.PlayerID]
	ratio := float64(health.Current) / float64(health.Max)
	if ratio < 0 {
		ratio = 0
	}
	ebitenutil.DrawRect(screen, barX, barY, barW*ratio, barH, colorHealthFG)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", p.score), 10, p.screenH-35)

	if p.mode == ModeReplay {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("REPLAY %.1fs | ESC: Menu", p.replayTime))
	} else {
		ebitenutil.DebugPrint(screen, "WASD/Arrows: Move | LClick: Shoot | ESC: Pause")
	}
}

func (p *Playing) drawOverlay(screen *ebiten.Image, c color.RGBA, text string) {
	ebitenutil.DrawRect(screen, 0, 0, float64(p.screenW), float64(p.screenH), c)
	ebitenutil.DebugPrintAt(screen, text, p.screenW/2-60, p.screenH/2-30)
}

// drawShape renders one entity by its render component, centered on x,y.
func drawShape(screen *ebiten.Image, x, y float64, r ecs.Render) {
	c := color.RGBA{
		uint8(r.Color[0] * 255),
		uint8(r.Color[1] * 255),
		uint8(r.Color[2] * 255),
		uint8(r.Color[3] * 255),
	}

	switch r.Kind {
	case ecs.RenderCircle:
		// Approximated with a square of the same footprint.
		ebitenutil.DrawRect(screen, x-r.W/2, y-r.H/2, r.W, r.H, c)
	case ecs.RenderLine:
		ebitenutil.DrawLine(screen, x-r.W/2, y, x+r.W/2, y, c)
	default:
		ebitenutil.DrawRect(screen, x-r.W/2, y-r.H/2, r.W, r.H, c)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
