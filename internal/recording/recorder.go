// Package recording captures a live play session as a time-stamped event log
// and reconstructs scene state from it: visual replay by keyframe
// interpolation, live replay by input injection, and session resume from the
// last keyframe of a prior log.
package recording

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// RenderType identifies how an entity is drawn.
type RenderType string

// Render types stored in spawn and keyframe records.
const (
	RenderRectangle RenderType = "RECTANGLE"
	RenderCircle    RenderType = "CIRCLE"
	RenderLine      RenderType = "LINE"
	RenderCustom    RenderType = "CUSTOM"
)

// Entity is one positioned entity as seen by the recorder. ID is an opaque
// identity key ("Kind#uuid") that stays stable for the entity's lifetime.
type Entity struct {
	ID        string
	X, Y      float64
	HasRender bool
	Render    RenderType
	W, H      float64
	Color     [4]float64 // RGBA, 0..1
}

// Scene is the recorder's view of the game world.
type Scene interface {
	// Snapshot returns every entity that has a position.
	Snapshot() []Entity
}

// InputSnapshot is one frame of input state. Keys holds pressed key codes in
// any order.
type InputSnapshot struct {
	Keys    []int
	MouseX  float64
	MouseY  float64
	Buttons [3]bool
}

// Config controls one recording session.
type Config struct {
	// OutputPath is the session log file.
	OutputPath string

	// QueueCapacity bounds the producer/drain queue. When full, new records
	// are dropped rather than blocking the simulation tick.
	QueueCapacity int

	// KeyframeInterval is the seconds between full scene snapshots.
	KeyframeInterval float64

	// QuantizeDecimals is the max fraction digits written for numbers.
	QuantizeDecimals int

	// MouseThreshold is the minimum mouse movement (either axis) that counts
	// as an input change.
	MouseThreshold float64

	// Warmup is the seconds before the first keyframe may be emitted.
	Warmup float64
}

func (c Config) withDefaults() Config {
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = 1024
	}
	if c.KeyframeInterval <= 0 {
		c.KeyframeInterval = 1.0
	}
	if c.QuantizeDecimals <= 0 {
		c.QuantizeDecimals = 3
	}
	if c.MouseThreshold <= 0 {
		c.MouseThreshold = 0.5
	}
	if c.Warmup <= 0 {
		c.Warmup = 0.1
	}
	return c
}

const (
	drainIdleSleep = 2 * time.Millisecond
	stopTimeout    = 2 * time.Second

	// mouseUnset forces the first observed mouse position to read as changed.
	mouseUnset = -9999
)

// Recorder owns a single recording session: elapsed-time accounting, input
// delta encoding, periodic keyframes, and the background drain that moves
// encoded lines into storage. A Recorder is single shot; construct a new one
// per session.
//
// Update and RecordSpawn are called from the simulation tick; the drain
// goroutine is the only other actor and the bounded queue is the only shared
// state between them.
type Recorder struct {
	cfg     Config
	storage Storage
	logger  *log.Logger

	lines     chan string
	done      chan struct{}
	recording atomic.Bool

	elapsed         float64
	keyframeElapsed float64

	lastKeys    map[int]struct{}
	lastMouseX  float64
	lastMouseY  float64
	lastButtons [3]bool

	lastScene Scene
	extraData func() string
}

// NewRecorder creates an idle Recorder writing through storage.
func NewRecorder(cfg Config, storage Storage) *Recorder {
	cfg = cfg.withDefaults()
	return &Recorder{
		cfg:        cfg,
		storage:    storage,
		logger:     log.Default(),
		lines:      make(chan string, cfg.QueueCapacity),
		lastKeys:   make(map[int]struct{}),
		lastMouseX: mouseUnset,
		lastMouseY: mouseUnset,
	}
}

// SetLogger replaces the recorder's logger. Call before Start.
func (r *Recorder) SetLogger(logger *log.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// SetExtraData registers a callback whose returned fragment (for example
// `"score":12,"hp":3`) is inlined into every keyframe. An empty return adds
// nothing.
func (r *Recorder) SetExtraData(fn func() string) {
	r.extraData = fn
}

// Config returns the session configuration.
func (r *Recorder) Config() Config {
	return r.cfg
}

// IsRecording reports whether the session is active.
func (r *Recorder) IsRecording() bool {
	return r.recording.Load()
}

// Elapsed returns the session time in seconds.
func (r *Recorder) Elapsed() float64 {
	return r.elapsed
}

// Start opens storage, launches the drain worker, and writes the header
// record. On storage failure the recorder stays idle and the error is
// returned.
func (r *Recorder) Start(scene Scene, width, height int) error {
	if r.recording.Load() {
		return nil
	}

	if err := r.storage.OpenWriter(r.cfg.OutputPath); err != nil {
		return err
	}

	r.lastScene = scene
	r.done = make(chan struct{})
	r.recording.Store(true)
	go r.drain()

	r.enqueue(fmt.Sprintf(`{"type":"header","version":1,"w":%d,"h":%d}`, width, height))
	r.keyframeElapsed = 0
	return nil
}

// Update advances session time and emits an input delta when any input field
// changed, plus a periodic keyframe once past warmup. No-op when idle.
func (r *Recorder) Update(dt float64, scene Scene, input InputSnapshot) {
	if !r.recording.Load() {
		return
	}

	r.elapsed += dt
	r.keyframeElapsed += dt
	r.lastScene = scene

	r.updateInput(input)

	if r.elapsed >= r.cfg.Warmup && r.keyframeElapsed >= r.cfg.KeyframeInterval {
		if r.writeKeyframe(scene, false) {
			r.keyframeElapsed = 0
		}
	}
}

func (r *Recorder) updateInput(input InputSnapshot) {
	changed := false
	var sb strings.Builder
	sb.WriteString(`{"type":"input","t":`)
	sb.WriteString(r.quant(r.elapsed))

	if !sameKeySet(r.lastKeys, input.Keys) {
		changed = true
		keys := append([]int(nil), input.Keys...)
		sort.Ints(keys)
		sb.WriteString(`,"keys":[`)
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "%d", k)
		}
		sb.WriteByte(']')

		r.lastKeys = make(map[int]struct{}, len(keys))
		for _, k := range keys {
			r.lastKeys[k] = struct{}{}
		}
	}

	if abs(input.MouseX-r.lastMouseX) > r.cfg.MouseThreshold ||
		abs(input.MouseY-r.lastMouseY) > r.cfg.MouseThreshold {
		changed = true
		sb.WriteString(`,"mx":`)
		sb.WriteString(r.quant(input.MouseX))
		sb.WriteString(`,"my":`)
		sb.WriteString(r.quant(input.MouseY))
		r.lastMouseX = input.MouseX
		r.lastMouseY = input.MouseY
	}

	if input.Buttons != r.lastButtons {
		changed = true
		// Buttons are written in full whenever any one changes.
		sb.WriteString(`,"mb":[`)
		for i, pressed := range input.Buttons {
			if i > 0 {
				sb.WriteByte(',')
			}
			if pressed {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte(']')
		r.lastButtons = input.Buttons
	}

	if changed {
		sb.WriteByte('}')
		r.enqueue(sb.String())
	}
}

// RecordSpawn emits a spawn record immediately, outside the periodic cycle.
// No-op when idle.
func (r *Recorder) RecordSpawn(id string, x, y float64, rt RenderType, w, h float64, color [4]float64) {
	if !r.recording.Load() {
		return
	}

	var sb strings.Builder
	sb.WriteString(`{"type":"spawn","t":`)
	sb.WriteString(r.quant(r.elapsed))
	sb.WriteString(`,"id":"`)
	sb.WriteString(id)
	sb.WriteString(`","x":`)
	sb.WriteString(r.quant(x))
	sb.WriteString(`,"y":`)
	sb.WriteString(r.quant(y))
	sb.WriteString(`,"rt":"`)
	sb.WriteString(string(rt))
	sb.WriteString(`","w":`)
	sb.WriteString(r.quant(w))
	sb.WriteString(`,"h":`)
	sb.WriteString(r.quant(h))
	sb.WriteString(`,"color":[`)
	for i, c := range color {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(r.quant(c))
	}
	sb.WriteString(`]}`)

	r.enqueue(sb.String())
}

// Stop writes the end record and a forced final keyframe, then flags the
// session inactive and waits (bounded) for the drain to flush and close
// storage. No-op when idle.
func (r *Recorder) Stop() {
	if !r.recording.Load() {
		return
	}

	r.enqueue(`{"type":"end","t":` + r.quant(r.elapsed) + `}`)
	if r.lastScene != nil {
		// End-of-session snapshot is best effort: empty-scene suppression
		// does not apply here.
		r.writeKeyframe(r.lastScene, true)
	}

	r.recording.Store(false)

	select {
	case <-r.done:
	case <-time.After(stopTimeout):
		r.logger.Warn("session log flush timed out, queued records lost",
			"path", r.cfg.OutputPath)
	}
}

// writeKeyframe encodes a full scene snapshot. A keyframe with zero entities
// is suppressed unless force is set; the caller keeps the keyframe timer
// running on suppression so the next tick retries.
func (r *Recorder) writeKeyframe(scene Scene, force bool) bool {
	entities := scene.Snapshot()
	if len(entities) == 0 && !force {
		return false
	}

	var sb strings.Builder
	sb.WriteString(`{"type":"keyframe","t":`)
	sb.WriteString(r.quant(r.elapsed))

	if r.extraData != nil {
		if extra := r.extraData(); extra != "" {
			sb.WriteByte(',')
			sb.WriteString(extra)
		}
	}

	sb.WriteString(`,"entities":[`)
	for i, e := range entities {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(`{"id":"`)
		sb.WriteString(e.ID)
		sb.WriteString(`","x":`)
		sb.WriteString(r.quant(e.X))
		sb.WriteString(`,"y":`)
		sb.WriteString(r.quant(e.Y))
		if e.HasRender {
			sb.WriteString(`,"rt":"`)
			sb.WriteString(string(e.Render))
			sb.WriteString(`","w":`)
			sb.WriteString(r.quant(e.W))
			sb.WriteString(`,"h":`)
			sb.WriteString(r.quant(e.H))
			sb.WriteString(`,"color":[`)
			for j, c := range e.Color {
				if j > 0 {
					sb.WriteByte(',')
				}
				sb.WriteString(r.quant(c))
			}
			sb.WriteByte(']')
		} else {
			sb.WriteString(`,"rt":"CUSTOM"`)
		}
		sb.WriteByte('}')
	}
	sb.WriteString(`]}`)

	r.enqueue(sb.String())
	return true
}

// enqueue hands a line to the drain worker, dropping it if the queue is
// full. Simulation latency wins over log completeness.
func (r *Recorder) enqueue(line string) {
	select {
	case r.lines <- line:
	default:
	}
}

// put is the blocking variant used only when seeding history during resume,
// where dropping records would corrupt the continuation. It aborts instead of
// blocking forever when the drain has already exited, so a dead writer cannot
// freeze the simulation thread.
func (r *Recorder) put(line string) error {
	select {
	case r.lines <- line:
		return nil
	case <-r.done:
		return fmt.Errorf("session log writer stopped")
	}
}

// drain is the single consumer: it dequeues lines and writes them through
// storage until the session is flagged inactive and the queue is empty. An
// I/O failure is logged and ends the drain; the simulation is never aborted
// from here.
func (r *Recorder) drain() {
	defer close(r.done)

	for {
		select {
		case line := <-r.lines:
			if err := r.storage.WriteLine(line); err != nil {
				r.logger.Error("session log write failed", "err", err)
				r.closeStorage()
				return
			}
		default:
			if !r.recording.Load() {
				r.closeStorage()
				return
			}
			time.Sleep(drainIdleSleep)
		}
	}
}

func (r *Recorder) closeStorage() {
	if err := r.storage.CloseWriter(); err != nil {
		r.logger.Error("session log close failed", "err", err)
	}
}

func (r *Recorder) quant(v float64) string {
	return FormatQuantized(v, r.cfg.QuantizeDecimals)
}

func sameKeySet(last map[int]struct{}, keys []int) bool {
	if len(last) != len(keys) {
		return false
	}
	for _, k := range keys {
		if _, ok := last[k]; !ok {
			return false
		}
	}
	return true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
