// Package menu provides the title screen: starting, resuming, and replaying
// sessions.
package menu

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/arcadelab/swarm/internal/application/scene"
	"github.com/arcadelab/swarm/internal/application/scene/playback"
	"github.com/arcadelab/swarm/internal/application/scene/playing"
	"github.com/arcadelab/swarm/internal/infrastructure/config"
	"github.com/arcadelab/swarm/internal/infrastructure/scores"
	"github.com/arcadelab/swarm/internal/recording"
)

var colorBG = color.RGBA{26, 26, 46, 255}

// Menu entries, in display order.
const (
	itemNewGame = iota
	itemContinue
	itemWatchReplay
	itemReplayInput
	itemQuit

	itemCount
)

var itemLabels = [itemCount]string{
	"New Game",
	"Continue",
	"Watch Replay",
	"Replay Input",
	"Quit",
}

// pick purposes for the recording list.
const (
	pickNone = iota
	pickWatch
	pickReplay
)

// Menu is the title scene.
type Menu struct {
	cfg     *config.Config
	storage recording.Storage
	store   *scores.Store
	logger  *log.Logger

	cursor int

	// Recording picker state.
	picking    int
	recordings []string
	pickCursor int

	highScore int
	message   string
}

// New creates the menu scene. store may be nil when score persistence is
// disabled.
func New(cfg *config.Config, storage recording.Storage, store *scores.Store) *Menu {
	return &Menu{
		cfg:     cfg,
		storage: storage,
		store:   store,
		logger:  log.Default(),
	}
}

// SetLogger replaces the menu's logger.
func (m *Menu) SetLogger(logger *log.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// OnEnter refreshes the high score shown on the title screen.
func (m *Menu) OnEnter() {
	m.picking = pickNone
	m.message = ""

	if m.store != nil {
		high, err := m.store.HighScore()
		if err != nil {
			m.logger.Error("failed to load high score", "err", err)
			return
		}
		m.highScore = high
	}
}

// OnExit implements scene.Scene.
func (m *Menu) OnExit() {}

// Update drives menu navigation (implements scene.Scene)
func (m *Menu) Update(_ float64) (scene.Scene, error) {
	if m.picking != pickNone {
		return m.updatePicker()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyW) {
		m.cursor = (m.cursor + itemCount - 1) % itemCount
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyS) {
		m.cursor = (m.cursor + 1) % itemCount
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		return m.activate(m.cursor)
	}

	return nil, nil
}

// activate runs the selected menu entry.
func (m *Menu) activate(item int) (scene.Scene, error) {
	switch item {
	case itemNewGame:
		return m.newPlaying(playing.Options{}), nil
	case itemContinue:
		return m.newPlaying(playing.Options{Resume: true}), nil
	case itemWatchReplay:
		m.openPicker(pickWatch)
	case itemReplayInput:
		m.openPicker(pickReplay)
	case itemQuit:
		return nil, ebiten.Termination
	}
	return nil, nil
}

func (m *Menu) newPlaying(opts playing.Options) scene.Scene {
	opts.Storage = m.storage
	opts.Scores = m.store
	opts.ReturnTo = m.returnScene()

	p := playing.New(m.cfg, opts)
	p.SetLogger(m.logger)
	return p
}

// returnScene builds the factory handed to child scenes so they can come
// back here.
func (m *Menu) returnScene() func() scene.Scene {
	return func() scene.Scene {
		return New(m.cfg, m.storage, m.store)
	}
}

func (m *Menu) openPicker(purpose int) {
	paths, err := m.storage.ListRecordings()
	if err != nil {
		m.logger.Error("failed to list recordings", "err", err)
		m.message = "Could not read recordings"
		return
	}
	if len(paths) == 0 {
		m.message = "No recordings yet"
		return
	}

	m.picking = purpose
	m.recordings = paths
	m.pickCursor = 0
	m.message = ""
}

func (m *Menu) updatePicker() (scene.Scene, error) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		m.picking = pickNone
		return nil, nil
	}

	n := len(m.recordings)
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyW) {
		m.pickCursor = (m.pickCursor + n - 1) % n
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyS) {
		m.pickCursor = (m.pickCursor + 1) % n
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		return m.openRecording(m.recordings[m.pickCursor], m.picking)
	}

	return nil, nil
}

// openRecording loads a session log and starts the chosen replay flavor.
func (m *Menu) openRecording(path string, purpose int) (scene.Scene, error) {
	lines, err := m.storage.ReadLines(path)
	if err != nil {
		m.logger.Error("failed to read session log", "file", path, "err", err)
		m.picking = pickNone
		m.message = "Could not read " + filepath.Base(path)
		return nil, nil
	}

	switch purpose {
	case pickWatch:
		pb := playback.New(m.cfg, lines, m.returnScene())
		pb.SetLogger(m.logger)
		return pb, nil
	case pickReplay:
		return m.newPlaying(playing.Options{ReplayLines: lines}), nil
	}
	return nil, nil
}

// Draw renders the title screen (implements scene.Scene)
func (m *Menu) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	w, h := m.cfg.Display.Width, m.cfg.Display.Height

	ebitenutil.DebugPrintAt(screen, "S W A R M", w/2-30, h/4)
	if m.highScore > 0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("High score: %d", m.highScore), w/2-45, h/4+20)
	}

	if m.picking != pickNone {
		m.drawPicker(screen)
		return
	}

	for i, label := range itemLabels {
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+label, w/2-50, h/2+i*18)
	}

	if m.message != "" {
		ebitenutil.DebugPrintAt(screen, m.message, w/2-60, h-60)
	}

	ebitenutil.DebugPrint(screen, "Up/Down: Select | Enter: Confirm")
}

func (m *Menu) drawPicker(screen *ebiten.Image) {
	w, h := m.cfg.Display.Width, m.cfg.Display.Height

	title := "Watch which recording?"
	if m.picking == pickReplay {
		title = "Replay which recording?"
	}
	ebitenutil.DebugPrintAt(screen, title, w/2-80, h/2-30)

	// Show a window of up to ten entries around the cursor.
	start := 0
	if m.pickCursor > 9 {
		start = m.pickCursor - 9
	}
	for i := start; i < len(m.recordings) && i < start+10; i++ {
		prefix := "  "
		if i == m.pickCursor {
			prefix = "> "
		}
		name := filepath.Base(m.recordings[i])
		ebitenutil.DebugPrintAt(screen, prefix+name, w/2-100, h/2+(i-start)*16)
	}

	ebitenutil.DebugPrint(screen, "Up/Down: Select | Enter: Confirm | ESC: Back")
}
