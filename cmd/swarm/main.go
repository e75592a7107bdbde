// swarm is a 2D arena shooter whose every session is recorded and can be
// watched or re-simulated later.
//
// Usage:
//
//	swarm               - Start at the menu
//	swarm play          - Jump straight into a new session
//	swarm play --resume - Continue the most recent session
//	swarm watch <log>   - Watch a recorded session (keyframe replay)
//	swarm replay <log>  - Re-simulate a recorded session (input replay)
//	swarm sessions      - List recorded sessions
//	swarm scores        - Show the best results
//
// Global flags:
//
//	--config <dir>      - Directory holding game.yaml
//	--recordings <dir>  - Session log directory (default: recordings)
//	--db <path>         - Results database (default: ~/.swarm/scores.db)
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/arcadelab/swarm/internal/application/game"
	"github.com/arcadelab/swarm/internal/application/scene"
	"github.com/arcadelab/swarm/internal/application/scene/menu"
	"github.com/arcadelab/swarm/internal/infrastructure/config"
	"github.com/arcadelab/swarm/internal/infrastructure/scores"
	"github.com/arcadelab/swarm/internal/recording"
)

var (
	flagConfigDir  string
	flagRecordings string
	flagDBPath     string
	flagDebug      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "swarm",
	Short: "Arena shooter with recorded, replayable sessions",
	Long: `swarm is a small arena shooter. Every session is logged as a stream of
input deltas, spawns and keyframes, so it can be continued later, watched
back, or re-simulated from its inputs.

Examples:
  swarm
  swarm play --resume
  swarm watch recordings/session_20250301_134509.jsonl
  swarm replay recordings/session_20250301_134509.jsonl
  swarm scores`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		m := menu.New(env.cfg, env.storage, env.store)
		return runGame(env.cfg, m)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "Directory holding game.yaml (empty = built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&flagRecordings, "recordings", "", "Session log directory")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.swarm/scores.db", "Path to results database")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Verbose logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(scoresCmd)
}

// env bundles the shared infrastructure built from the global flags.
type env struct {
	cfg     *config.Config
	storage *recording.FileStorage
	store   *scores.Store
}

func setup() (*env, error) {
	if flagDebug {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.LoadOrDefault(flagConfigDir)
	if err != nil {
		return nil, err
	}

	dir := flagRecordings
	if dir == "" {
		dir = cfg.Recording.Dir
	}
	cfg.Recording.Dir = dir

	store, err := scores.Open(flagDBPath)
	if err != nil {
		// The game is playable without score persistence.
		log.Warn("results database unavailable", "err", err)
		store = nil
	}

	return &env{
		cfg:     cfg,
		storage: recording.NewFileStorage(dir),
		store:   store,
	}, nil
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
}

// runGame runs the ebiten loop with the given initial scene.
func runGame(cfg *config.Config, initial scene.Scene) error {
	d := cfg.Display
	ebiten.SetWindowSize(d.Width*d.Scale, d.Height*d.Scale)
	ebiten.SetWindowTitle("Swarm")
	ebiten.SetTPS(d.Framerate)

	g := game.New(initial, d.Width, d.Height, d.Framerate)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
