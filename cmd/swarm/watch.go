package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcadelab/swarm/internal/application/scene"
	"github.com/arcadelab/swarm/internal/application/scene/menu"
	"github.com/arcadelab/swarm/internal/application/scene/playback"
	"github.com/arcadelab/swarm/internal/application/scene/playing"
)

var watchCmd = &cobra.Command{
	Use:   "watch <session-log>",
	Short: "Watch a recorded session (keyframe interpolation)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		lines, err := env.storage.ReadLines(args[0])
		if err != nil {
			return err
		}

		pb := playback.New(env.cfg, lines, func() scene.Scene {
			return menu.New(env.cfg, env.storage, env.store)
		})
		return runGame(env.cfg, pb)
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay <session-log>",
	Short: "Re-simulate a recorded session from its input stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		lines, err := env.storage.ReadLines(args[0])
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("session log %s is empty", args[0])
		}

		p := playing.New(env.cfg, playing.Options{
			Storage:     env.storage,
			ReplayLines: lines,
			ReturnTo: func() scene.Scene {
				return menu.New(env.cfg, env.storage, env.store)
			},
		})
		return runGame(env.cfg, p)
	},
}
