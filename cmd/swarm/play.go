package main

import (
	"github.com/spf13/cobra"

	"github.com/arcadelab/swarm/internal/application/scene"
	"github.com/arcadelab/swarm/internal/application/scene/menu"
	"github.com/arcadelab/swarm/internal/application/scene/playing"
)

var (
	flagResume   bool
	flagNoRecord bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a session without going through the menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		p := playing.New(env.cfg, playing.Options{
			Storage:  env.storage,
			Scores:   env.store,
			Resume:   flagResume,
			NoRecord: flagNoRecord,
			ReturnTo: func() scene.Scene {
				return menu.New(env.cfg, env.storage, env.store)
			},
		})
		return runGame(env.cfg, p)
	},
}

func init() {
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue the most recent session")
	playCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Disable session recording")
}
