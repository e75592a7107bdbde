package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		paths, err := env.storage.ListRecordings()
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Printf("No recordings in %s yet.\n", env.storage.Dir())
			return nil
		}
		fmt.Printf("Recordings in %s:\n", env.storage.Dir())

		for _, p := range paths {
			name := filepath.Base(p)
			if env.store != nil {
				if r, err := env.store.ResultForSession(name); err == nil && r != nil {
					fmt.Printf("%s  score=%d  %.1fs\n", name, r.Score, r.Duration)
					continue
				}
			}
			fmt.Println(name)
		}
		return nil
	},
}

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best session results",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.close()

		if env.store == nil {
			return fmt.Errorf("results database unavailable")
		}

		results, err := env.store.TopResults(10)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No results yet.")
			return nil
		}

		fmt.Printf("%-4s %-8s %-10s %s\n", "#", "SCORE", "DURATION", "SESSION")
		for i, r := range results {
			fmt.Printf("%-4d %-8d %-10s %s\n", i+1, r.Score, fmt.Sprintf("%.1fs", r.Duration), r.Session)
		}
		return nil
	},
}
