package main

import (
	"github.com/spf13/cobra"

	"github.com/questwright/scriptgraph/internal/play"
)

var (
	playSeed  uint64
	playTrace bool
)

var playCmd = &cobra.Command{
	Use:   "play [bundle.yaml]",
	Short: "Play a bundle in an interactive session",
	Long: `Builds the bundle's world and hosts it in a terminal session: type verbs,
answer conversations by number, press Enter to let a turn pass.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := loadBundle(args[0])
		if err != nil {
			return err
		}
		world := bundle.BuildWorld()
		return play.Run(bundle.Name, world, play.Options{
			Seed:  playSeed,
			Trace: playTrace,
		})
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Uint64Var(&playSeed, "seed", 0, "seed for random picks (0 keeps them random)")
	playCmd.Flags().BoolVar(&playTrace, "trace", false, "start with trace output enabled")
}
