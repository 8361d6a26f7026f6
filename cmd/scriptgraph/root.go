package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/questwright/scriptgraph/pkg/translate/yamlscript"
)

var rootCmd = &cobra.Command{
	Use:   "scriptgraph",
	Short: "Scriptgraph validates, stores and runs node-graph adventure scripts",
	Long: `Scriptgraph works with bundles: YAML files holding a world seed and the
event-driven script graphs attached to its rooms, NPCs, objects, doors and
quests. It can validate every graph in a bundle, fire single events against
it, move bundles in and out of a sqlite store, and host a playable session.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger. LOG_LEVEL overrides the default,
// which stays at info so reports are visible without flags.
func newLogger() *slog.Logger {
	var logLevel slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "DEBUG":
		logLevel = slog.LevelDebug
	case "INFO":
		logLevel = slog.LevelInfo
	case "WARNING":
		logLevel = slog.LevelWarn
	case "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func loadBundle(path string) (*yamlscript.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bundle, err := yamlscript.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bundle %s: %w", path, err)
	}
	return bundle, nil
}
