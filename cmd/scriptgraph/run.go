package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/questwright/scriptgraph/pkg/registry"
	"github.com/questwright/scriptgraph/pkg/script/engine"
	"github.com/questwright/scriptgraph/pkg/script/stream"
	"github.com/questwright/scriptgraph/pkg/translate/yamlscript"
)

var (
	runEvent  string
	runOwner  string
	runSeed   uint64
	runTurns  int
	runTrace  bool
	runParams []string
)

var runCmd = &cobra.Command{
	Use:   "run [bundle.yaml]",
	Short: "Fire one event against a bundle and print what the scripts emit",
	Long: `Builds the bundle's world, fires a single event at the given owner and
prints the message, dialogue and option streams. Useful for checking what a
graph does without sitting through a session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShot(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runEvent, "event", registry.TypeOnGameStart, "event type to fire")
	runCmd.Flags().StringVar(&runOwner, "owner", "Game", "owner to fire at, as Kind:id")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "seed for random picks (0 keeps them random)")
	runCmd.Flags().IntVar(&runTurns, "turns", 0, "turns to advance after the event")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "print every node the walk visits")
	runCmd.Flags().StringSliceVar(&runParams, "param", nil, "event parameter as key=value, repeatable")
}

func runShot(ctx context.Context, out io.Writer, path string) error {
	bundle, err := loadBundle(path)
	if err != nil {
		return err
	}

	owner, ownerID, err := yamlscript.ParseOwnerRef(runOwner)
	if err != nil {
		return err
	}
	params, err := parseParams(runParams)
	if err != nil {
		return err
	}

	world := bundle.BuildWorld()
	emit := &stream.Emitter{
		OnMessage: func(text string) { fmt.Fprintln(out, text) },
		OnDialogue: func(line stream.Line) {
			if line.Speaker != "" {
				fmt.Fprintf(out, "%s: %s\n", line.Speaker, line.Text)
				return
			}
			fmt.Fprintln(out, line.Text)
		},
		OnOptions: func(choice stream.Choice) {
			fmt.Fprintln(out, "options:")
			for i, opt := range choice.Options {
				fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
			}
		},
		OnCompleted: func() { fmt.Fprintln(out, "adventure complete") },
	}

	opts := []engine.Option{engine.WithEmitter(emit)}
	if runSeed != 0 {
		opts = append(opts, engine.WithSeed(runSeed))
	}
	if runTrace {
		opts = append(opts, engine.WithTrace(func(ev engine.TraceEvent) {
			fmt.Fprintf(out, "[trace] %s visit %d\n", ev.TypeID, ev.Visit)
		}))
	}

	eng := engine.New(registry.New(), world, opts...)
	if err := eng.TriggerEvent(ctx, owner, ownerID, runEvent, params); err != nil {
		return fmt.Errorf("failed to run event %s: %w", runEvent, err)
	}
	if runTurns > 0 {
		if err := eng.AdvanceTurns(ctx, runTurns); err != nil {
			return fmt.Errorf("failed to advance %d turn(s): %w", runTurns, err)
		}
	}
	return nil
}

func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed --param %q, want key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}
