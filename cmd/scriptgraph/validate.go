package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/questwright/scriptgraph/pkg/registry"
	"github.com/questwright/scriptgraph/pkg/script/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [bundle.yaml]",
	Short: "Check every script graph in a bundle",
	Long: `Validates each script in the bundle against the node catalog: an Event
node must exist, an Action node must exist and be reachable from an Event
over execution wires, and no node may be missing required properties.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args[0]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(path string) error {
	logger := newLogger()

	bundle, err := loadBundle(path)
	if err != nil {
		return err
	}
	if len(bundle.Scripts) == 0 {
		return fmt.Errorf("bundle %s has no scripts", path)
	}

	reg := registry.New()
	invalid := 0
	for _, def := range bundle.Scripts {
		res := validate.Validate(def, reg)
		if res.IsValid() {
			logger.Info("script valid",
				"script", def.Name,
				"nodes", len(def.Nodes),
				"connections", len(def.Connections))
			continue
		}

		invalid++
		for _, problem := range res.Errors {
			logger.Error("script invalid", "script", def.Name, "problem", problem)
		}
		for _, inc := range res.IncompleteNodes {
			logger.Error("node incomplete",
				"script", def.Name,
				"node", inc.TypeID,
				"missing", strings.Join(inc.MissingProperties, ", "))
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d scripts failed validation", invalid, len(bundle.Scripts))
	}
	logger.Info("bundle valid", "scripts", len(bundle.Scripts))
	return nil
}
