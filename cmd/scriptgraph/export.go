package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/questwright/scriptgraph/pkg/idwrap"
	"github.com/questwright/scriptgraph/pkg/service/sscript"
	"github.com/questwright/scriptgraph/pkg/translate/jsonscript"
	"github.com/questwright/scriptgraph/pkg/translate/yamlscript"
)

var (
	exportDB     string
	exportOutput string
	exportScript string
	exportName   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Read scripts out of a sqlite store",
	Long: `Exports the whole store as a YAML bundle, or a single script as indented
JSON with --script. Sealed rows need the ` + envVaultKey + ` key that sealed them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDB, "db", "", "sqlite store path (required)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportScript, "script", "", "export one script by id as JSON")
	exportCmd.Flags().StringVar(&exportName, "name", "", "bundle name to write into the export")
	_ = exportCmd.MarkFlagRequired("db")
}

func runExport(ctx context.Context) error {
	logger := newLogger()

	db, err := sscript.Open(ctx, exportDB)
	if err != nil {
		return fmt.Errorf("failed to open store %s: %w", exportDB, err)
	}
	defer db.Close()

	var opts []sscript.ServiceOption
	if os.Getenv(envVaultKey) != "" {
		vault, err := vaultFromEnv()
		if err != nil {
			return err
		}
		opts = append(opts, sscript.WithVault(vault))
	}
	svc := sscript.New(db, opts...)

	var data []byte
	var count int
	if exportScript != "" {
		id, err := idwrap.NewText(exportScript)
		if err != nil {
			return fmt.Errorf("invalid script id %q: %w", exportScript, err)
		}
		def, err := svc.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load script %s: %w", exportScript, err)
		}
		data, err = jsonscript.MarshalIndent(def)
		if err != nil {
			return err
		}
		count = 1
	} else {
		defs, err := svc.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list scripts: %w", err)
		}
		if len(defs) == 0 {
			return fmt.Errorf("store %s has no scripts", exportDB)
		}
		bundle := &yamlscript.Bundle{Name: exportName, Scripts: defs}
		data, err = yamlscript.Marshal(bundle)
		if err != nil {
			return err
		}
		count = len(defs)
	}

	if exportOutput == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	logger.Info("exported", "scripts", count, "to", exportOutput)
	return nil
}
