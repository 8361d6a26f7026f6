package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/questwright/scriptgraph/pkg/compress"
	"github.com/questwright/scriptgraph/pkg/scriptvault"
	"github.com/questwright/scriptgraph/pkg/service/sscript"
)

// envVaultKey holds the hex master key used to seal and open stored
// script rows.
const envVaultKey = "SCRIPTGRAPH_KEY"

var (
	importDB       string
	importCompress string
	importSeal     bool
)

var importCmd = &cobra.Command{
	Use:   "import [bundle.yaml]",
	Short: "Write a bundle's scripts into a sqlite store",
	Long: `Imports every script in the bundle into the store in one transaction.
Rows are compressed with the chosen codec; --seal additionally encrypts them
with the key in ` + envVaultKey + `.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importDB, "db", "", "sqlite store path (required)")
	importCmd.Flags().StringVar(&importCompress, "compress", "zstd", "row compression: none, gzip, zstd or br")
	importCmd.Flags().BoolVar(&importSeal, "seal", false, "encrypt rows with the "+envVaultKey+" key")
	_ = importCmd.MarkFlagRequired("db")
}

func runImport(ctx context.Context, path string) error {
	logger := newLogger()

	bundle, err := loadBundle(path)
	if err != nil {
		return err
	}
	if len(bundle.Scripts) == 0 {
		return fmt.Errorf("bundle %s has no scripts", path)
	}

	kind, err := compress.ParseKind(importCompress)
	if err != nil {
		return err
	}

	opts := []sscript.ServiceOption{sscript.WithCompression(kind)}
	if importSeal {
		vault, err := vaultFromEnv()
		if err != nil {
			return err
		}
		opts = append(opts,
			sscript.WithVault(vault),
			sscript.WithEncryption(scriptvault.EncryptionXChaCha20Poly1305))
	}

	db, err := sscript.Open(ctx, importDB)
	if err != nil {
		return fmt.Errorf("failed to open store %s: %w", importDB, err)
	}
	defer db.Close()

	svc := sscript.New(db, opts...)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := svc.TX(tx).CreateBulk(ctx, bundle.Scripts); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to import scripts: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	logger.Info("bundle imported",
		"scripts", len(bundle.Scripts),
		"db", importDB,
		"compression", compress.KindName(kind),
		"sealed", importSeal)
	return nil
}

func vaultFromEnv() (*scriptvault.Vault, error) {
	hexKey := os.Getenv(envVaultKey)
	if hexKey == "" {
		return nil, fmt.Errorf("%s is not set; sealing needs a 64-char hex key", envVaultKey)
	}
	vault, err := scriptvault.NewFromHex(hexKey)
	if err != nil {
		return nil, fmt.Errorf("bad %s: %w", envVaultKey, err)
	}
	return vault, nil
}
