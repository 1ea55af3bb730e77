package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sageflow/ptbrecover/internal/config"
	"github.com/sageflow/ptbrecover/internal/inbox"
	"github.com/sageflow/ptbrecover/internal/ledger"
)

func newInitCommand(a *app) *cobra.Command {
	var company string
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a recovery workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(cmd.Context(), absDir, company, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized ptbrecover workspace at %s (company %s)\n", absDir, company)
			return nil
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "company identifier (required)")
	_ = cmd.MarkFlagRequired("company")
	cmd.Flags().StringVar(&name, "name", "", "company display name")

	return cmd
}

func runInit(ctx context.Context, dir, company, name string) error {
	cfg := config.Default(company, name)

	dirs := []string{
		cfg.Import.InboxDir,
		filepath.Join(cfg.Import.InboxDir, inbox.ProcessedDir),
		cfg.Import.ExportDir,
		"logs",
		filepath.Dir(cfg.Store.Path),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.DefaultFile), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	db, err := ledger.Open(filepath.Join(dir, cfg.Store.Path))
	if err != nil {
		return err
	}
	defer db.Close()

	return db.EnsureCompany(ctx, company, name)
}
