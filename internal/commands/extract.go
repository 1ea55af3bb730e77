package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sageflow/ptbrecover/internal/export"
)

func newExtractCommand(a *app) *cobra.Command {
	var outDir string
	var formats string

	cmd := &cobra.Command{
		Use:   "extract <archive>",
		Short: "Decode an archive and write the recovered records without touching the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := export.ParseFormats(formats)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.path(a.cfg.Import.ExportDir)
			}

			res, err := a.newExtractor().ExtractFile(cmd.Context(), args[0], a.cfg.ArchiveOptions())
			if err != nil {
				return fmt.Errorf("decoding %s: %w", args[0], err)
			}

			written, err := export.Dir(outDir, res, fs)
			if err != nil {
				return err
			}
			a.logger.Info("archive extracted",
				zap.String("archive", args[0]),
				zap.Int("accounts", len(res.Accounts)),
				zap.Int("customers", len(res.Customers)),
				zap.Int("vendors", len(res.Vendors)),
				zap.Int("candidates", len(res.Candidates)))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recovered %d accounts, %d customers, %d vendors, %d currency candidates\n",
				len(res.Accounts), len(res.Customers), len(res.Vendors), len(res.Candidates))
			for _, p := range written {
				fmt.Fprintf(out, "  wrote %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: import.export_dir)")
	cmd.Flags().StringVar(&formats, "format", "csv,json", "comma-separated output formats: csv, json, xlsx")

	return cmd
}
