package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sageflow/ptbrecover/internal/model"
)

// errImportFailed is returned after a failed result has been printed, so the
// process exits non-zero without repeating the message.
var errImportFailed = errors.New("import failed")

func newImportCommand(a *app) *cobra.Command {
	var company string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import <archive>",
		Short: "Decode an archive and reconcile it into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			id, err := a.company(company)
			if err != nil {
				return err
			}

			st, err := a.openStack(cmd.Context(), id)
			if err != nil {
				return err
			}
			defer closeStack(st, &err)

			res, err := st.importer.ImportFile(cmd.Context(), id, args[0])
			if err != nil {
				return fmt.Errorf("decoding %s: %w", args[0], err)
			}
			return printResult(cmd.OutOrStdout(), res, asJSON)
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "company identifier (default: company.id)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the import result as JSON")

	return cmd
}

func printResult(w io.Writer, res model.ImportResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else if res.Success {
		fmt.Fprintf(w, "Run %s: %s\n", res.RunID, res.Message)
		for _, warning := range res.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
	} else {
		fmt.Fprintf(w, "Run %s failed, nothing was changed\n", res.RunID)
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  error: %s\n", e)
		}
	}
	if !res.Success {
		return errImportFailed
	}
	return nil
}
