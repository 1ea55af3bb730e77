package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sageflow/ptbrecover/internal/export"
	"github.com/sageflow/ptbrecover/internal/journal"
	"github.com/sageflow/ptbrecover/internal/model"
)

func newReconcileCommand(a *app) *cobra.Command {
	var company string
	var journalPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reconcile <result.json>",
		Short: "Reconcile a previously extracted (and possibly reviewed) result into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			id, err := a.company(company)
			if err != nil {
				return err
			}

			res, err := readResult(args[0])
			if err != nil {
				return err
			}
			if journalPath != "" {
				entries, err := readJournal(journalPath)
				if err != nil {
					return err
				}
				res.JournalEntries = append(res.JournalEntries, entries...)
			}

			st, err := a.openStack(cmd.Context(), id)
			if err != nil {
				return err
			}
			defer closeStack(st, &err)

			out := st.importer.Reconcile(cmd.Context(), id, args[0], res)
			return printResult(cmd.OutOrStdout(), out, asJSON)
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "company identifier (default: company.id)")
	cmd.Flags().StringVar(&journalPath, "journal", "", "journal entries CSV to reconcile along with the result")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the import result as JSON")

	return cmd
}

func readResult(path string) (*model.ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening result: %w", err)
	}
	defer f.Close()

	res, err := export.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return res, nil
}

func readJournal(path string) ([]model.JournalEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	entries, err := journal.ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return entries, nil
}
