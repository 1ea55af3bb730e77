package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sageflow/ptbrecover/internal/archive"
)

func newInspectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive>",
		Short: "List archive members and how they resolve to decoder roles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInspect(cmd, args[0])
		},
	}
}

func (a *app) runInspect(cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat archive: %w", err)
	}
	arc, err := archive.Open(f, info.Size())
	if err != nil {
		return err
	}

	opts := a.cfg.ArchiveOptions()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d members\n\n", path, len(arc.Members()))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tFRAGMENT\tRESOLUTION\tMEMBER\tBYTES\tRECORDS\tKEYS")
	for _, role := range opts.Roles {
		res := arc.Resolve(role)
		if res.Kind == archive.Missing {
			fmt.Fprintf(tw, "%s\t%s\t%s\t-\t-\t-\t-\n", role.Name, role.Fragment, res.Kind)
			continue
		}
		data, err := arc.Read(res.Member(), opts.MaxMemberBytes)
		if err != nil {
			return err
		}
		records, keys := "-", "-"
		if h, ok := archive.ReadHeader(data); ok {
			records = fmt.Sprint(h.Records)
			keys = fmt.Sprint(h.Keys)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			role.Name, role.Fragment, res.Kind, res.Member(), len(data), records, keys)
		for _, other := range res.Candidates[1:] {
			fmt.Fprintf(tw, "\t\t\t(also %s)\t\t\t\n", other)
		}
	}
	return tw.Flush()
}
