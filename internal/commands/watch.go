package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sageflow/ptbrecover/internal/importer"
	"github.com/sageflow/ptbrecover/internal/inbox"
)

func newWatchCommand(a *app) *cobra.Command {
	var company string
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Import archives dropped into the inbox directory",
		Long: `Imports every archive already in the inbox, then keeps watching for new ones.
Successfully imported archives are moved to inbox/processed; failed ones stay
in place and are retried on the next run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			id, err := a.company(company)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := a.openStack(ctx, id)
			if err != nil {
				return err
			}
			defer closeStack(st, &err)

			ib := &inboxRunner{
				dir:      a.path(a.cfg.Import.InboxDir),
				company:  id,
				importer: st.importer,
				out:      cmd.OutOrStdout(),
				logger:   a.logger,
			}

			files, err := inbox.Scan(ib.dir)
			if err != nil {
				return err
			}
			for _, f := range files {
				ib.handle(ctx, f)
			}
			if once {
				return nil
			}

			w := inbox.NewWatcher(ib.dir, ib.handle, a.logger)
			if err := w.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "company identifier (default: company.id)")
	cmd.Flags().BoolVar(&once, "once", false, "import what is in the inbox and exit")

	return cmd
}

// inboxRunner imports one inbox archive at a time.
type inboxRunner struct {
	dir      string
	company  string
	importer *importer.Service
	out      io.Writer
	logger   *zap.Logger
}

func (r *inboxRunner) handle(ctx context.Context, f inbox.FileInfo) {
	log := r.logger.With(zap.String("archive", f.Name), zap.String("company", r.company))

	res, err := r.importer.ImportFile(ctx, r.company, f.Path)
	if err != nil {
		log.Error("decoding archive", zap.Error(err))
		fmt.Fprintf(r.out, "%s: %v\n", f.Name, err)
		return
	}
	if !res.Success {
		log.Error("reconciling archive", zap.Strings("errors", res.Errors))
		fmt.Fprintf(r.out, "%s: failed, nothing was changed\n", f.Name)
		return
	}

	if err := inbox.MarkProcessed(r.dir, f.Name); err != nil {
		log.Error("moving archive to processed", zap.Error(err))
	}
	fmt.Fprintf(r.out, "%s: %s\n", f.Name, res.Message)
}
