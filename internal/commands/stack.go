package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sageflow/ptbrecover/internal/extract"
	"github.com/sageflow/ptbrecover/internal/importer"
	"github.com/sageflow/ptbrecover/internal/ledger"
	"github.com/sageflow/ptbrecover/internal/reconcile"
)

// stack is the opened ledger plus the services built on it.
type stack struct {
	db       *ledger.DB
	importer *importer.Service
}

func (s *stack) Close() error {
	return s.db.Close()
}

func (a *app) newExtractor() *extract.Extractor {
	ext := extract.New(a.cfg.Heuristics, a.logger)
	ext.Timeout = a.cfg.Import.Timeout
	return ext
}

// openStack opens the configured ledger and wires the import service. When
// company is non-empty it is registered in the ledger first.
func (a *app) openStack(ctx context.Context, company string) (*stack, error) {
	db, err := ledger.Open(a.path(a.cfg.Store.Path))
	if err != nil {
		return nil, err
	}
	if company != "" {
		name := ""
		if company == a.cfg.Company.ID {
			name = a.cfg.Company.Name
		}
		if err := db.EnsureCompany(ctx, company, name); err != nil {
			db.Close()
			return nil, err
		}
	}
	rec := reconcile.New(db, a.logger)
	svc := importer.New(a.newExtractor(), rec, a.cfg.ArchiveOptions(), a.root(), a.logger)
	a.logger.Debug("ledger opened", zap.String("path", a.path(a.cfg.Store.Path)))
	return &stack{db: db, importer: svc}, nil
}

func closeStack(s *stack, err *error) {
	if cerr := s.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("closing ledger: %w", cerr)
	}
}
