// Package importer ties decoding, reconciliation and the run log together
// into the single operation the CLI, the inbox watcher and the HTTP server
// all perform.
package importer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sageflow/ptbrecover/internal/archive"
	"github.com/sageflow/ptbrecover/internal/extract"
	"github.com/sageflow/ptbrecover/internal/model"
	"github.com/sageflow/ptbrecover/internal/reconcile"
	"github.com/sageflow/ptbrecover/internal/runlog"
)

// Service imports archives into the ledger.
type Service struct {
	extractor  *extract.Extractor
	reconciler *reconcile.Reconciler
	opts       archive.Options
	logRoot    string
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a Service. Runs are recorded under logRoot/logs; an empty
// logRoot disables the run log.
func New(ext *extract.Extractor, rec *reconcile.Reconciler, opts archive.Options, logRoot string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		extractor:  ext,
		reconciler: rec,
		opts:       opts,
		logRoot:    logRoot,
		logger:     logger,
		now:        time.Now,
	}
}

// ImportFile decodes the archive at path and reconciles it into company.
// Decode failures are returned as errors; reconciliation failures are
// reported in the result.
func (s *Service) ImportFile(ctx context.Context, company, path string) (model.ImportResult, error) {
	res, err := s.extractor.ExtractFile(ctx, path, s.opts)
	if err != nil {
		s.record(company, path, model.ImportResult{Errors: []string{err.Error()}})
		return model.ImportResult{}, err
	}
	return s.Reconcile(ctx, company, path, res), nil
}

// ImportBytes is ImportFile for an uploaded archive. name is only used for
// logging.
func (s *Service) ImportBytes(ctx context.Context, company, name string, data []byte) (model.ImportResult, error) {
	res, err := s.extractor.ExtractBytes(ctx, data, s.opts)
	if err != nil {
		s.record(company, name, model.ImportResult{Errors: []string{err.Error()}})
		return model.ImportResult{}, err
	}
	return s.Reconcile(ctx, company, name, res), nil
}

// Reconcile merges an already decoded result and records the run.
func (s *Service) Reconcile(ctx context.Context, company, source string, res *model.ParseResult) model.ImportResult {
	out := s.reconciler.Reconcile(ctx, company, res)
	s.record(company, source, out)
	return out
}

func (s *Service) record(company, source string, res model.ImportResult) {
	if s.logRoot == "" {
		return
	}
	entry := runlog.FromResult(s.now(), company, source, res)
	if err := runlog.Append(s.logRoot, []runlog.Entry{entry}); err != nil {
		s.logger.Warn("could not append to import log", zap.Error(err))
	}
}
