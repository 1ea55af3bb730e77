// Package extract runs the decode pipeline: archive members in, a
// model.ParseResult out.
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sageflow/ptbrecover/internal/archive"
	"github.com/sageflow/ptbrecover/internal/chart"
	"github.com/sageflow/ptbrecover/internal/config"
	"github.com/sageflow/ptbrecover/internal/model"
	"github.com/sageflow/ptbrecover/internal/parties"
	"github.com/sageflow/ptbrecover/internal/scan"
)

// Extractor decodes archives with a fixed set of heuristics.
type Extractor struct {
	cfg    config.Heuristics
	logger *zap.Logger

	// Timeout bounds loading and scanning. Zero means no limit.
	Timeout time.Duration
}

// New creates an Extractor.
func New(cfg config.Heuristics, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

func (e *Extractor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.Timeout)
}

// ExtractFile loads and decodes the archive at path.
func (e *Extractor) ExtractFile(ctx context.Context, path string, opts archive.Options) (*model.ParseResult, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	bufs, err := archive.LoadFile(ctx, path, opts, e.logger)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, bufs)
}

// ExtractBytes loads and decodes an in-memory archive.
func (e *Extractor) ExtractBytes(ctx context.Context, data []byte, opts archive.Options) (*model.ParseResult, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	bufs, err := archive.LoadBytes(ctx, data, opts, e.logger)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, bufs)
}

// Run scans the loaded buffers. Each role is scanned in its own goroutine;
// the scans only read their buffer. Scans are not interrupted once started,
// so a cancelled ctx is reported after they finish.
func (e *Extractor) Run(ctx context.Context, bufs *archive.Buffers) (*model.ParseResult, error) {
	res := &model.ParseResult{Members: members(bufs)}

	var (
		accounts   []model.Account
		chartCands []model.ChartCandidate
		chartStats chart.Stats
		balanced   int
		records    []model.BalanceRecord
		customers  []model.Customer
		vendors    []model.Vendor
		candidates []scan.Candidate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		buf := bufs.Get(archive.RoleChart)
		accounts, chartStats = chart.ParseChart(buf, e.cfg.Chart)
		chartCands = chart.Candidates(buf, e.cfg.Chart)
		if bal := bufs.Get(archive.RoleChartBalances); bal != nil {
			accounts, balanced = chart.AttachBalances(accounts, bal, e.cfg.Balance)
			records = chart.SentinelBalances(bal, e.cfg.Balance)
		}
		return nil
	})
	if buf := bufs.Get(archive.RoleCustomers); buf != nil {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			customers = parties.Customers(buf, e.cfg.Parties)
			return nil
		})
	}
	if buf := bufs.Get(archive.RoleVendors); buf != nil {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vendors = parties.Vendors(buf, e.cfg.Parties)
			return nil
		})
	}
	if buf := bufs.Get(archive.RoleJournalRows); buf != nil {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			candidates = scan.ScanCurrency(buf, e.cfg.Currency)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanning archive: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scanning archive: %w", err)
	}

	res.Accounts = accounts
	res.ChartCandidates = chartCands
	res.Customers = customers
	res.Vendors = vendors
	res.BalanceRecords = records
	res.Candidates = currencyCandidates(candidates)

	e.logger.Info("archive decoded",
		zap.Int("accounts", len(accounts)),
		zap.Int("balances", balanced),
		zap.Int("chart_candidates", len(chartCands)),
		zap.Int("balance_records", len(records)),
		zap.Int("customers", len(customers)),
		zap.Int("vendors", len(vendors)),
		zap.Int("candidates", len(res.Candidates)))
	e.logger.Debug("chart classification",
		zap.Int("numbers", chartStats.Numbers),
		zap.Int("duplicates", chartStats.Duplicates),
		zap.Int("no_name", chartStats.NoName),
		zap.Int("ambiguous", chartStats.Ambiguous))
	return res, nil
}

func members(bufs *archive.Buffers) []model.MemberInfo {
	var out []model.MemberInfo
	for _, r := range bufs.Resolutions {
		if r.Kind == archive.Missing {
			continue
		}
		e, _ := bufs.Entry(r.Role.Name)
		info := model.MemberInfo{
			Role:      r.Role.Name,
			Name:      e.Name,
			Size:      len(e.Data),
			Ambiguous: r.Kind == archive.Ambiguous,
		}
		if h, ok := archive.ReadHeader(e.Data); ok {
			info.Records = h.Records
			info.Keys = h.Keys
		}
		out = append(out, info)
	}
	return out
}

func currencyCandidates(cands []scan.Candidate) []model.CurrencyCandidate {
	if len(cands) == 0 {
		return nil
	}
	out := make([]model.CurrencyCandidate, 0, len(cands))
	for _, c := range cands {
		out = append(out, model.CurrencyCandidate{
			Offset:   c.Offset,
			Encoding: string(c.Encoding),
			Value:    decimal.NewFromFloat(c.Value).Round(2),
		})
	}
	return out
}
