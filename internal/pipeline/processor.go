package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/broucz/machine-learning-suite/internal/utils/dates"
)

// PartitionKeyFormat renders a window start as its partition key,
// e.g. "2023-01-01_14".
const PartitionKeyFormat = "2006-01-02_15"

// PartitionKey returns the storage key for the window starting at t.
func PartitionKey(t time.Time) string {
	return t.Format(PartitionKeyFormat)
}

// Config carries the runtime settings of one extraction run.
type Config struct {
	StartDate              time.Time
	EndDate                time.Time
	DownSamplingPercentage float64
	MaxWorkers             int

	// SkipExisting skips windows whose partition is already persisted
	// instead of re-extracting them.
	SkipExisting bool
}

// Processor coordinates the ETL run: it splits the configured range into
// hourly windows, fans the per-window queries out across a bounded worker
// pool, and drives each completed result through transform and write.
type Processor struct {
	cfg         Config
	logger      *zap.Logger
	executor    QueryExecutor
	transformer Transformer
	storage     Storage
	query       string
}

// NewProcessor creates a Processor wired to its collaborators.
func NewProcessor(cfg Config, logger *zap.Logger, executor QueryExecutor, transformer Transformer, storage Storage, query string) *Processor {
	return &Processor{
		cfg:         cfg,
		logger:      logger,
		executor:    executor,
		transformer: transformer,
		storage:     storage,
		query:       query,
	}
}

type windowResult struct {
	window dates.Interval
	table  *Table
	err    error
}

// Run executes the ETL process. One query is issued per hour window, at
// most MaxWorkers concurrently; completions are handled in finish order.
// The first failed window aborts the run: the error is returned wrapped
// with the window's start time and no remaining result is processed.
// Partitions written before the failure are kept, each write targets a
// disjoint key.
func (p *Processor) Run(ctx context.Context) error {
	intervals, err := dates.HourIntervals(p.cfg.StartDate, p.cfg.EndDate)
	if err != nil {
		return err
	}

	p.logger.Info("starting ETL process",
		zap.Time("start_date", p.cfg.StartDate),
		zap.Time("end_date", p.cfg.EndDate),
		zap.Int("windows", len(intervals)),
		zap.Int("max_workers", p.cfg.MaxWorkers),
	)
	runStart := time.Now()

	units := make([]dates.Interval, 0, len(intervals))
	for _, interval := range intervals {
		if p.cfg.SkipExisting {
			exists, err := p.storage.Exists(ctx, PartitionKey(interval.Start))
			if err == nil && exists {
				p.logger.Info("partition already exists, skipping window",
					zap.Time("window_start", interval.Start))
				continue
			}
		}
		units = append(units, interval)
	}

	maxWorkers := p.cfg.MaxWorkers
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	// Buffered to the number of units so an early fatal return never
	// blocks an in-flight worker; the pool always drains itself.
	results := make(chan windowResult, len(units))
	sem := make(chan struct{}, maxWorkers)

	for _, unit := range units {
		go func(window dates.Interval) {
			sem <- struct{}{}
			defer func() { <-sem }()

			params := map[string]any{
				"start_time":               window.Start,
				"end_time":                 window.End,
				"down_sampling_percentage": p.cfg.DownSamplingPercentage,
			}
			table, err := p.executor.Execute(ctx, p.query, params)
			results <- windowResult{window: window, table: table, err: err}
		}(unit)
	}

	for i := 0; i < len(units); i++ {
		res := <-results
		if res.err != nil {
			return &QueryExecutionError{Window: res.window.Start, Err: res.err}
		}

		transformed, err := p.transformer.Transform(res.table)
		if err != nil {
			return &TransformError{Window: res.window.Start, Err: err}
		}

		key := PartitionKey(res.window.Start)
		if err := p.storage.Write(ctx, transformed, key); err != nil {
			return &StorageWriteError{Window: res.window.Start, Err: err}
		}

		p.logger.Info("persisted partition",
			zap.String("partition", key),
			zap.Int("rows", transformed.NumRows()),
		)
	}

	p.logger.Info("ETL process completed successfully",
		zap.Duration("elapsed", time.Since(runStart)),
	)
	return nil
}
