package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/txengine/internal/domain"
	"github.com/iho/txengine/internal/infrastructure/metrics"
)

// ProcessUseCase drives a transaction stream into a ledger.
type ProcessUseCase struct {
	ledger  Ledger
	idGen   IDGenerator
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewProcessUseCase creates a new ProcessUseCase. metrics may be nil.
func NewProcessUseCase(ledger Ledger, idGen IDGenerator, logger zerolog.Logger, metrics *metrics.Metrics) *ProcessUseCase {
	return &ProcessUseCase{
		ledger:  ledger,
		idGen:   idGen,
		logger:  logger,
		metrics: metrics,
	}
}

// ProcessInput represents input for a processing run.
type ProcessInput struct {
	Source TransactionSource
	// Workers > 1 shards transactions by client id across that many
	// goroutines. Each client's transactions are still applied in input order.
	Workers int
}

// Summary describes a finished run.
type Summary struct {
	RunID    string
	Applied  int64
	Rejected int64
	Skipped  int64
	Accounts int
	Locked   int
	Duration time.Duration
}

type runCounters struct {
	applied  atomic.Int64
	rejected atomic.Int64
	skipped  atomic.Int64
}

// Process reads every transaction from the source and applies it. Rejected
// transactions and malformed rows are logged and skipped; only read failures
// and context cancellation abort the run.
func (uc *ProcessUseCase) Process(ctx context.Context, input ProcessInput) (*Summary, error) {
	start := time.Now()
	runID := uc.idGen.Generate()
	log := uc.logger.With().Str("run_id", runID).Logger()

	workers := input.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	log.Info().Int("workers", workers).Msg("processing started")

	counters := &runCounters{}
	var err error
	if workers == 1 {
		err = uc.read(ctx, log, input.Source, counters, func(tx domain.Transaction) error {
			uc.apply(log, tx, counters)
			return nil
		})
	} else {
		err = uc.processSharded(ctx, log, input.Source, workers, counters)
	}

	if err != nil {
		log.Error().Err(err).Msg("processing aborted")
		return nil, err
	}

	summary := &Summary{
		RunID:    runID,
		Applied:  counters.applied.Load(),
		Rejected: counters.rejected.Load(),
		Skipped:  counters.skipped.Load(),
		Accounts: uc.ledger.Touched(),
		Locked:   uc.ledger.Locked(),
		Duration: time.Since(start),
	}

	if uc.metrics != nil {
		uc.metrics.AccountsTouched.Set(float64(summary.Accounts))
		uc.metrics.AccountsLocked.Set(float64(summary.Locked))
		uc.metrics.RunDuration.Observe(summary.Duration.Seconds())
	}

	log.Info().
		Int64("applied", summary.Applied).
		Int64("rejected", summary.Rejected).
		Int64("skipped", summary.Skipped).
		Int("accounts", summary.Accounts).
		Int("locked", summary.Locked).
		Dur("duration", summary.Duration).
		Msg("processing finished")

	return summary, nil
}

// Report returns the ledger's per-account rows.
func (uc *ProcessUseCase) Report() []domain.ReportRow {
	return uc.ledger.Report()
}

func (uc *ProcessUseCase) processSharded(ctx context.Context, log zerolog.Logger, src TransactionSource, workers int, counters *runCounters) error {
	g, gctx := errgroup.WithContext(ctx)

	shards := make([]chan domain.Transaction, workers)
	for i := range shards {
		ch := make(chan domain.Transaction, shardBuffer)
		shards[i] = ch

		g.Go(func() error {
			for tx := range ch {
				uc.apply(log, tx, counters)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer func() {
			for _, ch := range shards {
				close(ch)
			}
		}()

		return uc.read(gctx, log, src, counters, func(tx domain.Transaction) error {
			select {
			case shards[int(tx.Client())%workers] <- tx:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	return g.Wait()
}

func (uc *ProcessUseCase) read(ctx context.Context, log zerolog.Logger, src TransactionSource, counters *runCounters, emit func(domain.Transaction) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tx, err := src.Next()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, ErrMalformedRecord):
			counters.skipped.Add(1)
			if uc.metrics != nil {
				uc.metrics.RowsSkipped.Inc()
			}
			log.Warn().Err(err).Msg("skipping malformed row")
			continue
		case err != nil:
			return fmt.Errorf("read transaction: %w", err)
		}

		if err := emit(tx); err != nil {
			return err
		}
	}
}

func (uc *ProcessUseCase) apply(log zerolog.Logger, tx domain.Transaction, counters *runCounters) {
	kind := tx.Kind().String()

	if err := uc.ledger.Apply(tx); err != nil {
		reason := domain.ErrorReason(err)
		counters.rejected.Add(1)
		if uc.metrics != nil {
			uc.metrics.TransactionsRejected.WithLabelValues(kind, reason).Inc()
		}

		log.Warn().
			Err(err).
			Uint16("client", uint16(tx.Client())).
			Uint32("tx", uint32(tx.ID())).
			Str("kind", kind).
			Str("reason", reason).
			Msg("transaction rejected")
		return
	}

	counters.applied.Add(1)
	if uc.metrics != nil {
		uc.metrics.TransactionsApplied.WithLabelValues(kind).Inc()
	}

	log.Debug().
		Uint16("client", uint16(tx.Client())).
		Uint32("tx", uint32(tx.ID())).
		Str("kind", kind).
		Msg("transaction applied")
}
