// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/darijamt/colmap/internal/progress"
	"github.com/darijamt/colmap/pkg/catalog/cache"
	"github.com/darijamt/colmap/pkg/columns"
	loglib "github.com/darijamt/colmap/pkg/log"
	"github.com/darijamt/colmap/pkg/schema"
	"github.com/darijamt/colmap/pkg/validator"
	"github.com/jonboulle/clockwork"
	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"
)

// Runner validates a catalog of dataset subsets against a single schema.
type Runner struct {
	logger       loglib.Logger
	validator    *validator.Validator
	schemaDigest string
	cache        reportCache
	clock        clockwork.Clock
	workers      uint
	maxRecords   int

	sourceBuilder func(e *Entry, maxRecords int) (columns.Source, error)

	progressTracking bool
	barBuilder       func(total int, description string) progress.Bar
}

type reportCache interface {
	Get(id cache.ID, schemaDigest string, columns []string) (*validator.Report, bool)
	Set(id cache.ID, schemaDigest string, columns []string, report *validator.Report)
}

type job struct {
	idx   int
	entry *Entry
}

type Option func(r *Runner)

func NewRunner(cfg *Config, s *schema.Schema, opts ...Option) (*Runner, error) {
	digest, err := schemaDigest(s)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		logger:       loglib.NewNoopLogger(),
		validator:    validator.New(s),
		schemaDigest: digest,
		clock:        clockwork.NewRealClock(),
		workers:      cfg.workers(),
		maxRecords:   cfg.MaxRecords,
		sourceBuilder: func(e *Entry, maxRecords int) (columns.Source, error) {
			return e.source(maxRecords)
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	if cfg.ProgressTracking {
		r.progressTracking = true
		r.barBuilder = func(total int, description string) progress.Bar {
			return progress.NewCountBar(total, description)
		}
	}

	if cfg.Cache != nil {
		c, err := cache.New(cfg.Cache, cache.WithLogger(r.logger), cache.WithClock(r.clock))
		if err != nil {
			return nil, err
		}
		r.cache = c
	}

	return r, nil
}

func WithLogger(logger loglib.Logger) Option {
	return func(r *Runner) {
		r.logger = loglib.NewLogger(logger).WithFields(loglib.Fields{
			loglib.ModuleField: "catalog_runner",
		})
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(r *Runner) {
		r.clock = clock
	}
}

// Run validates all the entries. Entries that fail validation, or whose
// columns can't be read, are reported in the result and never abort the run.
// An error is only returned if the context is cancelled before all entries
// are validated.
func (r *Runner) Run(ctx context.Context, entries []Entry) (*Result, error) {
	runID := xid.New().String()
	logger := r.logger.WithFields(loglib.Fields{loglib.RunIDField: runID})
	start := r.clock.Now()

	logger.Info("validating catalog", loglib.Fields{"entries": len(entries), "workers": r.workers})

	var bar progress.Bar
	if r.progressTracking {
		bar = r.barBuilder(len(entries), "[cyan]validating catalog[reset]")
		defer bar.Close()
	}

	// each worker only writes the reports for the indexes it receives
	reports := make([]*validator.Report, len(entries))
	errGroup, egCtx := errgroup.WithContext(ctx)
	jobChan := make(chan job)
	for i := uint(0); i < r.workers; i++ {
		errGroup.Go(func() error {
			for j := range jobChan {
				reports[j.idx] = r.validateEntry(egCtx, logger, j.entry)
				if bar != nil {
					bar.Describe(fmt.Sprintf("[cyan]validated %s (%s)[reset]", reports[j.idx].Dataset, reports[j.idx].Subset))
					if err := bar.Add(1); err != nil {
						logger.Warn(err, "updating progress bar")
					}
				}
			}
			return nil
		})
	}

sendLoop:
	for i := range entries {
		select {
		case jobChan <- job{idx: i, entry: &entries[i]}:
		case <-egCtx.Done():
			break sendLoop
		}
	}
	close(jobChan)

	if err := errGroup.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}

	result := newResult(runID, reports, r.clock.Since(start))
	logger.Info("catalog validated", loglib.Fields{
		"passed":   result.PassedCount,
		"failed":   result.FailedCount,
		"duration": result.Duration,
	})
	return result, nil
}

func (r *Runner) validateEntry(ctx context.Context, logger loglib.Logger, e *Entry) *validator.Report {
	logFields := loglib.DatasetFields(e.Dataset, e.Subset, e.Split)
	logger.Debug("validating dataset columns", logFields)

	source, err := r.sourceBuilder(e, r.maxRecords)
	if err != nil {
		logger.Warn(err, "building column source", logFields)
		return validator.NewSourceErrorReport(e.Dataset, e.Subset, e.Split, err)
	}

	cols, err := source.Columns(ctx)
	if err != nil {
		logger.Warn(err, "reading dataset columns", logFields)
		return validator.NewSourceErrorReport(e.Dataset, e.Subset, e.Split, err)
	}

	id := cache.NewID(e.Dataset, e.Subset, e.Split)
	if r.cache != nil {
		if report, hit := r.cache.Get(id, r.schemaDigest, cols); hit {
			logger.Debug("using cached report", logFields)
			return report
		}
	}

	report := r.validator.Validate(e.Dataset, e.Subset, e.Split, cols)
	if report.Failed() {
		logger.Debug("dataset columns validation failed", loglib.MergeFields(logFields, loglib.Fields{
			"kind":    string(report.Kind),
			"columns": report.Columns,
		}))
	}

	if r.cache != nil {
		r.cache.Set(id, r.schemaDigest, cols, report)
	}
	return report
}

// schemaDigest identifies the schema contents, so that cached reports
// computed with a different schema are not used.
func schemaDigest(s *schema.Schema) (string, error) {
	data, err := schema.Dump(s)
	if err != nil {
		return "", fmt.Errorf("computing schema digest: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
