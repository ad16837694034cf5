package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"netstate/consensus"
	"netstate/index"
	"netstate/logger"
	"netstate/metrics"
	"netstate/repository"
	"netstate/snapshot"
	"netstate/source"
)

// Options tune how consensus periods are reconciled.
type Options struct {
	MustBeRunning bool
	Policy        snapshot.InitialStatusPolicy
	MaxAge        time.Duration
}

// Summary describes a finished run.
type Summary struct {
	Descriptors int
	Documents   int
	Skipped     int
	Found       int
	NotFound    int
	Written     []string
}

// Runner turns descriptor and consensus directories into persisted snapshots.
type Runner struct {
	fs       afero.Fs
	store    repository.SnapshotStore
	counters *metrics.Counters
	opts     Options
}

func NewRunner(fs afero.Fs, store repository.SnapshotStore, counters *metrics.Counters, opts Options) *Runner {
	if counters == nil {
		counters = metrics.NewCounters(nil)
	}
	return &Runner{fs: fs, store: store, counters: counters, opts: opts}
}

// Run loads every descriptor, then processes the consensus files in path order. Unusable
// documents are skipped; inconsistent descriptor data and storage failures stop the run.
func (r *Runner) Run(ctx context.Context, descriptorsDir, consensusesDir string) (Summary, error) {
	var sum Summary

	x := index.NewDescriptorIndex()
	dstats, err := source.LoadDescriptors(r.fs, descriptorsDir, x.Add)
	if err != nil {
		return sum, fmt.Errorf("load descriptors: %w", err)
	}
	sum.Descriptors = dstats.Read
	r.counters.DescriptorsLoaded.Add(float64(dstats.Read))
	logger.Logger.Info("Loaded descriptors",
		zap.Int("files", dstats.Files), zap.Int("descriptors", dstats.Read),
		zap.Int("relays", x.Relays()), zap.Int("skipped", dstats.Skipped))

	paths, err := source.ListFiles(r.fs, consensusesDir)
	if err != nil {
		return sum, fmt.Errorf("list consensuses: %w", err)
	}

	var opts []snapshot.Option
	if r.opts.Policy != "" {
		opts = append(opts, snapshot.WithInitialStatusPolicy(r.opts.Policy))
	}
	if r.opts.MaxAge > 0 {
		opts = append(opts, snapshot.WithMaxAge(r.opts.MaxAge))
	}
	builder := snapshot.NewBuilder(x, opts...)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Documents++

		name, stats, err := r.process(builder, path)
		switch {
		case errors.Is(err, errSkipped):
			sum.Skipped++
			continue
		case err != nil:
			return sum, err
		}

		sum.Found += stats.Found
		sum.NotFound += stats.NotFound
		sum.Written = append(sum.Written, name)
	}
	return sum, nil
}

var errSkipped = errors.New("document skipped")

func (r *Runner) process(builder *snapshot.Builder, path string) (string, snapshot.Stats, error) {
	file := filepath.Base(path)

	doc, err := source.ReadConsensus(r.fs, path)
	if err != nil {
		logger.Logger.Warn("Problem parsing consensus", zap.String("file", file), zap.Error(err))
		r.counters.DocumentsSkipped.WithLabelValues("parse").Inc()
		return "", snapshot.Stats{}, errSkipped
	}

	snap, stats, err := builder.Build(consensus.NewPeriodReader(doc, r.opts.MustBeRunning))
	switch {
	case errors.Is(err, consensus.ErrMissingValidAfter), errors.Is(err, consensus.ErrMissingFreshUntil),
		errors.Is(err, snapshot.ErrEmptyPeriod):
		logger.Logger.Warn("Problem parsing consensus", zap.String("file", file), zap.Error(err))
		r.counters.DocumentsSkipped.WithLabelValues("metadata").Inc()
		return "", stats, errSkipped
	case err != nil:
		return "", stats, fmt.Errorf("%s: %w", file, err)
	}

	name, err := r.store.Put(snap)
	if err != nil {
		return "", stats, fmt.Errorf("persist %s: %w", file, err)
	}

	r.counters.RelaysFound.Add(float64(stats.Found))
	r.counters.RelaysNotFound.Add(float64(stats.NotFound))
	r.counters.DocumentsWritten.Inc()
	logger.Logger.Info("Wrote descriptors", zap.String("snapshot", name), zap.Int("relays", stats.Found))
	logger.Logger.Info("Did not find descriptors", zap.String("snapshot", name), zap.Int("relays", stats.NotFound))
	return name, stats, nil
}
