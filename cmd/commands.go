package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"netstate/batch"
	"netstate/classify"
	"netstate/config"
	"netstate/db"
	"netstate/handlers"
	"netstate/logger"
	"netstate/metrics"
	"netstate/repository"
	"netstate/routers"
	"netstate/snapshot"
)

type loadFunc func() (*config.Config, error)

func openStore(cfg *config.Config) (repository.SnapshotStore, func() error, error) {
	if cfg.Store.Backend == config.BackendLevelDB {
		ldb, err := db.NewLevelDB(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open leveldb: %w", err)
		}
		return repository.NewLevelStore(ldb), ldb.Close, nil
	}
	store, err := repository.NewFileStore(afero.NewOsFs(), cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() error { return nil }, nil
}

func runBatch(ctx context.Context, cfg *config.Config, store repository.SnapshotStore, counters *metrics.Counters) error {
	if cfg.Input.DescriptorsDir == "" || cfg.Input.ConsensusesDir == "" {
		return errors.New("descriptors and consensuses directories are required")
	}
	policy, err := snapshot.ParsePolicy(cfg.Builder.InitialStatusPolicy)
	if err != nil {
		return err
	}

	runner := batch.NewRunner(afero.NewOsFs(), store, counters, batch.Options{
		MustBeRunning: cfg.Builder.MustBeRunning,
		Policy:        policy,
	})
	sum, err := runner.Run(ctx, cfg.Input.DescriptorsDir, cfg.Input.ConsensusesDir)
	if err != nil {
		logger.Logger.Error("Processing aborted", zap.Error(err))
		return err
	}
	logger.Logger.Info("Processing finished",
		zap.Int("documents", sum.Documents), zap.Int("skipped", sum.Skipped),
		zap.Int("snapshots", len(sum.Written)), zap.Int("found", sum.Found), zap.Int("not_found", sum.NotFound))
	return nil
}

func newProcessCmd(v *viper.Viper, load loadFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Build one network state snapshot per consensus document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			return runBatch(cmd.Context(), cfg, store, metrics.NewCounters(nil))
		},
	}
	cmd.Flags().String("descriptors", "", "directory of descriptor records")
	cmd.Flags().String("consensuses", "", "directory of consensus documents")
	cmd.Flags().Bool("must-be-running", false, "ignore relays without the Running flag")
	cmd.Flags().String("initial-status-policy", string(snapshot.PolicyFallback), "fallback or strict")
	v.BindPFlag("input.descriptors_dir", cmd.Flags().Lookup("descriptors"))
	v.BindPFlag("input.consensuses_dir", cmd.Flags().Lookup("consensuses"))
	v.BindPFlag("builder.must_be_running", cmd.Flags().Lookup("must-be-running"))
	v.BindPFlag("builder.initial_status_policy", cmd.Flags().Lookup("initial-status-policy"))
	return cmd
}

func newAnalyseCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "analyse <snapshot>...",
		Short: "Print the relay classification of stored snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			for _, name := range args {
				snap, err := store.Get(name)
				if err != nil {
					return err
				}
				sum := classify.Summarize(snap)
				logger.Logger.Info("Classified relays", zap.String("snapshot", name),
					zap.Int64("total", sum.Total), zap.Int64("guard", sum.Guard), zap.Int64("exit", sum.Exit),
					zap.Int64("guard_exit", sum.GuardExit), zap.Int64("middle", sum.Middle))
				if err := enc.Encode(map[string]interface{}{"snapshot": name, "summary": sum}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newServeCmd(v *viper.Viper, load loadFunc) *cobra.Command {
	var process bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored snapshots over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			reg := prometheus.NewRegistry()
			counters := metrics.NewCounters(reg)
			if process {
				if err := runBatch(cmd.Context(), cfg, store, counters); err != nil {
					return err
				}
			}

			r := mux.NewRouter()
			routers.RegisterRoutes(r, handlers.NewHandler(store), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
				Handler: r,
			}

			go func() {
				if err := srv.ListenAndServe(); err != nil {
					logger.Logger.Info("Server stopped", zap.Error(err))
				}
			}()

			logger.Logger.Info("Server running on port", zap.Int("port", cfg.Server.Port))

			<-cmd.Context().Done()
			logger.Logger.Info("Shutdown signal received, exiting...")
			return srv.Close()
		},
	}
	cmd.Flags().BoolVar(&process, "process", false, "process the configured input directories before serving")
	cmd.Flags().Int("port", 8080, "listen port")
	v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}
