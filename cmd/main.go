package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"netstate/config"
	"netstate/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	v := config.New()
	if err := newRootCmd(v).ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "netstate",
		Short:         "Reconcile consensus documents with relay descriptors into network state snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file (yaml)")
	root.PersistentFlags().String("log-level", "info", "log level")
	root.PersistentFlags().String("log-file", "", "log file, stderr when empty")
	root.PersistentFlags().String("store-backend", config.BackendFile, "snapshot store: file or leveldb")
	root.PersistentFlags().String("store-path", "network_state", "snapshot directory or leveldb path")
	v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("log.app_log_file", root.PersistentFlags().Lookup("log-file"))
	v.BindPFlag("store.backend", root.PersistentFlags().Lookup("store-backend"))
	v.BindPFlag("store.path", root.PersistentFlags().Lookup("store-path"))

	load := func() (*config.Config, error) {
		cfg, err := config.Load(v, configFile)
		if err != nil {
			return nil, err
		}
		if err := logger.InitLogger(cfg.Log.AppLogFile, cfg.Log.Level); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(newProcessCmd(v, load), newAnalyseCmd(load), newServeCmd(v, load))
	return root
}
