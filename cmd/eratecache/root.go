package main

import (
	"github.com/bher20/eratecache/internal/config"
	"github.com/bher20/eratecache/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
	dataDir    string
	markerFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "eratecache",
		Short:         "Serve current exchange rates from a polled build directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "optional YAML config file")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "dir", "", "directory holding the build marker and data files (overrides ERATECACHE_DATA_DIR)")
	cmd.PersistentFlags().StringVar(&opts.markerFile, "marker", "", "build marker file name (overrides ERATECACHE_MARKER_FILE)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newPollCmd(opts))
	cmd.AddCommand(newPublishCmd(opts))
	return cmd
}

// load resolves configuration and flag overrides and builds the logger.
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.dataDir != "" {
		cfg.Poller.DataDir = o.dataDir
	}
	if o.markerFile != "" {
		cfg.Poller.MarkerFile = o.markerFile
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
