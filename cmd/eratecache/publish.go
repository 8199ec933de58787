package main

import (
	"fmt"
	"os"

	"github.com/bher20/eratecache/internal/rates"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPublishCmd(opts *rootOptions) *cobra.Command {
	var (
		buildID  string
		dataName string
	)

	cmd := &cobra.Command{
		Use:   "publish RATES_FILE",
		Short: "Stage a rates file as a new build in the data directory",
		Long: "Copies RATES_FILE into the data directory and rewrites the build marker to point at it.\n" +
			"A random build ID is generated when --build is not given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read rates file")
			}

			m, err := rates.Publish(rates.PublishRequest{
				Dir:        cfg.Poller.DataDir,
				MarkerName: cfg.Poller.MarkerFile,
				BuildID:    buildID,
				DataName:   dataName,
				Data:       data,
			})
			if err != nil {
				return err
			}
			log.Info("build published",
				zap.String("dir", cfg.Poller.DataDir),
				zap.String("build_id", m.BuildID),
				zap.String("file", m.FileName),
			)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), m.BuildID)
			return err
		},
	}
	cmd.Flags().StringVar(&buildID, "build", "", "build ID to publish (default: random UUID)")
	cmd.Flags().StringVar(&dataName, "data-name", "", "data file name inside the directory (default: rates-<build>.json)")
	return cmd
}
