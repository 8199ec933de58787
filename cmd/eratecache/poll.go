package main

import (
	"encoding/json"
	"fmt"

	"github.com/bher20/eratecache/internal/cron"
	"github.com/bher20/eratecache/internal/rates"
	"github.com/bher20/eratecache/internal/storage"
	"github.com/spf13/cobra"
)

type pollOutput struct {
	Outcome string          `json:"outcome"`
	BuildID string          `json:"build_id"`
	Rates   json.RawMessage `json:"rates"`
	Error   string          `json:"error,omitempty"`
}

func newPollCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Run a single polling cycle against the data directory and print the resulting cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cache := storage.NewRateCache()
			ctrl := cron.NewController(cfg.Poller.DataDir, cfg.Poller.MarkerFile, rates.NewFileLocator(), cache, log)
			res := ctrl.RunCycle(cmd.Context())

			out := pollOutput{
				Outcome: string(res.Outcome),
				BuildID: cache.CurrentVersion(),
				Rates:   json.RawMessage(cache.CurrentRatesAsJSON()),
			}
			if res.Err != nil {
				out.Error = res.Err.Error()
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}
