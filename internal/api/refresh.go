package api

import (
	"context"
	"net/http"

	"github.com/bher20/eratecache/internal/cron"
	"go.uber.org/zap"
)

// Refresher runs a polling cycle on demand.
type Refresher interface {
	RunCycle(ctx context.Context) cron.CycleResult
}

// RefreshResponse is the response structure for the refresh endpoint.
type RefreshResponse struct {
	Cycle    string `json:"cycle"`
	Outcome  string `json:"outcome"`
	Previous string `json:"previous_build_id"`
	BuildID  string `json:"build_id"`
	DataFile string `json:"data_file,omitempty"`
	Error    string `json:"error,omitempty"`
}

// handleRefresh runs a cycle immediately instead of waiting for the next tick.
func handleRefresh(ref Refresher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := ref.RunCycle(r.Context())

		resp := RefreshResponse{
			Cycle:    res.ID,
			Outcome:  string(res.Outcome),
			Previous: res.Previous,
			BuildID:  res.BuildID,
			DataFile: res.DataFile,
		}
		if res.Err != nil {
			resp.Error = res.Err.Error()
		}
		log.Info("manual refresh", zap.String("cycle", res.ID), zap.String("outcome", resp.Outcome))
		respondJSON(w, log, http.StatusOK, resp)
	}
}
