package storage

import (
	"time"

	"github.com/bher20/eratecache/internal/rates"
)

// Snapshot is one committed generation of exchange rates. Version and Rates
// always belong to the same commit.
type Snapshot struct {
	Version     string          `json:"build_id"`
	Rates       rates.RateTable `json:"rates"`
	JSON        string          `json:"-"`
	CommittedAt time.Time       `json:"committed_at"`
}

// Empty reports whether s is the "no data loaded" sentinel.
func (s Snapshot) Empty() bool { return s.Version == "" }

func emptySnapshot() Snapshot {
	return Snapshot{
		Version: rates.DefaultBuildID,
		Rates:   rates.RateTable{},
		JSON:    rates.EmptyTableJSON,
	}
}
