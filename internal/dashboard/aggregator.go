package dashboard

import (
	"time"

	"github.com/json-oracle/oracle_engine/internal/models"
	"github.com/json-oracle/oracle_engine/internal/store"
)

// Aggregator computes dashboard statistics on demand from store snapshots.
// Nothing is cached or persisted; every call reflects the stores at the
// moment of the call.
type Aggregator struct {
	store   *store.IntegrationStore
	results *store.ResultLog
}

func NewAggregator(st *store.IntegrationStore, results *store.ResultLog) *Aggregator {
	return &Aggregator{store: st, results: results}
}

// Snapshot builds the aggregate view. When ownerID is non-empty, only that
// owner's integrations and their results are counted. Result counts come
// from a single result-log snapshot, so successful <= total always holds.
func (a *Aggregator) Snapshot(ownerID string) models.DashboardStats {
	integrations := a.store.List(ownerID)
	sequences := a.results.SnapshotAll()
	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	stats := models.DashboardStats{
		TotalIntegrations: len(integrations),
	}

	owned := make(map[string]bool, len(integrations))
	for _, integration := range integrations {
		owned[integration.ID] = true
		if integration.Status == models.IntegrationActive {
			stats.ActiveIntegrations++
		}
	}

	for integrationID, seq := range sequences {
		if ownerID != "" && !owned[integrationID] {
			continue
		}
		for _, result := range seq {
			stats.TotalAnalyses++
			if result.Status == models.AnalysisCompleted {
				stats.SuccessfulAnalyses++
			}
			if result.CreatedAt.After(cutoff) {
				stats.RecentAnalyses24h++
			}
		}
	}

	// ratio in [0, 1]; stays 0 when nothing has been analyzed yet
	if stats.TotalAnalyses > 0 {
		stats.SuccessRate = float64(stats.SuccessfulAnalyses) / float64(stats.TotalAnalyses)
	}
	return stats
}
