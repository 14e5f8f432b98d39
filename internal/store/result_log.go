package store

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/json-oracle/oracle_engine/internal/models"
)

// ResultLog owns every analysis result, organized as an append-mostly
// sequence per integration id. The integration record itself never holds a
// child list; this index is the only edge between the two, so deleting an
// integration just discards its sequence here.
type ResultLog struct {
	mu        sync.RWMutex
	sequences map[string][]models.AnalysisResult
	log       *zap.SugaredLogger
}

func NewResultLog(log *zap.SugaredLogger) *ResultLog {
	return &ResultLog{
		sequences: make(map[string][]models.AnalysisResult),
		log:       log,
	}
}

// InitSequence establishes an empty sequence. Called once at integration
// creation.
func (l *ResultLog) InitSequence(integrationID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.sequences[integrationID]; !ok {
		l.sequences[integrationID] = []models.AnalysisResult{}
	}
}

// Append adds a result to the tail of the integration's sequence. A missing
// sequence means the integration was deleted mid-flight; the append is
// dropped and logged rather than resurrecting the sequence.
func (l *ResultLog) Append(integrationID string, result models.AnalysisResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq, ok := l.sequences[integrationID]
	if !ok {
		l.log.Warnw("append to unknown integration sequence", "integration_id", integrationID, "result_id", result.ID)
		return
	}
	l.sequences[integrationID] = append(seq, result)
}

// Finalize replaces the stored in-flight record with its terminal form,
// located by result id so concurrent submissions against the same
// integration cannot overwrite each other's records. Terminal records refuse
// further mutation.
func (l *ResultLog) Finalize(integrationID, resultID string, final models.AnalysisResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq, ok := l.sequences[integrationID]
	if !ok {
		return models.ErrNotFound
	}
	for i := range seq {
		if seq[i].ID != resultID {
			continue
		}
		if seq[i].Status.Terminal() {
			return models.ErrResultTerminal
		}
		seq[i] = final
		return nil
	}
	return models.ErrNotFound
}

// Query returns a point-in-time copy of the integration's results sorted by
// creation time descending. limit <= 0 returns everything.
func (l *ResultLog) Query(integrationID string, limit int) []models.AnalysisResult {
	l.mu.RLock()
	seq, ok := l.sequences[integrationID]
	var out []models.AnalysisResult
	if ok {
		out = make([]models.AnalysisResult, len(seq))
		copy(out, seq)
	}
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	if out == nil {
		out = []models.AnalysisResult{}
	}
	return out
}

// Get returns a single result by id or models.ErrNotFound.
func (l *ResultLog) Get(integrationID, resultID string) (models.AnalysisResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, result := range l.sequences[integrationID] {
		if result.ID == resultID {
			return result, nil
		}
	}
	return models.AnalysisResult{}, models.ErrNotFound
}

// DiscardSequence drops the whole sequence. Invoked by integration deletion.
func (l *ResultLog) DiscardSequence(integrationID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.sequences, integrationID)
}

// SnapshotAll returns a consistent copy of every sequence, taken under one
// read lock so aggregate counts derived from it are mutually consistent.
func (l *ResultLog) SnapshotAll() map[string][]models.AnalysisResult {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string][]models.AnalysisResult, len(l.sequences))
	for id, seq := range l.sequences {
		cp := make([]models.AnalysisResult, len(seq))
		copy(cp, seq)
		out[id] = cp
	}
	return out
}
