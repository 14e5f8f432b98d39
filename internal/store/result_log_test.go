package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/json-oracle/oracle_engine/internal/models"
)

func newTestLog() *ResultLog {
	return NewResultLog(zap.NewNop().Sugar())
}

func pendingResult(id string, createdAt time.Time) models.AnalysisResult {
	return models.AnalysisResult{
		ID:            id,
		IntegrationID: "int-1",
		Status:        models.AnalysisPending,
		CreatedAt:     createdAt,
	}
}

func TestAppendAndQuery(t *testing.T) {
	l := newTestLog()
	l.InitSequence("int-1")

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		l.Append("int-1", pendingResult(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Second)))
	}

	t.Run("newest first", func(t *testing.T) {
		results := l.Query("int-1", 0)
		assert.Len(t, results, 5)
		assert.Equal(t, "r4", results[0].ID)
		assert.Equal(t, "r0", results[4].ID)
	})

	t.Run("limit truncates", func(t *testing.T) {
		results := l.Query("int-1", 2)
		assert.Len(t, results, 2)
		assert.Equal(t, "r4", results[0].ID)
	})

	t.Run("limit larger than sequence", func(t *testing.T) {
		assert.Len(t, l.Query("int-1", 50), 5)
	})

	t.Run("unknown integration reads empty", func(t *testing.T) {
		results := l.Query("ghost", 0)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})
}

func TestAppendWithoutSequenceIsDropped(t *testing.T) {
	l := newTestLog()
	l.Append("never-created", pendingResult("r1", time.Now()))
	assert.Empty(t, l.Query("never-created", 0))
}

func TestFinalize(t *testing.T) {
	l := newTestLog()
	l.InitSequence("int-1")
	l.Append("int-1", pendingResult("r1", time.Now()))
	l.Append("int-1", pendingResult("r2", time.Now()))

	t.Run("finalizes by result id", func(t *testing.T) {
		final := pendingResult("r1", time.Now())
		final.Status = models.AnalysisCompleted
		final.Payload = map[string]any{"summary": "done"}

		assert.NoError(t, l.Finalize("int-1", "r1", final))

		got, err := l.Get("int-1", "r1")
		assert.NoError(t, err)
		assert.Equal(t, models.AnalysisCompleted, got.Status)

		// the sibling record is untouched
		other, err := l.Get("int-1", "r2")
		assert.NoError(t, err)
		assert.Equal(t, models.AnalysisPending, other.Status)
	})

	t.Run("terminal records refuse mutation", func(t *testing.T) {
		again := pendingResult("r1", time.Now())
		again.Status = models.AnalysisFailed
		assert.ErrorIs(t, l.Finalize("int-1", "r1", again), models.ErrResultTerminal)

		got, _ := l.Get("int-1", "r1")
		assert.Equal(t, models.AnalysisCompleted, got.Status)
	})

	t.Run("unknown result id", func(t *testing.T) {
		assert.ErrorIs(t, l.Finalize("int-1", "ghost", pendingResult("ghost", time.Now())), models.ErrNotFound)
	})

	t.Run("unknown integration", func(t *testing.T) {
		assert.ErrorIs(t, l.Finalize("ghost", "r1", pendingResult("r1", time.Now())), models.ErrNotFound)
	})
}

func TestDiscardSequence(t *testing.T) {
	l := newTestLog()
	l.InitSequence("int-1")
	l.Append("int-1", pendingResult("r1", time.Now()))

	l.DiscardSequence("int-1")

	assert.Empty(t, l.Query("int-1", 0))
	_, err := l.Get("int-1", "r1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// appends after discard stay dropped
	l.Append("int-1", pendingResult("r2", time.Now()))
	assert.Empty(t, l.Query("int-1", 0))
}

func TestSnapshotAllIsACopy(t *testing.T) {
	l := newTestLog()
	l.InitSequence("int-1")
	l.Append("int-1", pendingResult("r1", time.Now()))

	snap := l.SnapshotAll()
	snap["int-1"][0].Status = models.AnalysisFailed

	got, err := l.Get("int-1", "r1")
	assert.NoError(t, err)
	assert.Equal(t, models.AnalysisPending, got.Status)
}
