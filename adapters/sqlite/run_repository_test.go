package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beqc/domain/core"
	"beqc/domain/qc"
	"beqc/domain/survey"
)

func newTestRepo(t *testing.T) *runRepository {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRunRepository(db).(*runRepository)
}

func testRun(createdAt time.Time) *qc.Run {
	run := qc.NewRun(qc.ModeBatch, survey.TargetOutput)
	run.RowCount = 3
	run.Summary = qc.FlagSummary{Under: 1, Within: 1, Over: 1}
	run.PredictorMode = "quantile"
	run.Fingerprint = core.NewHash([]byte("payload"))
	run.Duration = 125 * time.Millisecond
	run.CreatedAt = core.NewTimestamp(createdAt)
	return run
}

func TestRunRepositoryCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	run := testRun(time.Now().UTC())
	csv := []byte("SEKTOR,OUTPUT\nS1,100\n")
	require.NoError(t, repo.Create(ctx, run, csv))

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, qc.ModeBatch, got.Mode)
	assert.Equal(t, survey.TargetOutput, got.Target)
	assert.Equal(t, 3, got.RowCount)
	assert.Equal(t, run.Summary, got.Summary)
	assert.Equal(t, "quantile", got.PredictorMode)
	assert.Equal(t, run.Fingerprint, got.Fingerprint)
	assert.Equal(t, 125*time.Millisecond, got.Duration)
	assert.WithinDuration(t, run.CreatedAt.Time(), got.CreatedAt.Time(), time.Second)

	payload, err := repo.GetResult(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, csv, payload)
}

func TestRunRepositorySingleRunWithoutResult(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	run := testRun(time.Now().UTC())
	run.Mode = qc.ModeSingle
	run.RowCount = 1
	require.NoError(t, repo.Create(ctx, run, nil))

	_, err := repo.GetResult(ctx, run.ID)
	assert.True(t, core.IsNotFoundError(err), "single run should have no stored result, got %v", err)
}

func TestRunRepositoryGetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), core.NewRunID())
	assert.True(t, core.IsNotFoundError(err), "expected not-found, got %v", err)
}

func TestRunRepositoryListRecent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var ids []core.RunID
	for i := 0; i < 5; i++ {
		run := testRun(base.Add(time.Duration(i) * time.Minute))
		require.NoError(t, repo.Create(ctx, run, nil))
		ids = append(ids, run.ID)
	}

	runs, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// newest first
	assert.Equal(t, ids[4], runs[0].ID)
	assert.Equal(t, ids[3], runs[1].ID)
	assert.Equal(t, ids[2], runs[2].ID)
}

func TestRunRepositoryPrune(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var newest core.RunID
	for i := 0; i < 6; i++ {
		run := testRun(base.Add(time.Duration(i) * time.Minute))
		require.NoError(t, repo.Create(ctx, run, []byte(fmt.Sprintf("row,%d\n", i))))
		newest = run.ID
	}

	pruned, err := repo.Prune(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, pruned)

	runs, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newest, runs[0].ID)

	// kept runs keep their stored tables
	_, err = repo.GetResult(ctx, newest)
	assert.NoError(t, err)
}
