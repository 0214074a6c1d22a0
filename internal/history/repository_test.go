package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepositoryRecent(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	runs := []*Run{
		{Duration: 60, Remaining: 0, StartedAt: base, EndedAt: base.Add(time.Minute), Outcome: OutcomeExpired},
		{Duration: 30, Remaining: 12, StartedAt: base.Add(2 * time.Minute), EndedAt: base.Add(3 * time.Minute), Outcome: OutcomeReset},
		{ID: "fixed", Duration: 10, Remaining: 4, StartedAt: base.Add(4 * time.Minute), EndedAt: base.Add(5 * time.Minute), Outcome: OutcomeClosed},
	}
	for _, run := range runs {
		require.NoError(t, repo.Create(run))
		require.NotEmpty(t, run.ID)
	}
	require.Equal(t, "fixed", runs[2].ID)

	got, err := repo.Recent(2)
	require.NoError(t, err)
	want := []Run{*runs[2], *runs[1]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Recent() mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, time.Minute, got[0].Elapsed())
}

func TestRepositoryDuplicateID(t *testing.T) {
	repo := newTestRepository(t)
	run := &Run{ID: "a", Duration: 1, Outcome: OutcomeExpired}
	require.NoError(t, repo.Create(run))
	require.Error(t, repo.Create(run))
}

func TestRepositoryStats(t *testing.T) {
	repo := newTestRepository(t)

	stats, err := repo.Stats()
	require.NoError(t, err)
	require.Empty(t, stats)

	for _, run := range []*Run{
		{Duration: 60, Outcome: OutcomeExpired},
		{Duration: 90, Outcome: OutcomeExpired},
		{Duration: 30, Outcome: OutcomeReset},
	} {
		require.NoError(t, repo.Create(run))
	}

	stats, err = repo.Stats()
	require.NoError(t, err)
	want := []OutcomeStats{
		{Outcome: OutcomeExpired, Count: 2, Seconds: 150},
		{Outcome: OutcomeReset, Count: 1, Seconds: 30},
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Fatalf("Stats() mismatch (-want +got):\n%s", diff)
	}
}

func TestRepositoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	repo, err := NewRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Create(&Run{Duration: 5, Outcome: OutcomeExpired}))
	require.NoError(t, repo.Close())

	repo, err = NewRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	runs, err := repo.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, 5, runs[0].Duration)
}
