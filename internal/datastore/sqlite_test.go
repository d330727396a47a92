package datastore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entradalert/internal/config"
	"entradalert/internal/detect"
	"entradalert/internal/logger"
	"entradalert/internal/monitor"
)

func newTestStore(t *testing.T, retentionDays int) *Store {
	t.Helper()
	cfg := config.StorageConfig{
		SQLiteDBPath:         filepath.Join(t.TempDir(), "entradalert.db"),
		HistoryRetentionDays: retentionDays,
	}
	log, err := logger.New(logger.NewDefaultLogConfig())
	require.NoError(t, err)

	store, err := NewStore(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSaveAndLoadStates(t *testing.T) {
	store := newTestStore(t, 90)
	ctx := context.Background()

	state := monitor.TargetState{
		URL:           "https://tickets.example/recital",
		Status:        detect.CollapsedAvailable,
		RawStatus:     detect.StatusAvailableWithDates,
		Dates:         []string{"01/12/2025", "15/12/2025"},
		Title:         "Recital",
		LastCheckedAt: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveState(ctx, state))

	// Upsert: a later check overwrites in place.
	state.Status = detect.CollapsedSoldOut
	state.RawStatus = detect.StatusSoldOut
	state.Dates = nil
	state.LastError = "page load timeout"
	require.NoError(t, store.SaveState(ctx, state))

	states, err := store.LoadStates(ctx)
	require.NoError(t, err)
	require.Len(t, states, 1)

	loaded := states[0]
	assert.Equal(t, state.URL, loaded.URL)
	assert.Equal(t, detect.CollapsedSoldOut, loaded.Status)
	assert.Equal(t, detect.StatusSoldOut, loaded.RawStatus)
	assert.Empty(t, loaded.Dates)
	assert.Equal(t, "Recital", loaded.Title)
	assert.Equal(t, "page load timeout", loaded.LastError)
	assert.True(t, loaded.LastCheckedAt.Equal(state.LastCheckedAt))
}

func TestStoreLoadStatesEmpty(t *testing.T) {
	store := newTestStore(t, 90)

	states, err := store.LoadStates(context.Background())
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestStorePruneHistory(t *testing.T) {
	store := newTestStore(t, 30)
	ctx := context.Background()

	old := monitor.TargetState{
		URL:           "https://tickets.example/show",
		Status:        detect.CollapsedSoldOut,
		RawStatus:     detect.StatusSoldOut,
		LastCheckedAt: time.Now().AddDate(0, 0, -60),
	}
	recent := old
	recent.LastCheckedAt = time.Now()

	require.NoError(t, store.RecordCheck(ctx, old))
	require.NoError(t, store.RecordCheck(ctx, recent))

	pruned, err := store.PruneHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	again, err := store.PruneHistory(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestStorePruneDisabled(t *testing.T) {
	store := newTestStore(t, 0)
	ctx := context.Background()

	state := monitor.TargetState{
		URL:           "https://tickets.example/show",
		Status:        detect.CollapsedUnknown,
		RawStatus:     detect.StatusUnknown,
		LastCheckedAt: time.Now().AddDate(-1, 0, 0),
	}
	require.NoError(t, store.RecordCheck(ctx, state))

	pruned, err := store.PruneHistory(ctx)
	require.NoError(t, err)
	assert.Zero(t, pruned)
}
