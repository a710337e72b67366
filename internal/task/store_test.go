package task

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/pagesmith/internal/constants"
	"github.com/mrz1836/pagesmith/internal/domain"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func newTestRecord(task string) *domain.DeployRecord {
	return domain.NewDeployRecord(task, "pagesmith-"+task, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
}

// TestFileStoreCreateAndGet tests the create and read round trip.
func TestFileStoreCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := newTestRecord("demo")
	require.NoError(t, store.Create(ctx, record))

	got, err := store.Get(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", got.Task)
	assert.Equal(t, "pagesmith-demo", got.RepoName)
	assert.Equal(t, constants.RecordSchemaVersion, got.SchemaVersion)
	assert.Empty(t, got.Rounds)
}

// TestFileStoreCreateDuplicate verifies creating twice returns ErrRecordExists.
func TestFileStoreCreateDuplicate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestRecord("demo")))

	err := store.Create(ctx, newTestRecord("demo"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pserrors.ErrRecordExists)
}

// TestFileStoreGetMissing verifies reading an unknown task returns
// ErrRecordNotFound.
func TestFileStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, pserrors.ErrRecordNotFound)
}

// TestFileStoreUpdate tests persisting round results.
func TestFileStoreUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := newTestRecord("demo")
	require.NoError(t, store.Create(ctx, record))

	record.RepoURL = "https://github.com/octocat/pagesmith-demo"
	record.Rounds = append(record.Rounds, domain.RoundResult{
		Round:     1,
		RunID:     "run-1",
		Status:    constants.StatusCompleted,
		CommitSHA: "abc123",
		StartedAt: time.Now().UTC(),
	})
	require.NoError(t, store.Update(ctx, record))

	got, err := store.Get(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/octocat/pagesmith-demo", got.RepoURL)
	require.Len(t, got.Rounds, 1)
	assert.Equal(t, constants.StatusCompleted, got.Rounds[0].Status)
	assert.Equal(t, "abc123", got.Rounds[0].CommitSHA)
	assert.False(t, got.UpdatedAt.IsZero())
}

// TestFileStoreUpdateMissing verifies updating an unknown task returns
// ErrRecordNotFound.
func TestFileStoreUpdateMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(context.Background(), newTestRecord("ghost"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pserrors.ErrRecordNotFound)
}

// TestFileStoreValidation tests input validation errors.
func TestFileStoreValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Create(ctx, nil), pserrors.ErrEmptyValue)
	assert.ErrorIs(t, store.Create(ctx, &domain.DeployRecord{}), pserrors.ErrEmptyValue)
	assert.ErrorIs(t, store.Update(ctx, nil), pserrors.ErrEmptyValue)

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, pserrors.ErrEmptyValue)
}

// TestFileStoreList tests listing records newest first.
func TestFileStoreList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := domain.NewDeployRecord("older", "pagesmith-older", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	newer := domain.NewDeployRecord("newer", "pagesmith-newer", time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.Create(ctx, older))
	require.NoError(t, store.Create(ctx, newer))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "newer", records[0].Task)
	assert.Equal(t, "older", records[1].Task)
}

// TestFileStoreListEmpty verifies an empty store lists no records.
func TestFileStoreListEmpty(t *testing.T) {
	store := newTestStore(t)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestFileStoreCanceledContext verifies cancellation is honored at entry.
func TestFileStoreCanceledContext(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Create(ctx, newTestRecord("demo")), context.Canceled)

	_, err := store.Get(ctx, "demo")
	assert.ErrorIs(t, err, context.Canceled)
}

// TestFileStoreAtomicWrite verifies no temp file is left behind after a
// successful write.
func TestFileStoreAtomicWrite(t *testing.T) {
	home := t.TempDir()
	store, err := NewFileStore(home)
	require.NoError(t, err)

	require.NoError(t, store.Create(context.Background(), newTestRecord("demo")))

	taskDir := filepath.Join(home, constants.TasksDir, "demo")
	entries, err := os.ReadDir(taskDir)
	require.NoError(t, err)

	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp")
	}
}

// TestFileStoreCorruptedRecord verifies a corrupted record file surfaces a
// parse error rather than panicking.
func TestFileStoreCorruptedRecord(t *testing.T) {
	home := t.TempDir()
	store, err := NewFileStore(home)
	require.NoError(t, err)

	taskDir := filepath.Join(home, constants.TasksDir, "demo")
	require.NoError(t, os.MkdirAll(taskDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(taskDir, constants.RecordFileName), []byte("{not json"), 0o600))

	_, err = store.Get(context.Background(), "demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupted state file")
}
