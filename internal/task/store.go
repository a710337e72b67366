// Package task provides deploy-record persistence and the background
// pipeline that turns an accepted deploy request into a published site.
// The storage layer uses atomic writes and file locking so concurrent
// rounds for the same task cannot corrupt state.
package task

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mrz1836/pagesmith/internal/constants"
	"github.com/mrz1836/pagesmith/internal/domain"
	pserrors "github.com/mrz1836/pagesmith/internal/errors"
	"github.com/mrz1836/pagesmith/internal/flock"
)

// LockTimeout is the maximum duration to wait for acquiring a file lock.
const LockTimeout = 5 * time.Second

// Directory and file permission constants.
const (
	dirPerm  = 0o750 // Secure directory permissions
	filePerm = 0o600 // Secure file permissions
)

// Store defines the interface for deploy-record persistence.
type Store interface {
	// Create creates a new deploy record.
	// Returns ErrRecordExists if a record for the task already exists.
	Create(ctx context.Context, record *domain.DeployRecord) error

	// Get retrieves the deploy record for a task.
	// Returns ErrRecordNotFound if no record exists.
	Get(ctx context.Context, taskID string) (*domain.DeployRecord, error)

	// Update saves the current record state (atomic write).
	// Returns ErrRecordNotFound if no record exists.
	Update(ctx context.Context, record *domain.DeployRecord) error

	// List returns all deploy records, newest first.
	List(ctx context.Context) ([]*domain.DeployRecord, error)
}

// FileStore implements Store using the local filesystem.
// Records live at <home>/tasks/<task>/record.json.
type FileStore struct {
	home string
}

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at the given home directory.
// If home is empty, the default ~/.pagesmith directory is used.
func NewFileStore(home string) (*FileStore, error) {
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		home = filepath.Join(userHome, constants.Home)
	}
	return &FileStore{home: home}, nil
}

// Create creates a new deploy record for the task.
func (s *FileStore) Create(ctx context.Context, record *domain.DeployRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if record == nil {
		return fmt.Errorf("failed to create record: record %w", pserrors.ErrEmptyValue)
	}
	if record.Task == "" {
		return fmt.Errorf("failed to create record: task %w", pserrors.ErrEmptyValue)
	}

	taskDir := s.taskDir(record.Task)

	if _, err := os.Stat(s.recordPath(record.Task)); err == nil {
		return fmt.Errorf("failed to create record for '%s': %w", record.Task, pserrors.ErrRecordExists)
	}

	if err := os.MkdirAll(taskDir, dirPerm); err != nil {
		return fmt.Errorf("failed to create task directory: %w", err)
	}

	record.SchemaVersion = constants.RecordSchemaVersion

	lockFile, err := s.acquireLock(ctx, record.Task)
	if err != nil {
		return fmt.Errorf("failed to create record for '%s': %w", record.Task, err)
	}
	defer func() { _ = s.releaseLock(lockFile) }()

	return s.write(record)
}

// Get retrieves the deploy record for a task.
func (s *FileStore) Get(ctx context.Context, taskID string) (*domain.DeployRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if taskID == "" {
		return nil, fmt.Errorf("failed to get record: task %w", pserrors.ErrEmptyValue)
	}

	recordFile := s.recordPath(taskID)
	if _, err := os.Stat(recordFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to get record for '%s': %w", taskID, pserrors.ErrRecordNotFound)
	}

	lockFile, err := s.acquireLock(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get record for '%s': %w", taskID, err)
	}
	defer func() { _ = s.releaseLock(lockFile) }()

	data, err := os.ReadFile(recordFile) //#nosec G304 -- path is constructed from the trusted store root
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to get record for '%s': %w", taskID, pserrors.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to read record for '%s': %w", taskID, err)
	}

	var record domain.DeployRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse record for '%s': corrupted state file: %w", taskID, err)
	}

	return &record, nil
}

// Update saves the current record state.
func (s *FileStore) Update(ctx context.Context, record *domain.DeployRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if record == nil {
		return fmt.Errorf("failed to update record: record %w", pserrors.ErrEmptyValue)
	}
	if record.Task == "" {
		return fmt.Errorf("failed to update record: task %w", pserrors.ErrEmptyValue)
	}

	if _, err := os.Stat(s.recordPath(record.Task)); os.IsNotExist(err) {
		return fmt.Errorf("failed to update record for '%s': %w", record.Task, pserrors.ErrRecordNotFound)
	}

	lockFile, err := s.acquireLock(ctx, record.Task)
	if err != nil {
		return fmt.Errorf("failed to update record for '%s': %w", record.Task, err)
	}
	defer func() { _ = s.releaseLock(lockFile) }()

	return s.write(record)
}

// List returns all deploy records, newest first.
func (s *FileStore) List(ctx context.Context) ([]*domain.DeployRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tasksDir := filepath.Join(s.home, constants.TasksDir)
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.DeployRecord{}, nil
		}
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	records := make([]*domain.DeployRecord, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		record, getErr := s.Get(ctx, entry.Name())
		if getErr != nil {
			// Skip entries without a readable record file
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records, nil
}

// write marshals the record and writes it atomically, bumping UpdatedAt.
func (s *FileStore) write(record *domain.DeployRecord) error {
	record.UpdatedAt = time.Now().UTC()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record for '%s': %w", record.Task, err)
	}

	if err := atomicWrite(s.recordPath(record.Task), data); err != nil {
		return fmt.Errorf("failed to write record for '%s': %w", record.Task, err)
	}

	return nil
}

// taskDir returns the directory holding a task's record and lock files.
func (s *FileStore) taskDir(taskID string) string {
	return filepath.Join(s.home, constants.TasksDir, taskID)
}

// recordPath returns the path to a task's record file.
func (s *FileStore) recordPath(taskID string) string {
	return filepath.Join(s.taskDir(taskID), constants.RecordFileName)
}

// lockPath returns the path to a task's lock file.
func (s *FileStore) lockPath(taskID string) string {
	return filepath.Join(s.taskDir(taskID), constants.RecordFileName+".lock")
}

// acquireLock acquires an exclusive file lock for the task's record.
// It respects context cancellation during the lock acquisition retry loop.
func (s *FileStore) acquireLock(ctx context.Context, taskID string) (*os.File, error) {
	if err := os.MkdirAll(s.taskDir(taskID), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(s.lockPath(taskID), os.O_CREATE|os.O_RDWR, filePerm) //#nosec G302,G304 -- lock file needs write access, path is constructed from the trusted store root
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(LockTimeout)
	for {
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		default:
		}

		if err := flock.Exclusive(f.Fd()); err == nil {
			return f, nil
		}

		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("failed to acquire lock: %w", pserrors.ErrLockTimeout)
		}

		time.Sleep(50 * time.Millisecond)
	}
}

// releaseLock releases a file lock.
func (s *FileStore) releaseLock(f *os.File) error {
	if f == nil {
		return nil
	}

	if err := flock.Unlock(f.Fd()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to release lock: %w", err)
	}

	return f.Close()
}

// atomicWrite writes data to a file atomically using write-then-rename.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	// Sync before rename so the rename never exposes a partial file
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
