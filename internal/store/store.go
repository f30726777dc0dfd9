// Package store persists scenario results as JSON files under the Orion
// home directory. Writes are atomic (temp file + rename) and guarded by a
// flock file lock so concurrent orion processes do not corrupt run history.
//
// Import rules:
//   - CAN import: internal/domain, internal/errors, internal/constants,
//     std lib
//   - MUST NOT import: internal/executor, internal/cli
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/orionvision/orion/internal/constants"
	"github.com/orionvision/orion/internal/domain"
	orionerrors "github.com/orionvision/orion/internal/errors"
)

// lockRetryDelay is the poll interval while waiting for the flock.
const lockRetryDelay = 50 * time.Millisecond

// Store reads and writes scenario results in a single directory, one JSON
// file per run named <scenario-id>.json.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// New creates a run store rooted at dir. The directory is created on first
// write, not here.
func New(dir string, logger zerolog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the result to <scenario-id>.json under the store directory.
// The write is atomic and serialized against other processes via a .lock
// file next to the target.
func (s *Store) Save(ctx context.Context, result *domain.ScenarioResult) error {
	if result == nil || result.ScenarioID == "" {
		return fmt.Errorf("%w: scenario result", orionerrors.ErrEmptyValue)
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return orionerrors.Wrapf(err, "creating runs directory %s", s.dir)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return orionerrors.Wrap(err, "encoding scenario result")
	}

	path := s.pathFor(result.ScenarioID)
	unlock, err := s.lock(ctx, path)
	if err != nil {
		return err
	}
	defer unlock()

	if err := atomicWrite(path, data); err != nil {
		return err
	}

	s.logger.Debug().
		Str("scenario_id", result.ScenarioID).
		Str("path", path).
		Msg("run result saved")
	return nil
}

// Load reads the result for the given scenario ID.
// Returns ErrRunNotFound if no run with that ID was saved.
func (s *Store) Load(ctx context.Context, scenarioID string) (*domain.ScenarioResult, error) {
	path := s.pathFor(scenarioID)

	unlock, err := s.lock(ctx, path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the store directory
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", orionerrors.ErrRunNotFound, scenarioID)
		}
		return nil, orionerrors.Wrapf(err, "reading run %s", scenarioID)
	}

	var result domain.ScenarioResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, orionerrors.Wrapf(err, "decoding run %s", scenarioID)
	}
	return &result, nil
}

// List returns all saved results, most recent first.
func (s *Store) List(ctx context.Context) ([]*domain.ScenarioResult, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, orionerrors.Wrapf(err, "reading runs directory %s", s.dir)
	}

	var results []*domain.ScenarioResult
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		result, err := s.Load(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unreadable run file")
			continue
		}
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].StartedAt.After(results[j].StartedAt)
	})
	return results, nil
}

// Delete removes a saved run. Returns ErrRunNotFound when absent.
func (s *Store) Delete(ctx context.Context, scenarioID string) error {
	path := s.pathFor(scenarioID)

	unlock, err := s.lock(ctx, path)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", orionerrors.ErrRunNotFound, scenarioID)
		}
		return orionerrors.Wrapf(err, "deleting run %s", scenarioID)
	}
	return nil
}

func (s *Store) pathFor(scenarioID string) string {
	return filepath.Join(s.dir, scenarioID+".json")
}

// lock acquires the flock next to path, polling until the context expires.
func (s *Store) lock(ctx context.Context, path string) (func(), error) {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return nil, orionerrors.Wrapf(err, "creating runs directory %s", s.dir)
	}

	fl := flock.New(path + ".lock")
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s", orionerrors.ErrLockTimeout, path)
		}
		return nil, orionerrors.Wrapf(err, "locking %s", path)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", orionerrors.ErrLockTimeout, path)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("unlock failed")
		}
	}, nil
}

// atomicWrite writes data via a temp file and rename so readers never see a
// partial run file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return orionerrors.Wrap(err, "creating temp file")
	}
	tmpPath := tmp.Name()

	cleanup := true
	defer func() {
		if cleanup {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return orionerrors.Wrap(err, "writing temp file")
	}
	if err := tmp.Sync(); err != nil {
		return orionerrors.Wrap(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return orionerrors.Wrap(err, "closing temp file")
	}
	if err := os.Chmod(tmpPath, constants.DefaultFileMode); err != nil {
		return orionerrors.Wrap(err, "setting file mode")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return orionerrors.Wrapf(err, "renaming to %s", path)
	}

	cleanup = false
	return nil
}
