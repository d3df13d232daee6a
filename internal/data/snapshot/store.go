// Package snapshot is the ingestion boundary between item files on disk
// and the in-memory records the scheduler consumes. All enum validation
// happens here; the scheduler never sees open strings. Reads and writes
// are serialized between processes by a bounded-timeout file lock.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/forage/internal/core/item"
	"github.com/colonyops/forage/internal/core/logging"
)

var (
	// ErrNotFound is returned when no item file carries the requested id.
	ErrNotFound = errors.New("item not found")
	// ErrDuplicateID is returned when two item files declare the same id.
	ErrDuplicateID = errors.New("duplicate item id")
	// ErrLockTimeout is returned when the snapshot lock cannot be
	// acquired within the configured bound. Callers must surface this
	// rather than proceed on a possibly-torn snapshot.
	ErrLockTimeout = errors.New("snapshot lock timeout")
	// ErrNoWorkspace is returned when no .forage directory exists here
	// or in any parent directory.
	ErrNoWorkspace = errors.New("no .forage workspace found")
)

// WorkspaceDir is the marker directory holding items, archive, and lock.
const WorkspaceDir = ".forage"

// itemsGlob matches item files anywhere under the items directory.
const itemsGlob = "**/*.md"

// Snapshot is one internally-consistent read of the whole backlog.
type Snapshot struct {
	Items []item.Item
	// KnownCompleted holds ids archived outside the live snapshot.
	KnownCompleted map[string]bool
	// Paths maps item id to the file it was loaded from.
	Paths map[string]string
	// Bodies maps item id to its markdown body.
	Bodies map[string]string
}

// Store reads and writes item files under a workspace root.
type Store struct {
	itemsDir    string
	archivePath string
	lockPath    string
	lockTimeout time.Duration
}

// NewStore creates a store over the given paths. lockTimeout bounds every
// lock acquisition.
func NewStore(itemsDir, archivePath, lockPath string, lockTimeout time.Duration) *Store {
	return &Store{
		itemsDir:    itemsDir,
		archivePath: archivePath,
		lockPath:    lockPath,
		lockTimeout: lockTimeout,
	}
}

// FindRoot walks upward from dir looking for a .forage directory, the way
// git discovers its repository root.
func FindRoot(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		info, err := os.Stat(filepath.Join(current, WorkspaceDir))
		if err == nil && info.IsDir() {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w (searched from %s upward)", ErrNoWorkspace, dir)
		}
		current = parent
	}
}

// Load reads every item file and the archive under the snapshot lock, so
// no concurrent writer can tear the read. The scheduling computation that
// follows needs no lock; it operates on the returned copy.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.loadLocked()
}

func (s *Store) loadLocked() (*Snapshot, error) {
	snap := &Snapshot{
		KnownCompleted: map[string]bool{},
		Paths:          map[string]string{},
		Bodies:         map[string]string{},
	}

	paths, err := s.itemFiles()
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read item file %s: %w", path, err)
		}

		it, body, err := ParseItem(string(content))
		if err != nil {
			return nil, fmt.Errorf("item file %s: %w", path, err)
		}

		if prev, ok := snap.Paths[it.ID]; ok {
			return nil, fmt.Errorf("%w: %s declared in both %s and %s", ErrDuplicateID, it.ID, prev, path)
		}

		snap.Items = append(snap.Items, it)
		snap.Paths[it.ID] = path
		snap.Bodies[it.ID] = body
	}

	known, err := s.loadArchive()
	if err != nil {
		return nil, err
	}
	snap.KnownCompleted = known

	logger := logging.Component("snapshot")
	logger.Debug().
		Int("items", len(snap.Items)).
		Int("archived", len(known)).
		Msg("snapshot loaded")

	return snap, nil
}

// itemFiles returns every item file under the items dir, sorted so load
// order (and therefore duplicate-id reporting) is deterministic.
func (s *Store) itemFiles() ([]string, error) {
	if _, err := os.Stat(s.itemsDir); os.IsNotExist(err) {
		return nil, nil
	}

	pattern := filepath.Join(s.itemsDir, itemsGlob)
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob item files: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// archiveFile is the YAML shape of the known-completed id list.
type archiveFile struct {
	Completed []string `yaml:"completed"`
}

func (s *Store) loadArchive() (map[string]bool, error) {
	known := map[string]bool{}

	data, err := os.ReadFile(s.archivePath)
	if os.IsNotExist(err) {
		return known, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	var af archiveFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("parse archive %s: %w", s.archivePath, err)
	}

	for _, id := range af.Completed {
		id = strings.TrimSpace(id)
		if id != "" {
			known[id] = true
		}
	}
	return known, nil
}

// Create writes a new item file under the lock. The file name is the item
// id; creation fails if the id already exists anywhere in the snapshot.
func (s *Store) Create(ctx context.Context, it item.Item, body string) (string, error) {
	if err := it.Validate(); err != nil {
		return "", err
	}

	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	snap, err := s.loadLocked()
	if err != nil {
		return "", err
	}
	if _, ok := snap.Paths[it.ID]; ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, it.ID)
	}

	content, err := RenderItem(it, body)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.itemsDir, it.ID+".md")
	if err := os.MkdirAll(s.itemsDir, 0o755); err != nil {
		return "", fmt.Errorf("create items dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write item file: %w", err)
	}

	return path, nil
}

// UpdateStatus applies a state-machine-checked status transition to the
// item's file, preserving its markdown body.
func (s *Store) UpdateStatus(ctx context.Context, id string, to item.Status) error {
	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	snap, err := s.loadLocked()
	if err != nil {
		return err
	}

	path, ok := snap.Paths[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	for _, it := range snap.Items {
		if it.ID != id {
			continue
		}
		if err := it.Transition(to); err != nil {
			return err
		}

		content, err := RenderItem(it, snap.Bodies[id])
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write item file: %w", err)
		}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// acquireLock takes the exclusive snapshot lock, waiting at most the
// configured timeout. The lock is held only around file I/O, never around
// the pure scheduling computation.
func (s *Store) acquireLock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	fl := flock.New(s.lockPath)

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	ok, err := fl.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrLockTimeout, s.lockTimeout)
		}
		return nil, fmt.Errorf("acquire snapshot lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w after %s", ErrLockTimeout, s.lockTimeout)
	}

	return func() { _ = fl.Unlock() }, nil
}
