package results

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"resumine/internal/errors"
	"resumine/internal/types"

	"github.com/google/uuid"
)

// FileStore writes each result as pretty JSON to <dir>/<kind>_<YYYYmmdd_HHMMSS>.json
type FileStore struct {
	dir    string
	now    func() time.Time
	logger *errors.Logger
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dir string, logger *errors.Logger) *FileStore {
	return &FileStore{dir: dir, now: time.Now, logger: logger}
}

func (s *FileStore) Backend() string { return BackendFile }

// Save writes v under a fresh name. Two saves of one kind within the same
// second get a short random suffix instead of overwriting each other.
func (s *FileStore) Save(ctx context.Context, kind string, v any) (types.SavedResult, error) {
	if err := ctx.Err(); err != nil {
		return types.SavedResult{}, err
	}
	if err := validateKind(kind); err != nil {
		return types.SavedResult{}, err
	}

	payload, err := marshalResult(v)
	if err != nil {
		return types.SavedResult{}, err
	}

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return types.SavedResult{}, errors.NewStorageError(errors.ErrCodeStoreFailed,
			fmt.Sprintf("cannot create results directory %s", s.dir), err)
	}

	createdAt := s.now()
	base := baseName(kind, createdAt)
	name := base + ".json"
	path := filepath.Join(s.dir, name)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if stderrors.Is(err, fs.ErrExist) {
		name = base + "_" + uuid.New().String()[:8] + ".json"
		path = filepath.Join(s.dir, name)
		file, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	}
	if err != nil {
		return types.SavedResult{}, errors.NewStorageError(errors.ErrCodeStoreFailed,
			fmt.Sprintf("cannot create result file %s", path), err)
	}

	_, writeErr := file.Write(payload)
	closeErr := file.Close()
	if err := stderrors.Join(writeErr, closeErr); err != nil {
		return types.SavedResult{}, errors.NewStorageError(errors.ErrCodeStoreFailed,
			fmt.Sprintf("cannot write result file %s", path), err)
	}

	s.logger.Debug("Result saved", "backend", BackendFile, "path", path, "bytes", len(payload))
	return types.SavedResult{
		ID:        strings.TrimSuffix(name, ".json"),
		Name:      name,
		Kind:      kind,
		Location:  path,
		Size:      int64(len(payload)),
		CreatedAt: createdAt,
	}, nil
}

// List returns the newest results first. A missing directory is an empty store.
func (s *FileStore) List(ctx context.Context, limit int) ([]types.SavedResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []types.SavedResult{}, nil
		}
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed,
			fmt.Sprintf("cannot read results directory %s", s.dir), err)
	}

	saved := make([]types.SavedResult, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		saved = append(saved, types.SavedResult{
			ID:        strings.TrimSuffix(entry.Name(), ".json"),
			Name:      entry.Name(),
			Kind:      kindFromName(entry.Name()),
			Location:  filepath.Join(s.dir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(saved, func(i, j int) bool {
		if !saved[i].CreatedAt.Equal(saved[j].CreatedAt) {
			return saved[i].CreatedAt.After(saved[j].CreatedAt)
		}
		return saved[i].Name > saved[j].Name
	})

	if limit > 0 && len(saved) > limit {
		saved = saved[:limit]
	}
	return saved, nil
}

// Load reads a result by name, with or without the .json extension
func (s *FileStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if filepath.Ext(name) != ".json" {
		name += ".json"
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, notFound(name)
		}
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed,
			fmt.Sprintf("cannot read result %s", name), err)
	}
	return data, nil
}

func (s *FileStore) Close() error { return nil }
