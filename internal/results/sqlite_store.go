package results

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resumine/internal/errors"
	"resumine/internal/types"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps results in a single SQLite table
type SQLiteStore struct {
	db     *sql.DB
	path   string
	now    func() time.Time
	logger *errors.Logger
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (or creates) the database at path
func OpenSQLiteStore(path string, logger *errors.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStoreFailed,
				fmt.Sprintf("cannot create database directory %s", dir), err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "cannot open results database", err)
	}
	db.SetMaxOpenConns(1) // single writer

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "cannot initialize results schema", err)
	}

	logger.Debug("Results database opened", "path", path)
	return &SQLiteStore{db: db, path: path, now: time.Now, logger: logger}, nil
}

func initSchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS results (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		kind       TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		payload    BLOB NOT NULL
	)`); err != nil {
		return err
	}
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at DESC)`)
	return err
}

func (s *SQLiteStore) Backend() string { return BackendSQLite }

// Save inserts v under a fresh name, adding a short suffix on collision
func (s *SQLiteStore) Save(ctx context.Context, kind string, v any) (types.SavedResult, error) {
	if err := validateKind(kind); err != nil {
		return types.SavedResult{}, err
	}
	payload, err := marshalResult(v)
	if err != nil {
		return types.SavedResult{}, err
	}

	createdAt := s.now()
	name := baseName(kind, createdAt)
	exists, err := s.exists(ctx, name)
	if err != nil {
		return types.SavedResult{}, err
	}
	if exists {
		name += "_" + uuid.New().String()[:8]
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (id, name, kind, created_at, payload) VALUES (?, ?, ?, ?, ?)`,
		id, name, kind, createdAt.UnixNano(), payload)
	if err != nil {
		return types.SavedResult{}, errors.NewStorageError(errors.ErrCodeStoreFailed,
			fmt.Sprintf("cannot insert result %s", name), err)
	}

	s.logger.Debug("Result saved", "backend", BackendSQLite, "name", name, "id", id, "bytes", len(payload))
	return types.SavedResult{
		ID:        id,
		Name:      name,
		Kind:      kind,
		Location:  s.path,
		Size:      int64(len(payload)),
		CreatedAt: createdAt,
	}, nil
}

func (s *SQLiteStore) exists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results WHERE name = ?`, name).Scan(&count)
	if err != nil {
		return false, errors.NewStorageError(errors.ErrCodeStoreFailed, "cannot query results", err)
	}
	return count > 0, nil
}

// List returns the newest results first
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]types.SavedResult, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, kind, created_at, length(payload) FROM results
		 ORDER BY created_at DESC, name DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "cannot list results", err)
	}
	defer func() { _ = rows.Close() }()

	saved := []types.SavedResult{}
	for rows.Next() {
		var (
			r       types.SavedResult
			created int64
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Kind, &created, &r.Size); err != nil {
			return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "cannot scan result row", err)
		}
		r.CreatedAt = time.Unix(0, created)
		r.Location = s.path
		saved = append(saved, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "cannot list results", err)
	}
	return saved, nil
}

// Load returns the payload stored under name. A trailing .json is ignored so
// names from both backends are accepted.
func (s *SQLiteStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	name = strings.TrimSuffix(name, ".json")

	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM results WHERE name = ? OR id = ?`, name, name).Scan(&payload)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound(name)
		}
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed,
			fmt.Sprintf("cannot load result %s", name), err)
	}
	return payload, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
