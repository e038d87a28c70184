// Package results persists analysis results as named JSON documents.
package results

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"resumine/internal/config"
	"resumine/internal/errors"
	"resumine/internal/types"
)

// Backend names accepted by results.backend
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const timestampLayout = "20060102_150405"

// Store saves and retrieves results. Names are unique within a store.
type Store interface {
	Save(ctx context.Context, kind string, v any) (types.SavedResult, error)
	// List returns at most limit results, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]types.SavedResult, error)
	Load(ctx context.Context, name string) ([]byte, error)
	Backend() string
	Close() error
}

// Open creates the store selected by cfg.Backend
func Open(cfg config.ResultsConfig, logger *errors.Logger) (Store, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileStore(cfg.Dir, logger), nil
	case BackendSQLite:
		return OpenSQLiteStore(cfg.SQLitePath, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported results backend: %s", cfg.Backend), nil)
	}
}

// baseName is the collision-free part of a result name: <kind>_<YYYYmmdd_HHMMSS>
func baseName(kind string, at time.Time) string {
	return kind + "_" + at.Format(timestampLayout)
}

var storedNamePattern = regexp.MustCompile(`^(.+)_\d{8}_\d{6}(?:_[0-9a-f]{8})?$`)

// kindFromName recovers the kind prefix from a stored name
func kindFromName(name string) string {
	name = strings.TrimSuffix(name, ".json")
	if m := storedNamePattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return "unknown"
}

func validateKind(kind string) error {
	if kind == "" || strings.ContainsAny(kind, `/\.`) {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid result kind: %q", kind), nil)
	}
	return nil
}

// validateName rejects names that could escape the result directory
func validateName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid result name: %q", name), nil)
	}
	return nil
}

func notFound(name string) error {
	return errors.NewStorageError(errors.ErrCodeResultNotFound,
		fmt.Sprintf("result not found: %s", name), nil).WithContext("name", name)
}

func marshalResult(v any) ([]byte, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStoreFailed, "failed to encode result", err)
	}
	return payload, nil
}
