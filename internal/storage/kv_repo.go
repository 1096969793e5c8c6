package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_kv_store.go -package=mocks cryptoscholar/internal/storage KVStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DefaultNamespace is used when no reader namespace is configured.
const DefaultNamespace = "default"

// KVStore is a string-keyed, string-valued store.
type KVStore interface {
	// Get returns the value stored under key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// KVRepo stores entries of one namespace in SQLite.
// It implements the KVStore interface.
type KVRepo struct {
	db        *sql.DB
	namespace string
}

// NewKVRepo creates a new KVRepo scoped to namespace.
func NewKVRepo(db *sql.DB, namespace string) *KVRepo {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &KVRepo{db: db, namespace: namespace}
}

// Namespace returns the namespace this repo reads and writes.
func (r *KVRepo) Namespace() string {
	return r.namespace
}

// Get returns the value stored under key. Returns ErrNotFound if absent.
func (r *KVRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM kv_entries WHERE namespace = ? AND key = ?",
		r.namespace, key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query entry: %w", err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *KVRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv_entries (namespace, key, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (namespace, key) DO UPDATE SET
		 value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		r.namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *KVRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM kv_entries WHERE namespace = ? AND key = ?",
		r.namespace, key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// List returns all entries of the namespace ordered by key.
func (r *KVRepo) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT namespace, key, value, updated_at FROM kv_entries WHERE namespace = ? ORDER BY key",
		r.namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var updatedAtStr string
		if err := rows.Scan(&e.Namespace, &e.Key, &e.Value, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}

		// Parse updated_at DATETIME string
		e.UpdatedAt, err = time.Parse("2006-01-02 15:04:05", updatedAtStr)
		if err != nil {
			// SQLite might use a different format
			e.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
			}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}
