package storage

import (
	"context"
	"database/sql"
	"errors"
)

// MySQLStore persists documents in a two-column table.  The schema is
// created by database.EnsureSchema.
type MySQLStore struct {
	db     *sql.DB
	prefix string
}

// NewMySQLStore wraps an open handle.  An empty prefix selects
// DefaultPrefix.
func NewMySQLStore(db *sql.DB, prefix string) *MySQLStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &MySQLStore{db: db, prefix: prefix}
}

const upsertKV = `INSERT INTO kv_store (k, v) VALUES (?, ?)
	ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = CURRENT_TIMESTAMP`

func (m *MySQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := m.db.QueryRowContext(ctx, `SELECT v FROM kv_store WHERE k = ?`, m.prefix+key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAbsent
		}
		return nil, err
	}
	return v, nil
}

func (m *MySQLStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := m.db.ExecContext(ctx, upsertKV, m.prefix+key, value)
	return err
}

func (m *MySQLStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `DELETE FROM kv_store WHERE k IN (`
	args := make([]interface{}, 0, len(keys))
	for i, k := range keys {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, m.prefix+k)
	}
	query += ")"
	_, err := m.db.ExecContext(ctx, query, args...)
	return err
}

func (m *MySQLStore) SetMulti(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, k := range sortedKeys(values) {
		if _, err := tx.ExecContext(ctx, upsertKV, m.prefix+k, values[k]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
