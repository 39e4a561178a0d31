package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/udisondev/armoraddons/internal/model"
)

// SQLiteItemMetaRepository stores item metadata in an embedded SQLite file.
type SQLiteItemMetaRepository struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite store at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteItemMetaRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := RunSQLiteMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteItemMetaRepository{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (r *SQLiteItemMetaRepository) Close() error {
	if r == nil || r.sqlDB == nil {
		return nil
	}
	return r.sqlDB.Close()
}

// Load returns all metadata keys of item.
func (r *SQLiteItemMetaRepository) Load(ctx context.Context, item *model.Item) (map[string]string, error) {
	rows, err := r.sqlDB.QueryContext(ctx, `SELECT key, value FROM item_metadata WHERE item_id = ?`, item.ID())
	if err != nil {
		return nil, fmt.Errorf("querying metadata for item %d: %w", item.ID(), err)
	}
	defer rows.Close()

	values := make(map[string]string, 2)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning metadata row: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating metadata rows: %w", err)
	}
	return values, nil
}

// Save writes all values in one transaction. An empty value deletes the key.
func (r *SQLiteItemMetaRepository) Save(ctx context.Context, item *model.Item, values map[string]string) (err error) {
	tx, err := r.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().UnixMilli()
	for key, value := range values {
		if value == "" {
			if _, err = tx.ExecContext(ctx,
				`DELETE FROM item_metadata WHERE item_id = ? AND key = ?`,
				item.ID(), key,
			); err != nil {
				return fmt.Errorf("deleting %q for item %d: %w", key, item.ID(), err)
			}
			continue
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO item_metadata (item_id, key, value, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (item_id, key) DO UPDATE
			SET value = excluded.value, updated_at = excluded.updated_at`,
			item.ID(), key, value, now,
		); err != nil {
			return fmt.Errorf("upserting %q for item %d: %w", key, item.ID(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// MaxItemID returns the highest item id with stored metadata (0 when empty).
func (r *SQLiteItemMetaRepository) MaxItemID(ctx context.Context) (int64, error) {
	var maxID int64
	if err := r.sqlDB.QueryRowContext(ctx, `SELECT COALESCE(MAX(item_id), 0) FROM item_metadata`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("querying max item id: %w", err)
	}
	return maxID, nil
}
