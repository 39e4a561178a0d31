package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/armoraddons/internal/model"
)

// ItemMetaRepository хранит item metadata (add-on эффекты, счётчик слотов) в PostgreSQL.
type ItemMetaRepository struct {
	db *pgxpool.Pool
}

// NewItemMetaRepository создаёт новый ItemMetaRepository.
func NewItemMetaRepository(db *pgxpool.Pool) *ItemMetaRepository {
	return &ItemMetaRepository{db: db}
}

// Load загружает все metadata ключи предмета.
func (r *ItemMetaRepository) Load(ctx context.Context, item *model.Item) (map[string]string, error) {
	query := `SELECT key, value FROM item_metadata WHERE item_id = $1`

	rows, err := r.db.Query(ctx, query, item.ID())
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

// Save записывает все значения в одной транзакции. Пустое значение удаляет ключ.
func (r *ItemMetaRepository) Save(ctx context.Context, item *model.Item, values map[string]string) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for key, value := range values {
			if value == "" {
				if _, err := tx.Exec(ctx,
					`DELETE FROM item_metadata WHERE item_id = $1 AND key = $2`,
					item.ID(), key,
				); err != nil {
					return fmt.Errorf("deleting %q: %w", key, err)
				}
				continue
			}

			if _, err := tx.Exec(ctx, `
				INSERT INTO item_metadata (item_id, key, value, updated_at)
				VALUES ($1, $2, $3, NOW())
				ON CONFLICT (item_id, key) DO UPDATE
				SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
				item.ID(), key, value,
			); err != nil {
				return fmt.Errorf("upserting %q: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving metadata for item %d: %w", item.ID(), err)
	}
	return nil
}
