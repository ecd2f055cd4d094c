package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	lookupMedicineSQL = `SELECT id, chinese_name, english_name, pinyin_name, sku, price_per_gram
FROM medicines WHERE id = $1`
	listMedicinesSQL = `SELECT id, chinese_name, english_name, pinyin_name, sku, price_per_gram
FROM medicines ORDER BY id`
	upsertMedicineSQL = `INSERT INTO medicines (id, chinese_name, english_name, pinyin_name, sku, price_per_gram)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	chinese_name = EXCLUDED.chinese_name,
	english_name = EXCLUDED.english_name,
	pinyin_name = EXCLUDED.pinyin_name,
	sku = EXCLUDED.sku,
	price_per_gram = EXCLUDED.price_per_gram,
	updated_at = now()`
)

// Repository reads and writes the medicines table.
type Repository struct {
	DB DBTX
}

// NewRepository constructs a Repository.
func NewRepository(db DBTX) (*Repository, error) {
	if db == nil {
		return nil, errors.New("catalog: database handle is required")
	}
	return &Repository{DB: db}, nil
}

// Lookup fetches one medicine by id.
func (r *Repository) Lookup(ctx context.Context, id string) (Entry, error) {
	e, err := scanEntry(r.DB.QueryRow(ctx, lookupMedicineSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, fmt.Errorf("lookup %q: %w", id, ErrNotFound)
		}
		return Entry{}, fmt.Errorf("lookup %q: %w", id, err)
	}
	return e, nil
}

// List returns every medicine ordered by id.
func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.DB.Query(ctx, listMedicinesSQL)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return out, nil
}

// Upsert inserts or replaces a medicine.
func (r *Repository) Upsert(ctx context.Context, e Entry) error {
	if e.ID == "" {
		return errors.New("catalog: medicine id is required")
	}
	if _, err := r.DB.Exec(ctx, upsertMedicineSQL, e.ID, e.ChineseName, e.EnglishName, e.PinyinName, e.SKU, e.PricePerGram); err != nil {
		return fmt.Errorf("upsert medicine %q: %w", e.ID, err)
	}
	return nil
}

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.ChineseName, &e.EnglishName, &e.PinyinName, &e.SKU, &e.PricePerGram)
	return e, err
}
