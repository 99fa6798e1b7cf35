package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"immobot/internal/domain"
)

// Repo stores the property collection as JSON documents, one row each.
// Save replaces the whole table inside a transaction.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates the table when it does not exist.
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPropertiesSQL); err != nil {
		return fmt.Errorf("create properties table: %w", err)
	}
	return nil
}

// Load returns domain.ErrNoRecords for an empty table.
func (r *Repo) Load(ctx context.Context) ([]domain.Property, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countPropertiesSQL).Scan(&n); err != nil {
		return nil, fmt.Errorf("%w: count properties: %v", domain.ErrStoreUnavailable, err)
	}
	if n == 0 {
		return nil, domain.ErrNoRecords
	}

	rows, err := r.db.QueryContext(ctx, selectPropertiesSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: query properties: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	out := make([]domain.Property, 0, n)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("%w: scan property: %v", domain.ErrStoreUnavailable, err)
		}
		var p domain.Property
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, fmt.Errorf("%w: decode property: %v", domain.ErrStoreUnavailable, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return out, nil
}

func (r *Repo) Save(ctx context.Context, ps []domain.Property) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deletePropertiesSQL); err != nil {
		return fmt.Errorf("clear properties: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertPropertySQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range ps {
		doc, merr := json.Marshal(p)
		if merr != nil {
			err = fmt.Errorf("encode property %s: %w", p.ID, merr)
			return err
		}
		if _, err = stmt.ExecContext(ctx, i, p.ID, p.City, string(doc)); err != nil {
			return fmt.Errorf("insert property %s: %w", p.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
