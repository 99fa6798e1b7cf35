// Package storage selects the property record backend from configuration.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"immobot/internal/domain"
	"immobot/internal/shared"
	"immobot/internal/storage/jsonfile"
	mysqlrepo "immobot/internal/storage/mysql"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Open returns the backend named by cfg.StoreDriver (file|mysql) and a func
// that releases it.
func Open(ctx context.Context, cfg shared.Config) (domain.RecordStore, func() error, error) {
	switch cfg.StoreDriver {
	case "file":
		return jsonfile.New(cfg.StorePath), func() error { return nil }, nil
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		log.Info().Msg("database connection ok")
		repo := mysqlrepo.New(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate properties table: %w", err)
		}
		return repo, db.Close, nil
	}
	return nil, nil, fmt.Errorf("%w %q (file|mysql)", ErrUnknownDriver, cfg.StoreDriver)
}
