// Package migrations applies the embedded Postgres schema.
package migrations

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/logx"
	"github.com/jmoiron/sqlx"
)

//go:embed *.sql
var files embed.FS

const createVersionTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version     TEXT PRIMARY KEY,
		applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// Names lists the embedded migrations in apply order
func Names() ([]string, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Apply runs every migration that has not been recorded in schema_migrations.
// Each file runs in its own transaction.
func Apply(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return errx.Wrap(err, "failed to create schema_migrations", errx.TypeInternal)
	}

	names, err := Names()
	if err != nil {
		return errx.Wrap(err, "failed to list migrations", errx.TypeInternal)
	}

	for _, name := range names {
		var applied bool
		if err := db.GetContext(ctx, &applied,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, name); err != nil {
			return errx.Wrap(err, "failed to read schema_migrations", errx.TypeInternal)
		}
		if applied {
			continue
		}

		body, err := files.ReadFile(name)
		if err != nil {
			return errx.Wrap(err, "failed to read migration", errx.TypeInternal)
		}

		if err := applyOne(ctx, db, name, string(body)); err != nil {
			return errx.Wrap(err, "failed to apply migration", errx.TypeInternal).WithDetail("migration", name)
		}
		logx.Infof("Applied migration %s", name)
	}
	return nil
}

func applyOne(ctx context.Context, db *sqlx.DB, name, body string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
		return err
	}
	return tx.Commit()
}
