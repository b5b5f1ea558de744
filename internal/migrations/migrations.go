// Package migrations содержит встроенные goose-миграции схемы БД.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

// RunMigrations применяет все миграции к переданному соединению
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("[Migrations] не удалось выбрать диалект: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("[Migrations] ошибка применения миграций: %w", err)
	}
	return nil
}
