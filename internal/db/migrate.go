package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schema string

// Execer es lo mínimo que necesitan Migrate y Reset.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Migrate crea las tablas si no existen. Es idempotente y no hace
// evolución de esquema: solo crea lo que falta.
func Migrate(ctx context.Context, database Execer) error {
	if _, err := database.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Reset borra todos los datos de la carta (no las plantillas de precios).
func Reset(ctx context.Context, database Execer) error {
	const query = `TRUNCATE menu_items, subcategories, categories;`
	if _, err := database.Exec(ctx, query); err != nil {
		return fmt.Errorf("reset menu data: %w", err)
	}
	return nil
}

// Schema devuelve el DDL embebido.
func Schema() string {
	return schema
}
