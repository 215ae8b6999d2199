package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB es lo que el repositorio necesita de pgxpool.Pool.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository accede a las tablas categories y subcategories.
type Repository struct {
	database DB
}

// NewRepository crea un repositorio de categorías.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

const (
	categoryColumns    = `id, name, emoji, section, "order", is_active, created_at, updated_at`
	subcategoryColumns = `id, name, category_id, "order", is_active, created_at, updated_at`
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

// InsertCategory crea una categoría.
func (repository *Repository) InsertCategory(ctx context.Context, category menu.Category) (menu.Category, error) {
	const query = `
		INSERT INTO categories (name, emoji, section, "order", is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns + `;
	`

	created, err := scanCategory(repository.database.QueryRow(ctx, query,
		category.Name, category.Emoji, string(category.Section), category.Order, category.IsActive,
	))
	if err != nil {
		return menu.Category{}, mapError(err)
	}
	return created, nil
}

// GetCategory obtiene una categoría por id.
func (repository *Repository) GetCategory(ctx context.Context, id string) (menu.Category, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1;`

	category, err := scanCategory(repository.database.QueryRow(ctx, query, id))
	if err != nil {
		return menu.Category{}, mapError(err)
	}
	return category, nil
}

// ListCategories devuelve todas las categorías, activas e inactivas.
func (repository *Repository) ListCategories(ctx context.Context) ([]menu.Category, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories ORDER BY "order", name;`

	rows, err := repository.database.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]menu.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategory reemplaza los campos editables.
func (repository *Repository) UpdateCategory(ctx context.Context, category menu.Category) (menu.Category, error) {
	const query = `
		UPDATE categories
		SET name = $1,
			emoji = $2,
			section = $3,
			"order" = $4,
			is_active = $5,
			updated_at = now()
		WHERE id = $6
		RETURNING ` + categoryColumns + `;
	`

	updated, err := scanCategory(repository.database.QueryRow(ctx, query,
		category.Name, category.Emoji, string(category.Section), category.Order, category.IsActive, category.ID,
	))
	if err != nil {
		return menu.Category{}, mapError(err)
	}
	return updated, nil
}

// DeleteCategory elimina una categoría sin hijos.
func (repository *Repository) DeleteCategory(ctx context.Context, id string) error {
	const query = `DELETE FROM categories WHERE id = $1 RETURNING id;`

	var deletedID string
	if err := repository.database.QueryRow(ctx, query, id).Scan(&deletedID); err != nil {
		return mapDeleteError(err)
	}
	return nil
}

// CountCategoryChildren cuenta subcategorías e items que cuelgan de la categoría.
func (repository *Repository) CountCategoryChildren(ctx context.Context, id string) (int, int, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM subcategories WHERE category_id = $1),
			(SELECT COUNT(*) FROM menu_items WHERE category_id = $1);
	`

	var subcategories, items int
	if err := repository.database.QueryRow(ctx, query, id).Scan(&subcategories, &items); err != nil {
		return 0, 0, mapError(err)
	}
	return subcategories, items, nil
}

// DeleteItemsByCategory borra los items de una categoría y devuelve cuántos.
func (repository *Repository) DeleteItemsByCategory(ctx context.Context, id string) (int, error) {
	return repository.exec(ctx, `DELETE FROM menu_items WHERE category_id = $1;`, id)
}

// DeleteSubcategoriesByCategory borra las subcategorías de una categoría.
func (repository *Repository) DeleteSubcategoriesByCategory(ctx context.Context, id string) (int, error) {
	return repository.exec(ctx, `DELETE FROM subcategories WHERE category_id = $1;`, id)
}

// ReorderCategories asigna order 0..n-1 según la posición en ids.
// Si algún id no existe no se cambia nada.
func (repository *Repository) ReorderCategories(ctx context.Context, ids []string) error {
	const query = `
		UPDATE categories AS c
		SET "order" = v.position - 1, updated_at = now()
		FROM unnest($1::uuid[]) WITH ORDINALITY AS v(id, position)
		WHERE c.id = v.id;
	`
	return repository.reorder(ctx, len(ids), query, ids)
}

// InsertSubcategory crea una subcategoría.
func (repository *Repository) InsertSubcategory(ctx context.Context, subcategory menu.Subcategory) (menu.Subcategory, error) {
	const query = `
		INSERT INTO subcategories (name, category_id, "order", is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + subcategoryColumns + `;
	`

	created, err := scanSubcategory(repository.database.QueryRow(ctx, query,
		subcategory.Name, subcategory.CategoryID, subcategory.Order, subcategory.IsActive,
	))
	if err != nil {
		return menu.Subcategory{}, mapError(err)
	}
	return created, nil
}

// GetSubcategory obtiene una subcategoría por id.
func (repository *Repository) GetSubcategory(ctx context.Context, id string) (menu.Subcategory, error) {
	const query = `SELECT ` + subcategoryColumns + ` FROM subcategories WHERE id = $1;`

	subcategory, err := scanSubcategory(repository.database.QueryRow(ctx, query, id))
	if err != nil {
		return menu.Subcategory{}, mapError(err)
	}
	return subcategory, nil
}

// ListSubcategories devuelve las subcategorías; categoryID vacío devuelve todas.
func (repository *Repository) ListSubcategories(ctx context.Context, categoryID string) ([]menu.Subcategory, error) {
	query := `SELECT ` + subcategoryColumns + ` FROM subcategories`
	var args []any
	if categoryID != "" {
		query += ` WHERE category_id = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY category_id, "order", name;`

	rows, err := repository.database.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subcategories := make([]menu.Subcategory, 0)
	for rows.Next() {
		subcategory, err := scanSubcategory(rows)
		if err != nil {
			return nil, err
		}
		subcategories = append(subcategories, subcategory)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subcategories, nil
}

// UpdateSubcategory reemplaza los campos editables.
func (repository *Repository) UpdateSubcategory(ctx context.Context, subcategory menu.Subcategory) (menu.Subcategory, error) {
	const query = `
		UPDATE subcategories
		SET name = $1,
			"order" = $2,
			is_active = $3,
			updated_at = now()
		WHERE id = $4
		RETURNING ` + subcategoryColumns + `;
	`

	updated, err := scanSubcategory(repository.database.QueryRow(ctx, query,
		subcategory.Name, subcategory.Order, subcategory.IsActive, subcategory.ID,
	))
	if err != nil {
		return menu.Subcategory{}, mapError(err)
	}
	return updated, nil
}

// DeleteSubcategory elimina una subcategoría sin items.
func (repository *Repository) DeleteSubcategory(ctx context.Context, id string) error {
	const query = `DELETE FROM subcategories WHERE id = $1 RETURNING id;`

	var deletedID string
	if err := repository.database.QueryRow(ctx, query, id).Scan(&deletedID); err != nil {
		return mapDeleteError(err)
	}
	return nil
}

// CountSubcategoryItems cuenta los items de una subcategoría.
func (repository *Repository) CountSubcategoryItems(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM menu_items WHERE subcategory_id = $1;`

	var total int
	if err := repository.database.QueryRow(ctx, query, id).Scan(&total); err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

// DeleteItemsBySubcategory borra los items de una subcategoría.
func (repository *Repository) DeleteItemsBySubcategory(ctx context.Context, id string) (int, error) {
	return repository.exec(ctx, `DELETE FROM menu_items WHERE subcategory_id = $1;`, id)
}

// ReorderSubcategories asigna order 0..n-1 dentro de la categoría.
// Si algún id no existe o es de otra categoría no se cambia nada.
func (repository *Repository) ReorderSubcategories(ctx context.Context, categoryID string, ids []string) error {
	const query = `
		UPDATE subcategories AS s
		SET "order" = v.position - 1, updated_at = now()
		FROM unnest($1::uuid[]) WITH ORDINALITY AS v(id, position)
		WHERE s.id = v.id AND s.category_id = $2;
	`
	return repository.reorder(ctx, len(ids), query, ids, categoryID)
}

// reorder ejecuta el UPDATE en una transacción y la descarta si no se
// actualizaron exactamente expected filas.
func (repository *Repository) reorder(ctx context.Context, expected int, query string, args ...any) error {
	tx, err := repository.database.Begin(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		_ = tx.Rollback(ctx)
		return mapError(err)
	}
	if int(tag.RowsAffected()) != expected {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("%w: %d of %d ids matched", ErrorNotFound, tag.RowsAffected(), expected)
	}

	return tx.Commit(ctx)
}

func (repository *Repository) exec(ctx context.Context, query string, args ...any) (int, error) {
	tag, err := repository.database.Exec(ctx, query, args...)
	if err != nil {
		return 0, mapError(err)
	}
	return int(tag.RowsAffected()), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (menu.Category, error) {
	var category menu.Category
	var section string
	err := row.Scan(
		&category.ID, &category.Name, &category.Emoji, &section, &category.Order,
		&category.IsActive, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		return menu.Category{}, err
	}
	category.Section = menu.Section(section)
	return category, nil
}

func scanSubcategory(row rowScanner) (menu.Subcategory, error) {
	var subcategory menu.Subcategory
	err := row.Scan(
		&subcategory.ID, &subcategory.Name, &subcategory.CategoryID, &subcategory.Order,
		&subcategory.IsActive, &subcategory.CreatedAt, &subcategory.UpdatedAt,
	)
	if err != nil {
		return menu.Subcategory{}, err
	}
	return subcategory, nil
}

// mapError traduce errores de pgx/Postgres a errores de dominio.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorNotFound
	}
	var postgresError *pgconn.PgError
	if errors.As(err, &postgresError) {
		switch postgresError.Code {
		case pgUniqueViolation:
			return ErrorDuplicateName
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrorInvalidReference, postgresError.ConstraintName)
		case pgInvalidText:
			return ErrorInvalidInput
		}
	}
	return err
}

// mapDeleteError es mapError para DELETE: una FK violada significa que
// aparecieron hijos entre el conteo y el borrado.
func mapDeleteError(err error) error {
	var postgresError *pgconn.PgError
	if errors.As(err, &postgresError) && postgresError.Code == pgForeignKeyViolation {
		return ErrorHasChildren
	}
	return mapError(err)
}
