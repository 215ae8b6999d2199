package items

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB es lo mínimo que el repositorio necesita de pgxpool.Pool.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository accede a la tabla menu_items.
type Repository struct {
	database DB
}

// NewRepository crea un repositorio de items.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

const itemColumns = `id, name, description, category_id, subcategory_id, pricing, type, tags, "order", is_active, created_at, updated_at`

// Códigos de error de Postgres que se traducen a errores de dominio.
const (
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

// Insert crea un item y devuelve el registro persistido.
func (repository *Repository) Insert(ctx context.Context, item menu.MenuItem) (menu.MenuItem, error) {
	const query = `
		INSERT INTO menu_items (name, description, category_id, subcategory_id, pricing, type, tags, "order", is_active)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9)
		RETURNING ` + itemColumns + `;
	`

	pricingJSON, err := json.Marshal(item.Pricing)
	if err != nil {
		return menu.MenuItem{}, err
	}

	created, err := scanItem(repository.database.QueryRow(ctx, query,
		item.Name, item.Description, item.CategoryID, item.SubcategoryID, string(pricingJSON),
		item.Type, item.Tags, item.Order, item.IsActive,
	))
	if err != nil {
		return menu.MenuItem{}, mapError(err)
	}
	return created, nil
}

// GetByID obtiene un item por id.
func (repository *Repository) GetByID(ctx context.Context, id string) (menu.MenuItem, error) {
	const query = `SELECT ` + itemColumns + ` FROM menu_items WHERE id = $1;`

	item, err := scanItem(repository.database.QueryRow(ctx, query, id))
	if err != nil {
		return menu.MenuItem{}, mapError(err)
	}
	return item, nil
}

// GetMany obtiene los items existentes de ids; los que no existen se omiten.
func (repository *Repository) GetMany(ctx context.Context, ids []string) ([]menu.MenuItem, error) {
	if len(ids) == 0 {
		return []menu.MenuItem{}, nil
	}
	const query = `SELECT ` + itemColumns + ` FROM menu_items WHERE id = ANY($1::uuid[]);`
	return repository.queryItems(ctx, query, ids)
}

// ListAll devuelve todos los items (activos e inactivos).
func (repository *Repository) ListAll(ctx context.Context) ([]menu.MenuItem, error) {
	const query = `SELECT ` + itemColumns + ` FROM menu_items ORDER BY category_id, "order", created_at;`
	return repository.queryItems(ctx, query)
}

// List devuelve una página del listado de administración.
// La búsqueda es sin distinguir mayúsculas sobre nombre, descripción y etiquetas.
func (repository *Repository) List(ctx context.Context, filter ListFilter) ([]menu.MenuItem, error) {
	where, args := filterClause(filter)
	args = append(args, filter.Limit, filter.Offset)

	query := `SELECT ` + itemColumns + ` FROM menu_items` + where +
		` ORDER BY "order", created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args)) + `;`

	return repository.queryItems(ctx, query, args...)
}

// Count devuelve el total del listado con el mismo filtro que List.
func (repository *Repository) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := filterClause(filter)
	query := `SELECT COUNT(*) FROM menu_items` + where + `;`

	var total int
	if err := repository.database.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// filterClause arma el WHERE de List/Count. Los placeholders se numeran
// en el orden en que se agregan los argumentos.
func filterClause(filter ListFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, `category_id = $`+strconv.Itoa(len(args)))
	}
	if filter.Query != "" {
		args = append(args, filter.Query)
		placeholder := `$` + strconv.Itoa(len(args))
		conditions = append(conditions, `(name ILIKE '%' || `+placeholder+` || '%'`+
			` OR description ILIKE '%' || `+placeholder+` || '%'`+
			` OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE '%' || `+placeholder+` || '%'))`)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return ` WHERE ` + strings.Join(conditions, ` AND `), args
}

// Update reemplaza todos los campos editables del item.
func (repository *Repository) Update(ctx context.Context, item menu.MenuItem) (menu.MenuItem, error) {
	const query = `
		UPDATE menu_items
		SET name = $1,
			description = $2,
			category_id = $3,
			subcategory_id = $4,
			pricing = $5::jsonb,
			type = $6,
			tags = $7,
			"order" = $8,
			is_active = $9,
			updated_at = now()
		WHERE id = $10
		RETURNING ` + itemColumns + `;
	`

	pricingJSON, err := json.Marshal(item.Pricing)
	if err != nil {
		return menu.MenuItem{}, err
	}

	updated, err := scanItem(repository.database.QueryRow(ctx, query,
		item.Name, item.Description, item.CategoryID, item.SubcategoryID, string(pricingJSON),
		item.Type, item.Tags, item.Order, item.IsActive, item.ID,
	))
	if err != nil {
		return menu.MenuItem{}, mapError(err)
	}
	return updated, nil
}

// Save persiste un item modificado por una operación masiva.
// Devuelve false si el item ya no existe.
func (repository *Repository) Save(ctx context.Context, item menu.MenuItem) (bool, error) {
	if _, err := repository.Update(ctx, item); err != nil {
		if errors.Is(err, ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete elimina un item por id.
func (repository *Repository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM menu_items WHERE id = $1 RETURNING id;`

	var deletedID string
	if err := repository.database.QueryRow(ctx, query, id).Scan(&deletedID); err != nil {
		return mapError(err)
	}
	return nil
}

// DeleteOne elimina un item para una operación masiva.
// Devuelve false si el item ya no existe.
func (repository *Repository) DeleteOne(ctx context.Context, id string) (bool, error) {
	if err := repository.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (repository *Repository) queryItems(ctx context.Context, query string, args ...any) ([]menu.MenuItem, error) {
	rows, err := repository.database.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]menu.MenuItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (menu.MenuItem, error) {
	var item menu.MenuItem
	var rawPricing []byte
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.CategoryID, &item.SubcategoryID,
		&rawPricing, &item.Type, &item.Tags, &item.Order, &item.IsActive,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return menu.MenuItem{}, err
	}
	if err := json.Unmarshal(rawPricing, &item.Pricing); err != nil {
		return menu.MenuItem{}, fmt.Errorf("decode pricing of item %s: %w", item.ID, err)
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item, nil
}

// mapError traduce errores de pgx/Postgres a errores de dominio.
// Los demás se devuelven sin envolver.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorNotFound
	}
	var postgresError *pgconn.PgError
	if errors.As(err, &postgresError) {
		switch postgresError.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrorInvalidReference, postgresError.ConstraintName)
		case pgInvalidText:
			return ErrorInvalidInput
		}
	}
	return err
}
