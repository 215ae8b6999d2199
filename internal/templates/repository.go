package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// DB es lo mínimo que el repositorio necesita de pgxpool.Pool.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository accede a la tabla price_templates.
type Repository struct {
	database DB
}

// NewRepository crea un repositorio de plantillas.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

// adjustment_value se lee como texto para no perder precisión del numeric.
const templateColumns = `id, name, description, categories, adjustment_type, adjustment_value::text, created_at, updated_at`

const pgUniqueViolation = "23505"

// Insert crea una plantilla.
func (repository *Repository) Insert(ctx context.Context, template PriceTemplate) (PriceTemplate, error) {
	const query = `
		INSERT INTO price_templates (name, description, categories, adjustment_type, adjustment_value)
		VALUES ($1, $2, $3, $4, $5::numeric)
		RETURNING ` + templateColumns + `;
	`

	created, err := scanTemplate(repository.database.QueryRow(ctx, query,
		template.Name, template.Description, template.Categories,
		template.AdjustmentType, template.AdjustmentValue.String(),
	))
	if err != nil {
		return PriceTemplate{}, mapError(err)
	}
	return created, nil
}

// GetByID obtiene una plantilla por id.
func (repository *Repository) GetByID(ctx context.Context, id string) (PriceTemplate, error) {
	const query = `SELECT ` + templateColumns + ` FROM price_templates WHERE id = $1;`

	template, err := scanTemplate(repository.database.QueryRow(ctx, query, id))
	if err != nil {
		return PriceTemplate{}, mapError(err)
	}
	return template, nil
}

// List devuelve todas las plantillas por nombre.
func (repository *Repository) List(ctx context.Context) ([]PriceTemplate, error) {
	const query = `SELECT ` + templateColumns + ` FROM price_templates ORDER BY name;`

	rows, err := repository.database.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]PriceTemplate, 0)
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

// Delete elimina una plantilla por id.
func (repository *Repository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM price_templates WHERE id = $1 RETURNING id;`

	var deletedID string
	if err := repository.database.QueryRow(ctx, query, id).Scan(&deletedID); err != nil {
		return mapError(err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (PriceTemplate, error) {
	var template PriceTemplate
	var rawValue string
	err := row.Scan(
		&template.ID, &template.Name, &template.Description, &template.Categories,
		&template.AdjustmentType, &rawValue, &template.CreatedAt, &template.UpdatedAt,
	)
	if err != nil {
		return PriceTemplate{}, err
	}

	value, err := decimal.NewFromString(rawValue)
	if err != nil {
		return PriceTemplate{}, fmt.Errorf("decode adjustment of template %s: %w", template.ID, err)
	}
	template.AdjustmentValue = value
	if template.Categories == nil {
		template.Categories = []string{}
	}
	return template, nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorNotFound
	}
	var postgresError *pgconn.PgError
	if errors.As(err, &postgresError) && postgresError.Code == pgUniqueViolation {
		return ErrorDuplicateName
	}
	return err
}
