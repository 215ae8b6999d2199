package templates

import (
	"strings"
	"time"

	"github.com/Lelo88/menu-api-golang/internal/bulk"
	"github.com/shopspring/decimal"
)

// PriceTemplate es un ajuste de precios guardado para reutilizar,
// por ejemplo "+10% bebidas en verano".
// Categories acepta secciones ("drinks") o ids de categoría.
type PriceTemplate struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Categories      []string        `json:"categories"`
	AdjustmentType  string          `json:"adjustmentType"`
	AdjustmentValue decimal.Decimal `json:"adjustmentValue"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CreateTemplateInput es el payload de POST /admin/pricing/templates.
type CreateTemplateInput struct {
	Name            string          `json:"name" validate:"required,max=120"`
	Description     string          `json:"description" validate:"max=500"`
	Categories      []string        `json:"categories" validate:"required,min=1,dive,required"`
	AdjustmentType  string          `json:"adjustmentType" validate:"required,oneof=percentage fixed"`
	AdjustmentValue decimal.Decimal `json:"adjustmentValue"`
}

// ApplyResult es la respuesta de aplicar una plantilla.
type ApplyResult struct {
	TemplateID string `json:"templateId"`
	bulk.Result
}

func (input CreateTemplateInput) normalize() CreateTemplateInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.AdjustmentType = strings.TrimSpace(input.AdjustmentType)

	references := make([]string, 0, len(input.Categories))
	seen := make(map[string]struct{}, len(input.Categories))
	for _, reference := range input.Categories {
		reference = strings.ToLower(strings.TrimSpace(reference))
		if _, ok := seen[reference]; ok {
			continue
		}
		seen[reference] = struct{}{}
		references = append(references, reference)
	}
	input.Categories = references
	return input
}

func (input CreateTemplateInput) toTemplate() PriceTemplate {
	return PriceTemplate{
		Name:            input.Name,
		Description:     input.Description,
		Categories:      input.Categories,
		AdjustmentType:  input.AdjustmentType,
		AdjustmentValue: input.AdjustmentValue,
	}
}
