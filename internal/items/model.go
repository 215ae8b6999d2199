package items

import (
	"strings"

	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/Lelo88/menu-api-golang/internal/pricing"
)

// CreateItemInput es el payload para crear un item de la carta.
// Pricing se valida al decodificar: un discriminante o payload inválido
// falla antes de llegar al service.
type CreateItemInput struct {
	Name          string           `json:"name" validate:"required,max=120"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	CategoryID    string           `json:"categoryId" validate:"required,uuid"`
	SubcategoryID *string          `json:"subcategoryId,omitempty" validate:"omitempty,uuid"`
	Pricing       *pricing.Pricing `json:"pricing" validate:"required"`
	Type          *string          `json:"type,omitempty" validate:"omitempty,max=60"`
	Tags          []string         `json:"tags" validate:"max=20,dive,max=40"`
	Order         int              `json:"order" validate:"min=0"`
	IsActive      *bool            `json:"isActive,omitempty"`
}

// UpdateItemInput es el payload de PATCH. Los punteros nil no se tocan.
// Para los campos que admiten null, *Present distingue "no vino" de "vino null".
type UpdateItemInput struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=120"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	CategoryID    *string          `json:"categoryId,omitempty" validate:"omitempty,uuid"`
	SubcategoryID *string          `json:"subcategoryId,omitempty" validate:"omitempty,uuid"`
	Pricing       *pricing.Pricing `json:"pricing,omitempty"`
	Type          *string          `json:"type,omitempty" validate:"omitempty,max=60"`
	Tags          *[]string        `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=40"`
	Order         *int             `json:"order,omitempty" validate:"omitempty,min=0"`
	IsActive      *bool            `json:"isActive,omitempty"`

	DescriptionPresent   bool `json:"-"`
	SubcategoryIDPresent bool `json:"-"`
	TypePresent          bool `json:"-"`
}

// IsEmpty indica que el PATCH no trae ningún campo.
func (input UpdateItemInput) IsEmpty() bool {
	return input.Name == nil && !input.DescriptionPresent && input.Description == nil &&
		input.CategoryID == nil && !input.SubcategoryIDPresent && input.SubcategoryID == nil &&
		input.Pricing == nil && !input.TypePresent && input.Type == nil &&
		input.Tags == nil && input.Order == nil && input.IsActive == nil
}

// ListFilter filtra y pagina el listado de administración.
type ListFilter struct {
	Query      string
	CategoryID string
	Limit      int
	Offset     int
}

// normalized deja los ids en minúsculas y sin espacios; el validador de
// uuid solo acepta esa forma.
func (input CreateItemInput) normalized() CreateItemInput {
	input.CategoryID = strings.ToLower(strings.TrimSpace(input.CategoryID))
	input.SubcategoryID = lowerOrNil(input.SubcategoryID)
	return input
}

func (input UpdateItemInput) normalized() UpdateItemInput {
	if input.CategoryID != nil {
		categoryID := strings.ToLower(strings.TrimSpace(*input.CategoryID))
		input.CategoryID = &categoryID
	}
	input.SubcategoryID = lowerOrNil(input.SubcategoryID)
	return input
}

// toItem construye el item a persistir con los defaults de creación:
// order 0 e isActive true si no vienen. Espera un input ya normalizado.
func (input CreateItemInput) toItem() menu.MenuItem {
	item := menu.MenuItem{
		Name:          strings.TrimSpace(input.Name),
		Description:   trimmedOrNil(input.Description),
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
		Type:          trimmedOrNil(input.Type),
		Tags:          menu.NormalizeTags(input.Tags),
		Order:         input.Order,
		IsActive:      true,
	}
	if input.Pricing != nil {
		item.Pricing = *input.Pricing
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	return item
}

// applyTo devuelve current con los cambios del PATCH (ya normalizado) aplicados.
// Cambiar de categoría sin indicar subcategoría deja el item como directo,
// porque la subcategoría anterior pertenece a la categoría vieja.
func (input UpdateItemInput) applyTo(current menu.MenuItem) menu.MenuItem {
	next := current
	if input.Name != nil {
		next.Name = strings.TrimSpace(*input.Name)
	}
	if input.DescriptionPresent || input.Description != nil {
		next.Description = trimmedOrNil(input.Description)
	}
	if input.CategoryID != nil {
		categoryID := *input.CategoryID
		if categoryID != current.CategoryID && !input.SubcategoryIDPresent && input.SubcategoryID == nil {
			next.SubcategoryID = nil
		}
		next.CategoryID = categoryID
	}
	if input.SubcategoryIDPresent || input.SubcategoryID != nil {
		next.SubcategoryID = input.SubcategoryID
	}
	if input.Pricing != nil {
		next.Pricing = *input.Pricing
	}
	if input.TypePresent || input.Type != nil {
		next.Type = trimmedOrNil(input.Type)
	}
	if input.Tags != nil {
		next.Tags = menu.NormalizeTags(*input.Tags)
	}
	if input.Order != nil {
		next.Order = *input.Order
	}
	if input.IsActive != nil {
		next.IsActive = *input.IsActive
	}
	return next
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func lowerOrNil(value *string) *string {
	trimmed := trimmedOrNil(value)
	if trimmed == nil {
		return nil
	}
	lowered := strings.ToLower(*trimmed)
	return &lowered
}
