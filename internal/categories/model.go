package categories

import (
	"strings"

	"github.com/Lelo88/menu-api-golang/internal/menu"
)

// CreateCategoryInput es el payload para crear una categoría.
type CreateCategoryInput struct {
	Name     string `json:"name" validate:"required,max=80"`
	Emoji    string `json:"emoji" validate:"max=16"`
	Section  string `json:"section" validate:"required,oneof=hamburger food drinks desserts info"`
	Order    int    `json:"order" validate:"min=0"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// UpdateCategoryInput es el payload de PATCH. Los punteros nil no se tocan.
// Desactivar una categoría no desactiva sus hijos.
type UpdateCategoryInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=80"`
	Emoji    *string `json:"emoji,omitempty" validate:"omitempty,max=16"`
	Section  *string `json:"section,omitempty" validate:"omitempty,oneof=hamburger food drinks desserts info"`
	Order    *int    `json:"order,omitempty" validate:"omitempty,min=0"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// IsEmpty indica que el PATCH no trae ningún campo.
func (input UpdateCategoryInput) IsEmpty() bool {
	return input.Name == nil && input.Emoji == nil && input.Section == nil && input.Order == nil && input.IsActive == nil
}

// CreateSubcategoryInput es el payload para crear una subcategoría.
type CreateSubcategoryInput struct {
	Name       string `json:"name" validate:"required,max=80"`
	CategoryID string `json:"categoryId" validate:"required,uuid"`
	Order      int    `json:"order" validate:"min=0"`
	IsActive   *bool  `json:"isActive,omitempty"`
}

// UpdateSubcategoryInput es el payload de PATCH de una subcategoría.
// La categoría padre no se puede cambiar: los items apuntan al par
// (categoría, subcategoría).
type UpdateSubcategoryInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=80"`
	Order    *int    `json:"order,omitempty" validate:"omitempty,min=0"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// IsEmpty indica que el PATCH no trae ningún campo.
func (input UpdateSubcategoryInput) IsEmpty() bool {
	return input.Name == nil && input.Order == nil && input.IsActive == nil
}

// ReorderInput trae los ids en el orden deseado; order queda 0..n-1.
// CategoryID solo aplica a subcategorías.
type ReorderInput struct {
	CategoryID string   `json:"categoryId,omitempty" validate:"omitempty,uuid"`
	IDs        []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

// Lookup es la respuesta de GET /categories para los selectores.
type Lookup struct {
	Categories    []menu.Category    `json:"categories"`
	Subcategories []menu.Subcategory `json:"subcategories"`
}

// DeleteResult informa cuánto se borró en un borrado en cascada.
type DeleteResult struct {
	Categories    int `json:"categoriesDeleted"`
	Subcategories int `json:"subcategoriesDeleted"`
	Items         int `json:"itemsDeleted"`
}

func (input CreateCategoryInput) toCategory() menu.Category {
	category := menu.Category{
		Name:     strings.TrimSpace(input.Name),
		Emoji:    strings.TrimSpace(input.Emoji),
		Section:  menu.Section(strings.TrimSpace(input.Section)),
		Order:    input.Order,
		IsActive: true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	return category
}

func (input UpdateCategoryInput) applyTo(current menu.Category) menu.Category {
	next := current
	if input.Name != nil {
		next.Name = strings.TrimSpace(*input.Name)
	}
	if input.Emoji != nil {
		next.Emoji = strings.TrimSpace(*input.Emoji)
	}
	if input.Section != nil {
		next.Section = menu.Section(strings.TrimSpace(*input.Section))
	}
	if input.Order != nil {
		next.Order = *input.Order
	}
	if input.IsActive != nil {
		next.IsActive = *input.IsActive
	}
	return next
}

func (input CreateSubcategoryInput) toSubcategory() menu.Subcategory {
	subcategory := menu.Subcategory{
		Name:       strings.TrimSpace(input.Name),
		CategoryID: input.CategoryID,
		Order:      input.Order,
		IsActive:   true,
	}
	if input.IsActive != nil {
		subcategory.IsActive = *input.IsActive
	}
	return subcategory
}

func (input UpdateSubcategoryInput) applyTo(current menu.Subcategory) menu.Subcategory {
	next := current
	if input.Name != nil {
		next.Name = strings.TrimSpace(*input.Name)
	}
	if input.Order != nil {
		next.Order = *input.Order
	}
	if input.IsActive != nil {
		next.IsActive = *input.IsActive
	}
	return next
}

// normalizeID deja un UUID en la forma que acepta el validador.
func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func normalizeIDs(ids []string) []string {
	normalized := make([]string, len(ids))
	for i, id := range ids {
		normalized[i] = normalizeID(id)
	}
	return normalized
}
