package menu

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Lelo88/menu-api-golang/internal/pricing"
)

// Section agrupa categorías en la carta pública.
type Section string

const (
	SectionHamburger Section = "hamburger"
	SectionFood      Section = "food"
	SectionDrinks    Section = "drinks"
	SectionDesserts  Section = "desserts"
	SectionInfo      Section = "info"
)

// Sections en el orden en que se muestran.
var Sections = []Section{SectionHamburger, SectionFood, SectionDrinks, SectionDesserts, SectionInfo}

var (
	ErrorInvalidSection       = errors.New("invalid section")
	ErrorSubcategoryOwnership = errors.New("subcategory belongs to another category")
)

// ParseSection valida una sección recibida como texto.
func ParseSection(raw string) (Section, error) {
	section := Section(strings.TrimSpace(raw))
	if slices.Contains(Sections, section) {
		return section, nil
	}
	return "", fmt.Errorf("%w: %q", ErrorInvalidSection, raw)
}

// Category es una categoría de primer nivel de la carta.
// IsActive=false es el borrado lógico: no aparece en la carta pública.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	Section   Section   `json:"section"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Subcategory pertenece exclusivamente a una Category.
// Order se interpreta dentro de la categoría padre.
type Subcategory struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CategoryID string    `json:"categoryId"`
	Order      int       `json:"order"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MenuItem es un plato o bebida.
// Si SubcategoryID está presente, la subcategoría debe ser de CategoryID.
type MenuItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	CategoryID    string          `json:"categoryId"`
	SubcategoryID *string         `json:"subcategoryId,omitempty"`
	Pricing       pricing.Pricing `json:"pricing"`
	Type          *string         `json:"type,omitempty"`
	Tags          []string        `json:"tags"`
	Order         int             `json:"order"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Derivados del precio para la carta pública; ver ResolvePrices.
	DisplayPrice    string `json:"displayPrice,omitempty"`
	HasSizeVariants bool   `json:"hasSizeVariants,omitempty"`
}

// IsDirect indica que el item cuelga directamente de la categoría.
func (item MenuItem) IsDirect() bool {
	return item.SubcategoryID == nil || *item.SubcategoryID == ""
}

// HasTag indica si el item tiene la etiqueta, sin distinguir mayúsculas.
func (item MenuItem) HasTag(tag string) bool {
	return slices.ContainsFunc(item.Tags, func(existing string) bool {
		return strings.EqualFold(existing, tag)
	})
}

// CheckOwnership valida el invariante item.CategoryID == subcategory.CategoryID.
func CheckOwnership(item MenuItem, subcategory Subcategory) error {
	if item.IsDirect() {
		return nil
	}
	if *item.SubcategoryID != subcategory.ID || subcategory.CategoryID != item.CategoryID {
		return ErrorSubcategoryOwnership
	}
	return nil
}

// NormalizeTags recorta, pasa a minúsculas, descarta vacíos y elimina
// duplicados. Las etiquetas son un conjunto: el orden no tiene significado.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = NormalizeTag(tag)
		if tag == "" || slices.Contains(normalized, tag) {
			continue
		}
		normalized = append(normalized, tag)
	}
	return normalized
}

// NormalizeTag es la forma persistida de una etiqueta.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Snapshot son las tres colecciones leídas de la persistencia.
type Snapshot struct {
	Categories    []Category
	Subcategories []Subcategory
	Items         []MenuItem
}
