package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Lelo88/menu-api-golang/internal/categories"
	"github.com/Lelo88/menu-api-golang/internal/items"
	"github.com/Lelo88/menu-api-golang/internal/logging"
	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/Lelo88/menu-api-golang/internal/pricing"
)

// CategoryWriter crea categorías y subcategorías con las mismas reglas que la API.
type CategoryWriter interface {
	CreateCategory(ctx context.Context, input categories.CreateCategoryInput) (menu.Category, error)
	CreateSubcategory(ctx context.Context, input categories.CreateSubcategoryInput) (menu.Subcategory, error)
}

// ItemWriter crea items de la carta.
type ItemWriter interface {
	Create(ctx context.Context, input items.CreateItemInput) (menu.MenuItem, error)
}

// Stats cuenta lo que se cargó.
type Stats struct {
	Categories    int `json:"categories"`
	Subcategories int `json:"subcategories"`
	Items         int `json:"items"`
}

// Seeder carga una carta pasando por los services, así los datos iniciales
// cumplen las mismas validaciones que los que llegan por el back-office.
type Seeder struct {
	categories CategoryWriter
	items      ItemWriter
	logger     logrus.FieldLogger
}

// NewSeeder crea el seeder. logger nil descarta los mensajes.
func NewSeeder(categoryWriter CategoryWriter, itemWriter ItemWriter, logger logrus.FieldLogger) *Seeder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Seeder{categories: categoryWriter, items: itemWriter, logger: logger}
}

// Run crea cada categoría en orden (1..n), sus subcategorías (0..n-1) y sus
// items. Los items directos numeran su orden por categoría y los de una
// subcategoría por subcategoría. Se detiene en el primer error.
func (seeder *Seeder) Run(ctx context.Context, data []Category) (Stats, error) {
	var stats Stats

	for position, entry := range data {
		category, err := seeder.categories.CreateCategory(ctx, categories.CreateCategoryInput{
			Name:    entry.Name,
			Emoji:   entry.Emoji,
			Section: string(entry.Section),
			Order:   position + 1,
		})
		if err != nil {
			return stats, fmt.Errorf("create category %q: %w", entry.Name, err)
		}
		stats.Categories++

		subcategoryIDs := make(map[string]string, len(entry.Subcategories))
		for order, name := range entry.Subcategories {
			subcategory, err := seeder.categories.CreateSubcategory(ctx, categories.CreateSubcategoryInput{
				Name:       name,
				CategoryID: category.ID,
				Order:      order,
			})
			if err != nil {
				return stats, fmt.Errorf("create subcategory %q: %w", name, err)
			}
			subcategoryIDs[name] = subcategory.ID
			stats.Subcategories++
		}

		orders := make(map[string]int)
		for _, item := range entry.Items {
			input, err := item.toInput(category.ID, subcategoryIDs)
			if err != nil {
				return stats, fmt.Errorf("item %q: %w", item.Name, err)
			}
			input.Order = orders[item.Subcategory]
			orders[item.Subcategory]++

			if _, err := seeder.items.Create(ctx, input); err != nil {
				return stats, fmt.Errorf("create item %q: %w", item.Name, err)
			}
			stats.Items++
		}

		seeder.logger.WithFields(logrus.Fields{
			"category":      entry.Name,
			"subcategories": len(entry.Subcategories),
			"items":         len(entry.Items),
		}).Info("category seeded")
	}

	return stats, nil
}

func (item Item) toInput(categoryID string, subcategoryIDs map[string]string) (items.CreateItemInput, error) {
	price, err := pricing.New(item.Kind, item.Price)
	if err != nil {
		return items.CreateItemInput{}, err
	}

	input := items.CreateItemInput{
		Name:       item.Name,
		CategoryID: categoryID,
		Pricing:    &price,
		Tags:       item.Tags,
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}
	if description := strings.TrimSpace(item.Description); description != "" {
		input.Description = &description
	}
	if item.Type != "" {
		kind := item.Type
		input.Type = &kind
	}
	if item.Subcategory != "" {
		id, ok := subcategoryIDs[item.Subcategory]
		if !ok {
			return items.CreateItemInput{}, fmt.Errorf("unknown subcategory %q", item.Subcategory)
		}
		input.SubcategoryID = &id
	}
	return input, nil
}
