package catalog

import (
	"context"

	"github.com/Lelo88/menu-api-golang/internal/menu"
)

// SnapshotSource entrega las tres colecciones completas de la carta.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (menu.Snapshot, error)
}

// StructureLister lee categorías y subcategorías (categories.Repository).
type StructureLister interface {
	ListCategories(ctx context.Context) ([]menu.Category, error)
	ListSubcategories(ctx context.Context, categoryID string) ([]menu.Subcategory, error)
}

// ItemLister lee todos los items (items.Repository).
type ItemLister interface {
	ListAll(ctx context.Context) ([]menu.MenuItem, error)
}

// RepositorySource arma el snapshot leyendo los repositorios uno tras otro.
// Las lecturas no son atómicas entre sí; el ensamblado descarta las
// referencias colgantes que eso pueda producir.
type RepositorySource struct {
	structure StructureLister
	items     ItemLister
}

// NewRepositorySource crea un SnapshotSource sobre los repositorios.
func NewRepositorySource(structure StructureLister, items ItemLister) *RepositorySource {
	return &RepositorySource{structure: structure, items: items}
}

// Snapshot lee categorías, subcategorías e items.
func (source *RepositorySource) Snapshot(ctx context.Context) (menu.Snapshot, error) {
	categories, err := source.structure.ListCategories(ctx)
	if err != nil {
		return menu.Snapshot{}, err
	}
	subcategories, err := source.structure.ListSubcategories(ctx, "")
	if err != nil {
		return menu.Snapshot{}, err
	}
	items, err := source.items.ListAll(ctx)
	if err != nil {
		return menu.Snapshot{}, err
	}
	return menu.Snapshot{Categories: categories, Subcategories: subcategories, Items: items}, nil
}
