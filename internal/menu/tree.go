package menu

import (
	"cmp"
	"slices"

	"github.com/Lelo88/menu-api-golang/internal/pricing"
)

// SubcategoryNode es una subcategoría con sus items ordenados.
type SubcategoryNode struct {
	Subcategory
	Items []MenuItem `json:"items"`
}

// CategoryNode es una categoría con sus subcategorías y sus items directos.
type CategoryNode struct {
	Category
	Subcategories []SubcategoryNode `json:"subcategories"`
	Items         []MenuItem        `json:"items"`
}

type assembleConfig struct {
	includeInactive bool
}

// AssembleOption modifica qué registros entran en el árbol.
type AssembleOption func(*assembleConfig)

// IncludeInactive incluye registros con IsActive=false (vista de administración).
func IncludeInactive() AssembleOption {
	return func(config *assembleConfig) {
		config.includeInactive = true
	}
}

// SortByOrder ordena por order ascendente de forma estable:
// a igual order se conserva el orden de entrada.
func SortByOrder[T any](values []T, order func(T) int) {
	slices.SortStableFunc(values, func(a, b T) int {
		return cmp.Compare(order(a), order(b))
	})
}

// AssembleTree arma el árbol Categoría → Subcategoría → Item.
//
// Las referencias colgantes se descartan en silencio: un item cuya categoría
// no existe (o está inactiva), o cuya subcategoría no existe o es de otra
// categoría, no aparece. Las categorías sin hijos aparecen con listas vacías.
// No modifica el snapshot.
func AssembleTree(snapshot Snapshot, options ...AssembleOption) []CategoryNode {
	var config assembleConfig
	for _, option := range options {
		option(&config)
	}
	visible := func(active bool) bool {
		return config.includeInactive || active
	}

	categories := make([]Category, 0, len(snapshot.Categories))
	categoryIDs := make(map[string]struct{}, len(snapshot.Categories))
	for _, category := range snapshot.Categories {
		if !visible(category.IsActive) {
			continue
		}
		categories = append(categories, category)
		categoryIDs[category.ID] = struct{}{}
	}
	SortByOrder(categories, func(category Category) int { return category.Order })

	subcategories := make([]Subcategory, 0, len(snapshot.Subcategories))
	for _, subcategory := range snapshot.Subcategories {
		if !visible(subcategory.IsActive) {
			continue
		}
		if _, ok := categoryIDs[subcategory.CategoryID]; !ok {
			continue
		}
		subcategories = append(subcategories, subcategory)
	}
	SortByOrder(subcategories, func(subcategory Subcategory) int { return subcategory.Order })

	items := make([]MenuItem, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		if visible(item.IsActive) {
			items = append(items, item)
		}
	}
	SortByOrder(items, func(item MenuItem) int { return item.Order })

	// Una sola pasada: directos por categoría, indirectos por subcategoría.
	direct := make(map[string][]MenuItem)
	indirect := make(map[string][]MenuItem)
	for _, item := range items {
		if _, ok := categoryIDs[item.CategoryID]; !ok {
			continue
		}
		if item.IsDirect() {
			direct[item.CategoryID] = append(direct[item.CategoryID], item)
			continue
		}
		indirect[*item.SubcategoryID] = append(indirect[*item.SubcategoryID], item)
	}

	subcategoryNodes := make(map[string][]SubcategoryNode)
	for _, subcategory := range subcategories {
		node := SubcategoryNode{Subcategory: subcategory, Items: []MenuItem{}}
		for _, item := range indirect[subcategory.ID] {
			if item.CategoryID == subcategory.CategoryID {
				node.Items = append(node.Items, item)
			}
		}
		subcategoryNodes[subcategory.CategoryID] = append(subcategoryNodes[subcategory.CategoryID], node)
	}

	tree := make([]CategoryNode, 0, len(categories))
	for _, category := range categories {
		node := CategoryNode{
			Category:      category,
			Subcategories: subcategoryNodes[category.ID],
			Items:         direct[category.ID],
		}
		if node.Subcategories == nil {
			node.Subcategories = []SubcategoryNode{}
		}
		if node.Items == nil {
			node.Items = []MenuItem{}
		}
		tree = append(tree, node)
	}

	return tree
}

// ResolvePrices completa DisplayPrice (tamaño por defecto) y HasSizeVariants
// de cada item del árbol. Modifica el árbol recibido.
func ResolvePrices(tree []CategoryNode) {
	resolve := func(items []MenuItem) {
		for index := range items {
			items[index].DisplayPrice = pricing.ResolveDisplayPrice(items[index].Pricing, "")
			items[index].HasSizeVariants = pricing.HasSizeVariants(items[index].Pricing)
		}
	}
	for _, category := range tree {
		resolve(category.Items)
		for _, subcategory := range category.Subcategories {
			resolve(subcategory.Items)
		}
	}
}

// GroupBySection devuelve la primera categoría de cada sección, como la
// consume la carta pública. Las secciones sin categoría quedan en nil.
func GroupBySection(tree []CategoryNode) map[Section]*CategoryNode {
	grouped := make(map[Section]*CategoryNode, len(Sections))
	for _, section := range Sections {
		grouped[section] = nil
	}
	for index := range tree {
		if grouped[tree[index].Section] == nil {
			grouped[tree[index].Section] = &tree[index]
		}
	}
	return grouped
}
