package menu

import "strings"

// AllCategories es el valor centinela del filtro de categoría.
const AllCategories = "all"

// FlatItem es un item con sus referencias ya resueltas, para listas de
// administración que filtran sin volver a recorrer el árbol.
type FlatItem struct {
	MenuItem
	Section         Section `json:"section"`
	CategoryName    string  `json:"categoryName"`
	SubcategoryName string  `json:"subcategoryName,omitempty"`
}

// Flatten es la inversa de AssembleTree. Por cada categoría emite primero
// los items de sus subcategorías y luego los directos; dentro de cada grupo
// se respeta el orden del árbol. No modifica el árbol.
func Flatten(tree []CategoryNode) []FlatItem {
	flat := make([]FlatItem, 0)
	for _, category := range tree {
		for _, subcategory := range category.Subcategories {
			subcategoryID := subcategory.ID
			for _, item := range subcategory.Items {
				item.CategoryID = category.ID
				item.SubcategoryID = &subcategoryID
				flat = append(flat, FlatItem{
					MenuItem:        item,
					Section:         category.Section,
					CategoryName:    category.Name,
					SubcategoryName: subcategory.Name,
				})
			}
		}
		for _, item := range category.Items {
			item.CategoryID = category.ID
			item.SubcategoryID = nil
			flat = append(flat, FlatItem{
				MenuItem:     item,
				Section:      category.Section,
				CategoryName: category.Name,
			})
		}
	}
	return flat
}

// Project aplana directamente un snapshot crudo.
func Project(snapshot Snapshot, options ...AssembleOption) []FlatItem {
	return Flatten(AssembleTree(snapshot, options...))
}

// FilterBySearch busca sin distinguir mayúsculas en nombre, descripción y
// etiquetas. Una búsqueda vacía no filtra.
func FilterBySearch(items []FlatItem, query string) []FlatItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}

	filtered := make([]FlatItem, 0, len(items))
	for _, item := range items {
		if matchesSearch(item.MenuItem, query) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func matchesSearch(item MenuItem, query string) bool {
	if strings.Contains(strings.ToLower(item.Name), query) {
		return true
	}
	if item.Description != nil && strings.Contains(strings.ToLower(*item.Description), query) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// FilterByCategory filtra por id de categoría o por sección.
// "" y "all" no filtran.
func FilterByCategory(items []FlatItem, reference string) []FlatItem {
	reference = strings.TrimSpace(reference)
	if reference == "" || reference == AllCategories {
		return items
	}

	filtered := make([]FlatItem, 0, len(items))
	for _, item := range items {
		if item.CategoryID == reference || string(item.Section) == reference {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// FilterByTag deja los items que tienen esa etiqueta (sin distinguir mayúsculas).
func FilterByTag(items []FlatItem, tag string) []FlatItem {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return items
	}

	filtered := make([]FlatItem, 0, len(items))
	for _, item := range items {
		if item.HasTag(tag) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// CountBySection cuenta items por sección; la clave "all" lleva el total.
func CountBySection(items []FlatItem) map[string]int {
	counts := map[string]int{AllCategories: len(items)}
	for _, section := range Sections {
		counts[string(section)] = 0
	}
	for _, item := range items {
		counts[string(item.Section)]++
	}
	return counts
}
