package categories

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Lelo88/menu-api-golang/internal/logging"
	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorInvalidInput     = errors.New("invalid input")
	ErrorInvalidReference = errors.New("category does not exist")
	ErrorNotFound         = errors.New("category or subcategory not found")
	ErrorDuplicateName    = errors.New("name already exists")
	ErrorHasChildren      = errors.New("category or subcategory still has children")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RepositoryAPI es la persistencia que usa el service.
type RepositoryAPI interface {
	InsertCategory(ctx context.Context, category menu.Category) (menu.Category, error)
	GetCategory(ctx context.Context, id string) (menu.Category, error)
	ListCategories(ctx context.Context) ([]menu.Category, error)
	UpdateCategory(ctx context.Context, category menu.Category) (menu.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	CountCategoryChildren(ctx context.Context, id string) (int, int, error)
	DeleteItemsByCategory(ctx context.Context, id string) (int, error)
	DeleteSubcategoriesByCategory(ctx context.Context, id string) (int, error)
	ReorderCategories(ctx context.Context, ids []string) error

	InsertSubcategory(ctx context.Context, subcategory menu.Subcategory) (menu.Subcategory, error)
	GetSubcategory(ctx context.Context, id string) (menu.Subcategory, error)
	ListSubcategories(ctx context.Context, categoryID string) ([]menu.Subcategory, error)
	UpdateSubcategory(ctx context.Context, subcategory menu.Subcategory) (menu.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id string) error
	CountSubcategoryItems(ctx context.Context, id string) (int, error)
	DeleteItemsBySubcategory(ctx context.Context, id string) (int, error)
	ReorderSubcategories(ctx context.Context, categoryID string, ids []string) error
}

// CacheInvalidator se avisa después de cada escritura.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service contiene reglas de negocio de categorías y subcategorías.
type Service struct {
	repository  RepositoryAPI
	invalidator CacheInvalidator
	logger      logrus.FieldLogger
}

// Option configura dependencias opcionales del service.
type Option func(*Service)

// WithInvalidator registra a quién avisar cuando cambia la estructura.
func WithInvalidator(invalidator CacheInvalidator) Option {
	return func(service *Service) {
		service.invalidator = invalidator
	}
}

// WithLogger reemplaza el logger (por defecto descarta).
func WithLogger(logger logrus.FieldLogger) Option {
	return func(service *Service) {
		service.logger = logger
	}
}

// NewService crea un service de categorías.
func NewService(repository RepositoryAPI, options ...Option) *Service {
	service := &Service{repository: repository, logger: logging.Discard()}
	for _, option := range options {
		option(service)
	}
	return service
}

// CreateCategory valida y crea una categoría.
func (service *Service) CreateCategory(ctx context.Context, input CreateCategoryInput) (menu.Category, error) {
	if err := validate.Struct(input); err != nil {
		return menu.Category{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}

	category := input.toCategory()
	if category.Name == "" {
		return menu.Category{}, ErrorInvalidInput
	}

	created, err := service.repository.InsertCategory(ctx, category)
	if err != nil {
		return menu.Category{}, err
	}

	service.changed(ctx)
	service.logger.WithFields(logrus.Fields{"category_id": created.ID, "section": created.Section}).Info("category created")
	return created, nil
}

// ListCategories devuelve todas las categorías para el panel.
func (service *Service) ListCategories(ctx context.Context) ([]menu.Category, error) {
	return service.repository.ListCategories(ctx)
}

// GetCategory obtiene una categoría.
func (service *Service) GetCategory(ctx context.Context, id string) (menu.Category, error) {
	return service.repository.GetCategory(ctx, id)
}

// UpdateCategory aplica un PATCH sobre la categoría actual.
func (service *Service) UpdateCategory(ctx context.Context, id string, input UpdateCategoryInput) (menu.Category, error) {
	if input.IsEmpty() {
		return menu.Category{}, ErrorInvalidInput
	}
	if err := validate.Struct(input); err != nil {
		return menu.Category{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}

	current, err := service.repository.GetCategory(ctx, id)
	if err != nil {
		return menu.Category{}, err
	}

	next := input.applyTo(current)
	if next.Name == "" {
		return menu.Category{}, ErrorInvalidInput
	}

	updated, err := service.repository.UpdateCategory(ctx, next)
	if err != nil {
		return menu.Category{}, err
	}

	service.changed(ctx)
	return updated, nil
}

// DeleteCategory borra una categoría. Con hijos falla con ErrorHasChildren,
// salvo cascade: entonces borra items, subcategorías y la categoría, en ese
// orden y sin transacción. Si un paso falla, el resultado dice lo ya borrado.
func (service *Service) DeleteCategory(ctx context.Context, id string, cascade bool) (DeleteResult, error) {
	subcategories, items, err := service.repository.CountCategoryChildren(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}
	if (subcategories > 0 || items > 0) && !cascade {
		return DeleteResult{}, fmt.Errorf("%w: %d subcategories, %d items", ErrorHasChildren, subcategories, items)
	}

	var result DeleteResult
	defer func() {
		if result != (DeleteResult{}) {
			service.changed(ctx)
		}
	}()

	if items > 0 {
		if result.Items, err = service.repository.DeleteItemsByCategory(ctx, id); err != nil {
			return result, err
		}
	}
	if subcategories > 0 {
		if result.Subcategories, err = service.repository.DeleteSubcategoriesByCategory(ctx, id); err != nil {
			return result, err
		}
	}
	if err := service.repository.DeleteCategory(ctx, id); err != nil {
		return result, err
	}
	result.Categories = 1

	service.logger.WithFields(logrus.Fields{
		"category_id":           id,
		"subcategories_deleted": result.Subcategories,
		"items_deleted":         result.Items,
	}).Info("category deleted")
	return result, nil
}

// ReorderCategories renumera order 0..n-1 según la lista recibida.
func (service *Service) ReorderCategories(ctx context.Context, input ReorderInput) error {
	input, err := validateReorder(input)
	if err != nil {
		return err
	}
	if err := service.repository.ReorderCategories(ctx, input.IDs); err != nil {
		return err
	}
	service.changed(ctx)
	return nil
}

// CreateSubcategory valida y crea una subcategoría.
func (service *Service) CreateSubcategory(ctx context.Context, input CreateSubcategoryInput) (menu.Subcategory, error) {
	input.CategoryID = normalizeID(input.CategoryID)
	if err := validate.Struct(input); err != nil {
		return menu.Subcategory{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}

	subcategory := input.toSubcategory()
	if subcategory.Name == "" {
		return menu.Subcategory{}, ErrorInvalidInput
	}

	created, err := service.repository.InsertSubcategory(ctx, subcategory)
	if err != nil {
		return menu.Subcategory{}, err
	}

	service.changed(ctx)
	service.logger.WithFields(logrus.Fields{"subcategory_id": created.ID, "category_id": created.CategoryID}).Info("subcategory created")
	return created, nil
}

// ListSubcategories devuelve las subcategorías, opcionalmente de una categoría.
func (service *Service) ListSubcategories(ctx context.Context, categoryID string) ([]menu.Subcategory, error) {
	return service.repository.ListSubcategories(ctx, categoryID)
}

// GetSubcategory obtiene una subcategoría.
func (service *Service) GetSubcategory(ctx context.Context, id string) (menu.Subcategory, error) {
	return service.repository.GetSubcategory(ctx, id)
}

// UpdateSubcategory aplica un PATCH sobre la subcategoría actual.
func (service *Service) UpdateSubcategory(ctx context.Context, id string, input UpdateSubcategoryInput) (menu.Subcategory, error) {
	if input.IsEmpty() {
		return menu.Subcategory{}, ErrorInvalidInput
	}
	if err := validate.Struct(input); err != nil {
		return menu.Subcategory{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}

	current, err := service.repository.GetSubcategory(ctx, id)
	if err != nil {
		return menu.Subcategory{}, err
	}

	next := input.applyTo(current)
	if next.Name == "" {
		return menu.Subcategory{}, ErrorInvalidInput
	}

	updated, err := service.repository.UpdateSubcategory(ctx, next)
	if err != nil {
		return menu.Subcategory{}, err
	}

	service.changed(ctx)
	return updated, nil
}

// DeleteSubcategory borra una subcategoría; con items requiere cascade.
func (service *Service) DeleteSubcategory(ctx context.Context, id string, cascade bool) (DeleteResult, error) {
	items, err := service.repository.CountSubcategoryItems(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}
	if items > 0 && !cascade {
		return DeleteResult{}, fmt.Errorf("%w: %d items", ErrorHasChildren, items)
	}

	var result DeleteResult
	defer func() {
		if result != (DeleteResult{}) {
			service.changed(ctx)
		}
	}()

	if items > 0 {
		if result.Items, err = service.repository.DeleteItemsBySubcategory(ctx, id); err != nil {
			return result, err
		}
	}
	if err := service.repository.DeleteSubcategory(ctx, id); err != nil {
		return result, err
	}
	result.Subcategories = 1

	service.logger.WithFields(logrus.Fields{"subcategory_id": id, "items_deleted": result.Items}).Info("subcategory deleted")
	return result, nil
}

// ReorderSubcategories renumera order 0..n-1 dentro de una categoría.
func (service *Service) ReorderSubcategories(ctx context.Context, input ReorderInput) error {
	input, err := validateReorder(input)
	if err != nil {
		return err
	}
	if input.CategoryID == "" {
		return fmt.Errorf("%w: categoryId is required", ErrorInvalidInput)
	}
	if err := service.repository.ReorderSubcategories(ctx, input.CategoryID, input.IDs); err != nil {
		return err
	}
	service.changed(ctx)
	return nil
}

// Lookup devuelve categorías y subcategorías activas, ordenadas, para los
// selectores. Una subcategoría de una categoría inactiva no aparece.
func (service *Service) Lookup(ctx context.Context) (Lookup, error) {
	categories, err := service.repository.ListCategories(ctx)
	if err != nil {
		return Lookup{}, err
	}
	subcategories, err := service.repository.ListSubcategories(ctx, "")
	if err != nil {
		return Lookup{}, err
	}

	lookup := Lookup{
		Categories:    make([]menu.Category, 0, len(categories)),
		Subcategories: make([]menu.Subcategory, 0, len(subcategories)),
	}
	active := make(map[string]bool, len(categories))
	for _, category := range categories {
		if category.IsActive {
			active[category.ID] = true
			lookup.Categories = append(lookup.Categories, category)
		}
	}
	for _, subcategory := range subcategories {
		if subcategory.IsActive && active[subcategory.CategoryID] {
			lookup.Subcategories = append(lookup.Subcategories, subcategory)
		}
	}

	menu.SortByOrder(lookup.Categories, func(category menu.Category) int { return category.Order })
	menu.SortByOrder(lookup.Subcategories, func(subcategory menu.Subcategory) int { return subcategory.Order })
	return lookup, nil
}

// FindSubcategory implementa la búsqueda que usan los items para validar
// la pertenencia. Una subcategoría inexistente no es un error.
func (service *Service) FindSubcategory(ctx context.Context, id string) (menu.Subcategory, bool, error) {
	subcategory, err := service.repository.GetSubcategory(ctx, id)
	if errors.Is(err, ErrorNotFound) {
		return menu.Subcategory{}, false, nil
	}
	if err != nil {
		return menu.Subcategory{}, false, err
	}
	return subcategory, true, nil
}

// validateReorder devuelve el input con los ids normalizados.
func validateReorder(input ReorderInput) (ReorderInput, error) {
	input.CategoryID = normalizeID(input.CategoryID)
	input.IDs = normalizeIDs(input.IDs)
	if err := validate.Struct(input); err != nil {
		return ReorderInput{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}
	for i, id := range input.IDs {
		if slices.Contains(input.IDs[:i], id) {
			return ReorderInput{}, fmt.Errorf("%w: duplicate id %s", ErrorInvalidInput, id)
		}
	}
	return input, nil
}

func (service *Service) changed(ctx context.Context) {
	if service.invalidator != nil {
		service.invalidator.Invalidate(ctx)
	}
}
