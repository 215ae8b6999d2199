package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Lelo88/menu-api-golang/internal/bulk"
	"github.com/Lelo88/menu-api-golang/internal/logging"
	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorInvalidInput     = errors.New("invalid input")
	ErrorInvalidReference = errors.New("invalid category or subcategory reference")
	ErrorNotFound         = errors.New("item not found")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Límites de paginación del listado. MaxPage evita offsets que desbordan.
const (
	MaxLimit = 200
	MaxPage  = 10_000
)

// RepositoryAPI es la persistencia que usa el service.
// Incluye bulk.Store para las operaciones masivas.
type RepositoryAPI interface {
	bulk.Store
	Insert(ctx context.Context, item menu.MenuItem) (menu.MenuItem, error)
	GetByID(ctx context.Context, id string) (menu.MenuItem, error)
	List(ctx context.Context, filter ListFilter) ([]menu.MenuItem, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Update(ctx context.Context, item menu.MenuItem) (menu.MenuItem, error)
	Delete(ctx context.Context, id string) error
}

// SubcategoryLookup resuelve subcategorías para validar la pertenencia.
type SubcategoryLookup interface {
	FindSubcategory(ctx context.Context, id string) (menu.Subcategory, bool, error)
}

// CacheInvalidator se avisa después de cada escritura.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service contiene reglas de negocio de items.
type Service struct {
	repository    RepositoryAPI
	subcategories SubcategoryLookup
	executor      *bulk.Executor
	invalidator   CacheInvalidator
	logger        logrus.FieldLogger
}

// Option configura dependencias opcionales del service.
type Option func(*Service)

// WithInvalidator registra a quién avisar cuando cambian los items.
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

// NewService crea un service de items.
func NewService(repository RepositoryAPI, subcategories SubcategoryLookup, options ...Option) *Service {
	service := &Service{
		repository:    repository,
		subcategories: subcategories,
		logger:        logging.Discard(),
	}
	for _, option := range options {
		option(service)
	}
	service.executor = bulk.NewExecutor(repository, service.logger)
	return service
}

// Create valida reglas y crea el item.
func (service *Service) Create(ctx context.Context, input CreateItemInput) (menu.MenuItem, error) {
	input = input.normalized()
	if err := validate.Struct(input); err != nil {
		return menu.MenuItem{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}

	item := input.toItem()
	if err := service.validateItem(ctx, item); err != nil {
		return menu.MenuItem{}, err
	}

	created, err := service.repository.Insert(ctx, item)
	if err != nil {
		return menu.MenuItem{}, err
	}

	service.changed(ctx)
	service.logger.WithFields(logrus.Fields{"item_id": created.ID, "category_id": created.CategoryID}).Info("menu item created")
	return created, nil
}

// List devuelve una página de items con el total para paginar.
func (service *Service) List(ctx context.Context, page, limit int, query, categoryID string) ([]menu.MenuItem, int, error) {
	// Validación mínima: paginación no puede ser absurda.
	if page < 1 || page > MaxPage || limit < 1 || limit > MaxLimit {
		return nil, 0, ErrorInvalidInput
	}

	filter := ListFilter{
		Query:      strings.TrimSpace(query),
		CategoryID: strings.ToLower(strings.TrimSpace(categoryID)),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	items, err := service.repository.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := service.repository.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Get obtiene un item por id.
func (service *Service) Get(ctx context.Context, id string) (menu.MenuItem, error) {
	return service.repository.GetByID(ctx, id)
}

// Update aplica un PATCH. Lee el estado actual para validar la pertenencia
// de la subcategoría con los valores finales.
func (service *Service) Update(ctx context.Context, id string, input UpdateItemInput) (menu.MenuItem, error) {
	if input.IsEmpty() {
		return menu.MenuItem{}, ErrorInvalidInput
	}
	input = input.normalized()
	if err := validate.Struct(input); err != nil {
		return menu.MenuItem{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}

	current, err := service.repository.GetByID(ctx, id)
	if err != nil {
		return menu.MenuItem{}, err
	}

	next := input.applyTo(current)
	if err := service.validateItem(ctx, next); err != nil {
		return menu.MenuItem{}, err
	}

	updated, err := service.repository.Update(ctx, next)
	if err != nil {
		return menu.MenuItem{}, err
	}

	service.changed(ctx)
	return updated, nil
}

// Delete elimina un item por id.
func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repository.Delete(ctx, id); err != nil {
		return err
	}
	service.changed(ctx)
	service.logger.WithField("item_id", id).Info("menu item deleted")
	return nil
}

// Bulk ejecuta una operación masiva. Si el contexto se cancela a mitad,
// devuelve el resultado parcial junto con el error.
func (service *Service) Bulk(ctx context.Context, request bulk.Request) (bulk.Result, error) {
	result, err := service.executor.Execute(ctx, request)
	if result.ItemsAffected > 0 {
		service.changed(context.WithoutCancel(ctx))
	}
	return result, err
}

// Executor expone el executor para otros módulos (plantillas de precios).
func (service *Service) Executor() *bulk.Executor {
	return service.executor
}

// validateItem revisa lo que el validador de structs no cubre.
func (service *Service) validateItem(ctx context.Context, item menu.MenuItem) error {
	if item.Name == "" {
		return ErrorInvalidInput
	}
	if err := item.Pricing.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}
	if item.IsDirect() {
		return nil
	}

	subcategory, found, err := service.subcategories.FindSubcategory(ctx, *item.SubcategoryID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: subcategory %s does not exist", ErrorInvalidReference, *item.SubcategoryID)
	}
	if err := menu.CheckOwnership(item, subcategory); err != nil {
		return fmt.Errorf("%w: %w", ErrorInvalidReference, err)
	}
	return nil
}

func (service *Service) changed(ctx context.Context) {
	if service.invalidator != nil {
		service.invalidator.Invalidate(ctx)
	}
}
