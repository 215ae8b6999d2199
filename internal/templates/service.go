package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lelo88/menu-api-golang/internal/bulk"
	"github.com/Lelo88/menu-api-golang/internal/logging"
	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/Lelo88/menu-api-golang/internal/pricing"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrorInvalidInput  = errors.New("invalid input")
	ErrorNotFound      = errors.New("price template not found")
	ErrorDuplicateName = errors.New("price template name already exists")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RepositoryAPI es la persistencia que usa el service.
type RepositoryAPI interface {
	Insert(ctx context.Context, template PriceTemplate) (PriceTemplate, error)
	GetByID(ctx context.Context, id string) (PriceTemplate, error)
	List(ctx context.Context) ([]PriceTemplate, error)
	Delete(ctx context.Context, id string) error
}

// ItemResolver devuelve la proyección plana de la carta, inactivos incluidos.
type ItemResolver interface {
	AdminProjection(ctx context.Context) ([]menu.FlatItem, error)
}

// BulkRunner ejecuta un comando masivo ya armado.
type BulkRunner interface {
	Run(ctx context.Context, command bulk.Command) (bulk.Result, error)
}

// CacheInvalidator se avisa cuando aplicar una plantilla cambió precios.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Service administra plantillas de precios y las aplica.
type Service struct {
	repository  RepositoryAPI
	resolver    ItemResolver
	runner      BulkRunner
	invalidator CacheInvalidator
	logger      logrus.FieldLogger
}

type Option func(*Service)

func WithInvalidator(invalidator CacheInvalidator) Option {
	return func(service *Service) {
		service.invalidator = invalidator
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(service *Service) {
		service.logger = logger
	}
}

// NewService crea el service de plantillas.
func NewService(repository RepositoryAPI, resolver ItemResolver, runner BulkRunner, options ...Option) *Service {
	service := &Service{repository: repository, resolver: resolver, runner: runner, logger: logging.Discard()}
	for _, option := range options {
		option(service)
	}
	return service
}

// Create valida y guarda una plantilla.
func (service *Service) Create(ctx context.Context, input CreateTemplateInput) (PriceTemplate, error) {
	input = input.normalize()
	if err := validate.Struct(input); err != nil {
		return PriceTemplate{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}
	for _, reference := range input.Categories {
		if !validReference(reference) {
			return PriceTemplate{}, fmt.Errorf("%w: %q is neither a section nor a category id", ErrorInvalidInput, reference)
		}
	}
	if _, err := pricing.NewAdjustment(input.AdjustmentType, input.AdjustmentValue); err != nil {
		return PriceTemplate{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}

	return service.repository.Insert(ctx, input.toTemplate())
}

func (service *Service) List(ctx context.Context) ([]PriceTemplate, error) {
	return service.repository.List(ctx)
}

func (service *Service) Get(ctx context.Context, id string) (PriceTemplate, error) {
	return service.repository.GetByID(ctx, id)
}

func (service *Service) Delete(ctx context.Context, id string) error {
	return service.repository.Delete(ctx, id)
}

// Apply ajusta los precios de todos los items de las categorías de la
// plantilla. Un item que aparece por sección y por id se ajusta una vez.
func (service *Service) Apply(ctx context.Context, id string) (ApplyResult, error) {
	template, err := service.repository.GetByID(ctx, id)
	if err != nil {
		return ApplyResult{}, err
	}

	adjustment, err := pricing.NewAdjustment(template.AdjustmentType, template.AdjustmentValue)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}

	projection, err := service.resolver.AdminProjection(ctx)
	if err != nil {
		return ApplyResult{}, err
	}

	command := bulk.Command{
		Operation: bulk.UpdatePrices{Adjustment: adjustment},
		ItemIDs:   resolveItemIDs(projection, template.Categories),
	}
	result, err := service.runner.Run(ctx, command)
	if result.ItemsAffected > 0 && service.invalidator != nil {
		service.invalidator.Invalidate(context.WithoutCancel(ctx))
	}

	service.logger.WithFields(logrus.Fields{
		"template_id":    template.ID,
		"template":       template.Name,
		"requested":      result.Requested,
		"items_affected": result.ItemsAffected,
	}).Info("price template applied")

	return ApplyResult{TemplateID: template.ID, Result: result}, err
}

func resolveItemIDs(projection []menu.FlatItem, references []string) []string {
	ids := make([]string, 0)
	seen := make(map[string]struct{})
	for _, reference := range references {
		for _, item := range menu.FilterByCategory(projection, reference) {
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func validReference(reference string) bool {
	if _, err := menu.ParseSection(reference); err == nil {
		return true
	}
	_, err := uuid.Parse(reference)
	return err == nil
}
