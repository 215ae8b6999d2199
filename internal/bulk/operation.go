package bulk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/Lelo88/menu-api-golang/internal/pricing"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Action es el nombre de la operación tal como llega por HTTP.
type Action string

const (
	ActionMakeAvailable   Action = "make_available"
	ActionMakeUnavailable Action = "make_unavailable"
	ActionAddTag          Action = "add_tag"
	ActionRemoveTag       Action = "remove_tag"
	ActionUpdatePrices    Action = "update_prices"
	ActionDelete          Action = "delete"
)

// Errores de validación. Ninguno deja cambios a medias: se detectan antes
// de leer o escribir un solo item.
var (
	ErrorInvalidInput         = errors.New("invalid bulk request")
	ErrorUnsupportedOperation = errors.New("unsupported bulk operation")
	ErrorMissingPayload       = errors.New("missing bulk payload")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request es el payload de POST /admin/items/bulk.
type Request struct {
	Action  string   `json:"action" validate:"required"`
	ItemIDs []string `json:"itemIds" validate:"required,dive,uuid"`
	Updates *Updates `json:"updates,omitempty"`
}

// Updates lleva el payload específico de cada operación.
type Updates struct {
	Tag         string       `json:"tag,omitempty"`
	PriceChange *PriceChange `json:"priceChange,omitempty"`
}

// PriceChange describe un ajuste de precios; Value puede ser negativo.
type PriceChange struct {
	Type  string          `json:"type" validate:"required,oneof=percentage fixed"`
	Value decimal.Decimal `json:"value"`
}

// Operation es el conjunto cerrado de operaciones masivas.
type Operation interface {
	Action() Action
	sealed()
}

type MakeAvailable struct{}

type MakeUnavailable struct{}

type AddTag struct {
	Tag string
}

type RemoveTag struct {
	Tag string
}

type UpdatePrices struct {
	Adjustment pricing.Adjustment
}

type Delete struct{}

func (MakeAvailable) Action() Action   { return ActionMakeAvailable }
func (MakeUnavailable) Action() Action { return ActionMakeUnavailable }
func (AddTag) Action() Action          { return ActionAddTag }
func (RemoveTag) Action() Action       { return ActionRemoveTag }
func (UpdatePrices) Action() Action    { return ActionUpdatePrices }
func (Delete) Action() Action          { return ActionDelete }

func (MakeAvailable) sealed()   {}
func (MakeUnavailable) sealed() {}
func (AddTag) sealed()          {}
func (RemoveTag) sealed()       {}
func (UpdatePrices) sealed()    {}
func (Delete) sealed()          {}

// Command es una Request ya validada.
type Command struct {
	Operation Operation
	ItemIDs   []string
}

// Parse valida la request completa y la convierte en Command.
// Los ids duplicados se colapsan conservando el primer orden de aparición.
func Parse(request Request) (Command, error) {
	request.Action = strings.TrimSpace(request.Action)
	request.ItemIDs = normalizeIDs(request.ItemIDs)
	if err := validate.Struct(request); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}

	operation, err := parseOperation(Action(request.Action), request.Updates)
	if err != nil {
		return Command{}, err
	}

	ids := make([]string, 0, len(request.ItemIDs))
	seen := make(map[string]struct{}, len(request.ItemIDs))
	for _, id := range request.ItemIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return Command{Operation: operation, ItemIDs: ids}, nil
}

// normalizeIDs acepta UUIDs en mayúsculas o con espacios; el validador
// solo reconoce la forma canónica.
func normalizeIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	normalized := make([]string, len(ids))
	for index, id := range ids {
		normalized[index] = strings.ToLower(strings.TrimSpace(id))
	}
	return normalized
}

func parseOperation(action Action, updates *Updates) (Operation, error) {
	switch action {
	case ActionMakeAvailable:
		return MakeAvailable{}, nil
	case ActionMakeUnavailable:
		return MakeUnavailable{}, nil
	case ActionAddTag, ActionRemoveTag:
		if updates == nil || strings.TrimSpace(updates.Tag) == "" {
			return nil, fmt.Errorf("%w: tag required for %s", ErrorMissingPayload, action)
		}
		tag := menu.NormalizeTag(updates.Tag)
		if action == ActionAddTag {
			return AddTag{Tag: tag}, nil
		}
		return RemoveTag{Tag: tag}, nil
	case ActionUpdatePrices:
		if updates == nil || updates.PriceChange == nil {
			return nil, fmt.Errorf("%w: price change required for %s", ErrorMissingPayload, action)
		}
		if err := validate.Struct(updates.PriceChange); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
		}
		adjustment, err := pricing.NewAdjustment(updates.PriceChange.Type, updates.PriceChange.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
		}
		return UpdatePrices{Adjustment: adjustment}, nil
	case ActionDelete:
		return Delete{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrorUnsupportedOperation, action)
	}
}
