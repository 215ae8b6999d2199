package bulk

import (
	"context"
	"time"

	"github.com/Lelo88/menu-api-golang/internal/logging"
	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/sirupsen/logrus"
)

// Store es la persistencia que necesita el executor.
// Save y DeleteOne devuelven false si el item ya no existe.
type Store interface {
	GetMany(ctx context.Context, ids []string) ([]menu.MenuItem, error)
	Save(ctx context.Context, item menu.MenuItem) (bool, error)
	DeleteOne(ctx context.Context, id string) (bool, error)
}

// ItemError identifica un item que no se modificó y el motivo.
type ItemError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Result resume una ejecución. Matched cuenta los items encontrados;
// ItemsAffected solo los que realmente cambiaron o se borraron.
type Result struct {
	Action        Action      `json:"action"`
	Requested     int         `json:"requested"`
	Matched       int         `json:"matched"`
	ItemsAffected int         `json:"itemsAffected"`
	NotFound      []string    `json:"notFound"`
	Skipped       []ItemError `json:"skipped"`
	Failed        []ItemError `json:"failed"`
}

func newResult(command Command) Result {
	return Result{
		Action:    command.Operation.Action(),
		Requested: len(command.ItemIDs),
		NotFound:  []string{},
		Skipped:   []ItemError{},
		Failed:    []ItemError{},
	}
}

// Executor ejecuta operaciones masivas item por item.
// No hay transacción: si un item falla, los anteriores quedan escritos.
type Executor struct {
	store  Store
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewExecutor crea un executor; logger nil descarta los logs.
func NewExecutor(store Store, logger logrus.FieldLogger) *Executor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Executor{store: store, logger: logger, now: time.Now}
}

// Execute valida la request y la ejecuta.
func (executor *Executor) Execute(ctx context.Context, request Request) (Result, error) {
	command, err := Parse(request)
	if err != nil {
		return Result{}, err
	}
	return executor.Run(ctx, command)
}

// Run ejecuta un Command ya validado. Un conjunto vacío no toca la persistencia.
// Si el contexto se cancela a mitad, devuelve lo hecho hasta entonces junto
// con el error del contexto.
func (executor *Executor) Run(ctx context.Context, command Command) (Result, error) {
	result := newResult(command)
	if len(command.ItemIDs) == 0 {
		return result, nil
	}

	items, err := executor.store.GetMany(ctx, command.ItemIDs)
	if err != nil {
		return Result{}, err
	}

	found := make(map[string]menu.MenuItem, len(items))
	for _, item := range items {
		found[item.ID] = item
	}

	for _, id := range command.ItemIDs {
		if err := ctx.Err(); err != nil {
			executor.log(result).WithError(err).Warn("bulk operation interrupted")
			return result, err
		}

		item, ok := found[id]
		if !ok {
			result.NotFound = append(result.NotFound, id)
			continue
		}
		result.Matched++

		next, outcome, err := Apply(item, command.Operation)
		switch outcome {
		case Unchanged:
			continue
		case Skipped:
			result.Skipped = append(result.Skipped, ItemError{ID: id, Reason: err.Error()})
			continue
		}

		var existed bool
		if outcome == Deleted {
			existed, err = executor.store.DeleteOne(ctx, id)
		} else {
			next.UpdatedAt = executor.now().UTC()
			existed, err = executor.store.Save(ctx, next)
		}
		switch {
		case err != nil:
			result.Failed = append(result.Failed, ItemError{ID: id, Reason: err.Error()})
		case !existed:
			// Borrado por otra escritura entre la lectura y la escritura.
			result.Matched--
			result.NotFound = append(result.NotFound, id)
		default:
			result.ItemsAffected++
		}
	}

	executor.log(result).Info("bulk operation completed")
	return result, nil
}

func (executor *Executor) log(result Result) logrus.FieldLogger {
	return executor.logger.WithFields(logrus.Fields{
		"action":         result.Action,
		"requested":      result.Requested,
		"matched":        result.Matched,
		"items_affected": result.ItemsAffected,
		"skipped":        len(result.Skipped),
		"failed":         len(result.Failed),
	})
}
