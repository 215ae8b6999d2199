package bulk

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Lelo88/menu-api-golang/internal/menu"
	"github.com/Lelo88/menu-api-golang/internal/pricing"
)

// Outcome es el efecto de una operación sobre un item concreto.
type Outcome int

const (
	Unchanged Outcome = iota
	Modified
	Deleted
	Skipped
)

func (outcome Outcome) String() string {
	switch outcome {
	case Unchanged:
		return "unchanged"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(outcome))
	}
}

// Apply calcula el siguiente estado de un item. No tiene efectos: quien
// llama decide si persistir. Aplicar dos veces la misma operación (salvo
// update_prices) deja el item como tras la primera.
//
// Con Skipped el error indica el motivo y el item se devuelve intacto.
func Apply(item menu.MenuItem, operation Operation) (menu.MenuItem, Outcome, error) {
	switch op := operation.(type) {
	case MakeAvailable:
		if item.IsActive {
			return item, Unchanged, nil
		}
		item.IsActive = true
		return item, Modified, nil

	case MakeUnavailable:
		if !item.IsActive {
			return item, Unchanged, nil
		}
		item.IsActive = false
		return item, Modified, nil

	case AddTag:
		if item.HasTag(op.Tag) {
			return item, Unchanged, nil
		}
		tags := make([]string, 0, len(item.Tags)+1)
		tags = append(tags, item.Tags...)
		item.Tags = append(tags, op.Tag)
		return item, Modified, nil

	case RemoveTag:
		if !item.HasTag(op.Tag) {
			return item, Unchanged, nil
		}
		item.Tags = slices.DeleteFunc(slices.Clone(item.Tags), func(tag string) bool {
			return strings.EqualFold(tag, op.Tag)
		})
		return item, Modified, nil

	case UpdatePrices:
		adjusted, err := pricing.Adjust(item.Pricing, op.Adjustment)
		if err != nil {
			return item, Skipped, err
		}
		if adjusted.Equal(item.Pricing) {
			return item, Unchanged, nil
		}
		item.Pricing = adjusted
		return item, Modified, nil

	case Delete:
		return item, Deleted, nil

	default:
		return item, Unchanged, fmt.Errorf("%w: %T", ErrorUnsupportedOperation, operation)
	}
}
