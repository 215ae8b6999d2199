package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Type es el discriminante del precio.
type Type string

const (
	TypeSimple   Type = "simple"
	TypeMultiple Type = "multiple"
	TypeRange    Type = "range"
	TypeCustom   Type = "custom"
)

// Etiquetas convencionales de tamaño para precios múltiples.
const (
	SizeSmall = "small"
	SizePinta = "pinta"
)

// Errores de dominio de precios.
var (
	ErrorInvalidPricing = errors.New("invalid pricing")
	ErrorInvalidMoney   = errors.New("invalid money amount")
	ErrorNotAdjustable  = errors.New("pricing has no numeric amount")
	ErrorNegativePrice  = errors.New("adjusted price is negative")
)

// ParseType valida un discriminante recibido como texto.
func ParseType(raw string) (Type, error) {
	switch kind := Type(strings.TrimSpace(raw)); kind {
	case TypeSimple, TypeMultiple, TypeRange, TypeCustom:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: unknown type %q", ErrorInvalidPricing, raw)
	}
}

// Pricing es la unión etiquetada de precios: exactamente uno de los
// payloads corresponde al discriminante y el resto queda vacío.
// Los campos no se exportan para que solo los constructores creen valores.
type Pricing struct {
	kind      Type
	simple    Price
	multiple  map[string]Price
	rangeText string
	custom    string
}

// Payload agrupa los campos crudos que llegan por API o desde la DB.
type Payload struct {
	Simple   string
	Multiple map[string]string
	Range    string
	Custom   string
}

// New construye un precio a partir del discriminante y el payload.
// Los campos que no corresponden al discriminante se ignoran.
func New(kind Type, payload Payload) (Pricing, error) {
	switch kind {
	case TypeSimple:
		return NewSimple(payload.Simple)
	case TypeMultiple:
		return NewMultiple(payload.Multiple)
	case TypeRange:
		return NewRange(payload.Range)
	case TypeCustom:
		return NewCustom(payload.Custom)
	default:
		return Pricing{}, fmt.Errorf("%w: unknown type %q", ErrorInvalidPricing, kind)
	}
}

// NewSimple crea un precio único.
func NewSimple(text string) (Pricing, error) {
	price := NewPrice(text)
	if price.IsZero() {
		return Pricing{}, fmt.Errorf("%w: simple price is empty", ErrorInvalidPricing)
	}
	return Pricing{kind: TypeSimple, simple: price}, nil
}

// NewMultiple crea un precio por tamaño. "pinta" es obligatorio;
// los tamaños vacíos o marcados con guion se descartan.
func NewMultiple(sizes map[string]string) (Pricing, error) {
	prices := make(map[string]Price, len(sizes))
	for label, text := range sizes {
		label = strings.TrimSpace(label)
		price := NewPrice(text)
		if label == "" || price.IsZero() {
			continue
		}
		prices[label] = price
	}

	if _, ok := prices[SizePinta]; !ok {
		return Pricing{}, fmt.Errorf("%w: multiple price requires %q", ErrorInvalidPricing, SizePinta)
	}
	return Pricing{kind: TypeMultiple, multiple: prices}, nil
}

// NewRange crea un rango libre ("€5,00 / €6,00"); no se interpreta.
func NewRange(text string) (Pricing, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Pricing{}, fmt.Errorf("%w: range is empty", ErrorInvalidPricing)
	}
	return Pricing{kind: TypeRange, rangeText: text}, nil
}

// NewCustom crea un precio no numérico ("su richiesta").
func NewCustom(text string) (Pricing, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Pricing{}, fmt.Errorf("%w: custom price is empty", ErrorInvalidPricing)
	}
	return Pricing{kind: TypeCustom, custom: text}, nil
}

// Type devuelve el discriminante.
func (pricing Pricing) Type() Type {
	return pricing.kind
}

// Simple devuelve el precio único (vacío si el tipo no es simple).
func (pricing Pricing) Simple() Price {
	return pricing.simple
}

// Size devuelve el precio de un tamaño.
func (pricing Pricing) Size(label string) (Price, bool) {
	price, ok := pricing.multiple[label]
	return price, ok
}

// Range devuelve el texto del rango.
func (pricing Pricing) Range() string {
	return pricing.rangeText
}

// Custom devuelve el texto libre.
func (pricing Pricing) Custom() string {
	return pricing.custom
}

// Validate verifica que el valor haya sido construido correctamente.
// El valor cero (sin discriminante) no es válido.
func (pricing Pricing) Validate() error {
	switch pricing.kind {
	case TypeSimple:
		if pricing.simple.IsZero() {
			return fmt.Errorf("%w: simple price is empty", ErrorInvalidPricing)
		}
	case TypeMultiple:
		if price, ok := pricing.multiple[SizePinta]; !ok || price.IsZero() {
			return fmt.Errorf("%w: multiple price requires %q", ErrorInvalidPricing, SizePinta)
		}
	case TypeRange:
		if pricing.rangeText == "" {
			return fmt.Errorf("%w: range is empty", ErrorInvalidPricing)
		}
	case TypeCustom:
		if pricing.custom == "" {
			return fmt.Errorf("%w: custom price is empty", ErrorInvalidPricing)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrorInvalidPricing, pricing.kind)
	}
	return nil
}

// Equal compara dos precios por su forma visible.
func (pricing Pricing) Equal(other Pricing) bool {
	if pricing.kind != other.kind ||
		pricing.simple.text != other.simple.text ||
		pricing.rangeText != other.rangeText ||
		pricing.custom != other.custom ||
		len(pricing.multiple) != len(other.multiple) {
		return false
	}
	for label, price := range pricing.multiple {
		otherPrice, ok := other.multiple[label]
		if !ok || otherPrice.text != price.text {
			return false
		}
	}
	return true
}

// ResolveDisplayPrice devuelve el texto a mostrar. Para precios múltiples,
// sizeHint vacío usa "pinta"; un tamaño pedido que no existe devuelve Dash
// (no disponible, no es un error).
func ResolveDisplayPrice(pricing Pricing, sizeHint string) string {
	switch pricing.kind {
	case TypeSimple:
		return pricing.simple.String()
	case TypeRange:
		return pricing.rangeText
	case TypeCustom:
		return pricing.custom
	case TypeMultiple:
		label := strings.TrimSpace(sizeHint)
		if label == "" {
			label = SizePinta
		}
		if price, ok := pricing.multiple[label]; ok && !price.IsZero() {
			return price.String()
		}
		return Dash
	default:
		return ""
	}
}

// HasSizeVariants indica si la UI debe mostrar un selector de tamaño.
func HasSizeVariants(pricing Pricing) bool {
	if pricing.kind != TypeMultiple {
		return false
	}
	small, hasSmall := pricing.multiple[SizeSmall]
	pinta, hasPinta := pricing.multiple[SizePinta]
	return hasSmall && hasPinta && !small.IsZero() && !pinta.IsZero()
}

// Adjust aplica un ajuste a todos los importes numéricos del precio.
// Rangos, textos libres y precios no numéricos devuelven ErrorNotAdjustable.
func Adjust(pricing Pricing, adjustment Adjustment) (Pricing, error) {
	switch pricing.kind {
	case TypeSimple:
		money, ok := pricing.simple.Money()
		if !ok {
			return Pricing{}, ErrorNotAdjustable
		}
		adjusted := adjustment.Apply(money)
		if adjusted.IsNegative() {
			return Pricing{}, ErrorNegativePrice
		}
		return Pricing{kind: TypeSimple, simple: PriceOf(adjusted)}, nil

	case TypeMultiple:
		prices := make(map[string]Price, len(pricing.multiple))
		adjustedAny := false
		for label, price := range pricing.multiple {
			money, ok := price.Money()
			if !ok {
				prices[label] = price
				continue
			}
			adjusted := adjustment.Apply(money)
			if adjusted.IsNegative() {
				return Pricing{}, ErrorNegativePrice
			}
			prices[label] = PriceOf(adjusted)
			adjustedAny = true
		}
		if !adjustedAny {
			return Pricing{}, ErrorNotAdjustable
		}
		return Pricing{kind: TypeMultiple, multiple: prices}, nil

	default:
		return Pricing{}, ErrorNotAdjustable
	}
}

// wirePricing es la forma JSON persistida y expuesta por la API.
type wirePricing struct {
	Type     Type             `json:"type"`
	Simple   *Price           `json:"simple,omitempty"`
	Multiple map[string]Price `json:"multiple,omitempty"`
	Range    string           `json:"range,omitempty"`
	Custom   string           `json:"custom,omitempty"`
}

// MarshalJSON escribe solo el payload del discriminante.
func (pricing Pricing) MarshalJSON() ([]byte, error) {
	wire := wirePricing{Type: pricing.kind}
	switch pricing.kind {
	case TypeSimple:
		simple := pricing.simple
		wire.Simple = &simple
	case TypeMultiple:
		wire.Multiple = pricing.multiple
	case TypeRange:
		wire.Range = pricing.rangeText
	case TypeCustom:
		wire.Custom = pricing.custom
	}
	return json.Marshal(wire)
}

// UnmarshalJSON construye (y valida) el precio desde su forma JSON.
func (pricing *Pricing) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     string            `json:"type"`
		Simple   string            `json:"simple"`
		Multiple map[string]string `json:"multiple"`
		Range    string            `json:"range"`
		Custom   string            `json:"custom"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	kind, err := ParseType(raw.Type)
	if err != nil {
		return err
	}

	built, err := New(kind, Payload{
		Simple:   raw.Simple,
		Multiple: raw.Multiple,
		Range:    raw.Range,
		Custom:   raw.Custom,
	})
	if err != nil {
		return err
	}

	*pricing = built
	return nil
}
