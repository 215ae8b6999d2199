package pricing

import (
	"encoding/json"
	"strings"
)

// Dash es lo que se muestra cuando un tamaño no está disponible.
const Dash = "-"

// Price es un precio tal como se muestra en la carta.
// Si el texto es un importe, money guarda el valor y el texto se deriva de él;
// si no (ej. "Calice €4 - Bottiglia €14"), el texto es solo de lectura.
type Price struct {
	text  string
	money *Money
}

// NewPrice construye un precio desde su texto.
func NewPrice(text string) Price {
	text = strings.TrimSpace(text)
	if isUnavailable(text) {
		return Price{}
	}

	money, err := ParseMoney(text)
	if err != nil {
		return Price{text: text}
	}
	return PriceOf(money)
}

// PriceOf construye un precio numérico.
func PriceOf(money Money) Price {
	return Price{text: money.String(), money: &money}
}

// String devuelve el texto visible.
func (price Price) String() string {
	return price.text
}

// IsZero indica un precio vacío (no informado).
func (price Price) IsZero() bool {
	return price.text == ""
}

// Money devuelve el importe cuando el precio es numérico.
func (price Price) Money() (Money, bool) {
	if price.money == nil {
		return Money{}, false
	}
	return *price.money, true
}

// MarshalJSON serializa como el texto visible, igual que el formato persistido.
func (price Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(price.text)
}

// UnmarshalJSON acepta el texto visible.
func (price *Price) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*price = NewPrice(text)
	return nil
}

// "–" (en dash) es lo que usaban los datos legados para "no hay tamaño".
func isUnavailable(text string) bool {
	return text == "" || text == Dash || text == "–" || text == "—"
}
