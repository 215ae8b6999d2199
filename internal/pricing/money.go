package pricing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency se asume cuando el texto no trae símbolo ni código.
const DefaultCurrency = "EUR"

// amountPattern acepta "12", "12,9", "12.90". Sin separador de miles.
var amountPattern = regexp.MustCompile(`^\d+([.,]\d{1,2})?$`)

type currencyMark struct {
	mark string
	code string
}

// Orden importa: los códigos de 3 letras van antes que los símbolos.
var currencyMarks = []currencyMark{
	{mark: "EUR", code: "EUR"},
	{mark: "USD", code: "USD"},
	{mark: "GBP", code: "GBP"},
	{mark: "€", code: "EUR"},
	{mark: "$", code: "USD"},
	{mark: "£", code: "GBP"},
}

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
}

// Money es un importe decimal con su moneda.
// Es la representación canónica para aritmética de precios.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney crea un importe en la moneda indicada (DefaultCurrency si viene vacía).
func NewMoney(amount decimal.Decimal, currency string) Money {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: amount, Currency: currency}
}

// ParseMoney interpreta textos como "€12,90", "12.90 EUR" o "8".
// Textos con más de un importe ("Calice €4 - Bottiglia €14") no son dinero.
func ParseMoney(raw string) (Money, error) {
	text := strings.TrimSpace(raw)
	currency := DefaultCurrency

	for _, candidate := range currencyMarks {
		if strings.HasPrefix(text, candidate.mark) {
			text = strings.TrimSpace(strings.TrimPrefix(text, candidate.mark))
			currency = candidate.code
			break
		}
		if strings.HasSuffix(text, candidate.mark) {
			text = strings.TrimSpace(strings.TrimSuffix(text, candidate.mark))
			currency = candidate.code
			break
		}
	}

	if !amountPattern.MatchString(text) {
		return Money{}, fmt.Errorf("%w: %q", ErrorInvalidMoney, raw)
	}

	amount, err := decimal.NewFromString(strings.Replace(text, ",", ".", 1))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrorInvalidMoney, raw)
	}

	return Money{Amount: amount, Currency: currency}, nil
}

// String formatea al estilo de la carta: "€12,90".
func (money Money) String() string {
	symbol, ok := currencySymbols[money.Currency]
	if !ok {
		symbol = money.Currency + " "
	}

	sign := ""
	amount := money.Amount
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	return sign + symbol + strings.Replace(amount.StringFixed(2), ".", ",", 1)
}

// IsNegative indica si el importe es menor que cero.
func (money Money) IsNegative() bool {
	return money.Amount.IsNegative()
}
