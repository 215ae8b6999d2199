package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// must envuelve un constructor: must(t)(NewSimple("€4,00")).
func must(t *testing.T) func(Pricing, error) Pricing {
	return func(pricing Pricing, err error) Pricing {
		t.Helper()
		require.NoError(t, err)
		return pricing
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		kind    Type
		payload Payload
		wantErr bool
	}{
		{"simple ok", TypeSimple, Payload{Simple: "€12,90"}, false},
		{"simple empty", TypeSimple, Payload{Simple: "  "}, true},
		{"simple ignores other payloads", TypeSimple, Payload{Simple: "€5,00", Range: "x"}, false},
		{"multiple with pinta only", TypeMultiple, Payload{Multiple: map[string]string{"pinta": "€6,00"}}, false},
		{"multiple with small only", TypeMultiple, Payload{Multiple: map[string]string{"small": "€4,00"}}, true},
		{"multiple with dash pinta", TypeMultiple, Payload{Multiple: map[string]string{"pinta": "–"}}, true},
		{"multiple nil", TypeMultiple, Payload{}, true},
		{"range ok", TypeRange, Payload{Range: "€5,00 / €6,00"}, false},
		{"range empty", TypeRange, Payload{}, true},
		{"custom ok", TypeCustom, Payload{Custom: "su richiesta"}, false},
		{"custom empty", TypeCustom, Payload{Custom: ""}, true},
		{"unknown type", Type("tiered"), Payload{Simple: "€1,00"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pricing, err := New(tt.kind, tt.payload)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrorInvalidPricing)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.kind, pricing.Type())
			require.NoError(t, pricing.Validate())
		})
	}
}

func TestParseType(t *testing.T) {
	kind, err := ParseType(" multiple ")
	require.NoError(t, err)
	require.Equal(t, TypeMultiple, kind)

	_, err = ParseType("price")
	require.ErrorIs(t, err, ErrorInvalidPricing)
}

func TestValidate_ZeroValue(t *testing.T) {
	require.ErrorIs(t, Pricing{}.Validate(), ErrorInvalidPricing)
}

func TestResolveDisplayPrice(t *testing.T) {
	pintaOnly := must(t)(NewMultiple(map[string]string{"small": "–", "pinta": "€6,00"}))
	both := must(t)(NewMultiple(map[string]string{"small": "€4,00", "pinta": "€6,00"}))

	t.Run("small absent falls to dash", func(t *testing.T) {
		require.Equal(t, Dash, ResolveDisplayPrice(pintaOnly, "small"))
		require.Equal(t, "€6,00", ResolveDisplayPrice(pintaOnly, "pinta"))
	})

	t.Run("default hint uses pinta", func(t *testing.T) {
		require.Equal(t, "€6,00", ResolveDisplayPrice(both, ""))
		require.Equal(t, "€4,00", ResolveDisplayPrice(both, "small"))
	})

	t.Run("unknown label is unavailable", func(t *testing.T) {
		require.Equal(t, Dash, ResolveDisplayPrice(both, "media"))
	})

	t.Run("single string shapes ignore hint", func(t *testing.T) {
		simple := must(t)(NewSimple("€12,90"))
		ranged := must(t)(NewRange("€5,00 / €6,00"))
		custom := must(t)(NewCustom("Calice €4 - Bottiglia €14"))

		require.Equal(t, "€12,90", ResolveDisplayPrice(simple, "small"))
		require.Equal(t, "€5,00 / €6,00", ResolveDisplayPrice(ranged, ""))
		require.Equal(t, "Calice €4 - Bottiglia €14", ResolveDisplayPrice(custom, "pinta"))
	})

	t.Run("zero pricing", func(t *testing.T) {
		require.Equal(t, "", ResolveDisplayPrice(Pricing{}, ""))
	})
}

func TestHasSizeVariants(t *testing.T) {
	require.True(t, HasSizeVariants(must(t)(NewMultiple(map[string]string{"small": "€4,00", "pinta": "€6,00"}))))
	require.False(t, HasSizeVariants(must(t)(NewMultiple(map[string]string{"pinta": "€6,00"}))))
	require.False(t, HasSizeVariants(must(t)(NewSimple("€6,00"))))
}

func TestAdjust(t *testing.T) {
	percentage := func(value string) Adjustment {
		return Adjustment{Kind: AdjustPercentage, Value: decimal.RequireFromString(value)}
	}
	fixed := func(value string) Adjustment {
		return Adjustment{Kind: AdjustFixed, Value: decimal.RequireFromString(value)}
	}

	t.Run("percentage on simple", func(t *testing.T) {
		adjusted, err := Adjust(must(t)(NewSimple("€8,50")), percentage("10"))
		require.NoError(t, err)
		require.Equal(t, "€9,35", adjusted.Simple().String())
	})

	t.Run("fixed on simple", func(t *testing.T) {
		adjusted, err := Adjust(must(t)(NewSimple("€5,00")), fixed("-0.50"))
		require.NoError(t, err)
		require.Equal(t, "€4,50", adjusted.Simple().String())
	})

	t.Run("multiple adjusts every size", func(t *testing.T) {
		adjusted, err := Adjust(must(t)(NewMultiple(map[string]string{"small": "€4,00", "pinta": "€6,00"})), fixed("1"))
		require.NoError(t, err)
		require.Equal(t, "€5,00", ResolveDisplayPrice(adjusted, SizeSmall))
		require.Equal(t, "€7,00", ResolveDisplayPrice(adjusted, SizePinta))
	})

	t.Run("range and custom are not adjustable", func(t *testing.T) {
		_, err := Adjust(must(t)(NewRange("€5,00 / €6,00")), fixed("1"))
		require.ErrorIs(t, err, ErrorNotAdjustable)

		_, err = Adjust(must(t)(NewCustom("su richiesta")), fixed("1"))
		require.ErrorIs(t, err, ErrorNotAdjustable)
	})

	t.Run("non numeric simple is not adjustable", func(t *testing.T) {
		_, err := Adjust(must(t)(NewSimple("Piccola €3,00 - Media €4,00")), percentage("5"))
		require.ErrorIs(t, err, ErrorNotAdjustable)
	})

	t.Run("negative result is rejected", func(t *testing.T) {
		_, err := Adjust(must(t)(NewSimple("€1,00")), fixed("-2"))
		require.ErrorIs(t, err, ErrorNegativePrice)
	})
}

func TestNewAdjustment(t *testing.T) {
	adjustment, err := NewAdjustment("percentage", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.Equal(t, AdjustPercentage, adjustment.Kind)

	_, err = NewAdjustment("double", decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrorInvalidPricing)
}

func TestPricing_JSON(t *testing.T) {
	t.Run("marshal writes only active payload", func(t *testing.T) {
		pricing := must(t)(NewMultiple(map[string]string{"pinta": "€6,00"}))

		data, err := json.Marshal(pricing)
		require.NoError(t, err)
		require.JSONEq(t, `{"type":"multiple","multiple":{"pinta":"€6,00"}}`, string(data))
	})

	t.Run("unmarshal ignores inactive payloads", func(t *testing.T) {
		var pricing Pricing
		err := json.Unmarshal([]byte(`{"type":"simple","simple":"€12,90","custom":"ignored"}`), &pricing)
		require.NoError(t, err)
		require.Equal(t, TypeSimple, pricing.Type())
		require.Equal(t, "", pricing.Custom())
		money, ok := pricing.Simple().Money()
		require.True(t, ok)
		require.Equal(t, "12.9", money.Amount.String())
	})

	t.Run("unmarshal rejects invalid payload", func(t *testing.T) {
		var pricing Pricing
		err := json.Unmarshal([]byte(`{"type":"multiple","multiple":{"small":"€4,00"}}`), &pricing)
		require.ErrorIs(t, err, ErrorInvalidPricing)
	})

	t.Run("unmarshal rejects unknown type", func(t *testing.T) {
		var pricing Pricing
		err := json.Unmarshal([]byte(`{"type":"free"}`), &pricing)
		require.ErrorIs(t, err, ErrorInvalidPricing)
	})
}

func TestPricing_Equal(t *testing.T) {
	a := must(t)(NewMultiple(map[string]string{"small": "€4,00", "pinta": "€6,00"}))
	b := must(t)(NewMultiple(map[string]string{"small": "4,00", "pinta": "6"}))
	c := must(t)(NewMultiple(map[string]string{"pinta": "€6,00"}))

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}
