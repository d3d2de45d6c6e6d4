package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCommaThousands(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"dot thousands integer", "$ 179.999", "179999"},
		{"dot thousands with cents", "$ 149.999,00", "149999"},
		{"plain integer", "3400", "3400"},
		{"dia style", "$ 3.400", "3400"},
		{"currency and spaces", "  $1.200  ", "1200"},
		{"comma only", "99,50", "99"},
		{"millions", "$ 1.249.999", "1249999"},
		{"garbage around digits", "AR$ 5.500 c/u", "5500"},
		{"no digits at all", "precio a confirmar", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.raw, CommaThousands))
		})
	}
}

func TestNormalizeCommaDecimal(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"coto whole pesos", "$ 4.865,00", "4865"},
		{"coto nonzero cents", "$ 4.865,50", "4865.5"},
		{"no comma falls through", "$ 12.345", "12345"},
		{"bare digits", "4865", "4865"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.raw, CommaDecimal))
		})
	}
}

func TestNormalizeRepairsConcatenatedDigits(t *testing.T) {
	// A selector that matched a price list glues numbers together.
	got := Normalize("179999179999", CommaThousands)
	assert.Equal(t, "179999", got)
	assert.LessOrEqual(t, len(got), maxDigits)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"$ 179.999", "$ 4.865,00", "3400", "149999179", "1200"}
	for _, raw := range inputs {
		for _, policy := range []Policy{CommaThousands, CommaDecimal} {
			once := Normalize(raw, policy)
			assert.Equal(t, once, Normalize(once, policy), "raw=%q policy=%v", raw, policy)
		}
	}
}
