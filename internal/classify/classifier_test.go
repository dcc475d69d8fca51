package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bdcli/pkg/contracts/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		label     string
		wantCode  string
		wantLevel domain.IndustryLevel
	}{
		{"division", "10 Manufacture of food products", "10", domain.LevelDivision},
		{"group", "101 Processing and preserving of meat", "101", domain.LevelGroup},
		{"class", "1013 Production of meat products", "1013", domain.LevelClass},
		{"leading whitespace", "  47 Retail trade", "47", domain.LevelDivision},
		{"digit run capped at four", "47110 Retail sale in non-specialised stores", "4711", domain.LevelClass},
		{"section header", "Production industries", "", domain.LevelHeader},
		{"digits not at position zero", "Section 10", "", domain.LevelHeader},
		{"single digit", "1 stray", "", domain.LevelHeader},
		{"empty label", "", "", domain.LevelHeader},
		{"bare code no description", "05", "05", domain.LevelDivision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, level := Classify(tt.label)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantLevel, level)
		})
	}
}

// Classification must be identical no matter which source table a label
// comes from, so repeated calls for the same label must agree.
func TestClassifyDeterministic(t *testing.T) {
	labels := []string{"10 Food", "101 Meat", "1013 Meat products", "Totals", " 47  Retail "}
	for _, label := range labels {
		c1, l1 := Classify(label)
		c2, l2 := Classify(label)
		assert.Equal(t, c1, c2)
		assert.Equal(t, l1, l2)
	}
}
