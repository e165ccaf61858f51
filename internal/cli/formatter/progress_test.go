package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderUtilization(t *testing.T) {
	tests := []struct {
		name   string
		pct    int
		width  int
		filled int
		label  string
	}{
		{"empty", 0, 10, 0, "  0%"},
		{"partial", 45, 10, 4, " 45%"},
		{"full", 100, 10, 10, "100%"},
		{"over capacity clamps bar", 150, 10, 10, "150%"},
		{"negative clamps", -20, 10, 0, "-20%"},
		{"tiny width clamps to 2", 50, 1, 1, " 50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderUtilization(ModePlain, tt.pct, tt.width)

			assert.True(t, strings.HasPrefix(got, "["))
			assert.True(t, strings.HasSuffix(got, tt.label), got)
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
			width := max(tt.width, 2)
			assert.Equal(t, width-tt.filled, strings.Count(got, emptyBlock))
		})
	}
}
