package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/apo/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderUtilization renders a capacity bar like [████░░░░]  45%. The bar is
// clamped at full width above 100% while the label keeps the real value.
// Colors follow the workload bands.
func RenderUtilization(mode Mode, pct int, width int) string {
	if width < 2 {
		width = 2
	}
	ratio := float64(pct) / 100
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %3d%%", paint(mode, BandColor(domain.BandFor(pct)), bar), pct)
}
