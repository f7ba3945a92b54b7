package energy

import (
	"fmt"
	"math"

	"github.com/ciquab/nomutore/internal/model"
)

// ShareText renders the fixed bilingual share template for a beer log
// and the current running balance.
func ShareText(l model.LogRecord, balanceKcal float64) string {
	count := l.Count
	if count < 1 {
		count = 1
	}
	name := l.Name
	if name == "" {
		name = "Beer"
	}
	ml := VolumeForLog(l) * float64(count)
	return fmt.Sprintf(
		"🍺 %s %.0fml (%.0f kcal)\n現在の収支 / Current balance: %+.0f kcal\n#飲むトレ #nomutore",
		name, ml, math.Abs(l.Kcal), balanceKcal,
	)
}
