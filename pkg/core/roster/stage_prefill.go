package roster

import (
	"go.uber.org/zap"

	"github.com/shiftgrid/shiftgrid/pkg/core/symbol"
)

// prefillStage locks every pre-filled cell as a hard equality. The
// exactly-one constraint from the variable factory already forces the other
// three categories false, so no separate unset step exists. References to
// unknown staff or out-of-horizon dates are skipped with a warning rather
// than aborting the build.
type prefillStage struct{}

func (s *prefillStage) Name() string { return "prefill" }

func (s *prefillStage) Apply(b *Build) error {
	for staffID, cells := range b.req.Prefilled {
		if _, ok := b.staffIndex[staffID]; !ok {
			b.logger.Warn("pre-filled cell references unknown staff, skipping",
				zap.String("staff_id", staffID))
			continue
		}
		for date, sym := range cells {
			if _, ok := b.dateIndex[date]; !ok {
				b.logger.Warn("pre-filled cell outside planning horizon, skipping",
					zap.String("staff_id", staffID), zap.String("date", date))
				continue
			}
			cat, known := symbol.Decode(sym)
			if !known {
				b.logger.Warn("unrecognized pre-filled symbol, treating as work",
					zap.String("staff_id", staffID), zap.String("date", date),
					zap.String("symbol", sym))
			}
			b.lock(staffID, date, cat, sym)
		}
	}
	return nil
}
