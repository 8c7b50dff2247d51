package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/usecase/plan"
)

// journal collects operator-facing protocol comments and mirrors them to the log.
type journal struct {
	lines []string
	log   *slog.Logger
}

func newJournal(l *slog.Logger) *journal {
	return &journal{log: l}
}

func (j *journal) comment(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	j.lines = append(j.lines, msg)
	j.log.Info("protocol.comment", "text", msg)
}

func (j *journal) rule() { j.comment("%s", strings.Repeat("=", 60)) }

func (j *journal) summary(s domain.ManifestSummary) {
	j.comment("Source plates required: %v", s.SourcePlates)
	j.comment("Destination plates required: %v", s.DestinationPlates)
	j.comment("Transfers: %d (%d split above %s µL)", s.Transfers, s.SplitTransfers, plan.MaxTransferVolume)
	j.comment("Total volume: %s µL", s.TotalVolume)
	j.comment("Tips needed: %d (%d tip rack(s))", s.TipsNeeded, s.TipRacksNeeded)
}
