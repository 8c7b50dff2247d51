package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/usecase/plan"
)

// CheckManifest validates every row of m against the deck in cfg and returns
// the pre-flight summary. All problems are reported together in a
// *domain.ValidationError.
func CheckManifest(m domain.Manifest, cfg domain.Config) (domain.ManifestSummary, error) {
	summary := plan.Summarize(m.Requests)

	var issues []string
	if len(m.Requests) == 0 {
		issues = append(issues, "manifest has no transfer rows")
	}

	for _, r := range m.Requests {
		if r.SourcePlate < 1 || r.SourcePlate > cfg.Deck.SourcePlates {
			issues = append(issues, fmt.Sprintf("Row %d: Source plate %d invalid. Must be 1-%d.", r.Row, r.SourcePlate, cfg.Deck.SourcePlates))
		}
		if r.DestPlate < 1 || r.DestPlate > cfg.Deck.DestinationPlates {
			issues = append(issues, fmt.Sprintf("Row %d: Dest plate %d invalid. Must be 1-%d.", r.Row, r.DestPlate, cfg.Deck.DestinationPlates))
		}
		if _, ok := domain.CanonicalWell(r.SourceWell); !ok {
			issues = append(issues, fmt.Sprintf("Row %d: Source well %q is not a 96-well position.", r.Row, r.SourceWell))
		}
		if _, ok := domain.CanonicalWell(r.DestWell); !ok {
			issues = append(issues, fmt.Sprintf("Row %d: Dest well %q is not a 96-well position.", r.Row, r.DestWell))
		}
		if !r.Volume.IsPositive() {
			issues = append(issues, fmt.Sprintf("Row %d: Volume must be > 0, got %s.", r.Row, r.Volume))
		}
	}

	if row, peak := peakDraw(m.Requests); peak.GreaterThan(cfg.Pipette.MaxVolume) {
		issues = append(issues, fmt.Sprintf("Row %d: Needs %s µL in the tip but pipette max volume is %s µL.",
			row, peak, cfg.Pipette.MaxVolume))
	}

	if summary.TipRacksNeeded > cfg.Deck.TipRacks {
		issues = append(issues, fmt.Sprintf("Tips needed (%d) exceed %d tip rack(s) of %d tips.",
			summary.TipsNeeded, cfg.Deck.TipRacks, domain.TipsPerRack))
	}

	if len(issues) > 0 {
		return summary, &domain.ValidationError{Path: m.Path, Issues: issues}
	}
	return summary, nil
}

// peakDraw returns the request row with the largest tip load and that load.
// Non-positive volumes are skipped; they are reported separately.
func peakDraw(reqs []domain.TransferRequest) (int, decimal.Decimal) {
	row, peak := 0, decimal.Zero
	for _, r := range reqs {
		if !r.Volume.IsPositive() {
			continue
		}
		if v := plan.PeakVolume(r.Volume); v.GreaterThan(peak) {
			row, peak = r.Row, v
		}
	}
	return row, peak
}
