package ports

import (
	"github.com/shopspring/decimal"

	"github.com/aalvaropc/xferbot/internal/domain"
)

// Deck resolves wells on loaded labware and keeps the liquid map used for
// deck visualization.
type Deck interface {
	Well(role domain.Role, plate int, name string) (domain.Well, error)
	// MarkLiquid records the starting liquid of a source well. It reports
	// false when the well was already marked.
	MarkLiquid(plate int, well string, volume decimal.Decimal) bool
	Layout() domain.DeckLayout
}
