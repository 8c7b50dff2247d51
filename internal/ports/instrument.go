package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/xferbot/internal/domain"
)

// Instrument is a single-channel pipette holding at most one tip.
// Liquid operations are only valid while a tip is attached.
type Instrument interface {
	PickUpTip(ctx context.Context) error
	DropTip(ctx context.Context) error
	Aspirate(ctx context.Context, volume decimal.Decimal, at domain.Position) error
	Dispense(ctx context.Context, volume decimal.Decimal, at domain.Position) error
	AirGap(ctx context.Context, volume decimal.Decimal) error
	BlowOut(ctx context.Context, at domain.Position) error
	TouchTip(ctx context.Context, at domain.Position, speed float64) error
}
