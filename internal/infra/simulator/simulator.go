// Package simulator provides an in-memory single-channel pipette. It enforces
// the tip state machine, tip supply and tip capacity, and records every call.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/infra/logger"
	"github.com/aalvaropc/xferbot/internal/ports"
)

// ErrFault is returned by the primitive selected with WithFault.
var ErrFault = errors.New("simulated hardware fault")

type Simulator struct {
	maxVolume decimal.Decimal
	tips      int
	logger    *slog.Logger
	failAt    int

	calls    int
	tipsUsed int
	attached bool
	loaded   decimal.Decimal
	history  []domain.Step
}

type Option func(*Simulator)

// WithTipRacks sets the tip supply to n full racks.
func WithTipRacks(n int) Option {
	return func(s *Simulator) { s.tips = n * domain.TipsPerRack }
}

// WithTips sets the exact number of tips available.
func WithTips(n int) Option {
	return func(s *Simulator) { s.tips = n }
}

// WithMaxVolume sets the tip capacity (liquid plus air).
func WithMaxVolume(v decimal.Decimal) Option {
	return func(s *Simulator) { s.maxVolume = v }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFault makes the n-th primitive call (1-based) fail with ErrFault.
func WithFault(n int) Option {
	return func(s *Simulator) { s.failAt = n }
}

func New(opts ...Option) *Simulator {
	s := &Simulator{
		maxVolume: decimal.NewFromInt(20),
		tips:      domain.MaxTipRacks * domain.TipsPerRack,
		logger:    logger.Discard(),
		loaded:    decimal.Zero,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.Instrument = (*Simulator)(nil)

func (s *Simulator) PickUpTip(ctx context.Context) error {
	if err := s.begin(ctx, domain.OpPickUpTip); err != nil {
		return err
	}
	if s.attached {
		return fail(domain.OpPickUpTip, domain.ErrTipAttached)
	}
	if s.tips == 0 {
		return fail(domain.OpPickUpTip, domain.ErrTipsExhausted)
	}

	s.tips--
	s.tipsUsed++
	s.attached = true
	s.loaded = decimal.Zero
	s.record(domain.Step{Op: domain.OpPickUpTip})
	return nil
}

func (s *Simulator) DropTip(ctx context.Context) error {
	if err := s.begin(ctx, domain.OpDropTip); err != nil {
		return err
	}
	if !s.attached {
		return fail(domain.OpDropTip, domain.ErrNoTip)
	}

	s.attached = false
	s.loaded = decimal.Zero
	s.record(domain.Step{Op: domain.OpDropTip})
	return nil
}

func (s *Simulator) Aspirate(ctx context.Context, volume decimal.Decimal, at domain.Position) error {
	if err := s.draw(ctx, domain.OpAspirate, volume); err != nil {
		return err
	}
	s.record(domain.Step{Op: domain.OpAspirate, Volume: volume, At: &at})
	return nil
}

func (s *Simulator) AirGap(ctx context.Context, volume decimal.Decimal) error {
	if err := s.draw(ctx, domain.OpAirGap, volume); err != nil {
		return err
	}
	s.record(domain.Step{Op: domain.OpAirGap, Volume: volume})
	return nil
}

func (s *Simulator) Dispense(ctx context.Context, volume decimal.Decimal, at domain.Position) error {
	if err := s.begin(ctx, domain.OpDispense); err != nil {
		return err
	}
	if err := s.requireTip(domain.OpDispense); err != nil {
		return err
	}
	if !volume.IsPositive() {
		return fail(domain.OpDispense, fmt.Errorf("volume must be > 0, got %s", volume))
	}
	if volume.GreaterThan(s.loaded) {
		return fail(domain.OpDispense, fmt.Errorf("dispense %s µL with only %s µL in tip", volume, s.loaded))
	}

	s.loaded = s.loaded.Sub(volume)
	s.record(domain.Step{Op: domain.OpDispense, Volume: volume, At: &at})
	return nil
}

func (s *Simulator) BlowOut(ctx context.Context, at domain.Position) error {
	if err := s.begin(ctx, domain.OpBlowOut); err != nil {
		return err
	}
	if err := s.requireTip(domain.OpBlowOut); err != nil {
		return err
	}

	s.loaded = decimal.Zero
	s.record(domain.Step{Op: domain.OpBlowOut, At: &at})
	return nil
}

func (s *Simulator) TouchTip(ctx context.Context, at domain.Position, speed float64) error {
	if err := s.begin(ctx, domain.OpTouchTip); err != nil {
		return err
	}
	if err := s.requireTip(domain.OpTouchTip); err != nil {
		return err
	}
	if at.Ref != domain.RefTop {
		return fail(domain.OpTouchTip, fmt.Errorf("touch tip offset must be relative to the well top, got %s", at.Ref))
	}

	s.record(domain.Step{Op: domain.OpTouchTip, At: &at, Speed: speed})
	return nil
}

// HasTip reports whether a tip is attached.
func (s *Simulator) HasTip() bool { return s.attached }

// TipsUsed is the number of tips picked up so far.
func (s *Simulator) TipsUsed() int { return s.tipsUsed }

// TipsRemaining is the number of unused tips left in the racks.
func (s *Simulator) TipsRemaining() int { return s.tips }

// Loaded is the liquid plus air currently held in the tip.
func (s *Simulator) Loaded() decimal.Decimal { return s.loaded }

// History returns a copy of every successful primitive, in call order.
func (s *Simulator) History() []domain.Step {
	out := make([]domain.Step, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Simulator) draw(ctx context.Context, op domain.StepOp, volume decimal.Decimal) error {
	if err := s.begin(ctx, op); err != nil {
		return err
	}
	if err := s.requireTip(op); err != nil {
		return err
	}
	if !volume.IsPositive() {
		return fail(op, fmt.Errorf("volume must be > 0, got %s", volume))
	}
	if next := s.loaded.Add(volume); next.GreaterThan(s.maxVolume) {
		return fail(op, fmt.Errorf("%s µL would exceed %s µL: %w", next, s.maxVolume, domain.ErrOverCapacity))
	}

	s.loaded = s.loaded.Add(volume)
	return nil
}

func (s *Simulator) begin(ctx context.Context, op domain.StepOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.calls++
	if s.failAt > 0 && s.calls == s.failAt {
		return fail(op, ErrFault)
	}
	return nil
}

func (s *Simulator) requireTip(op domain.StepOp) error {
	if !s.attached {
		return fail(op, domain.ErrNoTip)
	}
	return nil
}

func (s *Simulator) record(step domain.Step) {
	s.history = append(s.history, step)
	s.logger.Debug("instrument."+string(step.Op),
		"step", step.String(),
		"loaded", s.loaded.String(),
		"tips_remaining", s.tips,
	)
}

func fail(op domain.StepOp, err error) error {
	return &domain.OpError{
		Op:   "simulator." + string(op),
		Kind: domain.KindInstrument,
		Err:  err,
	}
}
