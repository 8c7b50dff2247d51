package usecase

import (
	"context"
	"fmt"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/ports"
)

// replay drives the instrument through steps in order and stops at the first
// failure. It returns the steps that completed.
func replay(ctx context.Context, inst ports.Instrument, steps []domain.Step) ([]domain.Step, error) {
	done := make([]domain.Step, 0, len(steps))
	for _, s := range steps {
		if err := apply(ctx, inst, s); err != nil {
			return done, fmt.Errorf("%s: %w", s, err)
		}
		done = append(done, s)
	}
	return done, nil
}

func apply(ctx context.Context, inst ports.Instrument, s domain.Step) error {
	switch s.Op {
	case domain.OpPickUpTip:
		return inst.PickUpTip(ctx)
	case domain.OpDropTip:
		return inst.DropTip(ctx)
	case domain.OpAirGap:
		return inst.AirGap(ctx, s.Volume)
	}

	if s.At == nil {
		return fmt.Errorf("step %s has no target position: %w", s.Op, domain.ErrExecution)
	}
	switch s.Op {
	case domain.OpAspirate:
		return inst.Aspirate(ctx, s.Volume, *s.At)
	case domain.OpDispense:
		return inst.Dispense(ctx, s.Volume, *s.At)
	case domain.OpBlowOut:
		return inst.BlowOut(ctx, *s.At)
	case domain.OpTouchTip:
		return inst.TouchTip(ctx, *s.At, s.Speed)
	default:
		return fmt.Errorf("unknown step %q: %w", s.Op, domain.ErrExecution)
	}
}

func countOp(steps []domain.Step, op domain.StepOp) int {
	n := 0
	for _, s := range steps {
		if s.Op == op {
			n++
		}
	}
	return n
}
