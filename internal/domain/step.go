package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StepOp is a single liquid-handling primitive.
type StepOp string

const (
	OpPickUpTip StepOp = "pick_up_tip"
	OpAspirate  StepOp = "aspirate"
	OpAirGap    StepOp = "air_gap"
	OpDispense  StepOp = "dispense"
	OpBlowOut   StepOp = "blow_out"
	OpTouchTip  StepOp = "touch_tip"
	OpDropTip   StepOp = "drop_tip"
)

// Phase groups steps inside a transfer plan.
type Phase string

const (
	PhaseTip      Phase = "tip"
	PhaseMix      Phase = "mix"
	PhaseTransfer Phase = "transfer"
)

// Step is one instrument call. Volume is zero for ops that move no liquid,
// At is nil for ops without a target (tip handling, air gap), and Speed is
// only set for touch tip (mm/s).
type Step struct {
	Op     StepOp
	Phase  Phase
	Chunk  int
	Volume decimal.Decimal
	At     *Position
	Speed  float64
}

func (s Step) String() string {
	out := string(s.Op)
	if !s.Volume.IsZero() {
		out += " " + s.Volume.String() + " µL"
	}
	if s.At != nil {
		out += " @ " + s.At.String()
	}
	if s.Speed != 0 {
		out += fmt.Sprintf(" speed=%g", s.Speed)
	}
	return out
}
