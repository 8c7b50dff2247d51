// Package plan turns a transfer request into the ordered list of pipette
// primitives that carry it out. It performs no I/O; execution replays the
// steps against a ports.Instrument.
package plan

import (
	"github.com/shopspring/decimal"

	"github.com/aalvaropc/xferbot/internal/domain"
)

// Volumes in µL.
var (
	// MixVolumeCap is the mixing volume used for any request above it.
	MixVolumeCap = decimal.NewFromInt(20)
	// MixFraction scales small samples so mixing never draws the whole well.
	MixFraction = decimal.RequireFromString("0.8")
	// MaxTransferVolume is the largest single aspiration; it sits below the
	// 20 µL tip so the air gap still fits.
	MaxTransferVolume = decimal.NewFromInt(19)
	AirGapVolume      = decimal.RequireFromString("0.5")
	// AirGapMinVolume is the smallest chunk that gets an air gap.
	AirGapMinVolume = decimal.RequireFromString("0.5")
)

// Mixing cycles and heights in mm. Touch-tip speed is mm/s.
const (
	MixCycles = 3

	SourceDepth      = 0.5
	DispenseDepth    = 1.0
	BlowOutDepth     = 2.0
	TopBlowOutOffset = -2.0
	TouchTipOffset   = -5.0
	TouchTipSpeed    = 10.0
)

// Plan is the full step list for one transfer request.
type Plan struct {
	Request     domain.TransferRequest
	Source      domain.Well
	Destination domain.Well

	MixVolume decimal.Decimal
	Chunks    []decimal.Decimal
	Dispensed []decimal.Decimal

	Steps []domain.Step
}

// Split reports whether the request needed more than one aspiration.
func (p Plan) Split() bool { return len(p.Chunks) > 1 }

// Count returns how many steps of the given op the plan contains.
func (p Plan) Count(op domain.StepOp) int {
	n := 0
	for _, s := range p.Steps {
		if s.Op == op {
			n++
		}
	}
	return n
}

// MixVolume returns the pre-mix volume for a request of volume v.
func MixVolume(v decimal.Decimal) decimal.Decimal {
	if v.GreaterThan(MixVolumeCap) {
		return MixVolumeCap
	}
	return v.Mul(MixFraction)
}

// SplitVolume cuts v into chunks of MaxTransferVolume followed by the remainder.
// A volume at or below the limit is returned as a single chunk. The chunks
// always sum to v exactly and there are ceil(v/MaxTransferVolume) of them.
func SplitVolume(v decimal.Decimal) []decimal.Decimal {
	if !v.GreaterThan(MaxTransferVolume) {
		return []decimal.Decimal{v}
	}

	var chunks []decimal.Decimal
	remaining := v
	for remaining.GreaterThan(MaxTransferVolume) {
		chunks = append(chunks, MaxTransferVolume)
		remaining = remaining.Sub(MaxTransferVolume)
	}
	return append(chunks, remaining)
}

// NeedsAirGap reports whether a chunk is large enough to take an air gap.
func NeedsAirGap(chunk decimal.Decimal) bool {
	return chunk.GreaterThanOrEqual(AirGapMinVolume)
}

// DispenseVolume is what leaves the tip for a chunk: the liquid plus the air
// gap when one was drawn.
func DispenseVolume(chunk decimal.Decimal) decimal.Decimal {
	if NeedsAirGap(chunk) {
		return chunk.Add(AirGapVolume)
	}
	return chunk
}

// PeakVolume is the most the tip holds at once (liquid plus air) while
// carrying out a request of volume v.
func PeakVolume(v decimal.Decimal) decimal.Decimal {
	peak := MixVolume(v)
	for _, chunk := range SplitVolume(v) {
		peak = decimal.Max(peak, DispenseVolume(chunk))
	}
	return peak
}

// Build plans a single request: pick up a tip, mix at the source, move every
// chunk to the destination and drop the tip.
func Build(req domain.TransferRequest, src, dst domain.Well) Plan {
	p := Plan{
		Request:     req,
		Source:      src,
		Destination: dst,
		MixVolume:   MixVolume(req.Volume),
		Chunks:      SplitVolume(req.Volume),
	}

	b := &builder{}
	b.add(domain.Step{Op: domain.OpPickUpTip, Phase: domain.PhaseTip})

	mixAt := src.Bottom(SourceDepth)
	for i := 0; i < MixCycles; i++ {
		b.add(domain.Step{Op: domain.OpAspirate, Phase: domain.PhaseMix, Volume: p.MixVolume, At: at(mixAt)})
		b.add(domain.Step{Op: domain.OpDispense, Phase: domain.PhaseMix, Volume: p.MixVolume, At: at(mixAt)})
	}

	p.Dispensed = make([]decimal.Decimal, 0, len(p.Chunks))
	for i, chunk := range p.Chunks {
		out := DispenseVolume(chunk)
		p.Dispensed = append(p.Dispensed, out)

		b.add(domain.Step{Op: domain.OpAspirate, Phase: domain.PhaseTransfer, Chunk: i, Volume: chunk, At: at(src.Bottom(SourceDepth))})
		if NeedsAirGap(chunk) {
			b.add(domain.Step{Op: domain.OpAirGap, Phase: domain.PhaseTransfer, Chunk: i, Volume: AirGapVolume})
		}
		b.add(domain.Step{Op: domain.OpDispense, Phase: domain.PhaseTransfer, Chunk: i, Volume: out, At: at(dst.Bottom(DispenseDepth))})
		b.add(domain.Step{Op: domain.OpBlowOut, Phase: domain.PhaseTransfer, Chunk: i, At: at(dst.Bottom(BlowOutDepth))})
		b.add(domain.Step{Op: domain.OpTouchTip, Phase: domain.PhaseTransfer, Chunk: i, At: at(dst.Top(TouchTipOffset)), Speed: TouchTipSpeed})
		b.add(domain.Step{Op: domain.OpBlowOut, Phase: domain.PhaseTransfer, Chunk: i, At: at(dst.Top(TopBlowOutOffset))})
	}

	b.add(domain.Step{Op: domain.OpDropTip, Phase: domain.PhaseTip})
	p.Steps = b.steps
	return p
}

type builder struct {
	steps []domain.Step
}

func (b *builder) add(s domain.Step) { b.steps = append(b.steps, s) }

func at(p domain.Position) *domain.Position { return &p }
