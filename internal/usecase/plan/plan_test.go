package plan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/xferbot/internal/domain"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decimals(ss ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(ss))
	for _, s := range ss {
		out = append(out, d(s))
	}
	return out
}

var (
	srcWell = domain.Well{Role: domain.RoleSource, Plate: 1, Name: "A1"}
	dstWell = domain.Well{Role: domain.RoleDestination, Plate: 2, Name: "H12"}
)

func request(volume string) domain.TransferRequest {
	return domain.TransferRequest{
		Row:         2,
		SourcePlate: 1,
		SourceWell:  "A1",
		DestPlate:   2,
		DestWell:    "H12",
		Volume:      d(volume),
	}
}

func TestMixVolume(t *testing.T) {
	tests := []struct {
		volume string
		want   string
	}{
		{"0.3", "0.24"},
		{"5", "4"},
		{"19", "15.2"},
		{"20", "16"},
		{"20.01", "20"},
		{"25", "20"},
		{"200", "20"},
	}

	for _, tt := range tests {
		t.Run(tt.volume, func(t *testing.T) {
			got := MixVolume(d(tt.volume))
			assert.True(t, got.Equal(d(tt.want)), "MixVolume(%s) = %s, want %s", tt.volume, got, tt.want)
		})
	}
}

func TestSplitVolume(t *testing.T) {
	tests := []struct {
		name   string
		volume string
		want   []decimal.Decimal
	}{
		{name: "tiny", volume: "0.3", want: decimals("0.3")},
		{name: "exactly limit stays direct", volume: "19", want: decimals("19")},
		{name: "just above limit", volume: "19.5", want: decimals("19", "0.5")},
		{name: "leaves a 1 µL tail", volume: "20", want: decimals("19", "1")},
		{name: "two chunks", volume: "25", want: decimals("19", "6")},
		{name: "exact multiple", volume: "38", want: decimals("19", "19")},
		{name: "three chunks", volume: "50", want: decimals("19", "19", "12")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitVolume(d(tt.volume))
			if diff := cmp.Diff(tt.want, got, decimalEqual); diff != "" {
				t.Fatalf("SplitVolume(%s) mismatch (-want +got):\n%s", tt.volume, diff)
			}
		})
	}
}

func TestSplitVolume_Properties(t *testing.T) {
	step := d("0.1")
	for v := step; v.LessThanOrEqual(decimal.NewFromInt(120)); v = v.Add(step) {
		chunks := SplitVolume(v)

		wantCount := v.Div(MaxTransferVolume).Ceil().IntPart()
		require.Equal(t, wantCount, int64(len(chunks)), "chunk count for %s", v)

		sum := decimal.Zero
		for i, c := range chunks {
			sum = sum.Add(c)
			if i < len(chunks)-1 {
				require.True(t, c.Equal(MaxTransferVolume), "chunk %d of %s is %s", i, v, c)
			}
		}
		require.True(t, sum.Equal(v), "chunks of %s sum to %s", v, sum)

		last := chunks[len(chunks)-1]
		require.True(t, last.IsPositive(), "last chunk of %s must be > 0", v)
		require.True(t, last.LessThanOrEqual(MaxTransferVolume), "last chunk of %s must be <= 19", v)
	}
}

func TestDispenseVolume(t *testing.T) {
	assert.True(t, DispenseVolume(d("0.49")).Equal(d("0.49")))
	assert.True(t, DispenseVolume(d("0.5")).Equal(d("1")))
	assert.True(t, DispenseVolume(d("19")).Equal(d("19.5")))
	assert.False(t, NeedsAirGap(d("0.3")))
	assert.True(t, NeedsAirGap(d("0.5")))
}

func TestPeakVolume(t *testing.T) {
	cases := []struct {
		volume string
		want   string
	}{
		{"0.3", "0.3"},
		{"5", "5.5"},
		{"19", "19.5"},
		{"19.3", "19.5"},
		{"25", "20"},
		{"120", "20"},
	}
	for _, tc := range cases {
		assert.True(t, PeakVolume(d(tc.volume)).Equal(d(tc.want)), "PeakVolume(%s)", tc.volume)
	}
}

func TestBuild_Examples(t *testing.T) {
	tests := []struct {
		name          string
		volume        string
		wantMix       string
		wantChunks    []decimal.Decimal
		wantDispensed []decimal.Decimal
		wantAirGaps   int
	}{
		{
			name:          "direct with air gap",
			volume:        "5",
			wantMix:       "4",
			wantChunks:    decimals("5"),
			wantDispensed: decimals("5.5"),
			wantAirGaps:   1,
		},
		{
			name:          "split in two",
			volume:        "25",
			wantMix:       "20",
			wantChunks:    decimals("19", "6"),
			wantDispensed: decimals("19.5", "6.5"),
			wantAirGaps:   2,
		},
		{
			name:          "limit is direct",
			volume:        "19",
			wantMix:       "15.2",
			wantChunks:    decimals("19"),
			wantDispensed: decimals("19.5"),
			wantAirGaps:   1,
		},
		{
			name:          "below air gap threshold",
			volume:        "0.3",
			wantMix:       "0.24",
			wantChunks:    decimals("0.3"),
			wantDispensed: decimals("0.3"),
			wantAirGaps:   0,
		},
		{
			name:          "air gap threshold",
			volume:        "0.5",
			wantMix:       "0.4",
			wantChunks:    decimals("0.5"),
			wantDispensed: decimals("1"),
			wantAirGaps:   1,
		},
		{
			name:          "tiny tail still gets an air gap",
			volume:        "20",
			wantMix:       "16",
			wantChunks:    decimals("19", "1"),
			wantDispensed: decimals("19.5", "1.5"),
			wantAirGaps:   2,
		},
		{
			name:          "tail below threshold",
			volume:        "19.3",
			wantMix:       "15.44",
			wantChunks:    decimals("19", "0.3"),
			wantDispensed: decimals("19.5", "0.3"),
			wantAirGaps:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(request(tt.volume), srcWell, dstWell)

			assert.True(t, p.MixVolume.Equal(d(tt.wantMix)), "mix volume %s, want %s", p.MixVolume, tt.wantMix)
			if diff := cmp.Diff(tt.wantChunks, p.Chunks, decimalEqual); diff != "" {
				t.Fatalf("chunks mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantDispensed, p.Dispensed, decimalEqual); diff != "" {
				t.Fatalf("dispensed mismatch (-want +got):\n%s", diff)
			}

			n := len(tt.wantChunks)
			assert.Equal(t, 1, p.Count(domain.OpPickUpTip))
			assert.Equal(t, 1, p.Count(domain.OpDropTip))
			assert.Equal(t, MixCycles+n, p.Count(domain.OpAspirate))
			assert.Equal(t, MixCycles+n, p.Count(domain.OpDispense))
			assert.Equal(t, tt.wantAirGaps, p.Count(domain.OpAirGap))
			assert.Equal(t, 2*n, p.Count(domain.OpBlowOut))
			assert.Equal(t, n, p.Count(domain.OpTouchTip))
			assert.Equal(t, n > 1, p.Split())

			assert.Equal(t, domain.OpPickUpTip, p.Steps[0].Op)
			assert.Equal(t, domain.OpDropTip, p.Steps[len(p.Steps)-1].Op)
		})
	}
}

func TestBuild_DirectStepSequence(t *testing.T) {
	p := Build(request("5"), srcWell, dstWell)

	pos := func(p domain.Position) *domain.Position { return &p }
	mixAt := pos(srcWell.Bottom(0.5))
	mix := []domain.Step{
		{Op: domain.OpAspirate, Phase: domain.PhaseMix, Volume: d("4"), At: mixAt},
		{Op: domain.OpDispense, Phase: domain.PhaseMix, Volume: d("4"), At: mixAt},
	}

	want := []domain.Step{{Op: domain.OpPickUpTip, Phase: domain.PhaseTip}}
	for i := 0; i < 3; i++ {
		want = append(want, mix...)
	}
	want = append(want,
		domain.Step{Op: domain.OpAspirate, Phase: domain.PhaseTransfer, Volume: d("5"), At: pos(srcWell.Bottom(0.5))},
		domain.Step{Op: domain.OpAirGap, Phase: domain.PhaseTransfer, Volume: d("0.5")},
		domain.Step{Op: domain.OpDispense, Phase: domain.PhaseTransfer, Volume: d("5.5"), At: pos(dstWell.Bottom(1))},
		domain.Step{Op: domain.OpBlowOut, Phase: domain.PhaseTransfer, At: pos(dstWell.Bottom(2))},
		domain.Step{Op: domain.OpTouchTip, Phase: domain.PhaseTransfer, At: pos(dstWell.Top(-5)), Speed: 10},
		domain.Step{Op: domain.OpBlowOut, Phase: domain.PhaseTransfer, At: pos(dstWell.Top(-2))},
		domain.Step{Op: domain.OpDropTip, Phase: domain.PhaseTip},
	)

	if diff := cmp.Diff(want, p.Steps, decimalEqual); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_SplitChunksAreTagged(t *testing.T) {
	p := Build(request("25"), srcWell, dstWell)

	var transfer []domain.Step
	for _, s := range p.Steps {
		if s.Phase == domain.PhaseTransfer {
			transfer = append(transfer, s)
		}
	}
	// aspirate, air gap, dispense, blow out, touch tip, blow out per chunk
	require.Len(t, transfer, 12)
	for i, s := range transfer {
		assert.Equal(t, i/6, s.Chunk, "step %d (%s)", i, s.Op)
	}
	assert.True(t, transfer[0].Volume.Equal(d("19")))
	assert.True(t, transfer[6].Volume.Equal(d("6")))
	assert.True(t, transfer[8].Volume.Equal(d("6.5")))
}
