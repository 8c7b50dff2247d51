package plan

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/xferbot/internal/domain"
)

// TipsPerRequest is fixed: every request gets a fresh tip.
const TipsPerRequest = 1

// Summarize computes the pre-flight numbers for a list of requests.
func Summarize(reqs []domain.TransferRequest) domain.ManifestSummary {
	src := map[int]struct{}{}
	dst := map[int]struct{}{}

	s := domain.ManifestSummary{
		Transfers:   len(reqs),
		TotalVolume: decimal.Zero,
	}
	for _, r := range reqs {
		src[r.SourcePlate] = struct{}{}
		dst[r.DestPlate] = struct{}{}
		s.TotalVolume = s.TotalVolume.Add(r.Volume)
		if r.Volume.GreaterThan(MaxTransferVolume) {
			s.SplitTransfers++
		}
	}

	s.SourcePlates = sortedKeys(src)
	s.DestinationPlates = sortedKeys(dst)
	s.TipsNeeded = len(reqs) * TipsPerRequest
	s.TipRacksNeeded = TipRacksFor(s.TipsNeeded)
	return s
}

// TipRacksFor returns ceil(tips / domain.TipsPerRack).
func TipRacksFor(tips int) int {
	if tips <= 0 {
		return 0
	}
	return (tips + domain.TipsPerRack - 1) / domain.TipsPerRack
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
