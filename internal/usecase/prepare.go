package usecase

import (
	"errors"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/ports"
	"github.com/aalvaropc/xferbot/internal/usecase/plan"
)

type prepared struct {
	manifest domain.Manifest
	summary  domain.ManifestSummary
	plans    []plan.Plan
}

// prepare loads and validates a manifest, marks the starting liquids on the
// deck and plans every request. Nothing touches the instrument.
func prepare(manifests ports.ManifestLoader, deck ports.Deck, cfg domain.Config, path string, j *journal) (prepared, error) {
	m, err := manifests.LoadManifest(path)
	if err != nil {
		return prepared{}, err
	}
	j.comment("Successfully parsed %d rows from CSV", len(m.Requests))

	j.rule()
	j.comment("VALIDATION: Checking CSV data against loaded plates")
	j.rule()
	summary, err := CheckManifest(m, cfg)
	j.summary(summary)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			j.comment("VALIDATION FAILED:")
			for _, issue := range ve.Issues {
				j.comment("%s", issue)
			}
		}
		return prepared{manifest: m, summary: summary}, err
	}

	for _, r := range m.Requests {
		deck.MarkLiquid(r.SourcePlate, r.SourceWell, r.Volume)
	}

	plans := make([]plan.Plan, 0, len(m.Requests))
	for _, r := range m.Requests {
		src, err := deck.Well(domain.RoleSource, r.SourcePlate, r.SourceWell)
		if err != nil {
			return prepared{manifest: m, summary: summary}, err
		}
		dst, err := deck.Well(domain.RoleDestination, r.DestPlate, r.DestWell)
		if err != nil {
			return prepared{manifest: m, summary: summary}, err
		}
		plans = append(plans, plan.Build(r, src, dst))
	}

	return prepared{manifest: m, summary: summary, plans: plans}, nil
}

func newResult(p plan.Plan) domain.TransferResult {
	return domain.TransferResult{
		Row:         p.Request.Row,
		Source:      p.Source,
		Destination: p.Destination,
		Volume:      p.Request.Volume,
		MixVolume:   p.MixVolume,
		Chunks:      p.Chunks,
		Dispensed:   p.Dispensed,
	}
}
