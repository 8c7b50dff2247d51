package usecase

import (
	"context"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/ports"
)

// PlanManifest is the dry-run counterpart of RunProtocol: it validates and
// plans every request but never drives an instrument.
type PlanManifest struct {
	manifests ports.ManifestLoader
	deck      ports.Deck
	store     ports.ArtifactStore
	cfg       domain.Config
	opts      runOptions
}

func NewPlanManifest(ml ports.ManifestLoader, deck ports.Deck, store ports.ArtifactStore, cfg domain.Config, opts ...Option) *PlanManifest {
	return &PlanManifest{
		manifests: ml,
		deck:      deck,
		store:     store,
		cfg:       cfg,
		opts:      buildOptions(opts),
	}
}

func (uc *PlanManifest) Execute(ctx context.Context, manifestPath string) (domain.RunArtifact, string, error) {
	j := newJournal(uc.opts.logger)
	run := domain.RunArtifact{
		ID:           uc.opts.newID(),
		ManifestPath: manifestPath,
		Pipette:      uc.cfg.Pipette.Name,
		StartedAt:    uc.opts.now(),
	}

	prep, err := prepare(uc.manifests, uc.deck, uc.cfg, manifestPath, j)
	run.ManifestName = prep.manifest.Name
	run.Summary = prep.summary
	if err != nil {
		run.Status = domain.RunFailed
		run.Error = domain.NewRunError(err)
		run.Comments = j.lines
		run.EndedAt = uc.opts.now()
		return run, "", err
	}
	if err := ctx.Err(); err != nil {
		return run, "", err
	}
	run.Deck = uc.deck.Layout()

	run.Results = make([]domain.TransferResult, 0, len(prep.plans))
	for _, p := range prep.plans {
		res := newResult(p)
		res.Steps = p.Steps
		res.TipsUsed = p.Count(domain.OpPickUpTip)
		run.Results = append(run.Results, res)
	}
	j.comment("DRY RUN: planned %d transfers, nothing was executed", len(run.Results))

	run.Status = domain.RunPlanned
	run.Comments = j.lines
	run.EndedAt = uc.opts.now()

	if uc.store == nil {
		return run, "", nil
	}
	id, err := uc.store.SaveRun(run)
	if err != nil {
		return run, "", err
	}
	return run, id, nil
}
