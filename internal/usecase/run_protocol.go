package usecase

import (
	"context"
	"fmt"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/ports"
)

// RunProtocol executes a manifest on the instrument, one request at a time in
// manifest order, with one fresh tip per request. The first failure aborts
// the run; nothing is retried.
type RunProtocol struct {
	manifests  ports.ManifestLoader
	deck       ports.Deck
	instrument ports.Instrument
	store      ports.ArtifactStore
	cfg        domain.Config
	opts       runOptions
}

func NewRunProtocol(ml ports.ManifestLoader, deck ports.Deck, inst ports.Instrument, store ports.ArtifactStore, cfg domain.Config, opts ...Option) *RunProtocol {
	return &RunProtocol{
		manifests:  ml,
		deck:       deck,
		instrument: inst,
		store:      store,
		cfg:        cfg,
		opts:       buildOptions(opts),
	}
}

// Execute runs the manifest at path. Load and validation errors return before
// anything is executed or saved. Once execution starts the artifact is saved
// (when a store is configured) whether or not the run completes.
func (uc *RunProtocol) Execute(ctx context.Context, manifestPath string) (domain.RunArtifact, string, error) {
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
	run.Deck = uc.deck.Layout()

	j.rule()
	j.comment("STARTING PROTOCOL")
	j.rule()

	run.Results = make([]domain.TransferResult, 0, len(prep.plans))
	var runErr error
	for i, p := range prep.plans {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		j.comment("Transferring %s µL from source plate %d %s to destination plate %d %s (%d/%d)",
			p.Request.Volume, p.Source.Plate, p.Source.Name, p.Destination.Plate, p.Destination.Name, i+1, len(prep.plans))
		if p.Split() {
			j.comment("  Split into %d transfers", len(p.Chunks))
		}

		res := newResult(p)
		done, err := replay(ctx, uc.instrument, p.Steps)
		res.Steps = done
		res.TipsUsed = countOp(done, domain.OpPickUpTip)
		if err != nil {
			res.Error = domain.NewRunError(err)
			run.Results = append(run.Results, res)
			runErr = fmt.Errorf("row %d: %w", p.Request.Row, err)
			break
		}
		run.Results = append(run.Results, res)

		uc.opts.logger.Debug("transfer.done",
			"row", p.Request.Row,
			"volume", p.Request.Volume.String(),
			"chunks", len(p.Chunks),
		)
	}

	run.EndedAt = uc.opts.now()
	if runErr != nil {
		run.Status = domain.RunFailed
		run.Error = domain.NewRunError(runErr)
		j.comment("PROTOCOL ABORTED after %d of %d transfers: %v", completed(run.Results), len(prep.plans), runErr)
	} else {
		run.Status = domain.RunCompleted
		j.rule()
		j.comment("PROTOCOL COMPLETE!")
		j.comment("Total transfers: %d", len(run.Results))
		j.comment("Tips used: %d", tipsUsed(run.Results))
	}
	run.Comments = j.lines

	var id string
	if uc.store != nil {
		var saveErr error
		id, saveErr = uc.store.SaveRun(run)
		if saveErr != nil && runErr == nil {
			return run, "", saveErr
		}
	}

	return run, id, runErr
}

func completed(results []domain.TransferResult) int {
	n := 0
	for _, r := range results {
		if !r.Failed() {
			n++
		}
	}
	return n
}

func tipsUsed(results []domain.TransferResult) int {
	n := 0
	for _, r := range results {
		n += r.TipsUsed
	}
	return n
}
