package usecase

import (
	"context"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/ports"
)

// ValidateManifest loads a manifest and checks it against the configured
// deck without planning or executing anything.
type ValidateManifest struct {
	manifests ports.ManifestLoader
	cfg       domain.Config
}

func NewValidateManifest(ml ports.ManifestLoader, cfg domain.Config) *ValidateManifest {
	return &ValidateManifest{manifests: ml, cfg: cfg}
}

// Execute returns the manifest summary even when validation fails, so the
// caller can show both.
func (uc *ValidateManifest) Execute(ctx context.Context, manifestPath string) (domain.Manifest, domain.ManifestSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.Manifest{}, domain.ManifestSummary{}, err
	}
	m, err := uc.manifests.LoadManifest(manifestPath)
	if err != nil {
		return domain.Manifest{}, domain.ManifestSummary{}, err
	}
	s, err := CheckManifest(m, uc.cfg)
	return m, s, err
}
