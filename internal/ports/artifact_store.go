package ports

import "github.com/aalvaropc/xferbot/internal/domain"

// ArtifactStore persists run artifacts.
type ArtifactStore interface {
	SaveRun(run domain.RunArtifact) (id string, err error)
}
