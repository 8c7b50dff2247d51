package ports

import "github.com/aalvaropc/xferbot/internal/domain"

// ManifestLoader loads transfer manifests from a source (e.g., filesystem).
type ManifestLoader interface {
	LoadManifest(path string) (domain.Manifest, error)
	ListManifests(root string) ([]domain.ManifestRef, error)
}
