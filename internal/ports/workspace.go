package ports

import "github.com/aalvaropc/xferbot/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
