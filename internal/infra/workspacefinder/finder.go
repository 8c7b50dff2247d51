// Package workspacefinder resolves the xferbot workspace that a command runs
// in: the nearest directory at or above the start point holding xferbot.yaml.
package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/infra/config"
	"github.com/aalvaropc/xferbot/internal/ports"
)

type Finder struct {
	ConfigFile string // defaults to config.FileName
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: config.FileName}
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

// FindRoot walks up from startDir (or the directory of startDir when it names
// a file, such as a manifest). Only a regular file counts as the marker. The
// not-found error carries startDir as its path.
func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindExecution,
			Path: startDir,
			Err:  err,
		}
	}

	if info, statErr := os.Stat(abs); statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for cur := filepath.Clean(abs); ; {
		if isMarker(filepath.Join(cur, f.ConfigFile)) {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{
				Op:   "workspacefinder.findroot",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}

func isMarker(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
