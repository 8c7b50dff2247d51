package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/infra/config"
	"github.com/aalvaropc/xferbot/internal/infra/csvmanifest"
	"github.com/aalvaropc/xferbot/internal/infra/deck"
	"github.com/aalvaropc/xferbot/internal/infra/runstore"
	"github.com/aalvaropc/xferbot/internal/infra/simulator"
	"github.com/aalvaropc/xferbot/internal/infra/workspacefinder"
	"github.com/aalvaropc/xferbot/internal/ports"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	manifests ports.ManifestLoader
	store     ports.ArtifactStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	return &workspaceCtx{
		root: root,
		cfg:  cfg,
		manifests: csvmanifest.NewLoader(
			csvmanifest.WithManifestsDir(cfg.Paths.ManifestsDir),
		),
		store: runstore.NewJSONStore(root, cfg, runstore.WithIndex(true)),
	}, nil
}

// newDeck returns a freshly loaded deck. Every run starts from an empty liquid map.
func (ws *workspaceCtx) newDeck() (*deck.Deck, error) {
	return deck.New(ws.cfg.Deck)
}

func (ws *workspaceCtx) newInstrument(log *slog.Logger) *simulator.Simulator {
	return simulator.New(
		simulator.WithTipRacks(ws.cfg.Deck.TipRacks),
		simulator.WithMaxVolume(ws.cfg.Pipette.MaxVolume),
		simulator.WithLogger(log),
	)
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `xferbot init`): %w", wd, err)
	}
	return root, nil
}

// resolveManifestPath accepts a path, a file name under the manifests dir, or
// a bare manifest name. An empty arg falls back to defaults.manifest.
func resolveManifestPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		in = strings.TrimSpace(ws.cfg.Defaults.Manifest)
	}
	if in == "" {
		return "", fmt.Errorf("manifest is required (use --manifest or -m, or set defaults.manifest)")
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	manifestsDir := filepath.Join(ws.root, ws.cfg.Paths.ManifestsDir)

	if hasCSVExt(in) {
		p := filepath.Join(manifestsDir, in)
		if fileExists(p) {
			return p, nil
		}
	}

	p := filepath.Join(manifestsDir, in+".csv")
	if fileExists(p) {
		return p, nil
	}

	refs, err := ws.manifests.ListManifests(ws.root)
	if err == nil {
		for _, r := range refs {
			if strings.EqualFold(r.Name, in) {
				return r.Path, nil
			}
		}
	}

	return "", fmt.Errorf("manifest %q not found in %q", in, manifestsDir)
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasCSVExt(s string) bool {
	return strings.EqualFold(filepath.Ext(s), ".csv")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
