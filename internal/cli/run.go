package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/infra/logger"
	"github.com/aalvaropc/xferbot/internal/ports"
	"github.com/aalvaropc/xferbot/internal/usecase"
	"github.com/aalvaropc/xferbot/internal/usecase/plan"
)

func runCmd() *cobra.Command {
	var workspace string
	var manifest string
	var noSave bool
	var dryRun bool
	var format string

	c := &cobra.Command{
		Use:   "run",
		Short: "Execute a transfer manifest on the simulated pipette",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			manifestPath, err := resolveManifestPath(ws, manifest)
			if err != nil {
				return err
			}

			d, err := ws.newDeck()
			if err != nil {
				return err
			}

			var store ports.ArtifactStore = ws.store
			if noSave {
				store = nil
			}

			// The run ID is fixed up front so the instrument log carries it too.
			id := uuid.NewString()
			log := logger.ForRun(id, manifestPath)
			opts := []usecase.Option{
				usecase.WithLogger(log),
				usecase.WithIDGenerator(func() string { return id }),
			}

			var (
				run   domain.RunArtifact
				runID string
			)
			if dryRun {
				uc := usecase.NewPlanManifest(ws.manifests, d, store, ws.cfg, opts...)
				run, runID, err = uc.Execute(cmd.Context(), manifestPath)
			} else {
				uc := usecase.NewRunProtocol(ws.manifests, d, ws.newInstrument(log), store, ws.cfg, opts...)
				run, runID, err = uc.Execute(cmd.Context(), manifestPath)
			}

			if perr := printRun(os.Stdout, run, runID, format); perr != nil && err == nil {
				return perr
			}
			return err
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&manifest, "manifest", "m", "", "Manifest name or path (defaults to defaults.manifest)")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save run artifact under runs/")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "Plan every transfer without driving the pipette")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func printRun(w io.Writer, run domain.RunArtifact, runID string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		payload := map[string]any{
			"run_id": runID,
			"run":    run,
		}
		return enc.Encode(payload)
	case "pretty", "":
		printPrettyRun(w, run, runID)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyRun(w io.Writer, run domain.RunArtifact, runID string) {
	th := defaultTheme()

	total := run.EndedAt.Sub(run.StartedAt)
	if run.StartedAt.IsZero() || run.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintln(w, th.Title.Render("Manifest: "+run.ManifestName))
	fmt.Fprintf(w, "Pipette:    %s\n", run.Pipette)
	fmt.Fprintf(w, "Status:     %s\n", statusLabel(th, run.Status))
	fmt.Fprintf(w, "Started:    %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration:   %s\n", total)
	if runID != "" {
		fmt.Fprintf(w, "Run ID:     %s\n", runID)
	}
	fmt.Fprintln(w)

	printSummary(w, th, run.Summary)

	for _, r := range run.Results {
		label := "OK"
		switch {
		case r.Failed():
			label = "FAIL"
		case run.Status == domain.RunPlanned:
			label = "PLAN"
		}

		fmt.Fprintf(w, "- [%s] row %d: %s µL %s -> %s\n",
			th.status(label, r.Failed()), r.Row, r.Volume, r.Source, r.Destination)
		fmt.Fprintf(w, "  mix %s µL x%d, chunks %s, tips %d\n",
			r.MixVolume, plan.MixCycles, joinDecimals(r.Chunks), r.TipsUsed)
		if r.Error != nil {
			fmt.Fprintf(w, "  error: %s (%s)\n", r.Error.Message, r.Error.Kind)
		}
	}

	if run.Error != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, th.Fail.Render("error: "+run.Error.Message))
	}
}

func printSummary(w io.Writer, th theme, s domain.ManifestSummary) {
	lines := []string{
		fmt.Sprintf("Transfers:          %d (%d split)", s.Transfers, s.SplitTransfers),
		fmt.Sprintf("Source plates:      %v", s.SourcePlates),
		fmt.Sprintf("Destination plates: %v", s.DestinationPlates),
		fmt.Sprintf("Total volume:       %s µL", s.TotalVolume),
		fmt.Sprintf("Tips needed:        %d (%d rack(s))", s.TipsNeeded, s.TipRacksNeeded),
	}
	fmt.Fprintln(w, th.Card.Render(strings.Join(lines, "\n")))
	fmt.Fprintln(w)
}

func statusLabel(th theme, s domain.RunStatus) string {
	switch s {
	case domain.RunFailed:
		return th.Fail.Render(string(s))
	case domain.RunPlanned:
		return th.Planned.Render(string(s))
	default:
		return th.OK.Render(string(s))
	}
}
