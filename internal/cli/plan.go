package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/aalvaropc/xferbot/internal/domain"
	"github.com/aalvaropc/xferbot/internal/infra/logger"
	"github.com/aalvaropc/xferbot/internal/usecase"
)

// planCmd prints the full step list for every transfer without saving anything.
func planCmd() *cobra.Command {
	var workspace string
	var manifest string
	var row int

	c := &cobra.Command{
		Use:   "plan",
		Short: "Print the pipetting steps planned for a manifest",
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

			uc := usecase.NewPlanManifest(ws.manifests, d, nil, ws.cfg, usecase.WithLogger(logger.L()))
			run, _, err := uc.Execute(cmd.Context(), manifestPath)
			if err != nil {
				return err
			}

			printSteps(os.Stdout, run.Results, row)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&manifest, "manifest", "m", "", "Manifest name or path (defaults to defaults.manifest)")
	c.Flags().IntVar(&row, "row", 0, "Only print the transfer from this manifest row")
	return c
}

func printSteps(w io.Writer, results []domain.TransferResult, row int) {
	th := defaultTheme()
	for _, r := range results {
		if row > 0 && r.Row != row {
			continue
		}
		fmt.Fprintln(w, th.Title.Render(fmt.Sprintf("row %d: %s µL %s -> %s", r.Row, r.Volume, r.Source, r.Destination)))
		for i, s := range r.Steps {
			fmt.Fprintf(w, "  %2d. %-8s %s\n", i+1, th.Subtitle.Render(string(s.Phase)), s)
		}
		fmt.Fprintln(w)
	}
}

func joinDecimals(ds []decimal.Decimal) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
