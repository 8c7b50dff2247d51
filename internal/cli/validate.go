package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/xferbot/internal/usecase"
)

func validateCmd() *cobra.Command {
	var workspace string
	var manifest string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate a manifest against the configured deck (no pipetting)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			manifestPath, err := resolveManifestPath(ws, manifest)
			if err != nil {
				return err
			}

			uc := usecase.NewValidateManifest(ws.manifests, ws.cfg)
			m, summary, err := uc.Execute(cmd.Context(), manifestPath)
			if err != nil {
				return err
			}

			printSummary(os.Stdout, defaultTheme(), summary)
			fmt.Printf("OK (%s)\n", m.Name)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&manifest, "manifest", "m", "", "Manifest name or path (defaults to defaults.manifest)")
	return c
}
