package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func manifestsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "manifests",
		Short: "Manage transfer manifests in a workspace",
	}

	c.AddCommand(manifestsListCmd())
	return c
}

func manifestsListCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List manifests",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			refs, err := ws.manifests.ListManifests(ws.root)
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("(no manifests found)")
				return nil
			}

			fmt.Printf("Workspace: %s\n\n", ws.root)
			for _, r := range refs {
				rel, _ := filepath.Rel(ws.root, r.Path)
				fmt.Printf("- %s  (%s)\n", r.Name, rel)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}
