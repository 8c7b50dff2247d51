package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/xferbot/internal/infra/fsworkspace"
	"github.com/aalvaropc/xferbot/internal/usecase"
)

func initCmd() *cobra.Command {
	var path string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a xferbot workspace (xferbot.yaml, manifests/, runs/)",
		RunE: func(_ *cobra.Command, _ []string) error {
			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			root, err := uc.Execute(path, force)
			if err != nil {
				return err
			}

			fmt.Printf("Workspace ready at %s\n", root)
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", ".", "Directory to initialize")
	c.Flags().BoolVar(&force, "force", false, "Overwrite existing template files")
	return c
}
