package commands

import (
	"github.com/spf13/cobra"

	"schooladmin_backend/internals/seeds"
)

func addSeed(topLevel *cobra.Command) {
	var (
		dir       string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load operator accounts and sample documents from JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()
			return seeds.RunAllSeeds(cmd.Context(), e.backends.Docs, e.auth, dir, overwrite)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "internals/seeds", "Directory holding the seed JSON files.")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace documents that already exist.")
	topLevel.AddCommand(cmd)
}
