package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/output"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print gitkit and git versions",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			out.Println(versionString())
			engine, err := git.Version(ctx)
			if err != nil {
				return err
			}
			out.Println(engine)
			return nil
		},
	}

	return cmd
}
