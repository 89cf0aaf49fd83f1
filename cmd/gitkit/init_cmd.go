package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/log"
	"github.com/raphi011/gitkit/internal/output"
)

func newInitCmd() *cobra.Command {
	var bare bool

	cmd := &cobra.Command{
		Use:     "init [directory]",
		Short:   "Create an empty repository",
		GroupID: GroupRepository,
		Args:    cobra.MaximumNArgs(1),
		Long: `Create an empty repository in directory (default: the current directory).

The directory is created when it does not exist yet.`,
		Example: `  gitkit init              # Work tree repository in .
  gitkit init project      # Work tree repository in ./project
  gitkit init --bare srv   # Bare repository in ./srv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			dir := workDirFromContext(ctx)
			if len(args) == 1 {
				dir = resolvePath(ctx, args[0])
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}

			initFn := git.Init
			if bare {
				initFn = git.InitBare
			}
			repo, err := initFn(ctx, dir)
			if err != nil {
				return err
			}
			defer repo.Close()

			l.Printf("Initialized empty repository in %s\n", repo.Path())
			out.Println(repo.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&bare, "bare", false, "Create a bare repository")

	return cmd
}
