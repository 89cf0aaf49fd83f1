package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/log"
	"github.com/raphi011/gitkit/internal/output"
)

func newBlobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "blob <file|->",
		Short:   "Store a file as a blob",
		GroupID: GroupObjects,
		Args:    cobra.ExactArgs(1),
		Long: `Write the content of file (or stdin for "-") to the object database
and print the blob id. The index and work tree are not changed.`,
		Example: `  gitkit blob README.md
  echo hello | gitkit blob -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			var id git.Oid
			if args[0] == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				id, err = repo.CreateBlob(ctx, data)
				if err != nil {
					return err
				}
			} else {
				id, err = repo.CreateBlobFromPath(ctx, resolvePath(ctx, args[0]))
				if err != nil {
					return err
				}
			}

			l.Debug("stored blob", "id", id, "source", args[0])
			out.Println(id)
			return nil
		},
	}

	return cmd
}
