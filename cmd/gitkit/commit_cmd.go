package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/log"
	"github.com/raphi011/gitkit/internal/output"
)

func newCommitTreeCmd() *cobra.Command {
	var (
		parents   []string
		messages  []string
		updateRef string
	)

	cmd := &cobra.Command{
		Use:     "commit-tree [tree]",
		Short:   "Create a commit from a tree",
		GroupID: GroupObjects,
		Args:    cobra.MaximumNArgs(1),
		Long: `Write a commit of tree with the given parents and print its id.

Without a tree argument the current index is written as the tree.
--update-ref moves a reference (HEAD is followed) to the new commit;
it fails unless the reference still points at the first parent.
Author and committer come from user.name/user.email, falling back to
[identity] in the gitkit config.`,
		Example: `  gitkit commit-tree -m "snapshot"                          # Commit the index, no parents
  gitkit commit-tree -p HEAD -m "next" --update-ref HEAD     # Advance the current branch
  gitkit commit-tree HEAD^{tree} -p main -p feature -m "merge"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			if len(messages) == 0 {
				return errors.New("a commit message is required (-m)")
			}

			repo, cfg, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			sig, err := signature(ctx, repo, cfg)
			if err != nil {
				return err
			}

			var treeID git.Oid
			if len(args) == 1 {
				obj, err := repo.RevparseSingle(ctx, args[0])
				if err != nil {
					return err
				}
				if obj.Kind() != git.ObjectTree {
					if obj, err = obj.Peel(ctx, git.ObjectTree); err != nil {
						return err
					}
				}
				treeID = obj.ID()
			} else {
				if treeID, err = repo.Index().WriteTree(ctx); err != nil {
					return err
				}
			}
			tree, err := repo.FindTree(ctx, treeID)
			if err != nil {
				return err
			}

			parentCommits := make([]*git.Commit, 0, len(parents))
			for _, p := range parents {
				c, err := resolveCommit(ctx, repo, p)
				if err != nil {
					return err
				}
				parentCommits = append(parentCommits, c)
			}

			message := strings.Join(messages, "\n\n")
			if !strings.HasSuffix(message, "\n") {
				message += "\n"
			}

			id, err := repo.CreateCommit(ctx, updateRef, sig, sig, message, tree, parentCommits)
			if err != nil {
				return err
			}

			if updateRef != "" {
				l.Printf("Updated %s to %s\n", updateRef, id.Short(7))
			}
			out.Println(id)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&parents, "parent", "p", nil, "Parent `revision` (repeatable)")
	cmd.Flags().StringArrayVarP(&messages, "message", "m", nil, "Commit message paragraph (repeatable)")
	cmd.Flags().StringVar(&updateRef, "update-ref", "", "Move `ref` to the new commit")
	cmd.RegisterFlagCompletionFunc("parent", completeRevisions)

	return cmd
}
