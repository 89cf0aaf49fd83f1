package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/log"
	"github.com/raphi011/gitkit/internal/output"
	"github.com/raphi011/gitkit/internal/ui/progress"
	"github.com/raphi011/gitkit/internal/ui/static"
	"github.com/raphi011/gitkit/internal/ui/styles"
)

// submoduleJSON is the JSON shape of a submodule.
type submoduleJSON struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	URL     string   `json:"url"`
	Branch  string   `json:"branch,omitempty"`
	IndexID *git.Oid `json:"index_id,omitempty"`
	Head    *git.Oid `json:"head,omitempty"`
}

func describeSubmodule(ctx context.Context, sm *git.Submodule) (submoduleJSON, error) {
	j := submoduleJSON{Name: sm.Name(), Path: sm.Path(), URL: sm.URL()}
	j.Branch, _ = sm.Branch()
	id, ok, err := sm.IndexID(ctx)
	if err != nil {
		return j, err
	}
	if ok {
		j.IndexID = &id
	}
	return j, nil
}

// submoduleHeads reads the commit each nested repository has checked out.
// Every worker opens its own handle, so the lookups run in parallel.
// Submodules that are not cloned or have no commit yet get nil.
func submoduleHeads(ctx context.Context, subs []*git.Submodule) ([]*git.Oid, error) {
	heads := make([]*git.Oid, len(subs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, sm := range subs {
		g.Go(func() error {
			sub, err := sm.Open(gctx)
			if err != nil {
				if errors.Is(err, git.ErrNotFound) || errors.Is(err, git.ErrBareRepo) {
					return nil
				}
				return fmt.Errorf("submodule %s: %w", sm.Path(), err)
			}
			defer sub.Close()

			head, err := sub.Head(gctx)
			if err != nil {
				if errors.Is(err, git.ErrUnbornBranch) || errors.Is(err, git.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("submodule %s: %w", sm.Path(), err)
			}
			if id, ok := head.Target(); ok {
				heads[i] = &id
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return heads, nil
}

func shortOrDash(id *git.Oid) string {
	if id == nil {
		return "-"
	}
	return id.Short(7)
}

func newSubmoduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submodule",
		Short:   "Manage submodules",
		GroupID: GroupRemotes,
		Long: `Inspect and add submodules recorded in .gitmodules.

Use subcommands to list, add or show submodules.`,
		Example: `  gitkit submodule list
  gitkit submodule add https://github.com/org/lib libs/lib
  gitkit submodule show libs/lib`,
	}

	cmd.AddCommand(newSubmoduleListCmd())
	cmd.AddCommand(newSubmoduleAddCmd())
	cmd.AddCommand(newSubmoduleShowCmd())

	return cmd
}

func newSubmoduleListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List submodules in .gitmodules order",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			subs, err := repo.Submodules(ctx)
			if err != nil {
				return err
			}

			heads, err := submoduleHeads(ctx, subs)
			if err != nil {
				return err
			}

			entries := make([]submoduleJSON, 0, len(subs))
			rows := make([][]string, 0, len(subs))
			for i, sm := range subs {
				j, err := describeSubmodule(ctx, sm)
				if err != nil {
					return err
				}
				j.Head = heads[i]
				entries = append(entries, j)
				rows = append(rows, []string{j.Path, shortOrDash(j.IndexID), shortOrDash(j.Head), styles.FormatURL(j.URL)})
			}

			if jsonOutput {
				return out.JSON(entries)
			}
			out.Print(static.RenderTable([]string{"PATH", "COMMIT", "HEAD", "URL"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newSubmoduleShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "show <name|path>",
		Short:   "Show a submodule",
		Args:    cobra.ExactArgs(1),
		Example: `  gitkit submodule show libs/lib`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			sm, err := repo.FindSubmodule(ctx, args[0])
			if err != nil {
				if subs, listErr := repo.Submodules(ctx); listErr == nil {
					paths := make([]string, 0, len(subs))
					for _, s := range subs {
						paths = append(paths, s.Path())
					}
					err = withSuggestions(err, args[0], paths)
				}
				return err
			}

			j, err := describeSubmodule(ctx, sm)
			if err != nil {
				return err
			}
			heads, err := submoduleHeads(ctx, []*git.Submodule{sm})
			if err != nil {
				return err
			}
			j.Head = heads[0]
			if jsonOutput {
				return out.JSON(j)
			}

			commit := "-"
			if j.IndexID != nil {
				commit = j.IndexID.String()
			}
			out.Print(static.RenderFields([][2]string{
				{"name", j.Name},
				{"path", j.Path},
				{"url", styles.FormatURL(j.URL)},
				{"branch", orDash(j.Branch)},
				{"commit", commit},
				{"head", shortOrDash(j.Head)},
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newSubmoduleAddCmd() *cobra.Command {
	var (
		branch     string
		noGitlink  bool
		noCheckout bool
	)

	cmd := &cobra.Command{
		Use:   "add <url> <path>",
		Short: "Add a submodule",
		Args:  cobra.ExactArgs(2),
		Long: `Record url at path in .gitmodules and create the nested repository.

Unless --no-checkout is given, the submodule is fetched, branch (default:
the remote's main or master, else its first branch) is checked out and
the result is staged. The nested control directory lives under
.git/modules unless --no-gitlink is given.`,
		Example: `  gitkit submodule add https://github.com/org/lib libs/lib
  gitkit submodule add --branch develop ../lib libs/lib
  gitkit submodule add --no-checkout https://github.com/org/lib libs/lib`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			repo, cfg, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			sm, err := repo.AddSubmodule(ctx, args[0], args[1], !noGitlink)
			if err != nil {
				return err
			}
			if noCheckout {
				l.Printf("Added submodule %s; fetch and commit in it, then run it again without --no-checkout\n", sm.Path())
				return nil
			}

			sub, err := sm.Open(ctx)
			if err != nil {
				return err
			}
			defer sub.Close()

			err = progress.Run(fmt.Sprintf("Fetching %s", args[0]), func() error {
				origin, err := sub.FindRemote(ctx, "origin")
				if err != nil {
					return err
				}
				return origin.Fetch(ctx, nil)
			})
			if err != nil {
				return err
			}

			name, err := checkoutRemoteBranch(ctx, sub, branch, reflogSignature(ctx, repo, cfg))
			if err != nil {
				return err
			}
			if err := sm.AddFinalize(ctx); err != nil {
				return err
			}

			l.Printf("Added submodule %s at %s\n", sm.Path(), name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Remote branch to check out")
	cmd.Flags().BoolVar(&noGitlink, "no-gitlink", false, "Keep the nested control directory inside the submodule")
	cmd.Flags().BoolVar(&noCheckout, "no-checkout", false, "Only record the submodule")

	return cmd
}

// checkoutRemoteBranch creates a local branch from origin/<name> in a
// freshly fetched repository, points HEAD at it and checks it out. It
// returns the branch name.
func checkoutRemoteBranch(ctx context.Context, repo *git.Repository, name string, sig *git.Signature) (string, error) {
	if name == "" {
		var err error
		if name, err = defaultRemoteBranch(ctx, repo, "origin"); err != nil {
			return "", err
		}
	}

	remote, err := lookupBranch(ctx, repo, "origin/"+name, git.BranchRemote)
	if err != nil {
		return "", err
	}
	obj, err := remote.Reference().Peel(ctx, git.ObjectCommit)
	if err != nil {
		return "", err
	}
	commit, _ := obj.AsCommit()

	local, err := repo.CreateBranch(ctx, name, commit, false, sig, "branch: Created from origin/"+name)
	if err != nil {
		return "", err
	}
	if _, err := repo.CreateSymbolicReference(ctx, "HEAD", local.Reference().Name(), true, sig, ""); err != nil {
		return "", err
	}
	if err := repo.Reset(ctx, obj, git.ResetHard, sig, ""); err != nil {
		return "", err
	}
	return name, nil
}

// defaultRemoteBranch picks main or master from the remote's branches,
// falling back to the first one.
func defaultRemoteBranch(ctx context.Context, repo *git.Repository, remote string) (string, error) {
	kind := git.BranchRemote
	names, err := branchNames(ctx, repo, &kind)
	if err != nil {
		return "", err
	}

	prefix := remote + "/"
	var candidates []string
	for _, n := range names {
		if short, ok := strings.CutPrefix(n, prefix); ok && short != "HEAD" {
			candidates = append(candidates, short)
		}
	}
	for _, preferred := range []string{"main", "master"} {
		for _, c := range candidates {
			if c == preferred {
				return c, nil
			}
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("remote %s has no branches", remote)
	}
	return candidates[0], nil
}
