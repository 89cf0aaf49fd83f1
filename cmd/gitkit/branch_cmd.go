package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/config"
	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/log"
	"github.com/raphi011/gitkit/internal/output"
	"github.com/raphi011/gitkit/internal/ui/static"
	"github.com/raphi011/gitkit/internal/ui/styles"
)

// branchJSON is the JSON shape of "gitkit branch list".
type branchJSON struct {
	Name     string  `json:"name"`
	Kind     string  `json:"type"`
	Target   git.Oid `json:"target"`
	Head     bool    `json:"head"`
	Upstream string  `json:"upstream,omitempty"`
}

func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branch",
		Short:   "Manage branches",
		GroupID: GroupRefs,
		Long: `Manage local and remote-tracking branches.

Use subcommands to list, create or delete branches.`,
		Example: `  gitkit branch list
  gitkit branch create feature main
  gitkit branch delete feature`,
	}

	cmd.AddCommand(newBranchListCmd())
	cmd.AddCommand(newBranchCreateCmd())
	cmd.AddCommand(newBranchDeleteCmd())

	return cmd
}

// branchFilter maps a config filter name to a Branches filter.
func branchFilter(name string) (*git.BranchType, error) {
	if err := config.ValidateBranchFilter(name); err != nil {
		return nil, err
	}
	if name == "all" {
		return nil, nil
	}
	kind, err := git.ParseBranchType(name)
	if err != nil {
		return nil, err
	}
	return &kind, nil
}

func newBranchListCmd() *cobra.Command {
	var (
		filter     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List branches",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		Long: `List branches with the commit they point at and their upstream.

--filter defaults to branches.default_filter from the config.`,
		Example: `  gitkit branch list
  gitkit branch list --filter remote
  gitkit branch list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repo, cfg, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if !cmd.Flags().Changed("filter") {
				filter = cfg.Branches.DefaultFilter
			}
			kind, err := branchFilter(filter)
			if err != nil {
				return err
			}

			it, err := repo.Branches(ctx, kind)
			if err != nil {
				return err
			}
			defer it.Close()

			var branches []branchJSON
			for b, err := range it.All() {
				if err != nil {
					return err
				}
				entry, err := describeBranch(ctx, b)
				if err != nil {
					return err
				}
				branches = append(branches, entry)
			}

			if jsonOutput {
				if branches == nil {
					branches = []branchJSON{}
				}
				return out.JSON(branches)
			}

			rows := make([][]string, 0, len(branches))
			for _, b := range branches {
				rows = append(rows, []string{
					styles.FormatHead(b.Name, b.Head),
					b.Target.Short(7),
					orDash(b.Upstream),
				})
			}
			out.Print(static.RenderTable([]string{"BRANCH", "COMMIT", "UPSTREAM"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", config.DefaultBranchFilter, "Which branches to list: local, remote or all")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.RegisterFlagCompletionFunc("filter", cobra.FixedCompletions(config.ValidBranchFilters, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// describeBranch collects what "branch list" shows about b.
func describeBranch(ctx context.Context, b *git.Branch) (branchJSON, error) {
	entry := branchJSON{Name: b.Name(), Kind: b.Kind().String()}
	entry.Target, _ = b.Reference().Target()

	if b.Kind() != git.BranchLocal {
		return entry, nil
	}
	head, err := b.IsHead(ctx)
	if err != nil {
		return entry, err
	}
	entry.Head = head

	up, err := b.Upstream(ctx)
	switch {
	case err == nil:
		entry.Upstream = up.Name()
	case errors.Is(err, git.ErrNotFound):
	default:
		return entry, err
	}
	return entry, nil
}

func newBranchCreateCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "create <name> [start]",
		Short: "Create a branch",
		Args:  cobra.RangeArgs(1, 2),
		Long: `Create a local branch at start (default: HEAD).

An existing branch is only moved with --force. The branch HEAD points
at cannot be force-moved.`,
		Example: `  gitkit branch create feature
  gitkit branch create hotfix v1.2.0
  gitkit branch create --force feature main`,
		ValidArgsFunction: completeRevisionsAt(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			repo, cfg, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			start := "HEAD"
			if len(args) == 2 {
				start = args[1]
			}
			target, err := resolveCommit(ctx, repo, start)
			if err != nil {
				return err
			}

			b, err := repo.CreateBranch(ctx, args[0], target, force, reflogSignature(ctx, repo, cfg), "")
			if err != nil {
				return err
			}

			l.Printf("Created branch %s at %s\n", b.Name(), target.ID().Short(7))
			out.Println(b.Reference().Name())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Move the branch if it already exists")

	return cmd
}

func newBranchDeleteCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:               "delete <name>...",
		Short:             "Delete branches",
		Aliases:           []string{"rm"},
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeBranches,
		Example: `  gitkit branch delete feature
  gitkit branch delete --remote origin/old`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			kind := git.BranchLocal
			if remote {
				kind = git.BranchRemote
			}

			for _, name := range args {
				b, err := lookupBranch(ctx, repo, name, kind)
				if err != nil {
					return err
				}
				id, _ := b.Reference().Target()
				if err := b.Delete(ctx); err != nil {
					return err
				}
				l.Printf("Deleted branch %s (was %s)\n", name, id.Short(7))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "Delete remote-tracking branches")

	return cmd
}
