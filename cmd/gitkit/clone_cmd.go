package main

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/log"
	"github.com/raphi011/gitkit/internal/output"
	"github.com/raphi011/gitkit/internal/ui/progress"
)

func newCloneCmd() *cobra.Command {
	var (
		bare   bool
		branch string
		depth  int
	)

	cmd := &cobra.Command{
		Use:     "clone <url> [destination]",
		Short:   "Clone a repository",
		GroupID: GroupRepository,
		Args:    cobra.RangeArgs(1, 2),
		Long: `Clone a repository into destination.

If destination is not specified, it is derived from the URL
("repo" for .../repo.git, "repo.git" with --bare).
--bare and --depth default to the [clone] section of the config.`,
		Example: `  gitkit clone https://github.com/org/repo          # Clone to ./repo
  gitkit clone https://github.com/org/repo myrepo   # Clone to ./myrepo
  gitkit clone --bare --depth 1 file:///srv/repo    # Shallow bare clone`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			cfg := globalConfig(ctx)

			if !cmd.Flags().Changed("bare") {
				bare = cfg.Clone.Bare
			}
			if !cmd.Flags().Changed("depth") {
				depth = cfg.Clone.Depth
			}
			if depth < 0 {
				return fmt.Errorf("invalid --depth %d: must be 0 or positive", depth)
			}

			url := args[0]
			dest := ""
			if len(args) > 1 {
				dest = args[1]
			}
			if dest == "" {
				dest = repoNameFromURL(url)
				if bare {
					dest += ".git"
				}
			}
			dest = resolvePath(ctx, dest)

			builder := git.NewRepoBuilder().Bare(bare).Depth(depth)
			if branch != "" {
				builder = builder.Branch(branch)
			}

			var repo *git.Repository
			err := progress.Run(fmt.Sprintf("Cloning %s", url), func() error {
				var err error
				repo, err = builder.Clone(ctx, url, dest)
				return err
			})
			if err != nil {
				return err
			}
			defer repo.Close()

			l.Printf("Cloned %s into %s\n", url, dest)
			out.Println(repo.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&bare, "bare", false, "Create a bare clone")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Check out `name` instead of the remote HEAD")
	cmd.Flags().IntVar(&depth, "depth", 0, "Create a shallow clone with `n` commits of history")

	return cmd
}

// repoNameFromURL extracts the repository name from a URL or path:
// "https://host/org/repo.git" and "git@host:org/repo" both give "repo".
func repoNameFromURL(url string) string {
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, ":"); i > strings.LastIndex(url, "/") {
		url = url[i+1:]
	}
	name := strings.TrimSuffix(path.Base(url), ".git")
	if name == "" || name == "." || name == "/" {
		return "repo"
	}
	return name
}
