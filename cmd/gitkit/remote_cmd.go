package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/log"
	"github.com/raphi011/gitkit/internal/output"
	"github.com/raphi011/gitkit/internal/ui/progress"
	"github.com/raphi011/gitkit/internal/ui/static"
	"github.com/raphi011/gitkit/internal/ui/styles"
)

// remoteJSON is the JSON shape of a remote.
type remoteJSON struct {
	Name  string   `json:"name"`
	URL   string   `json:"url"`
	Fetch []string `json:"fetch"`
}

func toRemoteJSON(rem *git.Remote) remoteJSON {
	name, _ := rem.Name()
	fetch := rem.FetchRefspecs()
	if fetch == nil {
		fetch = []string{}
	}
	return remoteJSON{Name: name, URL: rem.URL(), Fetch: fetch}
}

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remote",
		Short:   "Manage remotes",
		GroupID: GroupRemotes,
		Long: `Manage configured remotes and fetch from them.

Use subcommands to list, add, inspect or fetch remotes.`,
		Example: `  gitkit remote list
  gitkit remote add upstream https://github.com/org/repo
  gitkit remote fetch --all`,
	}

	cmd.AddCommand(newRemoteListCmd())
	cmd.AddCommand(newRemoteAddCmd())
	cmd.AddCommand(newRemoteShowCmd())
	cmd.AddCommand(newRemoteFetchCmd())

	return cmd
}

func newRemoteListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List remotes",
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

			names, err := repo.Remotes(ctx)
			if err != nil {
				return err
			}

			remotes := make([]remoteJSON, 0, len(names))
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rem, err := repo.FindRemote(ctx, name)
				if err != nil {
					return err
				}
				remotes = append(remotes, toRemoteJSON(rem))
				rows = append(rows, []string{name, styles.FormatURL(rem.URL())})
			}

			if jsonOutput {
				return out.JSON(remotes)
			}
			out.Print(static.RenderTable([]string{"NAME", "URL"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newRemoteAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <name> <url>",
		Short:   "Add a remote",
		Args:    cobra.ExactArgs(2),
		Example: `  gitkit remote add upstream https://github.com/org/repo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			rem, err := repo.CreateRemote(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			l.Printf("Added remote %s (%s)\n", args[0], strings.Join(rem.FetchRefspecs(), ", "))
			return nil
		},
	}

	return cmd
}

// lookupRemote loads a remote, adding suggestions when it does not exist.
func lookupRemote(ctx context.Context, repo *git.Repository, name string) (*git.Remote, error) {
	rem, err := repo.FindRemote(ctx, name)
	if err == nil {
		return rem, nil
	}
	names, listErr := repo.Remotes(ctx)
	if listErr != nil {
		return nil, err
	}
	return nil, withSuggestions(err, name, names)
}

func newRemoteShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:               "show <name>",
		Short:             "Show a remote",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRemotes,
		Example:           `  gitkit remote show origin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			rem, err := lookupRemote(ctx, repo, args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return out.JSON(toRemoteJSON(rem))
			}
			fields := [][2]string{
				{"name", args[0]},
				{"url", styles.FormatURL(rem.URL())},
			}
			for _, spec := range rem.FetchRefspecs() {
				fields = append(fields, [2]string{"fetch", spec})
			}
			out.Print(static.RenderFields(fields))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newRemoteFetchCmd() *cobra.Command {
	var (
		all      bool
		url      string
		refspecs []string
	)

	cmd := &cobra.Command{
		Use:   "fetch [name...]",
		Short: "Fetch from remotes",
		Long: `Fetch from the named remotes (default: origin) using their configured
refspecs, or the ones given with --refspec.

--url fetches from a URL without saving it as a remote; it needs at
least one --refspec. --all fetches every configured remote in turn.`,
		Example: `  gitkit remote fetch
  gitkit remote fetch --all
  gitkit remote fetch upstream --refspec 'refs/heads/main:refs/remotes/upstream/main'
  gitkit remote fetch --url ../other --refspec 'refs/heads/*:refs/other/*'`,
		ValidArgsFunction: completeRemotes,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			if url != "" && (all || len(args) > 0) {
				return fmt.Errorf("--url cannot be combined with remote names or --all")
			}

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if url != "" {
				rem, err := repo.RemoteAnonymous(url, "")
				if err != nil {
					return err
				}
				if err := progress.Run(fmt.Sprintf("Fetching %s", url), func() error {
					return rem.Fetch(ctx, refspecs)
				}); err != nil {
					return err
				}
				l.Printf("Fetched %s\n", url)
				return nil
			}

			names := args
			if all {
				if names, err = repo.Remotes(ctx); err != nil {
					return err
				}
			} else if len(names) == 0 {
				names = []string{"origin"}
			}

			remotes := make([]*git.Remote, 0, len(names))
			for _, name := range names {
				rem, err := lookupRemote(ctx, repo, name)
				if err != nil {
					return err
				}
				remotes = append(remotes, rem)
			}

			return fetchRemotes(ctx, names, remotes, refspecs)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Fetch every configured remote")
	cmd.Flags().StringVar(&url, "url", "", "Fetch from `url` without configuring a remote")
	cmd.Flags().StringArrayVar(&refspecs, "refspec", nil, "Refspec to fetch instead of the configured ones (repeatable)")

	return cmd
}

// fetchRemotes fetches each remote in order, drawing a progress bar on
// terminals when there is more than one.
func fetchRemotes(ctx context.Context, names []string, remotes []*git.Remote, refspecs []string) error {
	l := log.FromContext(ctx)

	if len(remotes) == 1 {
		if err := progress.Run(fmt.Sprintf("Fetching %s", names[0]), func() error {
			return remotes[0].Fetch(ctx, refspecs)
		}); err != nil {
			return err
		}
		l.Printf("Fetched %s\n", names[0])
		return nil
	}

	var bar *progress.ProgressBar
	if progress.Enabled() {
		bar = progress.NewProgressBar(len(remotes), "remotes fetched")
		bar.Start()
		defer bar.Stop()
	}

	for i, rem := range remotes {
		if err := rem.Fetch(ctx, refspecs); err != nil {
			return fmt.Errorf("failed to fetch %s: %w", names[i], err)
		}
		if bar != nil {
			bar.SetProgress(i+1, names[i])
		}
		l.Debug("fetched remote", "name", names[i])
	}
	if bar != nil {
		bar.Stop()
	}
	l.Printf("Fetched %d remotes\n", len(remotes))
	return nil
}
