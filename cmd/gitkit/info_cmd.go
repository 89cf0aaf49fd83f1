package main

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/output"
	"github.com/raphi011/gitkit/internal/ui/static"
	"github.com/raphi011/gitkit/internal/ui/styles"
)

// repoInfo is the JSON shape of "gitkit info".
type repoInfo struct {
	Path      string `json:"path"`
	Workdir   string `json:"workdir,omitempty"`
	Bare      bool   `json:"bare"`
	Shallow   bool   `json:"shallow"`
	Empty     bool   `json:"empty"`
	State     string `json:"state"`
	Namespace string `json:"namespace,omitempty"`
	Head      string `json:"head,omitempty"`
}

func newInfoCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "info",
		Short:   "Show repository properties",
		GroupID: GroupRepository,
		Args:    cobra.NoArgs,
		Long: `Show the properties of the current repository: control directory,
work tree, bare and shallow flags, whether it has any references yet,
in-progress operation state, namespace and HEAD.`,
		Example: `  gitkit info
  gitkit info --json
  gitkit -C ../other info`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			empty, err := repo.IsEmpty(ctx)
			if err != nil {
				return err
			}

			info := repoInfo{
				Path:    repo.Path(),
				Bare:    repo.IsBare(),
				Shallow: repo.IsShallow(),
				Empty:   empty,
				State:   repo.State().String(),
			}
			info.Workdir, _ = repo.Workdir()
			info.Namespace, _ = repo.Namespace()

			head, err := repo.Head(ctx)
			switch {
			case err == nil:
				info.Head = head.Name()
			case errors.Is(err, git.ErrUnbornBranch), errors.Is(err, git.ErrNotFound):
				// No commits yet.
			default:
				return err
			}

			if jsonOutput {
				return out.JSON(info)
			}

			out.Print(static.RenderFields([][2]string{
				{"path", info.Path},
				{"workdir", orDash(info.Workdir)},
				{"bare", strconv.FormatBool(info.Bare)},
				{"shallow", strconv.FormatBool(info.Shallow)},
				{"empty", strconv.FormatBool(info.Empty)},
				{"state", styles.FormatState(info.State)},
				{"namespace", orDash(info.Namespace)},
				{"head", orDash(info.Head)},
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
