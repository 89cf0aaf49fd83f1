package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/output"
	"github.com/raphi011/gitkit/internal/ui/static"
)

// referenceJSON is the JSON shape of a reference.
type referenceJSON struct {
	Name   string   `json:"name"`
	Kind   string   `json:"type"`
	Target *git.Oid `json:"target,omitempty"`
	Symref string   `json:"symref,omitempty"`
}

func toReferenceJSON(ref *git.Reference) referenceJSON {
	j := referenceJSON{Name: ref.Name(), Kind: ref.Kind().String()}
	if id, ok := ref.Target(); ok {
		j.Target = &id
	}
	if target, ok := ref.SymbolicTarget(); ok {
		j.Symref = target
	}
	return j
}

// referenceTarget renders what a reference points at.
func referenceTarget(ref *git.Reference) string {
	if id, ok := ref.Target(); ok {
		return id.String()
	}
	if target, ok := ref.SymbolicTarget(); ok {
		return "-> " + target
	}
	return "-"
}

func newRefsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "refs [glob]",
		Short:   "List references",
		GroupID: GroupRefs,
		Args:    cobra.MaximumNArgs(1),
		Long: `List references, optionally restricted to names matching a glob.

The glob follows the engine's rules: "*" does not cross "/".`,
		Example: `  gitkit refs
  gitkit refs 'refs/tags/*'
  gitkit refs 'refs/remotes/origin/*' --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			var it *git.ReferenceIterator
			if len(args) == 1 {
				it, err = repo.ReferencesGlob(ctx, args[0])
			} else {
				it, err = repo.References(ctx)
			}
			if err != nil {
				return err
			}
			defer it.Close()

			var refs []referenceJSON
			var rows [][]string
			for ref, err := range it.All() {
				if err != nil {
					return err
				}
				refs = append(refs, toReferenceJSON(ref))
				rows = append(rows, []string{ref.Name(), ref.Kind().String(), referenceTarget(ref)})
			}

			if jsonOutput {
				if refs == nil {
					refs = []referenceJSON{}
				}
				return out.JSON(refs)
			}
			out.Print(static.RenderTable([]string{"NAME", "TYPE", "TARGET"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
