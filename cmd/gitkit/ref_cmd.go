package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/log"
	"github.com/raphi011/gitkit/internal/output"
	"github.com/raphi011/gitkit/internal/ui/static"
)

func newRefCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ref",
		Short:   "Manage references",
		GroupID: GroupRefs,
		Long: `Create, inspect and delete references by their full name.

Use subcommands to work with direct and symbolic references.`,
		Example: `  gitkit ref create refs/tags/v1 HEAD
  gitkit ref symbolic refs/heads/alias refs/heads/main
  gitkit ref get --resolve HEAD`,
	}

	cmd.AddCommand(newRefCreateCmd())
	cmd.AddCommand(newRefSymbolicCmd())
	cmd.AddCommand(newRefGetCmd())
	cmd.AddCommand(newRefDeleteCmd())

	return cmd
}

func newRefCreateCmd() *cobra.Command {
	var (
		force   bool
		message string
	)

	cmd := &cobra.Command{
		Use:   "create <name> <revision>",
		Short: "Create a direct reference",
		Args:  cobra.ExactArgs(2),
		Long: `Point the reference name at the object revision resolves to.

An existing reference is only overwritten with --force.`,
		Example: `  gitkit ref create refs/tags/v1 HEAD
  gitkit ref create -f -m "rewind" refs/heads/main HEAD~1`,
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

			obj, err := repo.RevparseSingle(ctx, args[1])
			if err != nil {
				return err
			}

			ref, err := repo.CreateReference(ctx, args[0], obj.ID(), force, reflogSignature(ctx, repo, cfg), message)
			if err != nil {
				return err
			}

			l.Printf("%s -> %s\n", ref.Name(), obj.ID().Short(7))
			out.Println(obj.ID())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing reference")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Reflog message")

	return cmd
}

func newRefSymbolicCmd() *cobra.Command {
	var (
		force   bool
		message string
	)

	cmd := &cobra.Command{
		Use:   "symbolic <name> <target>",
		Short: "Create a symbolic reference",
		Args:  cobra.ExactArgs(2),
		Long: `Make the reference name point at the reference target.

target does not have to exist yet. An existing reference is only
overwritten with --force.`,
		Example: `  gitkit ref symbolic refs/heads/alias refs/heads/main
  gitkit ref symbolic -f HEAD refs/heads/develop`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			repo, cfg, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			ref, err := repo.CreateSymbolicReference(ctx, args[0], args[1], force, reflogSignature(ctx, repo, cfg), message)
			if err != nil {
				return err
			}

			target, _ := ref.SymbolicTarget()
			l.Printf("%s -> %s\n", ref.Name(), target)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing reference")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Reflog message")

	return cmd
}

func newRefGetCmd() *cobra.Command {
	var (
		resolve    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show a reference",
		Args:  cobra.ExactArgs(1),
		Long: `Show a reference by its full name.

With --resolve, symbolic references are followed to the direct
reference at the end of the chain.`,
		Example: `  gitkit ref get refs/heads/main
  gitkit ref get --resolve HEAD`,
		ValidArgsFunction: completeReferences,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			ref, err := lookupReference(ctx, repo, args[0])
			if err != nil {
				return err
			}
			if resolve {
				if ref, err = ref.Resolve(ctx); err != nil {
					return err
				}
			}

			if jsonOutput {
				return out.JSON(toReferenceJSON(ref))
			}
			out.Print(static.RenderFields([][2]string{
				{"name", ref.Name()},
				{"short", ref.Shorthand()},
				{"type", ref.Kind().String()},
				{"target", referenceTarget(ref)},
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "Follow symbolic references")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newRefDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "delete <name>...",
		Short:             "Delete references",
		Aliases:           []string{"rm"},
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeReferences,
		Example:           `  gitkit ref delete refs/tags/v1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			for _, name := range args {
				ref, err := lookupReference(ctx, repo, name)
				if err != nil {
					return err
				}
				if err := ref.Delete(ctx); err != nil {
					return err
				}
				l.Printf("Deleted %s\n", ref.Name())
			}
			return nil
		},
	}

	return cmd
}
