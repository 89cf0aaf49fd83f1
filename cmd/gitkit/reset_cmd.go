package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/config"
	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/log"
	"github.com/raphi011/gitkit/internal/ui/prompt"
)

func newResetCmd() *cobra.Command {
	var (
		soft, mixed, hard bool
		message           string
		yes               bool
	)

	cmd := &cobra.Command{
		Use:     "reset [--soft|--mixed|--hard] <revision> [-- <path>...]",
		Short:   "Move HEAD and resync the index or work tree",
		GroupID: GroupRepository,
		Args:    cobra.MinimumNArgs(1),
		Long: `Move HEAD to revision.

--soft moves HEAD only, --mixed also resets the index and --hard also
rewrites tracked files in the work tree. Untracked files are never
touched. Without a mode flag reset.default_kind from the config is used.

With paths after "--", only those index entries are reset to their
state in revision and HEAD does not move.

A hard reset asks for confirmation on a terminal unless --yes is given
or reset.confirm is false.`,
		Example: `  gitkit reset HEAD~1
  gitkit reset --hard origin/main
  gitkit reset HEAD -- README.md docs/`,
		ValidArgsFunction: completeRevisionsAt(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			spec, paths := args[0], []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				if dash != 1 {
					return errors.New("expected exactly one revision before --")
				}
				paths = args[1:]
				if len(paths) == 0 {
					return errors.New("no paths given after --")
				}
			} else if len(args) > 1 {
				return errors.New("expected exactly one revision; put paths after --")
			}

			repo, cfg, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			target, err := repo.RevparseSingle(ctx, spec)
			if err != nil {
				return err
			}

			if paths != nil {
				if soft || mixed || hard {
					return errors.New("--soft, --mixed and --hard cannot be used with paths")
				}
				if err := repo.ResetDefault(ctx, target, paths); err != nil {
					return err
				}
				l.Printf("Reset %d path(s) to %s\n", len(paths), target.ID().Short(7))
				return nil
			}

			kind, err := resetKind(cfg, soft, mixed, hard)
			if err != nil {
				return err
			}

			if kind == git.ResetHard && cfg.Reset.Confirm && !yes && isatty.IsTerminal(os.Stdin.Fd()) {
				result, err := prompt.Confirm(fmt.Sprintf("Discard changes to tracked files and reset to %s?", target.ID().Short(7)))
				if err != nil {
					return err
				}
				if !result.Confirmed {
					l.Println("Aborted")
					return nil
				}
			}

			if err := repo.Reset(ctx, target, kind, reflogSignature(ctx, repo, cfg), message); err != nil {
				return err
			}
			l.Printf("HEAD is now at %s (%s)\n", target.ID().Short(7), kind)
			return nil
		},
	}

	cmd.Flags().BoolVar(&soft, "soft", false, "Move HEAD only")
	cmd.Flags().BoolVar(&mixed, "mixed", false, "Also reset the index")
	cmd.Flags().BoolVar(&hard, "hard", false, "Also reset tracked work tree files")
	cmd.MarkFlagsMutuallyExclusive("soft", "mixed", "hard")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Reflog message")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// resetKind picks the reset mode from the flags, falling back to the
// configured default.
func resetKind(cfg *config.Config, soft, mixed, hard bool) (git.ResetType, error) {
	switch {
	case soft:
		return git.ResetSoft, nil
	case mixed:
		return git.ResetMixed, nil
	case hard:
		return git.ResetHard, nil
	}
	return git.ParseResetType(cfg.Reset.DefaultKind)
}
