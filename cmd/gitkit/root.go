package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/config"
	"github.com/raphi011/gitkit/internal/git"
	"github.com/raphi011/gitkit/internal/log"
	"github.com/raphi011/gitkit/internal/output"
	"github.com/raphi011/gitkit/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	chdir   string
)

// Command group IDs for organizing help output
const (
	GroupRepository = "repository"
	GroupObjects    = "objects"
	GroupRefs       = "refs"
	GroupRemotes    = "remotes"
	GroupConfig     = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gitkit",
	Short: "Inspect and edit git repositories through a typed handle API",
	Long: `gitkit exposes repository handles, objects, references, branches,
remotes and submodules on top of the git executable.

Every command opens the repository containing the current directory
(or the one given with -C) and prints plain text, or JSON with --json.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Flags are parsed now, so the logger can honour them.
		ctx = log.WithLogger(ctx, log.New(os.Stderr, verbose, quiet))

		if chdir != "" {
			dir := chdir
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(workDirFromContext(ctx), dir)
			}
			ctx = withWorkDir(ctx, filepath.Clean(dir))
		}

		cfg := config.ResolverFromContext(ctx).Global()
		ctx = git.WithBinary(ctx, cfg.GitBinary)
		styles.Init(cfg.Theme.Name)
		cmd.SetContext(ctx)

		// Skip git check for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}
		return git.CheckGit(ctx)
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gitkit: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithResolver(ctx, config.NewResolver(&loadedCfg))
	ctx = withWorkDir(ctx, dir)

	// Primary data goes to stdout, downsampled to what it supports
	ctx = output.WithTerminalPrinter(ctx, output.NewTerminal(os.Stdout))

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'gitkit -h' for help")
		cancel()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&chdir, "directory", "C", "", "Run as if gitkit was started in `path`")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show git commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRepository, Title: "Repository Commands:"},
		&cobra.Group{ID: GroupObjects, Title: "Object Commands:"},
		&cobra.Group{ID: GroupRefs, Title: "Reference Commands:"},
		&cobra.Group{ID: GroupRemotes, Title: "Remote Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Repository commands
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCloneCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newResetCmd())

	// Object commands
	rootCmd.AddCommand(newRevParseCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newBlobCmd())
	rootCmd.AddCommand(newCommitTreeCmd())

	// Reference commands
	rootCmd.AddCommand(newRefsCmd())
	rootCmd.AddCommand(newRefCmd())
	rootCmd.AddCommand(newBranchCmd())

	// Remote commands
	rootCmd.AddCommand(newRemoteCmd())
	rootCmd.AddCommand(newSubmoduleCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}
