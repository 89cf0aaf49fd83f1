package main

import (
	"fmt"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/raphi011/gitkit/internal/config"
	"github.com/raphi011/gitkit/internal/log"
	"github.com/raphi011/gitkit/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Read and write configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Read and write repository configuration, and manage the gitkit config.

get, set and unset work on the repository's git configuration (set and
unset write the repository's own file). init and show manage gitkit's
config.

Global config: ~/.config/gitkit/config.toml (GITKIT_CONFIG overrides)
Local config:  .gitkit.toml (in the work tree, or the git directory of
               a bare repository)`,
		Example: `  gitkit config get user.name
  gitkit config set --bool core.bare false
  gitkit config init       # Create default gitkit config
  gitkit config show       # Show effective gitkit config`,
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigUnsetCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	var (
		asBool bool
		asInt  bool
	)

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a configuration value",
		Args:  cobra.ExactArgs(1),
		Long: `Print the value of key as seen by the repository (all scopes).

--bool and --int canonicalize the value and fail when it does not parse.`,
		Example: `  gitkit config get user.email
  gitkit config get --bool core.bare
  gitkit config get --int core.abbrev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			cfg := repo.Config()
			switch {
			case asBool:
				v, err := cfg.GetBool(ctx, args[0])
				if err != nil {
					return err
				}
				out.Println(strconv.FormatBool(v))
			case asInt:
				v, err := cfg.GetInt(ctx, args[0])
				if err != nil {
					return err
				}
				out.Println(strconv.FormatInt(v, 10))
			default:
				v, err := cfg.GetString(ctx, args[0])
				if err != nil {
					return err
				}
				out.Println(v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asBool, "bool", false, "Read the value as a boolean")
	cmd.Flags().BoolVar(&asInt, "int", false, "Read the value as an integer")
	cmd.MarkFlagsMutuallyExclusive("bool", "int")

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	var asBool bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		Example: `  gitkit config set user.name "Jane Doe"
  gitkit config set --bool pull.rebase true`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			cfg := repo.Config()
			if asBool {
				v, err := strconv.ParseBool(args[1])
				if err != nil {
					return fmt.Errorf("invalid boolean %q for %s", args[1], args[0])
				}
				err = cfg.SetBool(ctx, args[0], v)
				if err != nil {
					return err
				}
			} else if err := cfg.SetString(ctx, args[0], args[1]); err != nil {
				return err
			}

			l.Debug("set config", "key", args[0], "value", args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&asBool, "bool", false, "Store the value as a boolean")

	return cmd
}

func newConfigUnsetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "unset <key>",
		Short:   "Remove a configuration value",
		Args:    cobra.ExactArgs(1),
		Example: `  gitkit config unset user.signingkey`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, _, err := openRepo(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			return repo.Config().Remove(ctx, args[0])
		},
	}

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default gitkit config file",
		Args:  cobra.NoArgs,
		Example: `  gitkit config init       # Create global config
  gitkit config init -f    # Overwrite existing config
  gitkit config init -s    # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			if stdout {
				out.Print(config.Template())
				return nil
			}

			path, err := config.Init(force)
			if err != nil {
				return err
			}
			l.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		jsonOutput bool
		global     bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective gitkit config",
		Args:  cobra.NoArgs,
		Long: `Show the effective gitkit config as TOML.

Inside a repository its .gitkit.toml is merged over the global config
unless --global is given.`,
		Example: `  gitkit config show
  gitkit config show --global
  gitkit config show --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			cfg := globalConfig(ctx)
			if !global {
				if repo, repoCfg, err := openRepo(ctx); err == nil {
					repo.Close()
					cfg = repoCfg
				}
			}

			if jsonOutput {
				return out.JSON(cfg)
			}
			return toml.NewEncoder(out.Writer()).Encode(cfg)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&global, "global", false, "Ignore the repository's .gitkit.toml")

	return cmd
}
