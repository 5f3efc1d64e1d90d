package terminal

import (
	"context"
	"database/sql"
	"io"
	"os"

	"github.com/de-tools/request-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/request-atlas/pkg/services/config"
	"github.com/de-tools/request-atlas/pkg/store"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	configPath string
	openDB     func(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error)
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// OpenDB overrides how the report database is opened; defaults to store.Open.
	OpenDB func(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error)
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.OpenDB == nil {
		opts.OpenDB = store.Open
	}

	cli := &CLI{
		openDB: opts.OpenDB,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context, args ...string) error {
	if args != nil {
		cli.rootCmd.SetArgs(args)
	}
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) Config() (*config.Config, error) {
	return config.Load(cli.configPath)
}

func (cli *CLI) OpenDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	return cli.openDB(ctx, cfg)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "atlas",
		Short:         "Service request report tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a YAML config file")

	cmd.AddCommand(commands.NewReportCmd(cli))
	cmd.AddCommand(commands.NewFieldsCmd())
	cmd.AddCommand(commands.NewImportCmd(cli))
	cmd.AddCommand(commands.NewProfilesCmd(cli))

	return cmd
}
