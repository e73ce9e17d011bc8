package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/example/sprintboard/internal/config"
	"github.com/example/sprintboard/internal/ctxutil"
	"github.com/example/sprintboard/internal/wire"
)

var settings *viper.Viper

// BindGlobalFlags adds the persistent flags to root and loads configuration
// before any subcommand runs.
func BindGlobalFlags(root *cobra.Command) {
	settings = config.NewViper()

	flags := root.PersistentFlags()
	flags.String("tickets", "", "Path to the ticket CSV file (default organizacao_chamados.csv)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (default info)")
	_ = settings.BindPFlag("tickets.path", flags.Lookup("tickets"))
	_ = settings.BindPFlag("log_level", flags.Lookup("log-level"))

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg, err := config.Load(settings, wd)
		if err != nil {
			return err
		}
		wire.Configure(cfg)
		return nil
	}
}

// commandContext returns the command's context carrying the resolved actor.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if actor := ctxutil.ResolveActor(wire.Config().Actor); actor != "" {
		ctx = ctxutil.WithActorID(ctx, actor)
	}
	return ctx
}
