package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/billbot/internal/command"
	"github.com/keshon/billbot/internal/command/billcmd"
	"github.com/keshon/billbot/internal/command/help"
	"github.com/keshon/billbot/internal/config"
	"github.com/keshon/billbot/internal/discord"
	"github.com/keshon/billbot/internal/logging"
	"github.com/keshon/billbot/internal/version"

	"github.com/bojanz/currency"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	runE := func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), envFile)
	}

	root := &cobra.Command{
		Use:           "billbot",
		Short:         "Discord bot that splits bills between server members",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runE,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load instead of .env")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Connect to Discord and serve /bill until interrupted",
			Args:  cobra.NoArgs,
			RunE:  runE,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version of the application",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			},
		},
	)
	return root
}

func run(ctx context.Context, envFile string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Setup(os.Stderr, slog.LevelInfo)

	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		slog.Error("failed to load configuration", tint.Err(err))
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.Setup(os.Stderr, level)
	logger.Info("starting "+version.AppName,
		"version", version.Version,
		"commit", version.Commit,
		"currency", cfg.Currency,
		"global", cfg.Global(),
		"guilds", len(cfg.GuildIDs),
	)

	reg := buildRegistry(cfg, logger)
	bot, err := discord.NewBot(cfg, reg, logger)
	if err != nil {
		logger.Error("failed to create bot", tint.Err(err))
		return err
	}
	if err := bot.Run(ctx); err != nil {
		logger.Error("bot stopped", tint.Err(err))
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func buildRegistry(cfg *config.Config, logger *slog.Logger) *command.Registry {
	formatter := currency.NewFormatter(currency.NewLocale(cfg.Locale))

	reg := command.NewRegistry()
	reg.Register(command.Apply(
		billcmd.New(cfg.Currency, formatter, logger),
		command.WithGuildOnly(),
		command.WithCommandLogger(logger),
	))
	reg.Register(command.Apply(
		help.New(reg),
		command.WithCommandLogger(logger),
	))
	return reg
}
