// Package discord connects the command registry to a Discord gateway session
// and owns the startup and shutdown of application commands.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/keshon/billbot/internal/command"
	"github.com/keshon/billbot/internal/config"
	"github.com/keshon/billbot/internal/discordtypes"
	"github.com/keshon/billbot/internal/logging"

	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"
)

const (
	handlerTimeout  = 15 * time.Second
	shutdownTimeout = 30 * time.Second
)

// Bot is a Discord bot
type Bot struct {
	gw        discordtypes.Gateway
	registry  *command.Registry
	registrar *Registrar
	logger    *slog.Logger

	// ready carries the application ID of the first Ready event.
	ready chan string
}

// NewBot creates the gateway session for cfg and routes interactions to reg.
func NewBot(cfg *config.Config, reg *command.Registry, logger *slog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	if level, err := logging.ParseLevel(cfg.LogLevel); err == nil {
		dg.LogLevel = logging.DiscordgoLevel(level)
	}
	return newBot(dg, reg, NewRegistrar(dg, cfg.GuildIDs, cfg.RegisterRate, logger), logger), nil
}

func newBot(gw discordtypes.Gateway, reg *command.Registry, registrar *Registrar, logger *slog.Logger) *Bot {
	b := &Bot{
		gw:        gw,
		registry:  reg,
		registrar: registrar,
		logger:    logger,
		ready:     make(chan string, 1),
	}
	gw.AddHandler(b.onReady)
	gw.AddHandler(b.onInteractionCreate)
	return b
}

// Run opens the session, registers commands once the gateway is ready, and
// blocks until ctx is cancelled. The registered commands are removed before
// Run returns.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.gw.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer func() {
		if err := b.gw.Close(); err != nil {
			b.logger.Warn("failed to close Discord session", tint.Err(err))
		}
	}()

	var appID string
	select {
	case <-ctx.Done():
		b.logger.Info("shutdown before ready, no commands to remove")
		return nil
	case appID = <-b.ready:
	}

	reg, err := b.registrar.Register(ctx, appID, b.registry.Definitions())
	if err != nil {
		b.logger.Error("failed to register commands, rolling back", "registered", reg.Count(), tint.Err(err))
		rollbackErr := b.deregister(ctx, reg)
		if ctx.Err() != nil {
			return rollbackErr
		}
		return errors.Join(fmt.Errorf("failed to register commands: %w", err), rollbackErr)
	}
	b.logger.Info("bot is running", "commands", reg.Count(), "app_id", appID)

	<-ctx.Done()
	b.logger.Info("shutdown signal received, removing commands")
	return b.deregister(ctx, reg)
}

func (b *Bot) deregister(ctx context.Context, reg *Registration) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := b.registrar.Deregister(ctx, reg); err != nil {
		return fmt.Errorf("failed to deregister commands: %w", err)
	}
	return nil
}

// onReady is called when the bot is ready
func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	appID := ""
	switch {
	case r.Application != nil && r.Application.ID != "":
		appID = r.Application.ID
	case r.User != nil:
		appID = r.User.ID
	}
	if appID == "" {
		b.logger.Error("ready event without application ID")
		return
	}
	if r.User != nil {
		b.logger.Info("connected to Discord", "user", r.User.Username, "guilds", len(r.Guilds))
	}

	select {
	case b.ready <- appID:
	default:
		b.logger.Debug("ignoring repeated ready event")
	}
}

// onInteractionCreate is called when an interaction is created
func (b *Bot) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	b.dispatch(ctx, i)
}

func (b *Bot) dispatch(ctx context.Context, i *discordgo.InteractionCreate) {
	c := &command.Context{Session: b.gw, Event: i}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		cmd, ok := b.registry.Get(name)
		if !ok {
			b.logger.Warn("unknown command", "command", name)
			if err := RespondEphemeral(b.gw, i, "Command not implemented :("); err != nil {
				b.logger.Error("failed to respond", tint.Err(err))
			}
			return
		}
		if err := cmd.Run(ctx, c); err != nil {
			b.logger.Error("error running command", "command", name, tint.Err(err))
		}

	case discordgo.InteractionModalSubmit:
		customID := i.ModalSubmitData().CustomID
		mh, ok := b.registry.ForModal(customID)
		if !ok {
			b.logger.Warn("unknown modal", "custom_id", customID)
			return
		}
		if err := mh.Modal(ctx, c); err != nil {
			b.logger.Error("error handling modal", "custom_id", customID, tint.Err(err))
		}

	default:
		b.logger.Debug("ignoring interaction", "type", i.Type)
	}
}
