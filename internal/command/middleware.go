package command

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"
)

// ErrNoModal is returned when a modal is routed to a command without one.
var ErrNoModal = errors.New("command does not handle modals")

// Middleware wraps a command (logging, guild checks).
type Middleware func(Command) Command

// Apply applies middlewares in order; the last in the list is the outermost.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}

// Wrapped decorates both the slash and the modal handler of Inner.
type Wrapped struct {
	Inner    Command
	Decorate func(kind string, next HandlerFunc) HandlerFunc
}

// Wrap returns a command whose handlers run through decorate. The kind passed
// to decorate is "slash" or "modal".
func Wrap(c Command, decorate func(kind string, next HandlerFunc) HandlerFunc) Command {
	return &Wrapped{Inner: c, Decorate: decorate}
}

func (w *Wrapped) Name() string        { return w.Inner.Name() }
func (w *Wrapped) Description() string { return w.Inner.Description() }
func (w *Wrapped) Unwrap() Command     { return w.Inner }

func (w *Wrapped) SlashDefinition() *discordgo.ApplicationCommand {
	return w.Inner.SlashDefinition()
}

func (w *Wrapped) Run(ctx context.Context, c *Context) error {
	return w.Decorate("slash", w.Inner.Run)(ctx, c)
}

// ModalIDs delegates to the inner command, or returns nil if it has no modal.
func (w *Wrapped) ModalIDs() []string {
	if mh, ok := w.Inner.(ModalHandler); ok {
		return mh.ModalIDs()
	}
	return nil
}

func (w *Wrapped) Modal(ctx context.Context, c *Context) error {
	mh, ok := w.Inner.(ModalHandler)
	if !ok {
		return ErrNoModal
	}
	return w.Decorate("modal", mh.Modal)(ctx, c)
}

// WithGuildOnly refuses interactions that did not come from a guild.
func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return Wrap(cmd, func(_ string, next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, c *Context) error {
				if c.Event.GuildID == "" {
					return c.Session.InteractionRespond(c.Event.Interaction, &discordgo.InteractionResponse{
						Type: discordgo.InteractionResponseChannelMessageWithSource,
						Data: &discordgo.InteractionResponseData{
							Content: "You must be in a server to use this command.",
							Flags:   discordgo.MessageFlagsEphemeral,
						},
					})
				}
				return next(ctx, c)
			}
		})
	}
}

// WithCommandLogger logs every invocation with its outcome and duration.
func WithCommandLogger(logger *slog.Logger) Middleware {
	return func(cmd Command) Command {
		return Wrap(cmd, func(kind string, next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, c *Context) error {
				start := time.Now()
				err := next(ctx, c)

				user := c.User()
				attrs := []any{
					"command", cmd.Name(),
					"kind", kind,
					"interaction_id", c.Event.ID,
					"guild_id", c.Event.GuildID,
					"channel_id", c.Event.ChannelID,
					slog.Group("user", "id", user.ID, "username", user.Username),
					"duration", time.Since(start),
				}
				if err != nil {
					logger.ErrorContext(ctx, "command failed", append(attrs, tint.Err(err))...)
				} else {
					logger.InfoContext(ctx, "command handled", attrs...)
				}
				return err
			}
		})
	}
}
