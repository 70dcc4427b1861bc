// Package command defines the contract between Discord interactions and the
// bot's slash commands: how a command describes itself for registration and
// how it is run when invoked or when its modal is submitted.
package command

import (
	"context"

	"github.com/keshon/billbot/internal/discordtypes"

	"github.com/bwmarrin/discordgo"
)

// Context is what the runtime hands a command for one interaction.
type Context struct {
	Session discordtypes.Session
	Event   *discordgo.InteractionCreate
}

// User returns the invoking user, whether the interaction came from a guild
// or a DM.
func (c *Context) User() *discordgo.User {
	if c.Event.Member != nil && c.Event.Member.User != nil {
		return c.Event.Member.User
	}
	if c.Event.User != nil {
		return c.Event.User
	}
	return &discordgo.User{ID: "unknown", Username: "Unknown"}
}

// HandlerFunc runs a command for one interaction.
type HandlerFunc func(ctx context.Context, c *Context) error

// Command is a slash command.
type Command interface {
	Name() string
	Description() string
	SlashDefinition() *discordgo.ApplicationCommand
	Run(ctx context.Context, c *Context) error
}

// ModalHandler is implemented by commands that open modals and handle their
// submission.
type ModalHandler interface {
	ModalIDs() []string
	Modal(ctx context.Context, c *Context) error
}

// Unwrappable is implemented by wrapped commands so callers can reach the
// underlying command.
type Unwrappable interface {
	Command
	Unwrap() Command
}

// Root unwraps c until the underlying command is not Unwrappable.
func Root(c Command) Command {
	for {
		u, ok := c.(Unwrappable)
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}
