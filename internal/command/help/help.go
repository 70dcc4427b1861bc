package help

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/billbot/internal/command"
	"github.com/keshon/billbot/internal/discord"
	"github.com/keshon/billbot/internal/version"

	"github.com/bwmarrin/discordgo"
)

type Command struct {
	registry *command.Registry
}

// New returns /help listing whatever reg holds at invocation time.
func New(reg *command.Registry) *Command {
	return &Command{registry: reg}
}

func (c *Command) Name() string        { return "help" }
func (c *Command) Description() string { return "Get a list of available commands" }

func (c *Command) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *Command) Run(_ context.Context, cc *command.Context) error {
	embed := &discordgo.MessageEmbed{
		Title:       version.AppName + " Help",
		Description: c.describe(),
		Color:       discord.EmbedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: version.AppName + " " + version.Version},
	}
	return discord.RespondEmbedEphemeral(cc.Session, cc.Event, embed)
}

func (c *Command) describe() string {
	var sb strings.Builder
	for _, cmd := range c.registry.All() {
		fmt.Fprintf(&sb, "`/%s` - %s\n", cmd.Name(), cmd.Description())

		def := cmd.SlashDefinition()
		if def == nil {
			continue
		}
		for _, opt := range def.Options {
			if opt.Type != discordgo.ApplicationCommandOptionSubCommand {
				continue
			}
			fmt.Fprintf(&sb, "  `/%s %s` - %s\n", cmd.Name(), opt.Name, opt.Description)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
