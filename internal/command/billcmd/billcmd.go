// Package billcmd implements the /bill slash command and its creation modal.
package billcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/keshon/billbot/internal/bill"
	"github.com/keshon/billbot/internal/command"
	"github.com/keshon/billbot/internal/discord"
	"github.com/keshon/billbot/internal/members"

	"github.com/bojanz/currency"
	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"
)

const (
	subCreate = "create"
	subPaid   = "paid"
)

// Command is /bill. It holds no state between interactions.
type Command struct {
	currencyCode string
	formatter    *currency.Formatter
	logger       *slog.Logger
}

// New returns the bill command for amounts in currencyCode, displayed with f.
func New(currencyCode string, f *currency.Formatter, logger *slog.Logger) *Command {
	return &Command{currencyCode: currencyCode, formatter: f, logger: logger}
}

func (c *Command) Name() string        { return "bill" }
func (c *Command) Description() string { return "Split a bill between server members" }

func (c *Command) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        subCreate,
				Description: "Create a new bill",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        subPaid,
				Description: "Mark your share of a bill as paid",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "bill",
						Description: "Name of the bill",
						Required:    true,
						MaxLength:   100,
					},
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "to",
						Description: "Who you paid",
					},
				},
			},
		},
	}
}

func (c *Command) ModalIDs() []string { return []string{ModalID} }

func (c *Command) Run(ctx context.Context, cc *command.Context) error {
	data := cc.Event.ApplicationCommandData()
	if len(data.Options) == 0 {
		return discord.RespondEphemeral(cc.Session, cc.Event, "Pick a subcommand: `/bill create` or `/bill paid`.")
	}

	sub := data.Options[0]
	switch sub.Name {
	case subCreate:
		return discord.RespondModal(cc.Session, cc.Event, Modal())
	case subPaid:
		return c.runPaid(cc, sub.Options)
	default:
		return discord.RespondEphemeral(cc.Session, cc.Event, fmt.Sprintf("Unknown subcommand `%s`.", sub.Name))
	}
}

func (c *Command) runPaid(cc *command.Context, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	var title, to string
	for _, opt := range opts {
		v, _ := opt.Value.(string)
		switch opt.Name {
		case "bill":
			title = v
		case "to":
			to = v
		}
	}
	if title == "" {
		return discord.RespondEphemeral(cc.Session, cc.Event, "Tell me which bill you paid.")
	}

	user := cc.User()
	mentions := []string{user.ID}
	msg := fmt.Sprintf("<@%s> paid their share of **%s**", user.ID, title)
	if to != "" {
		msg += fmt.Sprintf(" to <@%s>", to)
		mentions = append(mentions, to)
	}
	return discord.RespondMentioning(cc.Session, cc.Event, msg, mentions)
}

// Modal handles a submitted bill form. User mistakes get an ephemeral reply;
// Discord API failures are returned without replying. When payers have to be
// looked up the response is deferred first, since paging through a large
// guild can outlast the interaction deadline.
func (c *Command) Modal(ctx context.Context, cc *command.Context) error {
	e := cc.Event
	submitter := members.DisplayName(e.Member)
	if submitter == "" {
		submitter = cc.User().Username
	}

	sub, err := ParseSubmission(e.ModalSubmitData())
	if err != nil {
		return err
	}

	total, err := bill.ParseAmount(sub.Amount, c.currencyCode)
	if err != nil {
		var amountErr *bill.AmountError
		if errors.As(err, &amountErr) {
			return discord.RespondEphemeral(cc.Session, e, fmt.Sprintf("`%s` is not a valid amount", amountErr.Input))
		}
		return err
	}

	names := sub.PayerNames()
	if len(names) == 0 {
		b, err := bill.New(sub.Name, total, sub.Method, submitter, nil)
		if err != nil {
			return fmt.Errorf("failed to build bill: %w", err)
		}
		c.logger.Debug("bill created", "title", b.Title, "total", b.Total.String(), "payers", 0)
		return discord.RespondMentioning(cc.Session, e, b.Message(c.formatter), b.UserIDs())
	}

	if err := discord.RespondDeferred(cc.Session, e); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	payers, err := c.resolvePayers(ctx, cc, names)
	if err != nil {
		var notFound *members.PayerNotFoundError
		if errors.As(err, &notFound) {
			return c.replaceWithEphemeral(cc, fmt.Sprintf("Payer `%s` not found in this channel", notFound.Name))
		}
		c.withdraw(cc)
		return err
	}

	b, err := bill.New(sub.Name, total, sub.Method, submitter, payers)
	if err != nil {
		c.withdraw(cc)
		return fmt.Errorf("failed to build bill: %w", err)
	}
	c.logger.Debug("bill created", "title", b.Title, "total", b.Total.String(), "payers", len(b.Payers))
	return discord.EditResponseMentioning(cc.Session, e, b.Message(c.formatter), b.UserIDs())
}

// replaceWithEphemeral drops the public deferred response and tells only the
// submitter what went wrong.
func (c *Command) replaceWithEphemeral(cc *command.Context, content string) error {
	if err := discord.DeleteResponse(cc.Session, cc.Event); err != nil {
		return fmt.Errorf("failed to delete deferred response: %w", err)
	}
	return discord.FollowupEphemeral(cc.Session, cc.Event, content)
}

// withdraw removes a deferred response that will never be filled in.
func (c *Command) withdraw(cc *command.Context) {
	if err := discord.DeleteResponse(cc.Session, cc.Event); err != nil {
		c.logger.Warn("failed to delete deferred response", "interaction_id", cc.Event.ID, tint.Err(err))
	}
}

func (c *Command) resolvePayers(ctx context.Context, cc *command.Context, names []string) ([]bill.Payer, error) {
	dir, err := members.Load(ctx, cc.Session, cc.Event.GuildID, cc.Event.ChannelID, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load channel members: %w", err)
	}
	resolved, err := dir.Resolve(names)
	if err != nil {
		return nil, err
	}

	payers := make([]bill.Payer, 0, len(resolved))
	for _, m := range resolved {
		payers = append(payers, bill.Payer{UserID: m.User.ID, Name: members.DisplayName(m)})
	}
	return payers, nil
}
