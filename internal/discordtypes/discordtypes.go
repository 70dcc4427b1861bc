// Package discordtypes holds the narrow Discord API surface the bot calls.
// *discordgo.Session satisfies it in production and discordtest.Session in tests.
package discordtypes

import "github.com/bwmarrin/discordgo"

// Session is the part of *discordgo.Session BillBot calls over REST.
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildMembers(guildID string, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// Gateway adds the websocket lifecycle to Session.
type Gateway interface {
	Session
	Open() error
	Close() error
	AddHandler(handler interface{}) func()
}

var _ Gateway = (*discordgo.Session)(nil)
