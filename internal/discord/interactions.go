package discord

import (
	"github.com/keshon/billbot/internal/discordtypes"

	"github.com/bwmarrin/discordgo"
)

const EmbedColor = 0x2e8b57

// RespondMentioning sends a public message that may only ping the given users.
func RespondMentioning(s discordtypes.Session, i *discordgo.InteractionCreate, content string, userIDs []string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         content,
			AllowedMentions: &discordgo.MessageAllowedMentions{Users: userIDs},
		},
	})
}

// RespondEphemeral sends an ephemeral message response to an interaction.
func RespondEphemeral(s discordtypes.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// RespondEmbedEphemeral sends an ephemeral embed response to an interaction.
func RespondEmbedEphemeral(s discordtypes.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:  discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// RespondModal opens a modal form in response to an interaction.
func RespondModal(s discordtypes.Session, i *discordgo.InteractionCreate, modal *discordgo.InteractionResponseData) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: modal,
	})
}

// RespondDeferred acknowledges an interaction publicly without a reply yet.
// Finish with EditResponseMentioning or DeleteResponse.
func RespondDeferred(s discordtypes.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// EditResponseMentioning fills in a deferred response.
func EditResponseMentioning(s discordtypes.Session, i *discordgo.InteractionCreate, content string, userIDs []string) error {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content:         &content,
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: userIDs},
	})
	return err
}

// DeleteResponse removes the original response, including a pending deferred one.
func DeleteResponse(s discordtypes.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionResponseDelete(i.Interaction)
}

// FollowupEphemeral sends an ephemeral followup message.
func FollowupEphemeral(s discordtypes.Session, i *discordgo.InteractionCreate, content string) error {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}
