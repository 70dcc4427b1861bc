package members

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// pageSize is the largest page the guild members endpoint returns.
const pageSize = 1000

// Fetcher is the subset of the Discord REST API the resolver needs.
type Fetcher interface {
	GuildMembers(guildID string, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// FetchAll pages through every member of a guild.
func FetchAll(ctx context.Context, f Fetcher, guildID string) ([]*discordgo.Member, error) {
	var all []*discordgo.Member
	after := ""
	for {
		page, err := f.GuildMembers(guildID, after, pageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch guild members: %w", err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
		last := page[len(page)-1]
		if last.User == nil {
			return all, nil
		}
		after = last.User.ID
	}
}

// permissionChannel returns the channel whose overwrites govern visibility.
// Threads inherit them from their parent.
func permissionChannel(ctx context.Context, f Fetcher, channelID string) (*discordgo.Channel, error) {
	ch, err := f.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}
	if ch.IsThread() && ch.ParentID != "" {
		parent, err := f.Channel(ch.ParentID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch parent channel %s: %w", ch.ParentID, err)
		}
		return parent, nil
	}
	return ch, nil
}

// Load builds a Directory of the members of guildID who can view channelID.
func Load(ctx context.Context, f Fetcher, guildID, channelID string, logger *slog.Logger) (*Directory, error) {
	all, err := FetchAll(ctx, f, guildID)
	if err != nil {
		return nil, err
	}
	channel, err := permissionChannel(ctx, f, channelID)
	if err != nil {
		return nil, err
	}
	guild, err := f.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild %s: %w", guildID, err)
	}

	view, err := newChannelView(guild, channel, all)
	if err != nil {
		return nil, err
	}
	visible := make([]*discordgo.Member, 0, len(all))
	for _, m := range all {
		if view.canView(m) {
			visible = append(visible, m)
		}
	}
	logger.Debug("loaded member directory",
		"guild_id", guildID,
		"channel_id", channelID,
		"members", len(all),
		"visible", len(visible),
	)
	return NewDirectory(visible, logger), nil
}
