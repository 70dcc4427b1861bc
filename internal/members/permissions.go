package members

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var errNoUser = errors.New("member has no user")

// channelView is a discordgo state holding one guild, one of its channels and
// a set of members, so discordgo can compute channel permissions without a
// gateway connection.
type channelView struct {
	state     *discordgo.State
	channelID string
}

func newChannelView(guild *discordgo.Guild, channel *discordgo.Channel, members []*discordgo.Member) (*channelView, error) {
	g := &discordgo.Guild{
		ID:      guild.ID,
		OwnerID: guild.OwnerID,
		Roles:   guild.Roles,
		Members: make([]*discordgo.Member, 0, len(members)),
	}
	for _, m := range members {
		if m == nil || m.User == nil {
			continue
		}
		// REST member lists leave GuildID empty; the state indexes by it.
		cp := *m
		cp.GuildID = guild.ID
		g.Members = append(g.Members, &cp)
	}

	state := discordgo.NewState()
	if err := state.GuildAdd(g); err != nil {
		return nil, fmt.Errorf("failed to add guild %s to state: %w", guild.ID, err)
	}
	ch := *channel
	ch.GuildID = guild.ID
	if err := state.ChannelAdd(&ch); err != nil {
		return nil, fmt.Errorf("failed to add channel %s to state: %w", channel.ID, err)
	}
	return &channelView{state: state, channelID: ch.ID}, nil
}

func (v *channelView) permissions(userID string) (int64, error) {
	return v.state.UserChannelPermissions(userID, v.channelID)
}

func (v *channelView) canView(m *discordgo.Member) bool {
	if m == nil || m.User == nil {
		return false
	}
	perms, err := v.permissions(m.User.ID)
	return err == nil && perms&discordgo.PermissionViewChannel != 0
}

// ChannelPermissions returns a member's effective permissions in channel as
// discordgo computes them from the guild roles and the channel overwrites.
func ChannelPermissions(guild *discordgo.Guild, channel *discordgo.Channel, member *discordgo.Member) (int64, error) {
	if member == nil || member.User == nil {
		return 0, errNoUser
	}
	v, err := newChannelView(guild, channel, []*discordgo.Member{member})
	if err != nil {
		return 0, err
	}
	return v.permissions(member.User.ID)
}

// CanView reports whether member can see channel.
func CanView(guild *discordgo.Guild, channel *discordgo.Channel, member *discordgo.Member) bool {
	perms, err := ChannelPermissions(guild, channel, member)
	return err == nil && perms&discordgo.PermissionViewChannel != 0
}
