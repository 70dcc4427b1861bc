// Package discordtest provides an in-memory discordtypes.Gateway for tests.
package discordtest

import (
	"fmt"
	"sync"

	"github.com/keshon/billbot/internal/discordtypes"

	"github.com/bwmarrin/discordgo"
)

var _ discordtypes.Gateway = (*Session)(nil)

// CommandCall records one create or delete of an application command.
type CommandCall struct {
	AppID   string
	GuildID string
	ID      string
	Name    string
}

// Session records every call made through it. Fields ending in Err make the
// matching call fail.
type Session struct {
	mu sync.Mutex

	Members  map[string][]*discordgo.Member
	Guilds   map[string]*discordgo.Guild
	Channels map[string]*discordgo.Channel

	Responses []*discordgo.InteractionResponse
	Edits     []*discordgo.WebhookEdit
	Followups []*discordgo.WebhookParams
	Created   []CommandCall
	Deleted   []CommandCall
	Handlers  []interface{}
	Opened    bool
	Closed    bool

	// ResponseDeletes counts deletions of the original response.
	ResponseDeletes int

	RespondErr error
	EditErr    error
	MembersErr error
	OpenErr    error
	// CreateErr fails creation of the command with this name.
	CreateErr  map[string]error
	DeleteErr  map[string]error
	nextID     int
}

// New returns an empty Session.
func New() *Session {
	return &Session{
		Members:   make(map[string][]*discordgo.Member),
		Guilds:    make(map[string]*discordgo.Guild),
		Channels:  make(map[string]*discordgo.Channel),
		CreateErr: make(map[string]error),
		DeleteErr: make(map[string]error),
	}
}

func (s *Session) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RespondErr != nil {
		return s.RespondErr
	}
	s.Responses = append(s.Responses, resp)
	return nil
}

func (s *Session) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.EditErr != nil {
		return nil, s.EditErr
	}
	s.Edits = append(s.Edits, edit)
	msg := &discordgo.Message{}
	if edit.Content != nil {
		msg.Content = *edit.Content
	}
	return msg, nil
}

func (s *Session) InteractionResponseDelete(_ *discordgo.Interaction, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ResponseDeletes++
	return nil
}

func (s *Session) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Followups = append(s.Followups, data)
	return &discordgo.Message{Content: data.Content, Flags: data.Flags}, nil
}

func (s *Session) GuildMembers(guildID string, after string, limit int, _ ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MembersErr != nil {
		return nil, s.MembersErr
	}
	all := s.Members[guildID]
	start := 0
	if after != "" {
		for i, m := range all {
			if m.User != nil && m.User.ID == after {
				start = i + 1
			}
		}
	}
	return all[start:min(start+limit, len(all))], nil
}

func (s *Session) Guild(guildID string, _ ...discordgo.RequestOption) (*discordgo.Guild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.Guilds[guildID]
	if !ok {
		return nil, fmt.Errorf("unknown guild %s", guildID)
	}
	return g, nil
}

func (s *Session) Channel(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.Channels[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	return ch, nil
}

func (s *Session) ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, _ ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.CreateErr[cmd.Name]; err != nil {
		return nil, err
	}
	s.nextID++
	created := *cmd
	created.ID = fmt.Sprintf("cmd-%d", s.nextID)
	created.ApplicationID = appID
	created.GuildID = guildID
	s.Created = append(s.Created, CommandCall{AppID: appID, GuildID: guildID, ID: created.ID, Name: cmd.Name})
	return &created, nil
}

func (s *Session) ApplicationCommandDelete(appID, guildID, cmdID string, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.DeleteErr[cmdID]; err != nil {
		return err
	}
	s.Deleted = append(s.Deleted, CommandCall{AppID: appID, GuildID: guildID, ID: cmdID})
	return nil
}

func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.OpenErr != nil {
		return s.OpenErr
	}
	s.Opened = true
	return nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

func (s *Session) AddHandler(handler interface{}) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Handlers = append(s.Handlers, handler)
	return func() {}
}

// LastResponse returns the most recent interaction response, or nil.
func (s *Session) LastResponse() *discordgo.InteractionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Responses) == 0 {
		return nil
	}
	return s.Responses[len(s.Responses)-1]
}

// LastEdit returns the most recent response edit, or nil.
func (s *Session) LastEdit() *discordgo.WebhookEdit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Edits) == 0 {
		return nil
	}
	return s.Edits[len(s.Edits)-1]
}

// LastFollowup returns the most recent followup message, or nil.
func (s *Session) LastFollowup() *discordgo.WebhookParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Followups) == 0 {
		return nil
	}
	return s.Followups[len(s.Followups)-1]
}

// CreatedCalls returns a copy of the recorded command creations.
func (s *Session) CreatedCalls() []CommandCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CommandCall(nil), s.Created...)
}

// DeletedCalls returns a copy of the recorded command deletions.
func (s *Session) DeletedCalls() []CommandCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CommandCall(nil), s.Deleted...)
}

// IsClosed reports whether Close was called.
func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Closed
}
