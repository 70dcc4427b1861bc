package discord

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/keshon/billbot/internal/discordtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDefs() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: "bill", Description: "Split a bill"},
		{Name: "help", Description: "Help"},
	}
}

func TestRegisterGlobal(t *testing.T) {
	s := discordtest.New()
	r := NewRegistrar(s, nil, 1000, discardLogger())

	reg, err := r.Register(context.Background(), "app", testDefs())
	require.NoError(t, err)

	require.Len(t, reg.Scopes, 1)
	assert.True(t, reg.Scopes[0].Global())
	assert.Equal(t, 2, reg.Count())
	assert.Equal(t, []discordtest.CommandCall{
		{AppID: "app", GuildID: "", ID: "cmd-1", Name: "bill"},
		{AppID: "app", GuildID: "", ID: "cmd-2", Name: "help"},
	}, s.CreatedCalls())
}

func TestRegisterPerGuild(t *testing.T) {
	s := discordtest.New()
	r := NewRegistrar(s, []string{"g1", "g2"}, 1000, discardLogger())

	reg, err := r.Register(context.Background(), "app", testDefs())
	require.NoError(t, err)

	require.Len(t, reg.Scopes, 2)
	assert.Equal(t, "g1", reg.Scopes[0].GuildID)
	assert.Equal(t, "g2", reg.Scopes[1].GuildID)
	assert.Equal(t, 4, reg.Count())
	for _, call := range s.CreatedCalls() {
		assert.NotEmpty(t, call.GuildID)
	}
}

func TestDeregisterRemovesExactlyRegistered(t *testing.T) {
	s := discordtest.New()
	r := NewRegistrar(s, []string{"g1", "g2"}, 1000, discardLogger())

	reg, err := r.Register(context.Background(), "app", testDefs())
	require.NoError(t, err)
	require.NoError(t, r.Deregister(context.Background(), reg))

	created := s.CreatedCalls()
	deleted := s.DeletedCalls()
	require.Len(t, deleted, len(created))
	for i := range created {
		assert.Equal(t, created[i].ID, deleted[i].ID)
		assert.Equal(t, created[i].GuildID, deleted[i].GuildID)
		assert.Equal(t, "app", deleted[i].AppID)
	}
}

func TestDeregisterContinuesPastFailures(t *testing.T) {
	s := discordtest.New()
	s.DeleteErr["cmd-1"] = errors.New("unknown command")
	r := NewRegistrar(s, nil, 1000, discardLogger())

	reg, err := r.Register(context.Background(), "app", testDefs())
	require.NoError(t, err)

	err = r.Deregister(context.Background(), reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete command bill in global")

	deleted := s.DeletedCalls()
	require.Len(t, deleted, 1)
	assert.Equal(t, "cmd-2", deleted[0].ID)
}

func TestRegisterReturnsPartialRegistration(t *testing.T) {
	s := discordtest.New()
	s.CreateErr["help"] = errors.New("bad request")
	r := NewRegistrar(s, []string{"g1", "g2"}, 1000, discardLogger())

	reg, err := r.Register(context.Background(), "app", testDefs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "guild g1")
	require.NotNil(t, reg)
	assert.Equal(t, 1, reg.Count())
	assert.Equal(t, "bill", reg.Scopes[0].Commands[0].Name)
}

func TestDeregisterNil(t *testing.T) {
	r := NewRegistrar(discordtest.New(), nil, 1000, discardLogger())
	assert.NoError(t, r.Deregister(context.Background(), nil))
	assert.Zero(t, (*Registration)(nil).Count())
}
