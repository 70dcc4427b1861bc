package members

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func named(id, username, nick string) *discordgo.Member {
	return &discordgo.Member{Nick: nick, User: &discordgo.User{ID: id, Username: username}}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Jake", DisplayName(named("1", "jacob99", "Jake")))
	assert.Equal(t, "jacob99", DisplayName(named("1", "jacob99", "")))
	assert.Equal(t, "", DisplayName(nil))
}

func TestResolve(t *testing.T) {
	var buf bytes.Buffer
	dir := NewDirectory([]*discordgo.Member{
		named("1", "jacob99", "Jacob"),
		named("2", "joel", ""),
		named("3", "jw", "Justin"),
	}, testLogger(&buf))

	got, err := dir.Resolve([]string{"jacob", " JOEL ", "Justin"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "1", got[0].User.ID)
	assert.Equal(t, "2", got[1].User.ID)
	assert.Equal(t, "3", got[2].User.ID)

	_, ok := dir.Lookup("jacob99")
	assert.False(t, ok, "username is not addressable once a nickname is set")
}

func TestResolveMissingAborts(t *testing.T) {
	var buf bytes.Buffer
	dir := NewDirectory([]*discordgo.Member{named("1", "jacob", "")}, testLogger(&buf))

	got, err := dir.Resolve([]string{"jacob", "Jo el ", "nobody"})
	assert.Nil(t, got)

	var nf *PayerNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Jo el", nf.Name)
}

func TestDuplicateNamesFirstWins(t *testing.T) {
	var buf bytes.Buffer
	dir := NewDirectory([]*discordgo.Member{
		named("1", "alex", ""),
		named("2", "someone", "Alex"),
	}, testLogger(&buf))

	m, ok := dir.Lookup("alex")
	require.True(t, ok)
	assert.Equal(t, "1", m.User.ID)
	assert.Equal(t, 1, dir.Len())
	assert.Contains(t, buf.String(), "duplicate member display name")
	assert.Contains(t, buf.String(), "user_id=2")
}

func TestDirectorySkipsBots(t *testing.T) {
	var buf bytes.Buffer
	bot := named("9", "billbot", "")
	bot.User.Bot = true
	dir := NewDirectory([]*discordgo.Member{bot, {}}, testLogger(&buf))
	assert.Equal(t, 0, dir.Len())
}
