// Package members resolves typed payer names into guild members who can
// see the channel a bill was submitted in.
package members

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// PayerNotFoundError names the first typed payer that matched no member.
type PayerNotFoundError struct {
	Name string
}

func (e *PayerNotFoundError) Error() string {
	return fmt.Sprintf("payer %q not found", e.Name)
}

// DisplayName is the member's guild nickname, falling back to the username.
func DisplayName(m *discordgo.Member) string {
	if m == nil {
		return ""
	}
	if m.Nick != "" {
		return m.Nick
	}
	if m.User != nil {
		return m.User.Username
	}
	return ""
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Directory maps display names to members. It is rebuilt for every
// submission and never cached.
type Directory struct {
	byName map[string]*discordgo.Member
}

// NewDirectory indexes members by display name. When two members share a
// name the first one wins and the other is logged and skipped. Bots and
// members without a user are left out.
func NewDirectory(members []*discordgo.Member, logger *slog.Logger) *Directory {
	d := &Directory{byName: make(map[string]*discordgo.Member, len(members))}
	for _, m := range members {
		if m == nil || m.User == nil || m.User.Bot {
			continue
		}
		k := key(DisplayName(m))
		if k == "" {
			continue
		}
		if first, ok := d.byName[k]; ok {
			logger.Warn("duplicate member display name, skipping",
				"name", DisplayName(m),
				"user_id", m.User.ID,
				"kept_user_id", first.User.ID,
			)
			continue
		}
		d.byName[k] = m
	}
	return d
}

// Len returns the number of addressable names.
func (d *Directory) Len() int {
	return len(d.byName)
}

// Lookup finds a member by display name, ignoring case and surrounding space.
func (d *Directory) Lookup(name string) (*discordgo.Member, bool) {
	m, ok := d.byName[key(name)]
	return m, ok
}

// Resolve looks up every name in order. It fails on the first miss and never
// returns a partial list.
func (d *Directory) Resolve(names []string) ([]*discordgo.Member, error) {
	out := make([]*discordgo.Member, 0, len(names))
	for _, name := range names {
		m, ok := d.Lookup(name)
		if !ok {
			return nil, &PayerNotFoundError{Name: strings.TrimSpace(name)}
		}
		out = append(out, m)
	}
	return out, nil
}
