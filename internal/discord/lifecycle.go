package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/keshon/billbot/internal/discordtypes"

	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"
	"golang.org/x/time/rate"
)

// Scope is one registration target: a guild, or every guild when GuildID is empty.
type Scope struct {
	GuildID  string
	Commands []*discordgo.ApplicationCommand
}

// Global reports whether the scope is the application-wide command list.
func (s Scope) Global() bool { return s.GuildID == "" }

// Registration is the set of commands created at startup. Deregister removes
// exactly this set.
type Registration struct {
	AppID  string
	Scopes []Scope
}

// Count returns the number of created commands across all scopes.
func (r *Registration) Count() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, s := range r.Scopes {
		n += len(s.Commands)
	}
	return n
}

// Registrar creates and deletes application commands, globally or per guild.
type Registrar struct {
	session discordtypes.Session
	guilds  []string
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRegistrar returns a Registrar targeting guilds, or global scope when
// guilds is empty. perSecond paces the REST calls.
func NewRegistrar(s discordtypes.Session, guilds []string, perSecond float64, logger *slog.Logger) *Registrar {
	return &Registrar{
		session: s,
		guilds:  guilds,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:  logger,
	}
}

func (r *Registrar) scopes() []string {
	if len(r.guilds) == 0 {
		return []string{""}
	}
	return r.guilds
}

// Register creates defs in every scope. On failure it still returns what was
// created so far, so the caller can roll it back.
func (r *Registrar) Register(ctx context.Context, appID string, defs []*discordgo.ApplicationCommand) (*Registration, error) {
	reg := &Registration{AppID: appID}
	for _, guildID := range r.scopes() {
		scope := Scope{GuildID: guildID}
		for _, def := range defs {
			if err := r.limiter.Wait(ctx); err != nil {
				reg.Scopes = append(reg.Scopes, scope)
				return reg, err
			}
			created, err := r.session.ApplicationCommandCreate(appID, guildID, def, discordgo.WithContext(ctx))
			if err != nil {
				reg.Scopes = append(reg.Scopes, scope)
				return reg, fmt.Errorf("failed to create command %s in %s: %w", def.Name, scopeName(guildID), err)
			}
			r.logger.Info("command registered", "command", created.Name, "command_id", created.ID, "scope", scopeName(guildID))
			scope.Commands = append(scope.Commands, created)
		}
		reg.Scopes = append(reg.Scopes, scope)
	}
	return reg, nil
}

// Deregister deletes every command in reg. It keeps going after a failure and
// returns all failures joined.
func (r *Registrar) Deregister(ctx context.Context, reg *Registration) error {
	if reg == nil {
		return nil
	}
	var errs []error
	for _, scope := range reg.Scopes {
		for _, cmd := range scope.Commands {
			if err := r.limiter.Wait(ctx); err != nil {
				return errors.Join(append(errs, err)...)
			}
			if err := r.session.ApplicationCommandDelete(reg.AppID, scope.GuildID, cmd.ID, discordgo.WithContext(ctx)); err != nil {
				r.logger.Error("failed to delete command", "command", cmd.Name, "command_id", cmd.ID, "scope", scopeName(scope.GuildID), tint.Err(err))
				errs = append(errs, fmt.Errorf("failed to delete command %s in %s: %w", cmd.Name, scopeName(scope.GuildID), err))
				continue
			}
			r.logger.Info("command deleted", "command", cmd.Name, "command_id", cmd.ID, "scope", scopeName(scope.GuildID))
		}
	}
	return errors.Join(errs...)
}

func scopeName(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return "guild " + guildID
}
