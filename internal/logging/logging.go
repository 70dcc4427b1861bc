// Package logging configures colored structured logging with tint and routes
// discordgo's own log output through the same handler.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/lmittmann/tint"
)

const loggerNameKey = "logger"

// ParseLevel maps a LOG_LEVEL value onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
	}
}

// New returns a tint-backed logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	}))
}

// Setup installs a tint logger as the slog default and bridges discordgo into it.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	logger := New(w, level)
	slog.SetDefault(logger)
	discordgo.Logger = discordgoLoggerFunc(logger.With(loggerNameKey, "discordgo"))
	return logger
}

var discordgoLevels = map[int]slog.Level{
	discordgo.LogError:         slog.LevelError,
	discordgo.LogWarning:       slog.LevelWarn,
	discordgo.LogInformational: slog.LevelInfo,
	discordgo.LogDebug:         slog.LevelDebug,
}

func discordgoLoggerFunc(logger *slog.Logger) func(msgL, caller int, format string, a ...interface{}) {
	return func(msgL, _ int, format string, a ...interface{}) {
		level, ok := discordgoLevels[msgL]
		if !ok {
			level = slog.LevelInfo
		}
		logger.Log(context.Background(), level, strings.ReplaceAll(fmt.Sprintf(format, a...), "\n", " "))
	}
}

// DiscordgoLevel picks the discordgo verbosity matching a slog level. LogDebug
// is never selected; it logs every heartbeat.
func DiscordgoLevel(level slog.Level) int {
	switch {
	case level <= slog.LevelDebug:
		return discordgo.LogInformational
	case level <= slog.LevelWarn:
		return discordgo.LogWarning
	default:
		return discordgo.LogError
	}
}
