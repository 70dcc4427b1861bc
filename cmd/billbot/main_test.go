package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/keshon/billbot/internal/command/billcmd"
	"github.com/keshon/billbot/internal/config"
	"github.com/keshon/billbot/internal/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, version.String(), strings.TrimSpace(out.String()))
}

func TestBuildRegistry(t *testing.T) {
	cfg := &config.Config{Currency: "CAD", Locale: "en-CA"}
	reg := buildRegistry(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var names []string
	for _, def := range reg.Definitions() {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"bill", "help"}, names)

	_, ok := reg.ForModal(billcmd.ModalID)
	assert.True(t, ok)
}
