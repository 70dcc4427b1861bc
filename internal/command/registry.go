package command

import (
	"sort"

	"github.com/bwmarrin/discordgo"
)

// Registry stores commands by name and modals by custom ID. It is built once
// at startup and only read afterwards.
type Registry struct {
	commands map[string]Command
	modals   map[string]Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		modals:   make(map[string]Command),
	}
}

// Register adds a command, replacing any previous command with the same name.
func (r *Registry) Register(c Command) {
	r.commands[c.Name()] = c
	if mh, ok := c.(ModalHandler); ok {
		for _, id := range mh.ModalIDs() {
			r.modals[id] = c
		}
	}
}

// Get returns the command with the given name.
func (r *Registry) Get(name string) (Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// ForModal returns the handler for a submitted modal custom ID.
func (r *Registry) ForModal(customID string) (ModalHandler, bool) {
	c, ok := r.modals[customID]
	if !ok {
		return nil, false
	}
	mh, ok := c.(ModalHandler)
	return mh, ok
}

// All returns every registered command sorted by name.
func (r *Registry) All() []Command {
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}

// Definitions returns the application command payloads to register.
func (r *Registry) Definitions() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range r.All() {
		def := c.SlashDefinition()
		if def == nil {
			continue
		}
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		defs = append(defs, def)
	}
	return defs
}
