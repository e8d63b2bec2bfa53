package domain

import (
	"strings"
	"time"
)

// CommandLevel gates who may run a custom command
type CommandLevel string

const (
	CommandLevelViewer CommandLevel = "viewer"
	CommandLevelAdmin  CommandLevel = "admin"
)

// Valid reports whether l is a known level
func (l CommandLevel) Valid() bool {
	return l == CommandLevelViewer || l == CommandLevelAdmin
}

// CustomCommand is an operator-defined chat command that answers with a
// response template. Name and aliases are stored without the chat prefix.
type CustomCommand struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Response        string       `json:"response"`
	Aliases         []string     `json:"aliases"`
	Enabled         bool         `json:"enabled"`
	CooldownSeconds int          `json:"cooldown_seconds"`
	Level           CommandLevel `json:"level"`
	UsageCount      int          `json:"usage_count"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Clone returns a deep copy
func (c *CustomCommand) Clone() *CustomCommand {
	out := *c
	out.Aliases = append([]string(nil), c.Aliases...)
	return &out
}

// Keys is the name followed by every alias
func (c *CustomCommand) Keys() []string {
	return append([]string{c.Name}, c.Aliases...)
}

// Answers reports whether name is the command's name or one of its aliases
func (c *CustomCommand) Answers(name string) bool {
	name = strings.ToLower(name)
	for _, k := range c.Keys() {
		if k == name {
			return true
		}
	}
	return false
}
