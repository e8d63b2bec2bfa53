// Package command manages operator-defined chat commands: templated replies
// with their own aliases, cooldown, permission level and usage counter.
package command

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
	"github.com/osse101/GameBoxBot_Go/internal/logger"
	"github.com/osse101/GameBoxBot_Go/internal/repository"
)

var namePattern = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// Patch carries the fields an update may change. Nil leaves a field as is.
type Patch struct {
	Description     *string
	Response        *string
	Aliases         *[]string
	Enabled         *bool
	CooldownSeconds *int
	Level           *domain.CommandLevel
}

// Service defines the custom command operations
type Service interface {
	List(ctx context.Context) ([]domain.CustomCommand, error)
	// Get resolves a name or alias, with or without a leading "!"
	Get(ctx context.Context, name string) (*domain.CustomCommand, error)
	Create(ctx context.Context, cmd domain.CustomCommand) (*domain.CustomCommand, error)
	Update(ctx context.Context, name string, patch Patch) (*domain.CustomCommand, error)
	Delete(ctx context.Context, name string) error
	RecordUse(ctx context.Context, id string) error
}

type service struct {
	repo     repository.Command
	reserved map[string]bool
	// mu serializes writes so key checks and inserts happen together
	mu sync.Mutex
}

// NewService creates a new command service. reserved names (the built-in
// chat commands and their aliases) can never be claimed.
func NewService(repo repository.Command, reserved ...string) Service {
	r := make(map[string]bool, len(reserved))
	for _, name := range reserved {
		r[strings.ToLower(name)] = true
	}
	return &service{repo: repo, reserved: r}
}

// NormalizeName lowercases and drops surrounding space and a leading "!"
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "!"))
}

func (s *service) List(ctx context.Context) ([]domain.CustomCommand, error) {
	return s.repo.ListCommands(ctx)
}

func (s *service) Get(ctx context.Context, name string) (*domain.CustomCommand, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, domain.ErrCommandNotFound
	}
	return s.repo.GetCommand(ctx, name)
}

func (s *service) Create(ctx context.Context, cmd domain.CustomCommand) (*domain.CustomCommand, error) {
	cmd.Name = NormalizeName(cmd.Name)
	if err := s.checkKey(cmd.Name); err != nil {
		return nil, err
	}
	if cmd.Level == "" {
		cmd.Level = domain.CommandLevelViewer
	}
	aliases, err := s.normalizeAliases(cmd.Name, cmd.Aliases)
	if err != nil {
		return nil, err
	}
	cmd.Aliases = aliases
	if err := validate(&cmd); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.CreateCommand(ctx, &cmd); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info(LogMsgCommandCreated, "command", cmd.Name, "aliases", cmd.Aliases, "level", cmd.Level)
	return &cmd, nil
}

func (s *service) Update(ctx context.Context, name string, patch Patch) (*domain.CustomCommand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if patch.Description != nil {
		cmd.Description = *patch.Description
	}
	if patch.Response != nil {
		cmd.Response = *patch.Response
	}
	if patch.Aliases != nil {
		if cmd.Aliases, err = s.normalizeAliases(cmd.Name, *patch.Aliases); err != nil {
			return nil, err
		}
	}
	if patch.Enabled != nil {
		cmd.Enabled = *patch.Enabled
	}
	if patch.CooldownSeconds != nil {
		cmd.CooldownSeconds = *patch.CooldownSeconds
	}
	if patch.Level != nil {
		cmd.Level = *patch.Level
	}
	if err := validate(cmd); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCommand(ctx, cmd); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info(LogMsgCommandUpdated, "command", cmd.Name, "enabled", cmd.Enabled)
	return cmd, nil
}

func (s *service) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCommand(ctx, cmd.ID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgCommandDeleted, "command", cmd.Name)
	return nil
}

func (s *service) RecordUse(ctx context.Context, id string) error {
	return s.repo.IncrementCommandUsage(ctx, id)
}

func (s *service) checkKey(key string) error {
	if !namePattern.MatchString(key) {
		return fmt.Errorf("%w: "+ErrMsgBadName, domain.ErrInvalidInput, key)
	}
	if s.reserved[key] {
		return fmt.Errorf("%w: "+ErrMsgReservedName, domain.ErrCommandExists, key)
	}
	return nil
}

// normalizeAliases validates and dedupes aliases, dropping any equal to name
func (s *service) normalizeAliases(name string, aliases []string) ([]string, error) {
	out := make([]string, 0, len(aliases))
	seen := map[string]bool{name: true}
	for _, alias := range aliases {
		alias = NormalizeName(alias)
		if seen[alias] {
			continue
		}
		if err := s.checkKey(alias); err != nil {
			return nil, err
		}
		seen[alias] = true
		out = append(out, alias)
	}
	if len(out) > MaxAliases {
		return nil, fmt.Errorf("%w: "+ErrMsgTooManyAlias, domain.ErrInvalidInput, MaxAliases)
	}
	return out, nil
}

func validate(cmd *domain.CustomCommand) error {
	switch {
	case strings.TrimSpace(cmd.Response) == "":
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyResponse)
	case len(cmd.Response) > MaxResponseLength:
		return fmt.Errorf("%w: "+ErrMsgLongResponse, domain.ErrInvalidInput, MaxResponseLength)
	case cmd.CooldownSeconds < 0 || cmd.CooldownSeconds > MaxCooldown:
		return fmt.Errorf("%w: "+ErrMsgBadCooldown, domain.ErrInvalidInput, MaxCooldown)
	case !cmd.Level.Valid():
		return fmt.Errorf("%w: "+ErrMsgBadLevel, domain.ErrInvalidInput, cmd.Level)
	}
	return nil
}
