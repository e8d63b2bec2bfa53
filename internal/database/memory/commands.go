package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

func (s *Store) ListCommands(ctx context.Context) ([]domain.CustomCommand, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	out := make([]domain.CustomCommand, 0, len(s.commands))
	for _, cmd := range s.commands {
		out = append(out, *cmd.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCommand(ctx context.Context, name string) (*domain.CustomCommand, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()

	for _, cmd := range s.commands {
		if cmd.Answers(name) {
			return cmd.Clone(), nil
		}
	}
	return nil, domain.ErrCommandNotFound
}

func (s *Store) CreateCommand(ctx context.Context, cmd *domain.CustomCommand) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if s.keyTakenLocked("", cmd.Keys()) {
		return domain.ErrCommandExists
	}
	now := s.now()
	cmd.ID = uuid.NewString()
	cmd.UsageCount = 0
	cmd.CreatedAt = now
	cmd.UpdatedAt = now
	s.commands[cmd.ID] = cmd.Clone()
	return nil
}

func (s *Store) UpdateCommand(ctx context.Context, cmd *domain.CustomCommand) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	stored, ok := s.commands[cmd.ID]
	if !ok {
		return domain.ErrCommandNotFound
	}
	if s.keyTakenLocked(cmd.ID, cmd.Aliases) {
		return domain.ErrCommandExists
	}
	stored.Description = cmd.Description
	stored.Response = cmd.Response
	stored.Aliases = append([]string(nil), cmd.Aliases...)
	stored.Enabled = cmd.Enabled
	stored.CooldownSeconds = cmd.CooldownSeconds
	stored.Level = cmd.Level
	stored.UpdatedAt = s.now()
	*cmd = *stored.Clone()
	return nil
}

func (s *Store) DeleteCommand(ctx context.Context, id string) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	if _, ok := s.commands[id]; !ok {
		return domain.ErrCommandNotFound
	}
	delete(s.commands, id)
	return nil
}

func (s *Store) IncrementCommandUsage(ctx context.Context, id string) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	cmd, ok := s.commands[id]
	if !ok {
		return domain.ErrCommandNotFound
	}
	cmd.UsageCount++
	return nil
}

// keyTakenLocked reports whether any of keys names or aliases a command
// other than exceptID
func (s *Store) keyTakenLocked(exceptID string, keys []string) bool {
	for id, cmd := range s.commands {
		if id == exceptID {
			continue
		}
		for _, k := range keys {
			if cmd.Answers(k) {
				return true
			}
		}
	}
	return false
}
