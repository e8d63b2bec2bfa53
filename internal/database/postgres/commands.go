package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osse101/GameBoxBot_Go/internal/domain"
)

func scanCommand(row pgx.Row) (*domain.CustomCommand, error) {
	var c domain.CustomCommand
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Response, &c.Aliases, &c.Enabled,
		&c.CooldownSeconds, &c.Level, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCommands(ctx context.Context) ([]domain.CustomCommand, error) {
	rows, err := s.db.Query(ctx, `SELECT `+commandColumns+` FROM chat_commands ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryCommand, err)
	}
	cmds, err := collect(rows, scanCommand)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryCommand, err)
	}
	if cmds == nil {
		cmds = []domain.CustomCommand{}
	}
	return cmds, nil
}

func (s *Store) GetCommand(ctx context.Context, name string) (*domain.CustomCommand, error) {
	name = strings.ToLower(name)
	cmd, err := scanCommand(s.db.QueryRow(ctx, `
		SELECT `+commandColumns+` FROM chat_commands
		WHERE name = $1 OR $1 = ANY(aliases)
		LIMIT 1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCommandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgQueryCommand, err)
	}
	return cmd, nil
}

// CreateCommand inserts only when no stored name or alias overlaps the new keys
func (s *Store) CreateCommand(ctx context.Context, cmd *domain.CustomCommand) error {
	cmd.ID = uuid.NewString()
	if cmd.Aliases == nil {
		cmd.Aliases = []string{}
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO chat_commands (command_id, name, description, response, aliases, enabled, cooldown_seconds, level)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8
		WHERE NOT EXISTS (
			SELECT 1 FROM chat_commands WHERE name = ANY($9) OR aliases && $9
		)
		RETURNING usage_count, created_at, updated_at`,
		cmd.ID, cmd.Name, cmd.Description, cmd.Response, cmd.Aliases, cmd.Enabled, cmd.CooldownSeconds, cmd.Level,
		cmd.Keys(),
	).Scan(&cmd.UsageCount, &cmd.CreatedAt, &cmd.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCommandExists
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteCommand, mapConstraint(err))
	}
	return nil
}

func (s *Store) UpdateCommand(ctx context.Context, cmd *domain.CustomCommand) error {
	if !validID(cmd.ID) {
		return domain.ErrCommandNotFound
	}
	if cmd.Aliases == nil {
		cmd.Aliases = []string{}
	}
	var taken bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat_commands
			WHERE command_id <> $1 AND (name = ANY($2) OR aliases && $2)
		)`, cmd.ID, cmd.Aliases).Scan(&taken)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgQueryCommand, err)
	}
	if taken {
		return domain.ErrCommandExists
	}

	updated, err := scanCommand(s.db.QueryRow(ctx, `
		UPDATE chat_commands
		SET description = $2, response = $3, aliases = $4, enabled = $5, cooldown_seconds = $6, level = $7,
			updated_at = NOW()
		WHERE command_id = $1
		RETURNING `+commandColumns,
		cmd.ID, cmd.Description, cmd.Response, cmd.Aliases, cmd.Enabled, cmd.CooldownSeconds, cmd.Level))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrCommandNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteCommand, err)
	}
	*cmd = *updated
	return nil
}

func (s *Store) DeleteCommand(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrCommandNotFound
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM chat_commands WHERE command_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteCommand, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommandNotFound
	}
	return nil
}

func (s *Store) IncrementCommandUsage(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrCommandNotFound
	}
	tag, err := s.db.Exec(ctx, `UPDATE chat_commands SET usage_count = usage_count + 1 WHERE command_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgWriteCommand, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommandNotFound
	}
	return nil
}
