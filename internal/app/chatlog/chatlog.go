/*
Package chatlog persists the global chat and its on/off switch.

It implements collab.ChatStore for the realtime relay and serves the history and settings
endpoints, so both paths share one representation of a chat entry.
*/
package chatlog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"privlib/internal/app/collab"
	"privlib/internal/app/db"
	dbc "privlib/internal/app/db/sqlc"
	"privlib/internal/app/user"
	"privlib/internal/pkg/errs"
	"privlib/internal/pkg/logx"
)

// HistoryLimit is the number of messages returned by Recent.
const HistoryLimit = 100

// Service reads and writes chat messages through the generated queries.
type Service struct {
	q      dbc.Querier
	logger zerolog.Logger
}

var _ collab.ChatStore = (*Service)(nil)

// New returns a Service backed by q.
func New(q dbc.Querier) *Service {
	return &Service{q: q, logger: logx.Component("chatlog")}
}

func toEntry(m dbc.ChatMessage) collab.ChatEntry {
	return collab.ChatEntry{
		ID:        db.UUIDString(m.ID),
		Username:  m.Username,
		Text:      m.Message,
		Role:      m.Role,
		Timestamp: m.CreatedAt.Time,
	}
}

// SaveChatMessage stores a message written by author.
func (s *Service) SaveChatMessage(ctx context.Context, author user.User, text string) (collab.ChatEntry, error) {
	role := author.Role
	if role == "" {
		role = user.RoleUser
	}

	m, err := s.q.CreateChatMessage(ctx, dbc.CreateChatMessageParams{
		Username: author.Username,
		Message:  text,
		Role:     role,
	})
	if err != nil {
		return collab.ChatEntry{}, fmt.Errorf("failed to save chat message: %w", err)
	}

	return toEntry(m), nil
}

// DeleteChatMessage removes one message. Unknown or malformed ids yield ErrMessageNotFound.
func (s *Service) DeleteChatMessage(ctx context.Context, id string) error {
	uid, ok := db.ParseUUID(id)
	if !ok {
		return errs.NewError(errs.ErrMessageNotFound)
	}

	n, err := s.q.DeleteChatMessage(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to delete chat message: %w", err)
	}
	if n == 0 {
		return errs.NewError(errs.ErrMessageNotFound)
	}

	s.logger.Info().Str("message_id", id).Msg("Chat message deleted")
	return nil
}

// Recent returns the latest HistoryLimit messages, oldest first.
func (s *Service) Recent(ctx context.Context) ([]collab.ChatEntry, error) {
	rows, err := s.q.ListRecentChatMessages(ctx, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	entries := make([]collab.ChatEntry, len(rows))
	for i, m := range rows {
		entries[len(rows)-1-i] = toEntry(m)
	}
	return entries, nil
}

// Enabled reports whether non-admin users may use the chat. A missing setting means disabled.
func (s *Service) Enabled(ctx context.Context) (bool, error) {
	enabled, err := s.q.GetSetting(ctx, db.SettingChatEnabled)
	if err != nil {
		if db.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read chat setting: %w", err)
	}
	return enabled, nil
}

// SetEnabled switches the chat on or off.
func (s *Service) SetEnabled(ctx context.Context, enabled bool) error {
	err := s.q.UpsertSetting(ctx, dbc.UpsertSettingParams{Key: db.SettingChatEnabled, Value: enabled})
	if err != nil {
		return fmt.Errorf("failed to update chat setting: %w", err)
	}

	s.logger.Info().Bool("enabled", enabled).Msg("Chat switch updated")
	return nil
}
