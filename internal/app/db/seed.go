package db

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dbc "privlib/internal/app/db/sqlc"
	"privlib/internal/app/user"
	"privlib/internal/pkg/logx"
)

// SettingChatEnabled is the settings key of the global chat switch.
const SettingChatEnabled = "chat_enabled"

// Seed creates the administrator account when it is missing and makes sure the chat switch
// exists, starting disabled. It is safe to run on every start.
func Seed(ctx context.Context, q dbc.Querier, adminUsername, adminPassword string) error {
	if _, err := q.GetUserByUsername(ctx, adminUsername); err != nil {
		if !IsNotFound(err) {
			return fmt.Errorf("failed to look up admin account: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		_, err = q.CreateUser(ctx, dbc.CreateUserParams{
			Username:     adminUsername,
			PasswordHash: string(hash),
			Role:         user.RoleAdmin,
		})
		if err != nil && !IsUniqueViolation(err) {
			return fmt.Errorf("failed to create admin account: %w", err)
		}

		logx.Info("Admin account created", "username", adminUsername)
	}

	if err := q.EnsureSetting(ctx, dbc.EnsureSettingParams{Key: SettingChatEnabled, Value: false}); err != nil {
		return fmt.Errorf("failed to initialize chat setting: %w", err)
	}

	return nil
}
