package library

import (
	"context"
	"fmt"

	"privlib/internal/app/db"
	dbc "privlib/internal/app/db/sqlc"
	"privlib/internal/pkg/auth/jwt"
	"privlib/internal/pkg/errs"
)

// CanRead reports whether the caller may preview or download f: admins, the uploader, and
// members of the file's team.
func CanRead(ctx context.Context, q dbc.Querier, caller *jwt.Payload, f dbc.File) (bool, error) {
	if caller.IsAdmin() || f.UploadedBy == caller.Username {
		return true, nil
	}
	if !f.TeamID.Valid {
		return false, nil
	}

	ok, err := q.IsTeamMember(ctx, dbc.IsTeamMemberParams{TeamID: f.TeamID, Username: caller.Username})
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return ok, nil
}

// LoadReadable fetches a file by id and checks read access, returning coded errors for
// missing files and denied access.
func LoadReadable(ctx context.Context, q dbc.Querier, caller *jwt.Payload, fileID string) (dbc.File, error) {
	id, ok := db.ParseUUID(fileID)
	if !ok {
		return dbc.File{}, errs.NewError(errs.ErrFileNotFound)
	}

	f, err := q.GetFile(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return dbc.File{}, errs.NewError(errs.ErrFileNotFound)
		}
		return dbc.File{}, fmt.Errorf("failed to load file: %w", err)
	}

	allowed, err := CanRead(ctx, q, caller, f)
	if err != nil {
		return dbc.File{}, err
	}
	if !allowed {
		return dbc.File{}, errs.NewError(errs.ErrFileAccessDenied)
	}

	return f, nil
}

// RequireTeamMember loads a team and checks that username belongs to it. Admins pass the
// membership check when allowAdmin is set.
func RequireTeamMember(ctx context.Context, q dbc.Querier, caller *jwt.Payload, teamID string, allowAdmin bool) (dbc.Team, error) {
	id, ok := db.ParseUUID(teamID)
	if !ok {
		return dbc.Team{}, errs.NewError(errs.ErrTeamNotFound)
	}

	team, err := q.GetTeam(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return dbc.Team{}, errs.NewError(errs.ErrTeamNotFound)
		}
		return dbc.Team{}, fmt.Errorf("failed to load team: %w", err)
	}

	if allowAdmin && caller.IsAdmin() {
		return team, nil
	}

	member, err := q.IsTeamMember(ctx, dbc.IsTeamMemberParams{TeamID: id, Username: caller.Username})
	if err != nil {
		return dbc.Team{}, fmt.Errorf("failed to check team membership: %w", err)
	}
	if !member {
		return dbc.Team{}, errs.NewError(errs.ErrNotTeamMember)
	}

	return team, nil
}
