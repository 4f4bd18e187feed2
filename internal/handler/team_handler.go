package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"privlib/internal/app/db"
	dbc "privlib/internal/app/db/sqlc"
	"privlib/internal/app/library"
	"privlib/internal/pkg/auth/jwt"
	"privlib/internal/pkg/errs"
	"privlib/internal/pkg/logx"
	"privlib/internal/pkg/req"
	"privlib/internal/pkg/resp"
)

type CreateTeamInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreateTeam creates a team with the caller as its first member.
func HandleCreateTeam(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		var input CreateTeamInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := library.ValidateTeam(input.Name, input.Description); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		team, err := deps.DB.CreateTeam(r.Context(), dbc.CreateTeamParams{
			Name:        strings.TrimSpace(input.Name),
			Description: strings.TrimSpace(input.Description),
			CreatedBy:   identity.Username,
		})
		if err != nil {
			logx.Error(err, "Failed to create team", "username", identity.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.DB.AddTeamMember(r.Context(), dbc.AddTeamMemberParams{
			TeamID:   team.ID,
			Username: identity.Username,
		}); err != nil {
			logx.Error(err, "Failed to add team creator, rolling back", "team_id", db.UUIDString(team.ID))
			if delErr := deps.DB.DeleteTeam(context.WithoutCancel(r.Context()), team.ID); delErr != nil {
				logx.Error(delErr, "Failed to roll back team", "team_id", db.UUIDString(team.ID))
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("Team created", "team_id", db.UUIDString(team.ID), "username", identity.Username)
		resp.RespondSuccess(w, r, newTeamView(team, []string{identity.Username}))
	}
}

// HandleListTeams returns the caller's teams with their members.
func HandleListTeams(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		teams, err := deps.DB.ListTeamsForUser(r.Context(), identity.Username)
		if err != nil {
			logx.Error(err, "Failed to list teams", "username", identity.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		views := make([]TeamView, 0, len(teams))
		for _, team := range teams {
			members, err := deps.DB.ListTeamMembers(r.Context(), team.ID)
			if err != nil {
				logx.Error(err, "Failed to list team members", "team_id", db.UUIDString(team.ID))
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}
			views = append(views, newTeamView(team, members))
		}

		resp.RespondSuccess(w, r, views)
	}
}

type AddMemberInput struct {
	Username string `json:"username"`
}

// HandleAddTeamMember lets any member add another existing user.
func HandleAddTeamMember(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		team, err := library.RequireTeamMember(r.Context(), deps.DB, identity, chi.URLParam(r, "team_id"), false)
		if err != nil {
			resp.RespondErr(w, r, err)
			return
		}

		var input AddMemberInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		username := strings.TrimSpace(input.Username)
		if _, err := deps.DB.GetUserByUsername(r.Context(), username); err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "Failed to look up user", "username", username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.DB.AddTeamMember(r.Context(), dbc.AddTeamMemberParams{
			TeamID:   team.ID,
			Username: username,
		}); err != nil {
			switch {
			case db.IsUniqueViolation(err):
				resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyTeamMember))
			case db.IsForeignKeyViolation(err):
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			default:
				logx.Error(err, "Failed to add team member", "team_id", db.UUIDString(team.ID))
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			}
			return
		}

		logx.Info("Team member added", "team_id", db.UUIDString(team.ID), "member", username, "by", identity.Username)
		resp.RespondSuccess(w, r, map[string]any{"team_id": db.UUIDString(team.ID), "username": username})
	}
}

// HandleRemoveTeamMember removes a member. Only the team creator may remove others; anyone
// may leave.
func HandleRemoveTeamMember(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		username := chi.URLParam(r, "username")

		team, customErr := loadTeam(r, deps)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if team.CreatedBy != identity.Username && username != identity.Username {
			resp.RespondError(w, r, errs.NewError(errs.ErrTeamPermissionDenied))
			return
		}

		removed, err := deps.DB.RemoveTeamMember(r.Context(), dbc.RemoveTeamMemberParams{
			TeamID:   team.ID,
			Username: username,
		})
		if err != nil {
			logx.Error(err, "Failed to remove team member", "team_id", db.UUIDString(team.ID))
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if removed == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotTeamMember))
			return
		}

		kicked := deps.Hub.KickTeam(db.UUIDString(team.ID), username, "removed from team")
		logx.Info("Team member removed", "team_id", db.UUIDString(team.ID), "member", username, "by", identity.Username, "kicked", kicked)

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleDeleteTeam deletes a team together with its files. Allowed for the creator and admins.
func HandleDeleteTeam(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)

		team, customErr := loadTeam(r, deps)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if team.CreatedBy != identity.Username && !identity.IsAdmin() {
			resp.RespondError(w, r, errs.NewError(errs.ErrTeamPermissionDenied))
			return
		}

		files, err := deps.DB.ListFilesByTeam(r.Context(), team.ID)
		if err != nil {
			logx.Error(err, "Failed to list team files", "team_id", db.UUIDString(team.ID))
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		// Rows go with the team through ON DELETE CASCADE; objects are removed here.
		if err := deps.DB.DeleteTeam(r.Context(), team.ID); err != nil {
			logx.Error(err, "Failed to delete team", "team_id", db.UUIDString(team.ID))
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		deps.Hub.KickTeam(db.UUIDString(team.ID), "", "team deleted")

		for _, f := range files {
			if err := deps.StorageService.Delete(r.Context(), f.ObjectKey); err != nil {
				logx.Warn("Failed to delete team object", "object_key", f.ObjectKey, "error", err.Error())
			}
		}

		logx.Info("Team deleted", "team_id", db.UUIDString(team.ID), "files", len(files), "by", identity.Username)
		resp.RespondSuccess(w, r, nil)
	}
}

func loadTeam(r *http.Request, deps *AppDeps) (dbc.Team, *errs.CustomError) {
	id, ok := db.ParseUUID(chi.URLParam(r, "team_id"))
	if !ok {
		return dbc.Team{}, errs.NewError(errs.ErrTeamNotFound)
	}

	team, err := deps.DB.GetTeam(r.Context(), id)
	if err != nil {
		if db.IsNotFound(err) {
			return dbc.Team{}, errs.NewError(errs.ErrTeamNotFound)
		}
		logx.Error(err, "Failed to load team")
		return dbc.Team{}, errs.NewError(errs.ErrUnknown)
	}

	return team, nil
}
