package handler

import (
	"net/http"

	dbc "privlib/internal/app/db/sqlc"
	"privlib/internal/app/library"
	"privlib/internal/pkg/errs"
	"privlib/internal/pkg/logx"
	"privlib/internal/pkg/req"
	"privlib/internal/pkg/resp"
)

type UpdateThemeInput struct {
	Theme string `json:"theme"`
}

func HandleUpdateTheme(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbUser, customErr := currentUser(r, deps)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input UpdateThemeInput
		if err := req.BindJSON(r, &input); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		if err := library.ValidateTheme(input.Theme); err != nil {
			resp.RespondError(w, r, err)
			return
		}

		if err := deps.DB.UpdateUserTheme(r.Context(), dbc.UpdateUserThemeParams{
			ID:    dbUser.ID,
			Theme: input.Theme,
		}); err != nil {
			logx.Error(err, "Failed to update theme", "username", dbUser.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		dbUser.Theme = input.Theme
		resp.RespondSuccess(w, r, newUserView(dbUser))
	}
}

// UserStats summarizes what the caller has uploaded and joined.
type UserStats struct {
	TotalFiles        int64   `json:"total_files"`
	TotalStorageBytes int64   `json:"total_storage_bytes"`
	TotalStorageMB    float64 `json:"total_storage_mb"`
	TotalTeams        int64   `json:"total_teams"`
}

func HandleUserStats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbUser, customErr := currentUser(r, deps)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		fileStats, err := deps.DB.GetUserFileStats(r.Context(), dbUser.Username)
		if err != nil {
			logx.Error(err, "Failed to load file stats", "username", dbUser.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		teams, err := deps.DB.CountTeamsForUser(r.Context(), dbUser.Username)
		if err != nil {
			logx.Error(err, "Failed to count teams", "username", dbUser.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, UserStats{
			TotalFiles:        fileStats.TotalFiles,
			TotalStorageBytes: fileStats.TotalBytes,
			TotalStorageMB:    megabytes(fileStats.TotalBytes),
			TotalTeams:        teams,
		})
	}
}
