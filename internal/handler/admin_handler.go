package handler

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"privlib/internal/app/collab"
	"privlib/internal/app/db"
	"privlib/internal/app/storage"
	"privlib/internal/pkg/auth/jwt"
	"privlib/internal/pkg/errs"
	"privlib/internal/pkg/logx"
	"privlib/internal/pkg/req"
	"privlib/internal/pkg/resp"
)

// backupFileName is the attachment name of the download-all archive.
const backupFileName = "all_files_backup.zip"

func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.DB.ListUsers(r.Context())
		if err != nil {
			logx.Error(err, "Failed to list users")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		views := make([]UserView, 0, len(users))
		for _, u := range users {
			views = append(views, newUserView(u))
		}

		resp.RespondSuccess(w, r, views)
	}
}

// HandleDeleteUser deletes a regular account. Admin accounts cannot be deleted.
func HandleDeleteUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := db.ParseUUID(chi.URLParam(r, "user_id"))
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		target, err := deps.DB.GetUserByID(r.Context(), id)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "Failed to load user")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if target.Role == jwt.RoleAdmin {
			resp.RespondError(w, r, errs.NewError(errs.ErrCannotDeleteAdmin))
			return
		}

		if _, err := deps.DB.DeleteUser(r.Context(), id); err != nil {
			logx.Error(err, "Failed to delete user", "username", target.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		kicked := deps.Hub.KickUser(db.UUIDString(target.ID), "account deleted")
		logx.Info("User deleted", "username", target.Username, "by", jwt.GetPayloadFromContext(r).Username, "kicked", kicked)
		resp.RespondSuccess(w, r, nil)
	}
}

// AdminStats is the admin dashboard summary, including the live relay.
type AdminStats struct {
	TotalUsers        int64        `json:"total_users"`
	TotalFiles        int64        `json:"total_files"`
	TotalTeams        int64        `json:"total_teams"`
	TotalStorageBytes int64        `json:"total_storage_bytes"`
	TotalStorageMB    float64      `json:"total_storage_mb"`
	ChatEnabled       bool         `json:"chat_enabled"`
	Live              collab.Stats `json:"live"`
}

func HandleAdminStats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		users, err := deps.DB.CountUsers(ctx)
		if err != nil {
			logx.Error(err, "Failed to count users")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		teams, err := deps.DB.CountTeams(ctx)
		if err != nil {
			logx.Error(err, "Failed to count teams")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		files, err := deps.DB.GetFileStats(ctx)
		if err != nil {
			logx.Error(err, "Failed to load file stats")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		chatEnabled, err := deps.Chat.Enabled(ctx)
		if err != nil {
			logx.Error(err, "Failed to read chat setting")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, AdminStats{
			TotalUsers:        users,
			TotalFiles:        files.TotalFiles,
			TotalTeams:        teams,
			TotalStorageBytes: files.TotalBytes,
			TotalStorageMB:    megabytes(files.TotalBytes),
			ChatEnabled:       chatEnabled,
			Live:              deps.Hub.Stats(),
		})
	}
}

type ChatToggleInput struct {
	Enabled bool `json:"enabled"`
}

// HandleToggleChat switches the global chat. Sessions already open are left alone.
func HandleToggleChat(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input ChatToggleInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Chat.SetEnabled(r.Context(), input.Enabled); err != nil {
			logx.Error(err, "Failed to toggle chat")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if !input.Enabled {
			kicked := deps.Hub.KickNonAdmins(collab.ChatRoom(), "chat disabled")
			logx.Info("Chat disabled", "kicked", kicked)
		}

		resp.RespondSuccess(w, r, map[string]bool{"enabled": input.Enabled})
	}
}

// HandleDeleteChatMessage deletes a stored message and tells the chat room to drop it.
func HandleDeleteChatMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messageID := chi.URLParam(r, "message_id")

		if err := deps.Chat.DeleteChatMessage(r.Context(), messageID); err != nil {
			resp.RespondErr(w, r, err)
			return
		}

		result := deps.Hub.Publish(collab.ChatRoom(), collab.MessageDeleted(messageID))
		logx.Debug("Chat deletion published", "message_id", messageID, "delivered", result.Delivered)

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleDownloadAll streams a zip of every stored file, laid out as <uploader>/<original name>.
// Objects missing from the bucket are skipped.
func HandleDownloadAll(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := deps.DB.ListAllFiles(r.Context())
		if err != nil {
			logx.Error(err, "Failed to list files for backup")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupFileName))
		w.WriteHeader(http.StatusOK)

		zw := zip.NewWriter(w)
		names := make(map[string]bool, len(files))
		written := 0

		for _, f := range files {
			obj, err := deps.StorageService.Open(r.Context(), f.ObjectKey)
			if err != nil {
				if !errors.Is(err, storage.ErrObjectNotFound) {
					logx.Warn("Skipping unreadable object in backup", "object_key", f.ObjectKey, "error", err.Error())
				}
				continue
			}

			entry, err := zw.Create(archiveName(names, f.UploadedBy, f.OriginalName))
			if err == nil {
				_, err = io.Copy(entry, obj.Body)
			}
			obj.Body.Close()

			if err != nil {
				// Headers are gone; all we can do is stop writing.
				logx.Error(err, "Backup archive aborted", "object_key", f.ObjectKey)
				return
			}
			written++
		}

		if err := zw.Close(); err != nil {
			logx.Error(err, "Failed to finish backup archive")
			return
		}

		logx.Info("Backup archive sent", "files", written, "by", jwt.GetPayloadFromContext(r).Username)
	}
}

// archiveName returns a unique, slash-safe entry name for a file. Repeated names get a
// " (n)" suffix before the extension.
func archiveName(used map[string]bool, owner, originalName string) string {
	clean := func(s string) string {
		s = strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(s))
		if s == "" || s == "." || s == ".." {
			return "_"
		}
		return s
	}

	name := clean(owner) + "/" + clean(originalName)
	ext := path.Ext(name)

	candidate := name
	for i := 1; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), i, ext)
	}
	used[candidate] = true

	return candidate
}
