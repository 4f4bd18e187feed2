package handler

import (
	"net/http"

	"privlib/internal/app/collab"
	"privlib/internal/pkg/auth/jwt"
	"privlib/internal/pkg/errs"
	"privlib/internal/pkg/logx"
	"privlib/internal/pkg/resp"
)

func HandleChatEnabled(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		enabled, err := deps.Chat.Enabled(r.Context())
		if err != nil {
			logx.Error(err, "Failed to read chat setting")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]bool{"enabled": enabled})
	}
}

// HandleChatHistory returns the latest messages, oldest first. Non-admins get ErrChatDisabled
// while chat is switched off.
func HandleChatHistory(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := requireChatOpen(r, deps); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		entries, err := deps.Chat.Recent(r.Context())
		if err != nil {
			logx.Error(err, "Failed to load chat history")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		messages := make([]collab.Message, 0, len(entries))
		for _, entry := range entries {
			messages = append(messages, entry.ChatMessage())
		}

		resp.RespondSuccess(w, r, messages)
	}
}

// requireChatOpen passes admins unconditionally and everyone else only while chat is enabled.
func requireChatOpen(r *http.Request, deps *AppDeps) *errs.CustomError {
	if jwt.GetPayloadFromContext(r).IsAdmin() {
		return nil
	}

	enabled, err := deps.Chat.Enabled(r.Context())
	if err != nil {
		logx.Error(err, "Failed to read chat setting")
		return errs.NewError(errs.ErrUnknown)
	}
	if !enabled {
		return errs.NewError(errs.ErrChatDisabled)
	}
	return nil
}
