/*
Package handler provides the HTTP handler functions for WebSocket connection upgrading and initialization.

Each endpoint authorizes the caller for one kind of room before upgrading, then hands the
connection to the collaboration hub, which owns it until it closes.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"privlib/internal/app/collab"
	"privlib/internal/app/db"
	"privlib/internal/app/library"
	"privlib/internal/app/user"
	"privlib/internal/pkg/auth/jwt"
	"privlib/internal/pkg/errs"
	"privlib/internal/pkg/logx"
	"privlib/internal/pkg/resp"
)

// HandleChatSocket joins the global chat room. Non-admins need chat to be enabled.
func HandleChatSocket(deps *AppDeps, upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := requireChatOpen(r, deps); customErr != nil {
			logx.Info("Chat connection rejected", "username", jwt.GetPayloadFromContext(r).Username, "code", customErr.Code)
			resp.RespondError(w, r, customErr)
			return
		}

		serveRoom(w, r, deps, upgrader, collab.ChatRoom())
	}
}

// HandleLiveSocket joins the live editing room of one team file.
func HandleLiveSocket(deps *AppDeps, upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := jwt.GetPayloadFromContext(r)
		teamID := chi.URLParam(r, "team_id")
		fileID := chi.URLParam(r, "file_id")

		team, err := library.RequireTeamMember(r.Context(), deps.DB, identity, teamID, false)
		if err != nil {
			resp.RespondErr(w, r, err)
			return
		}

		id, ok := db.ParseUUID(fileID)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileNotFound))
			return
		}

		f, err := deps.DB.GetFile(r.Context(), id)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrFileNotFound))
				return
			}
			logx.Error(err, "Failed to load file for live session")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if f.TeamID != team.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileAccessDenied))
			return
		}

		serveRoom(w, r, deps, upgrader, collab.LiveRoom(db.UUIDString(team.ID), db.UUIDString(f.ID)))
	}
}

// HandleCanvasSocket joins a team's shared whiteboard.
func HandleCanvasSocket(deps *AppDeps, upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team, err := library.RequireTeamMember(r.Context(), deps.DB, jwt.GetPayloadFromContext(r), chi.URLParam(r, "team_id"), false)
		if err != nil {
			resp.RespondErr(w, r, err)
			return
		}

		serveRoom(w, r, deps, upgrader, collab.CanvasRoom(db.UUIDString(team.ID)))
	}
}

// serveRoom upgrades the request and runs the connection until it closes.
func serveRoom(w http.ResponseWriter, r *http.Request, deps *AppDeps, upgrader websocket.Upgrader, key collab.RoomKey) {
	identity := jwt.GetPayloadFromContext(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logx.Error(err, "Failed to upgrade connection to WebSocket", "room", string(key))
		return
	}

	currentUser := user.User{
		ID:       identity.ID,
		Username: identity.Username,
		Role:     identity.Role,
	}

	client := deps.Hub.OnConnect(conn, key, currentUser)

	go client.WritePump()

	logx.Info("WebSocket connection established", "conn_id", client.ID, "room", string(key), "username", identity.Username)

	client.ReadPump(deps.Hub)
}
