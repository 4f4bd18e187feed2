/*
Package handler provides the HTTP handlers and routing setup for the Private Library server.

This file defines the main Router, applying necessary middleware like logging, CORS,
authentication and IP-based rate limiting before delegating requests to specific handlers
(REST API and WebSocket rooms).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"privlib/internal/pkg/auth/jwt"
	"privlib/internal/pkg/limiter"
	"privlib/internal/pkg/logx"
	"privlib/internal/pkg/pow"
	"privlib/internal/pkg/resp"
)

const (
	AuthRate  = 0.2
	AuthBurst = 10
	WSRate    = 0.5
	WSBurst   = 10
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	wsLimiter := limiter.NewIPRateLimiter(rate.Limit(WSRate), WSBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", pow.TokenHeaderKey},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Private Library Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Use(authLimiter.Middleware)

			auth.Get("/challenge", HandleChallenge(deps))
			auth.Post("/challenge/verify", HandleVerifyChallenge(deps))
			auth.Post("/register", HandleRegister(deps))
			auth.Post("/login", HandleLogin(deps))
			auth.With(jwt.RequireIdentity).Get("/me", HandleMe(deps))
		})

		api.Group(func(authed chi.Router) {
			authed.Use(jwt.RequireIdentity)

			authed.Route("/user", func(user chi.Router) {
				user.Put("/theme", HandleUpdateTheme(deps))
				user.Get("/stats", HandleUserStats(deps))
			})

			authed.Route("/teams", func(teams chi.Router) {
				teams.Post("/", HandleCreateTeam(deps))
				teams.Get("/", HandleListTeams(deps))
				teams.Delete("/{team_id}", HandleDeleteTeam(deps))
				teams.Post("/{team_id}/members", HandleAddTeamMember(deps))
				teams.Delete("/{team_id}/members/{username}", HandleRemoveTeamMember(deps))
			})

			authed.Route("/files", func(files chi.Router) {
				files.Post("/upload", HandleUploadFile(deps))
				files.Get("/", HandleListFiles(deps))
				files.Get("/{file_id}/preview", HandlePreviewFile(deps))
				files.Get("/{file_id}/stream", HandleStreamFile(deps))
				files.Get("/{file_id}/download", HandleDownloadFile(deps))
				files.Post("/{file_id}/verify-password", HandleVerifyFilePassword(deps))
				files.Put("/{file_id}/content", HandleUpdateFileContent(deps))
				files.With(jwt.RequireAdmin).Delete("/{file_id}", HandleDeleteFile(deps))
			})

			authed.Route("/chat", func(chat chi.Router) {
				chat.Get("/enabled", HandleChatEnabled(deps))
				chat.Get("/messages", HandleChatHistory(deps))
			})

			authed.Route("/admin", func(admin chi.Router) {
				admin.Use(jwt.RequireAdmin)

				admin.Get("/users", HandleListUsers(deps))
				admin.Delete("/users/{user_id}", HandleDeleteUser(deps))
				admin.Get("/stats", HandleAdminStats(deps))
				admin.Post("/chat/toggle", HandleToggleChat(deps))
				admin.Delete("/chat/messages/{message_id}", HandleDeleteChatMessage(deps))
				admin.Get("/download-all", HandleDownloadAll(deps))
			})

			authed.Route("/ws", func(ws chi.Router) {
				ws.Use(wsLimiter.Middleware)

				ws.Get("/chat", HandleChatSocket(deps, wsUpgrader))
				ws.Get("/live/{team_id}/{file_id}", HandleLiveSocket(deps, wsUpgrader))
				ws.Get("/canvas/{team_id}", HandleCanvasSocket(deps, wsUpgrader))
			})
		})
	})

	return r
}
