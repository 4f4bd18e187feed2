package handler

import (
	"privlib/internal/app/chatlog"
	"privlib/internal/app/collab"
	dbc "privlib/internal/app/db/sqlc"
	"privlib/internal/app/storage"
	"privlib/internal/configs"
	"privlib/internal/pkg/pow"
)

// AppDeps carries everything the handlers need. It is built once in main.
type AppDeps struct {
	Hub            *collab.Hub
	Config         *configs.AppConfig
	StorageService storage.StorageService
	DB             dbc.Querier
	Chat           *chatlog.Service
	Pow            *pow.Manager
}
