package handler

import (
	"kwakhanya/internal/app/assist"
	"kwakhanya/internal/app/mailer"
	"kwakhanya/internal/app/storage"
	"kwakhanya/internal/app/store"
	"kwakhanya/internal/configs"
)

type AppDeps struct {
	Relay          *assist.Relay
	Config         *configs.AppConfig
	StorageService storage.StorageService
	Store          *store.Store
	Mailer         mailer.Mailer
}
