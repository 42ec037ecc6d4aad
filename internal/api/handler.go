// Package api exposes the webhook endpoint and the token-linked JSON
// API behind the web dashboard.
package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/terraincognita07/tsukimi/internal/config"
	"github.com/terraincognita07/tsukimi/internal/db"
	"github.com/terraincognita07/tsukimi/internal/messaging"
	"github.com/terraincognita07/tsukimi/internal/security"
	"github.com/terraincognita07/tsukimi/internal/services"
)

// Replier answers inbound webhook events through their reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken string, texts ...string) error
}

type Handler struct {
	repositories  *db.Repositories
	conversation  *services.ConversationService
	records       *services.RecordService
	settings      *services.SettingsService
	partners      *services.PartnerService
	replier       Replier
	channelSecret string
	links         *WebLinkBuilder
	location      *time.Location
	log           zerolog.Logger
	now           func() time.Time
}

// NewHandler wires the repositories, services and messaging client into
// a ready request handler.
func NewHandler(database *gorm.DB, cfg config.Config, location *time.Location, log zerolog.Logger) (*Handler, error) {
	if location == nil {
		location = time.UTC
	}

	tokenKey, err := security.DeriveTokenKey(cfg.Channel.Secret, "web-link")
	if err != nil {
		return nil, err
	}
	links := NewWebLinkBuilder(tokenKey, cfg.BaseURL, cfg.LinkTokenTTL)

	client := messaging.NewClient(cfg.Channel.Endpoint, cfg.Channel.AccessToken, cfg.PushRPS, cfg.PushBurst, log)
	notifier := messaging.NewPartnerPushNotifier(client)

	repositories := db.NewRepositories(database)
	settingsService := services.NewSettingsService(repositories.Users, log)
	notifications := services.NewNotificationService(repositories.Partnerships, repositories.Users, notifier, log)
	recordService := services.NewRecordService(repositories.Records, settingsService, notifications, location, log)
	partnerService := services.NewPartnerService(repositories.Partnerships, repositories.Invites, repositories.Users, notifier, log)
	conversation := services.NewConversationService(
		repositories.Users, repositories.Conversations,
		recordService, settingsService, partnerService,
		links, location, log,
	)

	return &Handler{
		repositories:  repositories,
		conversation:  conversation,
		records:       recordService,
		settings:      settingsService,
		partners:      partnerService,
		replier:       client,
		channelSecret: cfg.Channel.Secret,
		links:         links,
		location:      location,
		log:           log,
		now:           time.Now,
	}, nil
}
