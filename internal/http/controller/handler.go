package controller

import (
	"go.uber.org/zap"
	"livefeed/internal/config"
	"livefeed/internal/prefs"
	"livefeed/internal/readstate"
	"livefeed/internal/service/aggregate"
	"livefeed/internal/service/refresh"
	"livefeed/internal/service/social"
	"livefeed/internal/sse"
)

type Handler struct {
	cfg      *config.Config
	agg      *aggregate.Aggregator
	reads    *readstate.Store
	notifier *refresh.Notifier
	hub      *sse.Hub
	prefs    *prefs.Store
	social   *social.Service
	log      *zap.Logger
}

func NewHandler(
	cfg *config.Config,
	agg *aggregate.Aggregator,
	reads *readstate.Store,
	notifier *refresh.Notifier,
	hub *sse.Hub,
	prefStore *prefs.Store,
	socialSvc *social.Service,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		cfg:      cfg,
		agg:      agg,
		reads:    reads,
		notifier: notifier,
		hub:      hub,
		prefs:    prefStore,
		social:   socialSvc,
		log:      logger,
	}
}
