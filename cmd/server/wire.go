//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"livefeed/internal/app"
	"livefeed/internal/auth"
	"livefeed/internal/config"
	"livefeed/internal/http"
	"livefeed/internal/http/controller"
	"livefeed/internal/logging"
	"livefeed/internal/metrics"
	"livefeed/internal/prefs"
	"livefeed/internal/queue/rabbitmq"
	"livefeed/internal/readstate"
	"livefeed/internal/service/aggregate"
	"livefeed/internal/service/refresh"
	"livefeed/internal/service/social"
	"livefeed/internal/sse"
	"livefeed/internal/store"
)

func InitializeApp() (*app.App, func(), error) {
	wire.Build(
		config.New,
		logging.New,
		metrics.New,
		store.NewBackend,
		store.NewSourceRepository,
		store.NewSocialRepository,
		store.NewKV,
		readstate.New,
		prefs.New,
		aggregate.New,
		social.NewService,
		sse.NewHub,
		rabbitmq.NewPublisher,
		rabbitmq.NewConsumer,
		refresh.NewNotifier,
		auth.NewVerifier,
		controller.NewHandler,
		http.NewRouter,
		app.NewApp,
	)
	return &app.App{}, nil, nil
}
