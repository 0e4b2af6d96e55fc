//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"context"

	"github.com/bionicotaku/lingo-services-media/internal/controllers"
	loader "github.com/bionicotaku/lingo-services-media/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/database"
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/gcs"
	httpserver "github.com/bionicotaku/lingo-services-media/internal/infrastructure/http_server"
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/media"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(context.Context, *loader.Bundle, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		loader.ProviderSet,
		database.ProviderSet,
		gcs.ProviderSet,
		media.ProviderSet,
		repositories.ProviderSet,
		services.ProviderSet,
		controllers.ProviderSet,
		httpserver.ProviderSet,
		bindingSet,
		newTxManager,
		newApp,
	))
}
