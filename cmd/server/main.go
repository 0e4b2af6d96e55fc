// Package main boots the media service HTTP entrypoint.
package main

import (
	"context"
	"flag"
	"os"

	loader "github.com/bionicotaku/lingo-services-media/internal/infrastructure/config_loader"
	loginfra "github.com/bionicotaku/lingo-services-media/internal/infrastructure/logger"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"

	_ "go.uber.org/automaxprocs"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the name of the compiled software.
	Name string
	// Version is the version of the compiled software.
	Version string

	id, _ = os.Hostname()
)

func newApp(logger log.Logger, hs *khttp.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(
			hs,
		),
	)
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	confPath, err := loader.ParseConfPath(fs, os.Args[1:])
	if err != nil {
		panic(err)
	}

	bundle, cleanupConfig, err := loader.Load(loader.Params{ConfPath: confPath}, Name, Version)
	if err != nil {
		panic(err)
	}
	defer cleanupConfig()

	logger, err := loginfra.NewLogger(loader.ProvideLoggerConfig(bundle))
	if err != nil {
		panic(err)
	}

	app, cleanupApp, err := wireApp(context.Background(), bundle, logger)
	if err != nil {
		panic(err)
	}
	defer cleanupApp()

	// Start the application and block until a stop signal is received.
	if err := app.Run(); err != nil {
		panic(err)
	}
}
