package loader

import (
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/controllers"
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/database"
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/gcs"
	httpserver "github.com/bionicotaku/lingo-services-media/internal/infrastructure/http_server"
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/logger"
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/media"
	"github.com/google/wire"
)

// ProviderSet converts the Bundle into per-component configs. Logger config
// stays out: main builds the logger before the injector runs.
var ProviderSet = wire.NewSet(
	ProvideDatabaseConfig,
	ProvideStorageConfig,
	ProvideMediaConfig,
	ProvideHandlerTimeouts,
	ProvideUploadTempDir,
	ProvideHTTPConfig,
)

// ProvideHTTPConfig derives listener settings.
func ProvideHTTPConfig(b *Bundle) httpserver.Config {
	h := b.Bootstrap.Server.HTTP
	return httpserver.Config{
		Network: h.Network,
		Addr:    h.Addr,
		Timeout: Duration(h.Timeout, 30*time.Second),
	}
}

// ProvideLoggerConfig derives logger settings from service identity.
func ProvideLoggerConfig(b *Bundle) logger.Config {
	return logger.Config{
		Service: b.Service.Name,
		Version: b.Service.Version,
		HostID:  b.Service.InstanceID,
		Env:     b.Service.Environment,
	}
}

// ProvideDatabaseConfig derives pgx pool settings.
func ProvideDatabaseConfig(b *Bundle) database.Config {
	pg := b.Bootstrap.Data.Postgres
	return database.Config{
		DSN:             pg.DSN,
		Schema:          pg.Schema,
		MaxConns:        pg.MaxConns,
		MinConns:        pg.MinConns,
		MaxConnLifetime: Duration(pg.MaxConnLifetime, time.Hour),
		MaxConnIdleTime: Duration(pg.MaxConnIdleTime, 30*time.Minute),
	}
}

// ProvideStorageConfig derives blob store settings.
func ProvideStorageConfig(b *Bundle) gcs.Config {
	return gcs.Config{
		Bucket:        b.Bootstrap.Storage.Bucket,
		PublicBaseURL: b.Bootstrap.Storage.PublicBaseURL,
	}
}

// ProvideHandlerTimeouts derives the per-class handler timeout policy.
func ProvideHandlerTimeouts(b *Bundle) controllers.HandlerTimeouts {
	h := b.Bootstrap.Server.Handler
	return controllers.HandlerTimeouts{
		Default: Duration(h.Default, 5*time.Second),
		Command: Duration(h.Command, 10*time.Second),
		Query:   Duration(h.Query, 3*time.Second),
		Upload:  Duration(h.Upload, 5*time.Minute),
	}
}

// ProvideUploadTempDir derives the multipart spool directory.
func ProvideUploadTempDir(b *Bundle) controllers.UploadTempDir {
	return controllers.UploadTempDir(b.Bootstrap.Server.HTTP.UploadTempDir)
}

// ProvideMediaConfig derives prober settings.
func ProvideMediaConfig(b *Bundle) media.Config {
	m := b.Bootstrap.Media
	return media.Config{
		FFprobePath: m.FFprobePath,
		FFmpegPath:  m.FFmpegPath,
		Timeout:     Duration(m.ProbeTimeout, 30*time.Second),
		TempDir:     m.TempDir,
	}
}
