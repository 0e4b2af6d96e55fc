// Package httpserver assembles the kratos HTTP transport: middleware,
// identity propagation, health endpoints and route registration.
package httpserver

import (
	stdhttp "net/http"
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/controllers"
	"github.com/bionicotaku/lingo-services-media/internal/metadata"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	kmetadata "github.com/go-kratos/kratos/v2/middleware/metadata"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// Config carries the listener settings scanned from bootstrap configuration.
type Config struct {
	Network string
	Addr    string
	Timeout time.Duration
}

// NewHTTPServer builds the HTTP server and mounts every route.
func NewHTTPServer(cfg Config, handlers *controllers.Handlers, logger log.Logger) *khttp.Server {
	opts := []khttp.ServerOption{
		khttp.Middleware(
			recovery.Recovery(),
			kmetadata.Server(
				kmetadata.WithPropagatedPrefix(metadata.PropagatedPrefix),
			),
			logging.Server(logger),
		),
		khttp.Filter(actorFilter),
	}
	if cfg.Network != "" {
		opts = append(opts, khttp.Network(cfg.Network))
	}
	if cfg.Addr != "" {
		opts = append(opts, khttp.Address(cfg.Addr))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, khttp.Timeout(cfg.Timeout))
	}

	srv := khttp.NewServer(opts...)

	srv.Handle("/healthz", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
	}))
	srv.Handle("/readyz", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
	}))

	handlers.RegisterRoutes(srv)
	return srv
}

// actorFilter lifts the verified identity headers into the request context
// before any handler runs. Anonymous requests pass through untouched; each
// operation decides whether it tolerates a zero actor.
func actorFilter(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		actor := metadata.ParseActor(
			r.Header.Get(metadata.HeaderUserID),
			r.Header.Get(metadata.HeaderUsername),
			r.Header.Get(metadata.HeaderDisplayName),
			r.Header.Get(metadata.HeaderAvatarURL),
		)
		if !actor.IsZero() {
			r = r.WithContext(metadata.Inject(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}
