// Package logger builds the structured application logger. Every record
// carries the service identity plus per-request correlation: the active
// trace/span and the acting user when a request is authenticated.
package logger

import (
	"context"
	"os"

	"github.com/bionicotaku/lingo-services-media/internal/metadata"

	gclog "github.com/bionicotaku/lingo-utils/gclog"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/trace"
)

// Config captures runtime metadata used to annotate logs.
type Config struct {
	Service string
	Version string
	HostID  string
	Env     string
}

// NewLogger builds a Kratos-compatible logger enriched with trace, span and
// actor correlation fields.
func NewLogger(cfg Config) (log.Logger, error) {
	baseLogger, err := gclog.NewLogger(
		gclog.WithService(cfg.Service),
		gclog.WithVersion(cfg.Version),
		gclog.WithEnvironment(cfg.Env),
		gclog.WithStaticLabels(map[string]string{
			"service.id":     cfg.HostID,
			"service.domain": "media",
		}),
		gclog.EnableSourceLocation(),
	)
	if err != nil {
		return nil, err
	}
	return log.With(
		baseLogger,
		"trace_id", log.Valuer(traceIDValuer),
		"span_id", log.Valuer(spanIDValuer),
		"actor_id", log.Valuer(actorIDValuer),
	), nil
}

func traceIDValuer(ctx context.Context) interface{} {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

func spanIDValuer(ctx context.Context) interface{} {
	if sc := trace.SpanContextFromContext(ctx); sc.HasSpanID() {
		return sc.SpanID().String()
	}
	return ""
}

// actorIDValuer surfaces the authenticated user behind each request record.
// Anonymous traffic logs an empty field.
func actorIDValuer(ctx context.Context) interface{} {
	if actor, ok := metadata.FromContext(ctx); ok && !actor.IsZero() {
		return actor.UserID.String()
	}
	return ""
}

// DefaultConfig builds Config from environment defaults.
func DefaultConfig(service, version string) Config {
	if service == "" {
		service = "media"
	}
	if version == "" {
		version = "dev"
	}
	host, _ := os.Hostname()
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	return Config{Service: service, Version: version, HostID: host, Env: env}
}
