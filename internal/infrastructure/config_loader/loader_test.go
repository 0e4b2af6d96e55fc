package loader

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	if got := Duration("", time.Minute); got != time.Minute {
		t.Fatalf("empty must fall back, got %v", got)
	}
	if got := Duration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
	if got := Duration("soon", time.Minute); got != time.Minute {
		t.Fatalf("malformed must fall back, got %v", got)
	}
	if got := Duration("-5s", time.Minute); got != time.Minute {
		t.Fatalf("non-positive must fall back, got %v", got)
	}
}

func TestApplyDefaults(t *testing.T) {
	var bc Bootstrap
	applyDefaults(&bc)

	if bc.Server.HTTP.Addr != defaultHTTPAddr {
		t.Fatalf("expected default addr, got %q", bc.Server.HTTP.Addr)
	}
	if bc.Data.Postgres.Schema != defaultPostgresSchema {
		t.Fatalf("expected default schema, got %q", bc.Data.Postgres.Schema)
	}

	bc.Server.HTTP.Addr = ":9000"
	applyDefaults(&bc)
	if bc.Server.HTTP.Addr != ":9000" {
		t.Fatalf("explicit addr must survive, got %q", bc.Server.HTTP.Addr)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://media:***@db/media")
	t.Setenv("PORT", "8080")
	t.Setenv("GCS_BUCKET", "media-blobs")

	var bc Bootstrap
	applyEnvOverrides(&bc)

	if bc.Data.Postgres.DSN != "postgres://media:***@db/media" {
		t.Fatalf("DATABASE_URL not applied: %q", bc.Data.Postgres.DSN)
	}
	if bc.Server.HTTP.Addr != ":8080" {
		t.Fatalf("PORT not applied: %q", bc.Server.HTTP.Addr)
	}
	if bc.Storage.Bucket != "media-blobs" {
		t.Fatalf("GCS_BUCKET not applied: %q", bc.Storage.Bucket)
	}
}
