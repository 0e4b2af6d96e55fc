package services_test

import (
	"context"
	"io"

	"github.com/bionicotaku/lingo-services-media/internal/metadata"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type noopSession struct{}

func (noopSession) Tx() pgx.Tx               { return nil }
func (noopSession) Context() context.Context { return context.Background() }

type noopTxManager struct{}

func (noopTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, noopSession{})
}

func (noopTxManager) WithinReadOnlyTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, noopSession{})
}

func testLogger() log.Logger {
	return log.NewStdLogger(io.Discard)
}

func testActor() metadata.Actor {
	return metadata.Actor{
		UserID:      uuid.New(),
		Username:    "creator",
		DisplayName: "Creator",
		AvatarURL:   "https://cdn.example/avatar.png",
	}
}
