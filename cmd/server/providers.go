package main

import (
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/gcs"
	"github.com/bionicotaku/lingo-services-media/internal/infrastructure/media"
	"github.com/bionicotaku/lingo-services-media/internal/repositories"
	"github.com/bionicotaku/lingo-services-media/internal/services"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
)

// newTxManager adapts the shared transaction manager to the pool built by
// the database provider.
func newTxManager(pool *pgxpool.Pool, logger log.Logger) (txmanager.Manager, error) {
	return txmanager.NewManager(pool, txmanager.Config{}, txmanager.Dependencies{Logger: logger})
}

// bindingSet maps the service-layer interfaces onto their concrete
// implementations. Two services sharing a concrete type (the video
// repository backs both the write model and the view counter) bind twice.
var bindingSet = wire.NewSet(
	wire.Bind(new(services.VideoRepo), new(*repositories.VideoRepository)),
	wire.Bind(new(services.ViewCounter), new(*repositories.VideoRepository)),
	wire.Bind(new(services.EngagementLedger), new(*repositories.EngagementRepository)),
	wire.Bind(new(services.EngagementCascadeRepo), new(*repositories.EngagementRepository)),
	wire.Bind(new(services.CommentRepo), new(*repositories.CommentRepository)),
	wire.Bind(new(services.CommentCascadeRepo), new(*repositories.CommentRepository)),
	wire.Bind(new(services.TargetCatalog), new(*repositories.TargetCatalogRepository)),
	wire.Bind(new(services.FeedQueryRepo), new(*repositories.FeedQueryRepository)),
	wire.Bind(new(services.BlobStore), new(*gcs.Client)),
	wire.Bind(new(services.MediaProber), new(*media.Prober)),
)
