package repositories

import "github.com/google/wire"

// ProviderSet exposes all repository constructors for Wire.
var ProviderSet = wire.NewSet(
	NewVideoRepository,
	NewEngagementRepository,
	NewCommentRepository,
	NewFeedQueryRepository,
	NewTargetCatalogRepository,
)
