// Package services contains application use case orchestration.
package services

import "github.com/google/wire"

// ProviderSet exposes the use case constructors for Wire.
var ProviderSet = wire.NewSet(
	NewVideoIngestionService,
	NewEngagementService,
	NewFeedQueryService,
	NewCommentService,
)
