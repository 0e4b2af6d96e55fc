package controllers

import "github.com/google/wire"

// ProviderSet exposes the handler constructors for Wire.
var ProviderSet = wire.NewSet(
	NewBaseHandler,
	NewVideoHandler,
	NewCommentHandler,
	NewEngagementHandler,
	NewChannelHandler,
	NewHandlers,
)
