// Package controllers exposes the HTTP surface: route registration, payload
// parsing and the mapping from service errors to transport errors.
package controllers

import (
	"context"
	"time"
)

// HandlerType classifies a handler for timeout selection.
type HandlerType int

const (
	// HandlerTypeDefault marks handlers without an explicit class.
	HandlerTypeDefault HandlerType = iota
	// HandlerTypeCommand marks write-model handlers.
	HandlerTypeCommand
	// HandlerTypeQuery marks read-model handlers.
	HandlerTypeQuery
	// HandlerTypeUpload marks the media receipt handler, which probes and
	// pushes blobs and therefore runs far longer than other commands.
	HandlerTypeUpload
)

// HandlerTimeouts aggregates the per-class timeout policy.
type HandlerTimeouts struct {
	Default time.Duration
	Command time.Duration
	Query   time.Duration
	Upload  time.Duration
}

const (
	fallbackDefaultTimeout = 5 * time.Second
	fallbackQueryTimeout   = 3 * time.Second
	fallbackUploadTimeout  = 5 * time.Minute
)

// BaseHandler provides shared timeout handling for concrete handlers.
type BaseHandler struct {
	timeouts HandlerTimeouts
}

// NewBaseHandler fills missing timeout values with sensible fallbacks.
func NewBaseHandler(timeouts HandlerTimeouts) *BaseHandler {
	if timeouts.Default <= 0 {
		if timeouts.Command > 0 {
			timeouts.Default = timeouts.Command
		} else {
			timeouts.Default = fallbackDefaultTimeout
		}
	}
	if timeouts.Command <= 0 {
		timeouts.Command = timeouts.Default
	}
	if timeouts.Query <= 0 {
		timeouts.Query = fallbackQueryTimeout
	}
	if timeouts.Upload <= 0 {
		timeouts.Upload = fallbackUploadTimeout
	}
	return &BaseHandler{timeouts: timeouts}
}

// WithTimeout binds the class timeout to the request context.
func (h *BaseHandler) WithTimeout(ctx context.Context, kind HandlerType) (context.Context, context.CancelFunc) {
	if h == nil {
		return context.WithTimeout(ctx, fallbackDefaultTimeout)
	}
	var timeout time.Duration
	switch kind {
	case HandlerTypeCommand:
		timeout = h.timeouts.Command
	case HandlerTypeQuery:
		timeout = h.timeouts.Query
	case HandlerTypeUpload:
		timeout = h.timeouts.Upload
	default:
		timeout = h.timeouts.Default
	}
	return context.WithTimeout(ctx, timeout)
}
