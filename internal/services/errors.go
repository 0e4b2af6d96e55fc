package services

import "github.com/go-kratos/kratos/v2/errors"

// Error reasons surfaced to transport clients. Internal collaborators
// (database, blob store, codec tooling) are never named in messages.
const (
	ReasonInvalidInput       = "INVALID_INPUT"
	ReasonUnauthenticated    = "UNAUTHENTICATED"
	ReasonPermissionDenied   = "PERMISSION_DENIED"
	ReasonVideoNotFound      = "VIDEO_NOT_FOUND"
	ReasonCommentNotFound    = "COMMENT_NOT_FOUND"
	ReasonChannelNotFound    = "CHANNEL_NOT_FOUND"
	ReasonMediaUnqualified   = "MEDIA_UNQUALIFIED"
	ReasonMediaUnreadable    = "MEDIA_UNREADABLE"
	ReasonStorageUnavailable = "STORAGE_UNAVAILABLE"
	ReasonPersistenceFailed  = "PERSISTENCE_FAILED"
)

var (
	// ErrVideoNotFound is returned when the requested video does not exist.
	ErrVideoNotFound = errors.NotFound(ReasonVideoNotFound, "video not found")
	// ErrCommentNotFound is returned when the requested comment does not exist.
	ErrCommentNotFound = errors.NotFound(ReasonCommentNotFound, "comment not found")
	// ErrChannelNotFound is returned when the requested channel does not exist.
	ErrChannelNotFound = errors.NotFound(ReasonChannelNotFound, "channel not found")
	// ErrUnauthenticated is returned when no verified actor identity arrived.
	ErrUnauthenticated = errors.Unauthorized(ReasonUnauthenticated, "authentication required")
	// ErrPermissionDenied is returned when the actor does not own the resource.
	ErrPermissionDenied = errors.Forbidden(ReasonPermissionDenied, "caller does not own this resource")
)

func invalidInput(msg string) *errors.Error {
	return errors.BadRequest(ReasonInvalidInput, msg)
}

func unqualifiedMedia(msg string) *errors.Error {
	return errors.BadRequest(ReasonMediaUnqualified, msg)
}

func unreadableMedia(cause error) *errors.Error {
	return errors.BadRequest(ReasonMediaUnreadable, "media file could not be read").WithCause(cause)
}

func storageUnavailable(cause error) *errors.Error {
	return errors.ServiceUnavailable(ReasonStorageUnavailable, "media storage is unavailable").WithCause(cause)
}

func persistenceFailed(msg string, cause error) *errors.Error {
	return errors.InternalServer(ReasonPersistenceFailed, msg).WithCause(cause)
}
