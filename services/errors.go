package services

import "errors"

// Errors shared by the services and mapped to HTTP statuses by the handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrValidationFailed      = errors.New("validation failed")
	ErrNotEnoughParticipants = errors.New("not enough participants")
	ErrUnsupportedFormat     = errors.New("unsupported format")
	ErrDuplicateParticipant  = errors.New("participant listed more than once")
	ErrInvalidScore          = errors.New("score does not name a winner")

	ErrBracketNotFound   = errors.New("bracket set not found")
	ErrPoolStageNotFound = errors.New("pool stage not found")
	ErrPoolNotFound      = errors.New("pool not found")
	ErrMatchNotFound     = errors.New("match not found")

	ErrMatchNotReady     = errors.New("match is not ready to be played")
	ErrPoolsIncomplete   = errors.New("pool play is not complete")
	ErrPlayoffExists     = errors.New("playoff bracket already generated for this pool stage")
	ErrConflict          = errors.New("resource already exists")
	ErrArchivingDisabled = errors.New("archive storage is not configured")

	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAuthenticationFailed = errors.New("authentication failed")
)
