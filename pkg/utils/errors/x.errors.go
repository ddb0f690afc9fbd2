package xerrors

import "errors"

// Generic
var (
	ErrUnauthorized = errors.New("unauthorized")
)

// Backend / transport
var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrEmptyResponse      = errors.New("empty response body")
)

// Image host
var (
	ErrUploadFailed      = errors.New("image upload failed")
	ErrUploadNotEnabled  = errors.New("image upload is not configured")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrImageTooLarge     = errors.New("image dimensions too large")
	ErrFileTooLarge      = errors.New("image file too large")
)

// Session
var (
	ErrNoSession       = errors.New("no session")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("expired token")
)

// Submission guard / rate limits
var (
	ErrActionInProgress = errors.New("that action is already in progress")
	ErrTooManyRequests  = errors.New("too many requests")
)
