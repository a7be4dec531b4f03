package domain

import "errors"

var (
	// ErrModelNotReady signals that the regression or collaborative model is not loaded.
	ErrModelNotReady = errors.New("model not ready")
	// ErrUserNotFound signals a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrCatalogUnavailable signals a catalog collaborator failure.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrParserFailed signals that the query parser could not produce a structured query.
	ErrParserFailed = errors.New("query parsing failed")
	// ErrNoFeatures signals that no candidate survived feature building.
	ErrNoFeatures = errors.New("no candidate could be featurized")
	// ErrInvalidRequest signals a malformed recommendation request.
	ErrInvalidRequest = errors.New("invalid request")
)
