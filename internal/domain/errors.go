package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrCatalogUnavailable indicates a catalog fetch failed (network, timeout, bad status)
	ErrCatalogUnavailable = errors.New("catalog is unavailable")

	// ErrInvalidPage indicates the requested page is beyond the catalog's reported range
	ErrInvalidPage = errors.New("page is outside the catalog range")

	// ErrPersistenceUnavailable indicates local durable storage could not be read or written
	ErrPersistenceUnavailable = errors.New("local storage is unavailable")

	// ErrItemNotFound indicates the requested catalog item does not exist
	ErrItemNotFound = errors.New("catalog item not found")

	// ErrAuthFailed indicates the catalog rejected the API key
	ErrAuthFailed = errors.New("catalog API key is invalid")
)
