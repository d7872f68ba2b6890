package domain

import (
	"context"
)

// CatalogClient provides paginated access to the remote movie catalog
type CatalogClient interface {
	// FetchFeed returns one page of a ranked feed.
	// Fails with ErrCatalogUnavailable or ErrInvalidPage.
	FetchFeed(ctx context.Context, kind FeedKind, page int) (Page, error)

	// Search returns one page of free-text search results
	Search(ctx context.Context, query string, page int) (Page, error)

	// FetchDetails returns the extended record for a single item
	FetchDetails(ctx context.Context, id int) (*CatalogItemDetails, error)
}

// GenreLister resolves genre IDs to names
type GenreLister interface {
	FetchGenres(ctx context.Context) ([]Genre, error)
}
