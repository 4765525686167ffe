package ports

import "context"

// ReviewStats is the slice of the reviews context the platform aggregate needs.
type ReviewStats interface {
	Count(ctx context.Context) (int64, error)
	AverageRating(ctx context.Context) (float64, error)
}

// ProfileStats is the slice of the identity context the platform aggregate needs.
type ProfileStats interface {
	CountBusinessProfiles(ctx context.Context) (int64, error)
}

// CatalogStats is the slice of the catalog context the platform aggregate needs.
type CatalogStats interface {
	Count(ctx context.Context) (int64, error)
}
