package resolution

import (
	"context"

	"github.com/Cesarb72/waypoint-sub001/internal/types"
)

// PlaceClient is the external place-lookup collaborator. Both calls are
// best-effort: failures come back as errors and must not leak past the queue
// boundary.
type PlaceClient interface {
	// Resolve returns a place id for a free-text query, or "" when no good
	// match exists.
	Resolve(ctx context.Context, query, localityHint string) (string, error)
	Details(ctx context.Context, placeID string) (*PlaceDetails, error)
}

// PlaceDetails bundles the display payload and the authoritative reference
// hydrated from one details call.
type PlaceDetails struct {
	Lite types.PlaceLite
	Ref  types.PlaceRef
}
