package types

import "encoding/json"

// Pure JSON contracts for the plan document. Not DB models.

// Stop roles within a plan.
const (
	StopRoleAnchor   = "anchor"
	StopRoleSupport  = "support"
	StopRoleOptional = "optional"
)

// PlaceRef is the authoritative resolved reference for a stop. Once PlaceID
// is set it is never silently overwritten by resolution.
type PlaceRef struct {
	PlaceID       string   `json:"place_id"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
	Website       string   `json:"website,omitempty"`
	GoogleMapsURL string   `json:"google_maps_url,omitempty"`
}

// PlaceLite is the display payload hydrated from the place-lookup service.
type PlaceLite struct {
	Name             string   `json:"name,omitempty"`
	FormattedAddress string   `json:"formatted_address,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	PriceLevel       *int     `json:"price_level,omitempty"`
	PhotoURL         string   `json:"photo_url,omitempty"`
	OpeningHours     []string `json:"opening_hours,omitempty"`
	Types            []string `json:"types,omitempty"`
}

// Resolution states inferred from presence of PlaceRef/PlaceLite.
const (
	StopUnresolved = "unresolved"
	StopResolving  = "resolving"
	StopResolved   = "resolved"
)

type StopDoc struct {
	ID          string     `json:"id"`
	Role        string     `json:"role,omitempty"` // anchor|support|optional
	Optionality string     `json:"optionality,omitempty"`
	StopTypeID  string     `json:"stop_type_id,omitempty"`
	Query       string     `json:"query,omitempty"` // free-text place search
	Note        string     `json:"note,omitempty"`
	PlaceRef    *PlaceRef  `json:"place_ref,omitempty"`
	PlaceLite   *PlaceLite `json:"place_lite,omitempty"`
}

// ResolutionState reports where this stop sits in the resolve/hydrate flow.
func (s StopDoc) ResolutionState() string {
	switch {
	case s.PlaceRef != nil && s.PlaceLite != nil:
		return StopResolved
	case s.PlaceRef != nil:
		return StopResolving
	default:
		return StopUnresolved
	}
}

type PlanDocV1 struct {
	Version  int       `json:"version"`
	WhenText string    `json:"when_text,omitempty"`
	Stops    []StopDoc `json:"stops"`
}

// DecodePlanDoc parses a stored plan document. A plan whose document fails to
// parse is skipped by aggregators, never fatal to a batch.
func DecodePlanDoc(raw []byte) (*PlanDocV1, error) {
	var doc PlanDocV1
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
