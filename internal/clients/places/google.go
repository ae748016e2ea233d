package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/resolution"
	"github.com/Cesarb72/waypoint-sub001/internal/types"
	"github.com/Cesarb72/waypoint-sub001/internal/utils"
)

const baseURL = "https://maps.googleapis.com/maps/api/place"

// GoogleClient talks to the Google Places web API. No timeouts are set here;
// latency bounding is the collaborator's job and the queues tolerate pending
// items without starving others.
type GoogleClient struct {
	log    *logger.Logger
	http   *http.Client
	apiKey string
}

func NewGoogleClient(baseLog *logger.Logger) (*GoogleClient, error) {
	apiKey := strings.TrimSpace(utils.GetEnv("GOOGLE_PLACES_API_KEY", "", baseLog))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GOOGLE_PLACES_API_KEY")
	}
	return &GoogleClient{
		log:    baseLog.With("client", "GooglePlaces"),
		http:   http.DefaultClient,
		apiKey: apiKey,
	}, nil
}

type searchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID string `json:"place_id"`
	} `json:"results"`
}

func (c *GoogleClient) Resolve(ctx context.Context, query, localityHint string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", nil
	}
	if hint := strings.TrimSpace(localityHint); hint != "" {
		q = q + " " + hint
	}

	params := url.Values{}
	params.Set("query", q)
	params.Set("key", c.apiKey)

	var resp searchResponse
	if err := c.getJSON(ctx, baseURL+"/textsearch/json?"+params.Encode(), &resp); err != nil {
		return "", err
	}
	switch resp.Status {
	case "OK":
		if len(resp.Results) == 0 {
			return "", nil
		}
		return resp.Results[0].PlaceID, nil
	case "ZERO_RESULTS":
		return "", nil
	default:
		return "", fmt.Errorf("places textsearch status %s", resp.Status)
	}
}

type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		Name             string   `json:"name"`
		FormattedAddress string   `json:"formatted_address"`
		Rating           *float64 `json:"rating"`
		UserRatingsTotal *int     `json:"user_ratings_total"`
		PriceLevel       *int     `json:"price_level"`
		Website          string   `json:"website"`
		URL              string   `json:"url"`
		Types            []string `json:"types"`
		Geometry         struct {
			Location struct {
				Lat *float64 `json:"lat"`
				Lng *float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		OpeningHours struct {
			WeekdayText []string `json:"weekday_text"`
		} `json:"opening_hours"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"result"`
}

func (c *GoogleClient) Details(ctx context.Context, placeID string) (*resolution.PlaceDetails, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,formatted_address,rating,user_ratings_total,price_level,website,url,types,geometry/location,opening_hours/weekday_text,photos")
	params.Set("key", c.apiKey)

	var resp detailsResponse
	if err := c.getJSON(ctx, baseURL+"/details/json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS", "NOT_FOUND":
		return nil, nil
	default:
		return nil, fmt.Errorf("places details status %s", resp.Status)
	}

	r := resp.Result
	d := &resolution.PlaceDetails{
		Lite: types.PlaceLite{
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			PriceLevel:       r.PriceLevel,
			OpeningHours:     r.OpeningHours.WeekdayText,
			Types:            r.Types,
		},
		Ref: types.PlaceRef{
			PlaceID:       placeID,
			Lat:           r.Geometry.Location.Lat,
			Lng:           r.Geometry.Location.Lng,
			Website:       r.Website,
			GoogleMapsURL: r.URL,
		},
	}
	if len(r.Photos) > 0 && r.Photos[0].PhotoReference != "" {
		photoParams := url.Values{}
		photoParams.Set("maxwidth", "640")
		photoParams.Set("photo_reference", r.Photos[0].PhotoReference)
		photoParams.Set("key", c.apiKey)
		d.Lite.PhotoURL = baseURL + "/photo?" + photoParams.Encode()
	}
	return d, nil
}

func (c *GoogleClient) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("places http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
