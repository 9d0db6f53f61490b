package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"trailmate_server/models"
)

const defaultTripAdvisorURL = "https://api.content.tripadvisor.com/api/v1"

// TripAdvisorClient resolves a free-text query to a structured place
// record via the Content API: location search, then a details fetch on
// the first hit. No hit is (nil, nil).
type TripAdvisorClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

var _ PlaceFinder = (*TripAdvisorClient)(nil)

func NewTripAdvisorClient() *TripAdvisorClient {
	return &TripAdvisorClient{
		APIKey:     os.Getenv("TRIPADVISOR_API_KEY"),
		BaseURL:    defaultTripAdvisorURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type tripAdvisorSearchResponse struct {
	Data []struct {
		LocationID string `json:"location_id"`
	} `json:"data"`
}

type tripAdvisorDetailsResponse struct {
	Name       string `json:"name"`
	AddressObj struct {
		AddressString string `json:"address_string"`
	} `json:"address_obj"`
	Rating     string `json:"rating"`
	NumReviews string `json:"num_reviews"`
	PriceLevel string `json:"price_level"`
	WebURL     string `json:"web_url"`
	Photo      struct {
		Images struct {
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"images"`
	} `json:"photo"`
}

// FindPlace searches attractions for the query and returns the first
// result's details.
func (c *TripAdvisorClient) FindPlace(ctx context.Context, query string) (*models.Place, error) {
	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("searchQuery", query)
	params.Set("language", "en")
	params.Set("category", "attractions")

	var search tripAdvisorSearchResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/location/search?%s", c.BaseURL, params.Encode()), &search); err != nil {
		return nil, fmt.Errorf("place search failed: %w", err)
	}
	if len(search.Data) == 0 {
		return nil, nil
	}

	detailsURL := fmt.Sprintf("%s/location/%s/details?key=%s&language=en",
		c.BaseURL, url.PathEscape(search.Data[0].LocationID), url.QueryEscape(c.APIKey))
	var details tripAdvisorDetailsResponse
	if err := c.getJSON(ctx, detailsURL, &details); err != nil {
		return nil, fmt.Errorf("place details fetch failed: %w", err)
	}

	place := &models.Place{
		Name:       details.Name,
		Address:    details.AddressObj.AddressString,
		Rating:     details.Rating,
		PriceLevel: details.PriceLevel,
		WebURL:     details.WebURL,
	}
	if n, err := strconv.Atoi(details.NumReviews); err == nil {
		place.ReviewCount = n
	}
	if photoURL := details.Photo.Images.Medium.URL; photoURL != "" {
		place.Photos = []string{photoURL}
	}
	return place, nil
}

func (c *TripAdvisorClient) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
