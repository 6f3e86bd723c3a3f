// Package geocode resolves coordinates to a state and district through a
// Nominatim-compatible reverse geocoding service.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	userAgent      = "tourdash/1.0"
)

var ErrLookupFailed = errors.New("reverse geocoding failed")

type Address struct {
	State    string
	District string
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type reverseResponse struct {
	Address struct {
		State         string `json:"state"`
		StateDistrict string `json:"state_district"`
	} `json:"address"`
}

func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (Address, error) {
	const op = "geocode.Client.ReverseGeocode"

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Address{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("%s: %w: %v", op, ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Address{}, fmt.Errorf("%s: %w: status %d", op, ErrLookupFailed, resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, fmt.Errorf("%s: %w: %v", op, ErrLookupFailed, err)
	}

	return Address{
		State:    body.Address.State,
		District: body.Address.StateDistrict,
	}, nil
}
