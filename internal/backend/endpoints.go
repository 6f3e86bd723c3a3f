package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kirinyoku/tourdash/internal/domain"
)

type PlaceQuery struct {
	State    string
	District string
	Search   string
	Limit    int
}

func (q PlaceQuery) values(withSearch bool) url.Values {
	v := url.Values{}
	setIf(v, "state", q.State)
	setIf(v, "district", q.District)
	if withSearch {
		setIf(v, "search", q.Search)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

type HotelQuery struct {
	Page      int
	Limit     int
	City      string
	MinRating float64
}

type HotelPage struct {
	Hotels []domain.HotelRecord
	Total  int64
}

type TicketAck struct {
	Message string
}

type placeWire struct {
	Name        string `json:"name"`
	City        string `json:"city"`
	District    string `json:"district"`
	CrowdCount  int64  `json:"crowdCount"`
	LastUpdated string `json:"lastUpdated"`
}

func (p placeWire) domain() domain.Place {
	out := domain.Place{
		Name:       p.Name,
		City:       p.City,
		District:   p.District,
		CrowdCount: p.CrowdCount,
	}
	if t, ok := parseTime(p.LastUpdated); ok {
		out.LastUpdated = &t
	}
	return out
}

type placesResponse struct {
	status
	Recommendations []placeWire `json:"recommendations"`
}

func (r placesResponse) places() []domain.Place {
	out := make([]domain.Place, len(r.Recommendations))
	for i, p := range r.Recommendations {
		out[i] = p.domain()
	}
	return out
}

// LowCrowd lists places below the busy tiers near the given location.
func (c *Client) LowCrowd(ctx context.Context, q PlaceQuery) ([]domain.Place, error) {
	const op = "backend.Client.LowCrowd"

	var resp placesResponse
	if err := c.get(ctx, op, "/dashboard/low-crowd", q.values(true), &resp); err != nil {
		return nil, err
	}
	return resp.places(), nil
}

func (c *Client) HighCrowd(ctx context.Context, q PlaceQuery) ([]domain.Place, error) {
	const op = "backend.Client.HighCrowd"

	var resp placesResponse
	if err := c.get(ctx, op, "/dashboard/high-crowd", q.values(false), &resp); err != nil {
		return nil, err
	}
	return resp.places(), nil
}

type statsResponse struct {
	status
	Stats domain.DashboardStats `json:"stats"`
}

func (c *Client) Stats(ctx context.Context) (domain.DashboardStats, error) {
	const op = "backend.Client.Stats"

	var resp statsResponse
	if err := c.get(ctx, op, "/dashboard/stats", nil, &resp); err != nil {
		return domain.DashboardStats{}, err
	}
	return resp.Stats, nil
}

type hourlyResponse struct {
	status
	Data []domain.HourlyCrowd `json:"data"`
}

func (c *Client) HourlyCrowd(ctx context.Context) ([]domain.HourlyCrowd, error) {
	const op = "backend.Client.HourlyCrowd"

	var resp hourlyResponse
	if err := c.get(ctx, op, "/dashboard/hourly-crowd", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

type crowdSummaryResponse struct {
	status
	Data []domain.PlaceCrowd `json:"data"`
}

func (c *Client) CrowdSummary(ctx context.Context) ([]domain.PlaceCrowd, error) {
	const op = "backend.Client.CrowdSummary"

	var resp crowdSummaryResponse
	if err := c.get(ctx, op, "/dashboard/crowd-summary", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

type insightsResponse struct {
	status
	domain.VisitInsights
}

func (c *Client) BestVisitInsights(ctx context.Context) (domain.VisitInsights, error) {
	const op = "backend.Client.BestVisitInsights"

	var resp insightsResponse
	if err := c.get(ctx, op, "/dashboard/best-visit-insights", nil, &resp); err != nil {
		return domain.VisitInsights{}, err
	}
	return resp.VisitInsights, nil
}

type footfallResponse struct {
	status
	Cities orderedCities `json:"cities"`
}

// orderedCities decodes the cities object keeping the backend key order,
// which decides the default selection.
type orderedCities []domain.FootfallCity

func (o *orderedCities) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("cities: expected object")
	}

	var out []domain.FootfallCity
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)

		var city struct {
			Places []domain.FootfallPlace `json:"places"`
		}
		if err := dec.Decode(&city); err != nil {
			return err
		}
		out = append(out, domain.FootfallCity{City: name, Places: city.Places})
	}

	*o = out
	return nil
}

// Footfall returns per-city place totals in backend order.
func (c *Client) Footfall(ctx context.Context) ([]domain.FootfallCity, error) {
	const op = "backend.Client.Footfall"

	var resp footfallResponse
	if err := c.get(ctx, op, "/api/footfall", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cities, nil
}

type seriesResponse struct {
	status
	Series []domain.FootfallPoint `json:"series"`
}

func (c *Client) FootfallSeries(ctx context.Context, city, place string) ([]domain.FootfallPoint, error) {
	const op = "backend.Client.FootfallSeries"

	q := url.Values{}
	setIf(q, "city", city)
	setIf(q, "tourist_place", place)

	var resp seriesResponse
	if err := c.get(ctx, op, "/api/footfall/series", q, &resp); err != nil {
		return nil, err
	}
	return resp.Series, nil
}

// hotelWire accepts both spellings seen from the backend.
type hotelWire struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	NameAlt      string   `json:"Name"`
	City         string   `json:"city"`
	CityAlt      string   `json:"City"`
	TotalRooms   int64    `json:"totalRooms"`
	Vacancy      int64    `json:"vacancy"`
	Rating       *float64 `json:"rating"`
	RatingAlt    *float64 `json:"Rating"`
	NearbyPlaces []string `json:"nearbyPlaces"`
}

func (h hotelWire) domain() domain.HotelRecord {
	out := domain.HotelRecord{
		ID:           h.ID,
		Name:         firstNonEmpty(h.Name, h.NameAlt),
		City:         firstNonEmpty(h.City, h.CityAlt),
		TotalRooms:   h.TotalRooms,
		Vacancy:      h.Vacancy,
		Rating:       h.Rating,
		NearbyPlaces: h.NearbyPlaces,
	}
	if out.Rating == nil {
		out.Rating = h.RatingAlt
	}
	// vacancy is bounded by the room count
	out.Vacancy = min(max(out.Vacancy, 0), max(out.TotalRooms, 0))
	return out
}

type hotelsResponse struct {
	status
	Data  []hotelWire `json:"data"`
	Total int64       `json:"total"`
}

func (c *Client) Hotels(ctx context.Context, q HotelQuery) (HotelPage, error) {
	const op = "backend.Client.Hotels"

	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	setIf(v, "city", q.City)
	if q.MinRating > 0 {
		v.Set("minRating", strconv.FormatFloat(q.MinRating, 'f', -1, 64))
	}

	var resp hotelsResponse
	if err := c.get(ctx, op, "/hotel/list", v, &resp); err != nil {
		return HotelPage{}, err
	}

	page := HotelPage{
		Hotels: make([]domain.HotelRecord, len(resp.Data)),
		Total:  resp.Total,
	}
	for i, h := range resp.Data {
		page.Hotels[i] = h.domain()
	}
	return page, nil
}

type cityHotelWire struct {
	City         string `json:"city"`
	TotalHotels  int64  `json:"totalHotels"`
	TotalRooms   int64  `json:"totalRooms"`
	TotalVacancy int64  `json:"totalVacancy"`
}

func (w cityHotelWire) domain() domain.CityHotelStats {
	rooms := max(w.TotalRooms, 0)
	return domain.CityHotelStats{
		City:         w.City,
		TotalHotels:  max(w.TotalHotels, 0),
		TotalRooms:   rooms,
		TotalVacancy: min(max(w.TotalVacancy, 0), rooms),
	}
}

type cityHotelsResponse struct {
	status
	Data []cityHotelWire `json:"data"`
}

func (c *Client) CityHotelAnalytics(ctx context.Context, city string) ([]domain.CityHotelStats, error) {
	const op = "backend.Client.CityHotelAnalytics"

	q := url.Values{}
	setIf(q, "city", city)

	var resp cityHotelsResponse
	if err := c.get(ctx, op, "/hotel/analytics/city", q, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.CityHotelStats, len(resp.Data))
	for i, w := range resp.Data {
		out[i] = w.domain()
	}
	return out, nil
}

type visitorLocationsResponse struct {
	status
	Data []struct {
		Location domain.VisitorLocationRecord `json:"location"`
	} `json:"data"`
}

func (c *Client) VisitorLocations(ctx context.Context) ([]domain.VisitorLocationRecord, error) {
	const op = "backend.Client.VisitorLocations"

	var resp visitorLocationsResponse
	if err := c.get(ctx, op, "/visitor/analytics", nil, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.VisitorLocationRecord, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Location
	}
	return out, nil
}

// visitorWire keeps the timestamp raw so one odd row does not fail the
// whole series.
type visitorWire struct {
	Time                  string `json:"time"`
	TotalVisitors         int64  `json:"totalVisitors"`
	DomesticVisitors      int64  `json:"domesticVisitors"`
	InternationalVisitors int64  `json:"internationalVisitors"`
}

func (w visitorWire) domain() domain.VisitorRecord {
	t, _ := parseTime(w.Time)
	return domain.VisitorRecord{
		Time:                  t,
		TotalVisitors:         w.TotalVisitors,
		DomesticVisitors:      w.DomesticVisitors,
		InternationalVisitors: w.InternationalVisitors,
	}
}

type visitorSeriesResponse struct {
	status
	Data []visitorWire `json:"data"`
}

func (c *Client) VisitorTimeseries(ctx context.Context, city, interval string) ([]domain.VisitorRecord, error) {
	const op = "backend.Client.VisitorTimeseries"

	q := url.Values{}
	setIf(q, "city", city)
	setIf(q, "interval", interval)

	var resp visitorSeriesResponse
	if err := c.get(ctx, op, "/visitor/analytics/timeseries", q, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.VisitorRecord, len(resp.Data))
	for i, w := range resp.Data {
		out[i] = w.domain()
	}
	return out, nil
}

// CreateTicket posts one booking. idemKey is forwarded so the backend can
// recognise a resubmission.
func (c *Client) CreateTicket(ctx context.Context, idemKey string, t domain.TicketSubmission) (TicketAck, error) {
	const op = "backend.Client.CreateTicket"

	var resp status
	headers := map[string]string{"Idempotency-Key": idemKey}
	if err := c.post(ctx, op, "/api/tickets/create", headers, t, &resp); err != nil {
		return TicketAck{}, err
	}
	return TicketAck{Message: resp.Message}, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseTime accepts RFC3339 and the zone-less forms the backend emits.
// Zone-less values are read as UTC.
func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func setIf(v url.Values, key, val string) {
	if val != "" {
		v.Set(key, val)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, s := range vals {
		if s != "" {
			return s
		}
	}
	return ""
}
