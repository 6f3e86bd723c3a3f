package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/tourdash/internal/domain"
)

func serve(t *testing.T, routes map[string]http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return New(srv.URL, time.Second)
}

func reply(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestLowCrowdQueryAndDecode(t *testing.T) {
	c := serve(t, map[string]http.HandlerFunc{
		"/dashboard/low-crowd": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "Rajasthan", q.Get("state"))
			assert.Equal(t, "Jaipur", q.Get("district"))
			assert.Equal(t, "fort", q.Get("search"))
			assert.Equal(t, "5", q.Get("limit"))
			reply(`{"success":true,"recommendations":[
				{"name":"Amber Fort","city":"Jaipur","crowdCount":1200,"lastUpdated":"2025-01-10T09:00:00Z"},
				{"name":"Nahargarh","city":"Jaipur","crowdCount":300,"lastUpdated":"yesterday"}
			]}`)(w, r)
		},
	})

	places, err := c.LowCrowd(context.Background(), PlaceQuery{
		State: "Rajasthan", District: "Jaipur", Search: "fort", Limit: 5,
	})
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "Amber Fort", places[0].Name)
	assert.EqualValues(t, 1200, places[0].CrowdCount)
	require.NotNil(t, places[0].LastUpdated)
	assert.Nil(t, places[1].LastUpdated)
}

func TestHighCrowdDropsSearch(t *testing.T) {
	c := serve(t, map[string]http.HandlerFunc{
		"/dashboard/high-crowd": func(w http.ResponseWriter, r *http.Request) {
			assert.False(t, r.URL.Query().Has("search"))
			reply(`{"success":true,"recommendations":[]}`)(w, r)
		},
	})

	places, err := c.HighCrowd(context.Background(), PlaceQuery{State: "Rajasthan", Search: "x"})
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestEnvelopeFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{"success false", reply(`{"success":false,"message":"db down"}`), ErrUnsuccessful},
		{"missing success", reply(`{"stats":{}}`), ErrUnsuccessful},
		{"not json", reply(`<html>oops</html>`), ErrBadResponse},
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, ErrUnavailable},
		{"client error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("not found"))
		}, ErrUnsuccessful},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := serve(t, map[string]http.HandlerFunc{"/dashboard/stats": tt.handler})
			_, err := c.Stats(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).Stats(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFootfallKeepsCityOrder(t *testing.T) {
	c := serve(t, map[string]http.HandlerFunc{
		"/api/footfall": reply(`{"success":true,"cities":{
			"Udaipur":{"places":[{"name":"City Palace","total":900}]},
			"Jaipur":{"places":[{"name":"Hawa Mahal","total":400},{"name":"Amber Fort","total":800}]}
		}}`),
	})

	cities, err := c.Footfall(context.Background())
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Udaipur", cities[0].City)
	assert.Equal(t, "Jaipur", cities[1].City)
	assert.Len(t, cities[1].Places, 2)
}

func TestFootfallSeries(t *testing.T) {
	c := serve(t, map[string]http.HandlerFunc{
		"/api/footfall/series": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Jaipur", r.URL.Query().Get("city"))
			assert.Equal(t, "Amber Fort", r.URL.Query().Get("tourist_place"))
			reply(`{"success":true,"series":[{"time":"10:00","visitors":5},{"time":"10:15","visitors":7}]}`)(w, r)
		},
	})

	series, err := c.FootfallSeries(context.Background(), "Jaipur", "Amber Fort")
	require.NoError(t, err)
	assert.Equal(t, []domain.FootfallPoint{{Time: "10:00", Visitors: 5}, {Time: "10:15", Visitors: 7}}, series)
}

func TestHotelsAcceptBothSpellings(t *testing.T) {
	c := serve(t, map[string]http.HandlerFunc{
		"/hotel/list": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "2", q.Get("page"))
			assert.Equal(t, "9", q.Get("limit"))
			assert.Equal(t, "Jaipur", q.Get("city"))
			assert.Equal(t, "4", q.Get("minRating"))
			reply(`{"success":true,"total":11,"data":[
				{"_id":"a","Name":"Rambagh","City":"Jaipur","totalRooms":100,"vacancy":20,"Rating":4.8},
				{"_id":"b","name":"Lake View","city":"Udaipur","totalRooms":50,"vacancy":80,"rating":null}
			]}`)(w, r)
		},
	})

	page, err := c.Hotels(context.Background(), HotelQuery{Page: 2, Limit: 9, City: "Jaipur", MinRating: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 11, page.Total)
	require.Len(t, page.Hotels, 2)

	assert.Equal(t, "Rambagh", page.Hotels[0].Name)
	assert.Equal(t, "Jaipur", page.Hotels[0].City)
	require.NotNil(t, page.Hotels[0].Rating)
	assert.InDelta(t, 4.8, *page.Hotels[0].Rating, 1e-9)

	assert.Equal(t, "Udaipur", page.Hotels[1].City)
	assert.Nil(t, page.Hotels[1].Rating)
	assert.EqualValues(t, 50, page.Hotels[1].Vacancy)
}

func TestVisitorEndpoints(t *testing.T) {
	c := serve(t, map[string]http.HandlerFunc{
		"/visitor/analytics": reply(`{"success":true,"data":[{"location":{"city":"Jaipur"}},{"location":{"city":"Ajmer"}}]}`),
		"/visitor/analytics/timeseries": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "15min", r.URL.Query().Get("interval"))
			reply(`{"success":true,"data":[{"time":"2025-01-10T09:00:00Z","totalVisitors":10,"domesticVisitors":7,"internationalVisitors":3}]}`)(w, r)
		},
	})

	locs, err := c.VisitorLocations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.VisitorLocationRecord{{City: "Jaipur"}, {City: "Ajmer"}}, locs)

	recs, err := c.VisitorTimeseries(context.Background(), "Jaipur", "15min")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.EqualValues(t, 7, recs[0].DomesticVisitors)
}

func TestInsightsAndSummaries(t *testing.T) {
	c := serve(t, map[string]http.HandlerFunc{
		"/dashboard/hourly-crowd":        reply(`{"success":true,"data":[{"hour":9,"crowd":100}]}`),
		"/dashboard/crowd-summary":       reply(`{"success":true,"data":[{"place":"Amber Fort","crowd":100}]}`),
		"/dashboard/best-visit-insights": reply(`{"success":true,"bestTime":"7-9 AM","bestSeason":"Winter","recommendation":"Go early"}`),
		"/hotel/analytics/city":          reply(`{"success":true,"data":[{"city":"Jaipur","totalHotels":2,"totalRooms":150,"totalVacancy":60}]}`),
	})
	ctx := context.Background()

	hourly, err := c.HourlyCrowd(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.HourlyCrowd{{Hour: 9, Crowd: 100}}, hourly)

	summary, err := c.CrowdSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.PlaceCrowd{{Place: "Amber Fort", Crowd: 100}}, summary)

	ins, err := c.BestVisitInsights(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.VisitInsights{BestTime: "7-9 AM", BestSeason: "Winter", Recommendation: "Go early"}, ins)

	stats, err := c.CityHotelAnalytics(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []domain.CityHotelStats{{City: "Jaipur", TotalHotels: 2, TotalRooms: 150, TotalVacancy: 60}}, stats)
}

func TestCreateTicketForwardsIdempotencyKey(t *testing.T) {
	var got domain.TicketSubmission
	c := serve(t, map[string]http.HandlerFunc{
		"/api/tickets/create": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			reply(`{"success":true,"message":"Ticket created"}`)(w, r)
		},
	})

	ack, err := c.CreateTicket(context.Background(), "key-1", domain.TicketSubmission{
		TouristType:         domain.TouristDomestic,
		Phone:               "9876543210",
		Visitors:            2,
		FromCity:            "Delhi",
		State:               "Rajasthan",
		City:                "Jaipur",
		Place:               "Amber Fort",
		CrowdStatus:         domain.CrowdHigh,
		CrowdCountAtBooking: 16000,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ticket created", ack.Message)
	assert.Equal(t, domain.CrowdHigh, got.CrowdStatus)
	assert.EqualValues(t, 16000, got.CrowdCountAtBooking)
}

func TestCityHotelAnalyticsClampsVacancy(t *testing.T) {
	c := serve(t, map[string]http.HandlerFunc{
		"/hotel/analytics/city": reply(`{"success":true,"data":[
			{"city":"Jaipur","totalHotels":3,"totalRooms":100,"totalVacancy":130},
			{"city":"Ajmer","totalHotels":1,"totalRooms":40,"totalVacancy":-5},
			{"city":"Bikaner","totalHotels":0,"totalRooms":-10,"totalVacancy":4}
		]}`),
	})

	stats, err := c.CityHotelAnalytics(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []domain.CityHotelStats{
		{City: "Jaipur", TotalHotels: 3, TotalRooms: 100, TotalVacancy: 100},
		{City: "Ajmer", TotalHotels: 1, TotalRooms: 40, TotalVacancy: 0},
		{City: "Bikaner", TotalHotels: 0, TotalRooms: 0, TotalVacancy: 0},
	}, stats)
	for _, s := range stats {
		assert.LessOrEqual(t, s.TotalVacancy, s.TotalRooms, s.City)
		assert.GreaterOrEqual(t, s.TotalVacancy, int64(0), s.City)
	}
}

func TestVisitorTimeseriesLenientTimestamps(t *testing.T) {
	c := serve(t, map[string]http.HandlerFunc{
		"/visitor/analytics/timeseries": reply(`{"success":true,"data":[
			{"time":"2024-06-01T09:30:00Z","totalVisitors":5},
			{"time":"2024-06-01 10:00:00","totalVisitors":7},
			{"time":"2024-06-01T10:30:00","totalVisitors":9},
			{"time":"yesterday","totalVisitors":11}
		]}`),
	})

	recs, err := c.VisitorTimeseries(context.Background(), "Jaipur", "")
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC), recs[0].Time.UTC())
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), recs[1].Time)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC), recs[2].Time)
	assert.True(t, recs[3].Time.IsZero())
	assert.EqualValues(t, 11, recs[3].TotalVisitors)
}
