package httpgin

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/kirinyoku/tourdash/docs"
	"github.com/kirinyoku/tourdash/internal/admin"
	"github.com/kirinyoku/tourdash/internal/backend"
	"github.com/kirinyoku/tourdash/internal/clock"
	"github.com/kirinyoku/tourdash/internal/dashboard"
	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/location"
	"github.com/kirinyoku/tourdash/internal/repository/memory"
	redisrepo "github.com/kirinyoku/tourdash/internal/repository/redis"
	"github.com/kirinyoku/tourdash/internal/service"
	"github.com/kirinyoku/tourdash/internal/session"
	"github.com/kirinyoku/tourdash/internal/ticket"
)

const adminPassword = "s3cret-pass"

type stubAlerts struct {
	mu    sync.Mutex
	feed  []domain.Alert
	rules domain.AlertRules
}

func (s *stubAlerts) Feed(context.Context) ([]domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feed, nil
}

func (s *stubAlerts) setFeed(feed []domain.Alert) {
	s.mu.Lock()
	s.feed = feed
	s.mu.Unlock()
}

func (s *stubAlerts) Rules(context.Context) domain.AlertRules {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rules
}

func (s *stubAlerts) SetRules(_ context.Context, r domain.AlertRules) error {
	s.mu.Lock()
	s.rules = r
	s.mu.Unlock()
	return nil
}

type harness struct {
	router  *gin.Engine
	svcs    *service.Services
	kv      *memory.Store
	clock   *clock.Fake
	mr      *miniredis.Miniredis
	pubsub  *redisrepo.AlertsPubSub
	alerts  *stubAlerts
	failing atomic.Bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &harness{clock: clock.NewFake(time.Now())}
	h.kv = memory.New(h.clock)

	mux := http.NewServeMux()
	reply := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			if h.failing.Load() {
				http.Error(w, "down", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}
	}
	mux.HandleFunc("/dashboard/low-crowd", reply(`{"success":true,"recommendations":[
		{"name":"Jal Mahal","city":"Jaipur","crowdCount":3200}]}`))
	mux.HandleFunc("/dashboard/high-crowd", reply(`{"success":true,"recommendations":[
		{"name":"Amber Fort","city":"Jaipur","crowdCount":30000}]}`))
	mux.HandleFunc("/dashboard/stats", reply(`{"success":true,"stats":{
		"totalFootfall":1200,"domesticVisitors":1000,"internationalVisitors":200,"hotelOccupancy":61.5}}`))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	h.mr = miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: h.mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	h.pubsub = redisrepo.NewAlertsPubSub(rdb)
	h.alerts = &stubAlerts{rules: domain.DefaultAlertRules()}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := backend.New(srv.URL, 2*time.Second)
	dash := dashboard.New(client, nil, dashboard.Config{DefaultState: "Rajasthan"})
	sessions := session.NewStore(h.kv, h.clock, 10*time.Minute)

	h.svcs = &service.Services{
		Location:  location.New(h.kv, nil, "Rajasthan", logger),
		Dashboard: dash,
		Tickets:   ticket.New(client, redisrepo.NewIdempotencyStore(rdb, time.Hour), nil, h.clock, ticket.Config{}),
		Admin: admin.New(admin.Deps{
			Backend:  client,
			Overview: dash,
			Sessions: sessions,
			Alerts:   h.alerts,
		}, admin.Config{Credentials: admin.Credentials{Username: "admin", PasswordHash: string(hash)}}),
	}

	h.router = NewRouter(h.svcs, h.pubsub, logger)
	return h
}

func (h *harness) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) login(t *testing.T) string {
	t.Helper()
	w := h.do(http.MethodPost, "/admin/login", `{"username":"admin","password":"`+adminPassword+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAdminGuardRedirectsToLogin(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/admin/stats", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	resp := decode[SessionExpiredResponse](t, w)
	assert.Equal(t, "session expired", resp.Error)
	assert.Equal(t, "/adminlogin", resp.Redirect)
}

func TestAdminLoginOpensSessionUntilTTL(t *testing.T) {
	h := newHarness(t)
	id := h.login(t)
	hdr := map[string]string{headerAdminSession: id}

	w := h.do(http.MethodGet, "/admin/stats", "", hdr)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decode[domain.DashboardStats](t, w)
	assert.EqualValues(t, 1200, stats.TotalFootfall)

	sess := decode[SessionResponse](t, h.do(http.MethodGet, "/admin/session", "", hdr))
	assert.True(t, sess.Valid)

	h.clock.Advance(10*time.Minute + time.Second)

	w = h.do(http.MethodGet, "/admin/stats", "", hdr)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sess = decode[SessionResponse](t, h.do(http.MethodGet, "/admin/session", "", hdr))
	assert.False(t, sess.Valid)
}

func TestAdminLoginRejections(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "wrong password", body: `{"username":"admin","password":"nope"}`, code: http.StatusUnauthorized},
		{name: "wrong user", body: `{"username":"root","password":"` + adminPassword + `"}`, code: http.StatusUnauthorized},
		{name: "missing fields", body: `{}`, code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(http.MethodPost, "/admin/login", tt.body, nil)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestAdminLogoutEndsSession(t *testing.T) {
	h := newHarness(t)
	id := h.login(t)
	hdr := map[string]string{headerAdminSession: id}

	w := h.do(http.MethodPost, "/admin/logout", "", hdr)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = h.do(http.MethodGet, "/admin/alerts", "", hdr)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminStatsETag(t *testing.T) {
	h := newHarness(t)
	hdr := map[string]string{headerAdminSession: h.login(t)}

	w := h.do(http.MethodGet, "/admin/stats", "", hdr)
	require.Equal(t, http.StatusOK, w.Code)
	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)
	assert.Equal(t, "public, max-age=30", w.Header().Get("Cache-Control"))

	hdr["If-None-Match"] = tag
	w = h.do(http.MethodGet, "/admin/stats", "", hdr)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestLowCrowdCarriesBadgesAndAlerts(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/places/low-crowd", "", map[string]string{headerClientID: "browser-1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rec := decode[dashboard.Recommendations](t, w)
	require.Len(t, rec.Places, 1)
	assert.Equal(t, domain.CrowdLow, rec.Places[0].CrowdStatus)
	require.Len(t, rec.Alerts, 1)
	assert.Equal(t, domain.AlertCritical, rec.Alerts[0].Type)
	assert.Equal(t, "Amber Fort-critical", rec.Alerts[0].ID)
	assert.Equal(t, "Jaipur", rec.Alerts[0].Location)
}

func TestLowCrowdBackendDown(t *testing.T) {
	h := newHarness(t)
	h.failing.Store(true)

	w := h.do(http.MethodGet, "/places/low-crowd", "", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "failed to load recommendations", decode[ErrorResponse](t, w).Error)
}

func TestTouristTypePreference(t *testing.T) {
	h := newHarness(t)
	hdr := map[string]string{headerClientID: "browser-1"}

	got := decode[TouristTypeResponse](t, h.do(http.MethodGet, "/preferences/tourist-type", "", hdr))
	assert.False(t, got.Set)

	w := h.do(http.MethodPut, "/preferences/tourist-type", `{"touristType":"martian"}`, hdr)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPut, "/preferences/tourist-type", `{"touristType":"international"}`, hdr)
	require.Equal(t, http.StatusOK, w.Code)

	got = decode[TouristTypeResponse](t, h.do(http.MethodGet, "/preferences/tourist-type", "", hdr))
	assert.True(t, got.Set)
	assert.Equal(t, domain.TouristInternational, got.TouristType)
}

func TestDetectLocationDeniedUsesCache(t *testing.T) {
	h := newHarness(t)
	hdr := map[string]string{headerClientID: "browser-1"}

	got := decode[domain.UserLocation](t, h.do(http.MethodPost, "/location/detect", `{"denied":true}`, hdr))
	assert.Equal(t, domain.UserLocation{}, got)

	cached := domain.UserLocation{State: "Rajasthan", District: "Udaipur"}
	require.NoError(t, redisrepo.SetJSON(context.Background(), h.kv, redisrepo.KeyLocation("browser-1"), cached, 0))

	got = decode[domain.UserLocation](t, h.do(http.MethodPost, "/location/detect", `{"denied":true}`, hdr))
	assert.Equal(t, cached, got)

	got = decode[domain.UserLocation](t, h.do(http.MethodGet, "/location", "", hdr))
	assert.Equal(t, cached, got)
}

func TestCreateTicketValidation(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/tickets", `{"touristType":"domestic","phone":"123"}`, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, w.Header().Get("Idempotency-Key"))

	resp := decode[ValidationErrorResponse](t, w)
	assert.Contains(t, resp.Fields, "phone")
	assert.Contains(t, resp.Fields, "place")
}

func TestCreateTicketEchoesClientKey(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/tickets", `{}`, map[string]string{"Idempotency-Key": "k-1"})
	assert.Equal(t, "k-1", w.Header().Get("Idempotency-Key"))
}

func TestAdminLoginCookieLivesForSessionTTL(t *testing.T) {
	h := newHarness(t)
	// the session clock runs ahead of wall time
	h.clock.Advance(time.Hour)

	w := h.do(http.MethodPost, "/admin/login", `{"username":"admin","password":"`+adminPassword+`"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieAdminSession {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, 600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
}

type sseEvent struct {
	name string
	data string
}

func readEvent(t *testing.T, sc *bufio.Scanner) sseEvent {
	t.Helper()
	var ev sseEvent
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if ev.name != "" || ev.data != "" {
				return ev
			}
		case strings.HasPrefix(line, "event:"):
			ev.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			ev.data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	require.NoError(t, sc.Err())
	t.Fatal("stream closed before a full event")
	return ev
}

func TestAlertsStreamPushesOnChange(t *testing.T) {
	h := newHarness(t)
	id := h.login(t)
	h.alerts.setFeed([]domain.Alert{{ID: "Amber Fort-critical", Type: domain.AlertCritical, Location: "Jaipur"}})

	srv := httptest.NewServer(h.router)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/admin/alerts/stream", nil)
	require.NoError(t, err)
	req.Header.Set(headerAdminSession, id)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	sc := bufio.NewScanner(resp.Body)

	ev := readEvent(t, sc)
	require.Equal(t, "alerts", ev.name)
	var feed []domain.Alert
	require.NoError(t, json.Unmarshal([]byte(ev.data), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "Amber Fort-critical", feed[0].ID)

	channel := redisrepo.ChannelAlertsChanged()
	require.Eventually(t, func() bool {
		return h.mr.PubSubNumSub(channel)[channel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	h.alerts.setFeed([]domain.Alert{
		{ID: "Amber Fort-critical", Type: domain.AlertCritical, Location: "Jaipur"},
		{ID: "Jaipur-hotel-high", Type: domain.AlertCritical, Location: "Jaipur"},
	})
	require.NoError(t, h.pubsub.PublishAlertsChanged(ctx, 2))

	ev = readEvent(t, sc)
	require.Equal(t, "alerts", ev.name)
	require.NoError(t, json.Unmarshal([]byte(ev.data), &feed))
	assert.Len(t, feed, 2)
}

func TestAlertsStreamRequiresSubscriber(t *testing.T) {
	h := newHarness(t)
	hdr := map[string]string{headerAdminSession: h.login(t)}
	h.router = NewRouter(h.svcs, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := h.do(http.MethodGet, "/admin/alerts/stream", "", hdr)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAlertsStreamGuarded(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/admin/alerts/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSwaggerDocumentsEveryRoute(t *testing.T) {
	h := newHarness(t)

	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	documented := 0
	for _, ops := range doc.Paths {
		documented += len(ops)
	}

	served := 0
	for _, rt := range h.router.Routes() {
		if strings.HasPrefix(rt.Path, "/swagger/") {
			continue
		}
		served++

		path := rt.Path
		if i := strings.Index(path, "/:"); i >= 0 {
			path = path[:i+1] + "{" + path[i+2:] + "}"
		}
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "path %s undocumented", path) {
			assert.Contains(t, ops, strings.ToLower(rt.Method), "%s %s undocumented", rt.Method, path)
		}
	}
	assert.Equal(t, served, documented)
}
