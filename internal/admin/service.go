// Package admin serves the protected admin console: login, live alerts,
// footfall, hotel and visitor analytics, and filed complaints.
package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/tourdash/internal/analytics"
	"github.com/kirinyoku/tourdash/internal/backend"
	"github.com/kirinyoku/tourdash/internal/domain"
	redisrepo "github.com/kirinyoku/tourdash/internal/repository/redis"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many login attempts")
)

// RateLimitError is returned by Login when the caller is over its attempt
// budget. It matches ErrRateLimited.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s, retry in %s", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

type Backend interface {
	FootfallSeries(ctx context.Context, city, place string) ([]domain.FootfallPoint, error)
	Hotels(ctx context.Context, q backend.HotelQuery) (backend.HotelPage, error)
	CityHotelAnalytics(ctx context.Context, city string) ([]domain.CityHotelStats, error)
	VisitorLocations(ctx context.Context) ([]domain.VisitorLocationRecord, error)
	VisitorTimeseries(ctx context.Context, city, interval string) ([]domain.VisitorRecord, error)
}

// Overview is the cached KPI and footfall source shared with the tourist
// dashboard.
type Overview interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
	Footfall(ctx context.Context) ([]domain.FootfallCity, error)
}

type Sessions interface {
	Start(ctx context.Context) (string, domain.AdminSession, error)
	Get(ctx context.Context, id string) (domain.AdminSession, bool)
	End(ctx context.Context, id string) error
	TTL() time.Duration
}

type Alerts interface {
	Feed(ctx context.Context) ([]domain.Alert, error)
	Rules(ctx context.Context) domain.AlertRules
	SetRules(ctx context.Context, r domain.AlertRules) error
}

type Complaints interface {
	Recent(ctx context.Context, limit int) ([]domain.Complaint, error)
}

type Limiter interface {
	Allow(ctx context.Context, id string) (redisrepo.Decision, error)
}

type Credentials struct {
	Username     string
	PasswordHash string
}

type Config struct {
	Credentials Credentials
	Location    *time.Location
}

type Deps struct {
	Backend    Backend
	Overview   Overview
	Sessions   Sessions
	Alerts     Alerts
	Complaints Complaints
	Limiter    Limiter
}

type Service struct {
	deps Deps
	cfg  Config
}

func New(deps Deps, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{deps: deps, cfg: cfg}
}

// Login checks the admin credentials and opens a session.
//
// Returns:
//   - string: the new session id.
//   - domain.AdminSession: the session record.
//   - error: *domain.ValidationError, *RateLimitError or
//     ErrInvalidCredentials.
func (s *Service) Login(
	ctx context.Context,
	clientIP string,
	username string,
	password string,
) (string, domain.AdminSession, error) {
	const op = "service.admin.Login"

	username = strings.TrimSpace(username)

	var v domain.ValidationError
	if username == "" {
		v.Add("username", "Username is required")
	}
	if password == "" {
		v.Add("password", "Password is required")
	}
	if err := v.Err(); err != nil {
		return "", domain.AdminSession{}, err
	}

	if s.deps.Limiter != nil {
		d, err := s.deps.Limiter.Allow(ctx, clientIP)
		if err != nil {
			return "", domain.AdminSession{}, fmt.Errorf("%s: %w", op, err)
		}
		if !d.Allowed {
			return "", domain.AdminSession{}, &RateLimitError{RetryAfter: d.RetryAfter}
		}
	}

	if !s.checkCredentials(username, password) {
		return "", domain.AdminSession{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	id, sess, err := s.deps.Sessions.Start(ctx)
	if err != nil {
		return "", domain.AdminSession{}, fmt.Errorf("%s: %w", op, err)
	}
	return id, sess, nil
}

func (s *Service) checkCredentials(username, password string) bool {
	want := s.cfg.Credentials
	if want.Username == "" || want.PasswordHash == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(want.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(want.PasswordHash), []byte(password)) == nil
	return userOK && passOK
}

func (s *Service) Logout(ctx context.Context, id string) error {
	const op = "service.admin.Logout"

	if err := s.deps.Sessions.End(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) Session(ctx context.Context, id string) (domain.AdminSession, bool) {
	if id == "" {
		return domain.AdminSession{}, false
	}
	return s.deps.Sessions.Get(ctx, id)
}

// SessionTTL is how long a session opened by Login stays valid.
func (s *Service) SessionTTL() time.Duration { return s.deps.Sessions.TTL() }

func (s *Service) Stats(ctx context.Context) (domain.DashboardStats, error) {
	return s.deps.Overview.Stats(ctx)
}

func (s *Service) Alerts(ctx context.Context) ([]domain.Alert, error) {
	return s.deps.Alerts.Feed(ctx)
}

func (s *Service) AlertRules(ctx context.Context) domain.AlertRules {
	return s.deps.Alerts.Rules(ctx)
}

func (s *Service) SetAlertRules(ctx context.Context, r domain.AlertRules) error {
	return s.deps.Alerts.SetRules(ctx, r)
}

type FootfallView struct {
	Cities []string                `json:"cities"`
	City   string                  `json:"city"`
	Places []domain.FootfallPlace  `json:"places"`
	Top    []analytics.RankedPlace `json:"topCrowded"`
}

// Footfall returns the city list and the ranked places for city, or for
// the first city when city is empty or unknown.
func (s *Service) Footfall(ctx context.Context, city string) (FootfallView, error) {
	const op = "service.admin.Footfall"

	cities, err := s.deps.Overview.Footfall(ctx)
	if err != nil {
		return FootfallView{}, fmt.Errorf("%s: %w", op, err)
	}

	view := FootfallView{
		Cities: make([]string, 0, len(cities)),
		Places: []domain.FootfallPlace{},
		Top:    []analytics.RankedPlace{},
	}
	var selected *domain.FootfallCity
	for i := range cities {
		view.Cities = append(view.Cities, cities[i].City)
		if selected == nil && strings.EqualFold(cities[i].City, strings.TrimSpace(city)) {
			selected = &cities[i]
		}
	}
	if selected == nil && len(cities) > 0 {
		selected = &cities[0]
	}
	if selected != nil {
		view.City = selected.City
		if selected.Places != nil {
			view.Places = selected.Places
		}
		view.Top = analytics.TopCrowded(selected.Places)
	}

	return view, nil
}

func (s *Service) FootfallSeries(ctx context.Context, city, place string) ([]domain.FootfallPoint, error) {
	const op = "service.admin.FootfallSeries"

	city, place = strings.TrimSpace(city), strings.TrimSpace(place)

	var v domain.ValidationError
	if city == "" {
		v.Add("city", "City is required")
	}
	if place == "" {
		v.Add("place", "Place is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	series, err := s.deps.Backend.FootfallSeries(ctx, city, place)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if series == nil {
		series = []domain.FootfallPoint{}
	}
	return series, nil
}

type HotelsQuery struct {
	Page          int
	Limit         int
	City          string
	Search        string
	OnlyAvailable bool
}

type HotelsDashboard struct {
	Hotels     []domain.HotelRecord     `json:"hotels"`
	Summary    analytics.HotelSummary   `json:"summary"`
	Cities     []analytics.CitySummary  `json:"cities"`
	Chart      []analytics.CityCapacity `json:"chart"`
	Page       int                      `json:"page"`
	TotalPages int                      `json:"totalPages"`
	Total      int64                    `json:"total"`
}

// Hotels loads one page of the hotel list and the per-city analytics in
// parallel. KPIs and chart rows come from the city analytics so they cover
// every hotel, not only the current page.
func (s *Service) Hotels(ctx context.Context, q HotelsQuery) (HotelsDashboard, error) {
	const op = "service.admin.Hotels"

	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}

	var (
		page  backend.HotelPage
		stats []domain.CityHotelStats
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = s.deps.Backend.Hotels(gCtx, backend.HotelQuery{Page: q.Page, Limit: q.Limit, City: q.City})
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.deps.Backend.CityHotelAnalytics(gCtx, q.City)
		return err
	})
	if err := g.Wait(); err != nil {
		return HotelsDashboard{}, fmt.Errorf("%s: %w", op, err)
	}

	summary, cities, chart := analytics.AggregateCities(stats)
	hotels := analytics.FilterHotels(analytics.WithVacancy(page.Hotels), q.Search, q.OnlyAvailable)

	return HotelsDashboard{
		Hotels:     hotels,
		Summary:    summary,
		Cities:     cities,
		Chart:      chart,
		Page:       q.Page,
		TotalPages: analytics.TotalPages(page.Total, q.Limit),
		Total:      page.Total,
	}, nil
}

type VisitorsView struct {
	Cities       []string                `json:"cities"`
	City         string                  `json:"city"`
	Segmentation analytics.Segmentation  `json:"segmentation"`
	Series       []analytics.SeriesPoint `json:"series"`
}

// Visitors segments the visitor timeseries for city. An empty city selects
// the first city the backend knows about.
func (s *Service) Visitors(ctx context.Context, city, interval string) (VisitorsView, error) {
	const op = "service.admin.Visitors"

	locs, err := s.deps.Backend.VisitorLocations(ctx)
	if err != nil {
		return VisitorsView{}, fmt.Errorf("%s: %w", op, err)
	}

	view := VisitorsView{
		Cities: analytics.Cities(locs),
		City:   strings.TrimSpace(city),
		Series: []analytics.SeriesPoint{},
	}
	if view.Cities == nil {
		view.Cities = []string{}
	}
	if view.City == "" && len(view.Cities) > 0 {
		view.City = view.Cities[0]
	}
	if view.City == "" {
		return view, nil
	}

	records, err := s.deps.Backend.VisitorTimeseries(ctx, view.City, interval)
	if err != nil {
		return VisitorsView{}, fmt.Errorf("%s: %w", op, err)
	}

	view.Segmentation = analytics.Segment(records)
	if series := analytics.VisitorSeries(records, s.cfg.Location); series != nil {
		view.Series = series
	}
	return view, nil
}

func (s *Service) Complaints(ctx context.Context, limit int) ([]domain.Complaint, error) {
	const op = "service.admin.Complaints"

	if s.deps.Complaints == nil {
		return []domain.Complaint{}, nil
	}
	out, err := s.deps.Complaints.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
