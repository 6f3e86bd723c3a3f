// Package dashboard builds the tourist-facing views: recommendations,
// crowd heatmap, visit insights and hotel listings.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/tourdash/internal/analytics"
	"github.com/kirinyoku/tourdash/internal/backend"
	"github.com/kirinyoku/tourdash/internal/domain"
	redisrepo "github.com/kirinyoku/tourdash/internal/repository/redis"
)

const (
	defaultStatsTTL    = 30 * time.Second
	defaultFootfallTTL = 60 * time.Second
	defaultHotelLimit  = 12
	maxHotelLimit      = 100
)

type Backend interface {
	LowCrowd(ctx context.Context, q backend.PlaceQuery) ([]domain.Place, error)
	HighCrowd(ctx context.Context, q backend.PlaceQuery) ([]domain.Place, error)
	Stats(ctx context.Context) (domain.DashboardStats, error)
	HourlyCrowd(ctx context.Context) ([]domain.HourlyCrowd, error)
	CrowdSummary(ctx context.Context) ([]domain.PlaceCrowd, error)
	BestVisitInsights(ctx context.Context) (domain.VisitInsights, error)
	Footfall(ctx context.Context) ([]domain.FootfallCity, error)
	Hotels(ctx context.Context, q backend.HotelQuery) (backend.HotelPage, error)
}

type Config struct {
	DefaultState string
	Thresholds   analytics.Thresholds
	StatsTTL     time.Duration
	FootfallTTL  time.Duration
}

type Service struct {
	backend Backend
	cache   *redisrepo.Cache
	cfg     Config
}

// New builds the service. cache may be nil, in which case every read goes
// to the backend.
func New(b Backend, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.StatsTTL <= 0 {
		cfg.StatsTTL = defaultStatsTTL
	}
	if cfg.FootfallTTL <= 0 {
		cfg.FootfallTTL = defaultFootfallTTL
	}
	cfg.Thresholds = cfg.Thresholds.Normalize()

	return &Service{
		backend: b,
		cache:   cache,
		cfg:     cfg,
	}
}

func (s *Service) Thresholds() analytics.Thresholds { return s.cfg.Thresholds }

type Recommendations struct {
	Places []domain.Place `json:"places"`
	Alerts []domain.Alert `json:"alerts"`
}

// Recommendations lists low-crowd places near loc together with the crowd
// alerts for the same area.
func (s *Service) Recommendations(
	ctx context.Context,
	loc domain.UserLocation,
	search string,
	limit int,
) (Recommendations, error) {
	const op = "service.dashboard.Recommendations"

	q := backend.PlaceQuery{
		State:    loc.State,
		District: loc.District,
		Search:   strings.TrimSpace(search),
		Limit:    limit,
	}

	var low, high []domain.Place
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		low, err = s.backend.LowCrowd(gCtx, q)
		return err
	})
	g.Go(func() error {
		var err error
		high, err = s.backend.HighCrowd(gCtx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return Recommendations{}, fmt.Errorf("%s: %w", op, err)
	}

	label := analytics.AlertLabel(q.Search, loc, s.cfg.DefaultState)

	return Recommendations{
		Places: nonNil(s.cfg.Thresholds.Annotate(low)),
		Alerts: analytics.GenerateAlerts(high, label, s.cfg.Thresholds),
	}, nil
}

func (s *Service) HighCrowd(ctx context.Context, loc domain.UserLocation, limit int) ([]domain.Place, error) {
	const op = "service.dashboard.HighCrowd"

	places, err := s.backend.HighCrowd(ctx, backend.PlaceQuery{
		State:    loc.State,
		District: loc.District,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nonNil(s.cfg.Thresholds.Annotate(places)), nil
}

// Heatmap weights every known place near loc by its crowd count.
func (s *Service) Heatmap(ctx context.Context, loc domain.UserLocation) ([]analytics.HeatPoint, error) {
	const op = "service.dashboard.Heatmap"

	q := backend.PlaceQuery{State: loc.State, District: loc.District}

	var low, high []domain.Place
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		low, err = s.backend.LowCrowd(gCtx, q)
		return err
	})
	g.Go(func() error {
		var err error
		high, err = s.backend.HighCrowd(gCtx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	points := analytics.HeatPoints(append(low, high...))
	if points == nil {
		points = []analytics.HeatPoint{}
	}
	return points, nil
}

type Insights struct {
	Hourly         []analytics.SeriesPoint `json:"hourly"`
	Summary        []domain.PlaceCrowd     `json:"summary"`
	Status         domain.CrowdStatus      `json:"status"`
	BestTime       string                  `json:"bestTime"`
	BestSeason     string                  `json:"bestSeason"`
	Recommendation string                  `json:"recommendation"`
}

func (s *Service) Insights(ctx context.Context) (Insights, error) {
	const op = "service.dashboard.Insights"

	var (
		hourly  []domain.HourlyCrowd
		summary []domain.PlaceCrowd
		best    domain.VisitInsights
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hourly, err = s.backend.HourlyCrowd(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = s.backend.CrowdSummary(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		best, err = s.backend.BestVisitInsights(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Insights{}, fmt.Errorf("%s: %w", op, err)
	}

	return Insights{
		Hourly:         analytics.HourlyLabels(hourly),
		Summary:        nonNil(summary),
		Status:         analytics.BusiestStatus(summary, s.cfg.Thresholds),
		BestTime:       best.BestTime,
		BestSeason:     best.BestSeason,
		Recommendation: best.Recommendation,
	}, nil
}

// Stats is the headline KPI block, cached briefly.
func (s *Service) Stats(ctx context.Context) (domain.DashboardStats, error) {
	const op = "service.dashboard.Stats"

	if s.cache == nil {
		st, err := s.backend.Stats(ctx)
		if err != nil {
			return domain.DashboardStats{}, fmt.Errorf("%s: %w", op, err)
		}
		return st, nil
	}

	st, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisrepo.KeyDashboardStats(), s.cfg.StatsTTL, s.backend.Stats)
	if err != nil {
		return domain.DashboardStats{}, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// Footfall returns per-city place totals in backend order, cached briefly.
func (s *Service) Footfall(ctx context.Context) ([]domain.FootfallCity, error) {
	const op = "service.dashboard.Footfall"

	var (
		cities []domain.FootfallCity
		err    error
	)
	if s.cache == nil {
		cities, err = s.backend.Footfall(ctx)
	} else {
		cities, err = redisrepo.GetOrSetJSON(ctx, s.cache, redisrepo.KeyFootfallCities(), s.cfg.FootfallTTL, s.backend.Footfall)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nonNil(cities), nil
}

type HotelsQuery struct {
	Page          int
	Limit         int
	Search        string
	OnlyAvailable bool
	MinRating     float64
}

type HotelsView struct {
	City    string               `json:"city"`
	Hotels  []domain.HotelRecord `json:"hotels"`
	Page    int                  `json:"page"`
	Total   int64                `json:"total"`
	HasMore bool                 `json:"hasMore"`
}

// Hotels lists one page of hotels for the search term, or for the caller's
// district when no search is given.
func (s *Service) Hotels(ctx context.Context, loc domain.UserLocation, q HotelsQuery) (HotelsView, error) {
	const op = "service.dashboard.Hotels"

	if q.Page <= 0 {
		q.Page = 1
	}
	switch {
	case q.Limit <= 0:
		q.Limit = defaultHotelLimit
	case q.Limit > maxHotelLimit:
		q.Limit = maxHotelLimit
	}

	city := strings.TrimSpace(q.Search)
	if city == "" {
		city = loc.District
	}

	page, err := s.backend.Hotels(ctx, backend.HotelQuery{
		Page:      q.Page,
		Limit:     q.Limit,
		City:      city,
		MinRating: q.MinRating,
	})
	if err != nil {
		return HotelsView{}, fmt.Errorf("%s: %w", op, err)
	}

	hotels := analytics.WithVacancy(page.Hotels)
	if q.OnlyAvailable {
		hotels = analytics.FilterHotels(hotels, "", true)
	}

	return HotelsView{
		City:    city,
		Hotels:  nonNil(hotels),
		Page:    q.Page,
		Total:   page.Total,
		HasMore: len(page.Hotels) == q.Limit,
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
