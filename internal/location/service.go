// Package location keeps the last detected state/district and the tourist
// type preference for each client.
package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/geocode"
	"github.com/kirinyoku/tourdash/internal/repository"
	redisrepo "github.com/kirinyoku/tourdash/internal/repository/redis"
)

const DefaultState = "Rajasthan"

var ErrInvalidTouristType = errors.New("invalid tourist type")

type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (geocode.Address, error)
}

type Service struct {
	kv           repository.KV
	geocoder     Geocoder
	defaultState string
	logger       *slog.Logger
}

func New(kv repository.KV, geocoder Geocoder, defaultState string, logger *slog.Logger) *Service {
	if defaultState == "" {
		defaultState = DefaultState
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		kv:           kv,
		geocoder:     geocoder,
		defaultState: defaultState,
		logger:       logger,
	}
}

// Detect resolves coords to a location and caches it for clientID. A nil
// coords means the position is unavailable. Whenever no fresh location
// can be produced the cached one, or an empty one, is returned instead.
func (s *Service) Detect(ctx context.Context, clientID string, coords *domain.Coordinates) domain.UserLocation {
	if coords == nil || s.geocoder == nil {
		return s.Cached(ctx, clientID)
	}

	addr, err := s.geocoder.ReverseGeocode(ctx, coords.Lat, coords.Lon)
	if err != nil {
		s.logger.Warn("reverse geocoding failed", "client_id", clientID, "error", err)
		return s.Cached(ctx, clientID)
	}

	loc := domain.UserLocation{
		State:    strings.TrimSpace(addr.State),
		District: strings.TrimSpace(addr.District),
	}
	if loc.State == "" {
		loc.State = s.defaultState
	}

	if err := redisrepo.SetJSON(ctx, s.kv, redisrepo.KeyLocation(clientID), loc, 0); err != nil {
		s.logger.Warn("location not cached", "client_id", clientID, "error", err)
	}

	return loc
}

// Cached returns the stored location or an empty one.
func (s *Service) Cached(ctx context.Context, clientID string) domain.UserLocation {
	loc, ok, err := redisrepo.GetJSON[domain.UserLocation](ctx, s.kv, redisrepo.KeyLocation(clientID))
	if err != nil || !ok {
		return domain.UserLocation{}
	}
	return loc
}

// Effective is the cached location with the default state filled in.
func (s *Service) Effective(ctx context.Context, clientID string) domain.UserLocation {
	loc := s.Cached(ctx, clientID)
	if loc.State == "" {
		loc.State = s.defaultState
	}
	return loc
}

func (s *Service) DefaultState() string { return s.defaultState }

type touristTypePref struct {
	TouristType domain.TouristType `json:"touristType"`
}

// TouristType returns the saved preference, if any.
func (s *Service) TouristType(ctx context.Context, clientID string) (domain.TouristType, bool) {
	p, ok, err := redisrepo.GetJSON[touristTypePref](ctx, s.kv, redisrepo.KeyTouristType(clientID))
	if err != nil || !ok || !p.TouristType.Valid() {
		return "", false
	}
	return p.TouristType, true
}

func (s *Service) SetTouristType(ctx context.Context, clientID string, t domain.TouristType) error {
	const op = "location.Service.SetTouristType"

	if !t.Valid() {
		return fmt.Errorf("%s: %w", op, ErrInvalidTouristType)
	}

	if err := redisrepo.SetJSON(ctx, s.kv, redisrepo.KeyTouristType(clientID), touristTypePref{TouristType: t}, 0); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
