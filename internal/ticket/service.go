package ticket

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/tourdash/internal/analytics"
	"github.com/kirinyoku/tourdash/internal/backend"
	"github.com/kirinyoku/tourdash/internal/clock"
	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/events"
	redisrepo "github.com/kirinyoku/tourdash/internal/repository/redis"
)

var (
	ErrPlaceNotFound    = errors.New("place not found")
	ErrSubmissionFailed = errors.New("ticket submission failed")
)

const defaultLockTTL = 60 * time.Second

type Backend interface {
	LowCrowd(ctx context.Context, q backend.PlaceQuery) ([]domain.Place, error)
	HighCrowd(ctx context.Context, q backend.PlaceQuery) ([]domain.Place, error)
	CreateTicket(ctx context.Context, idemKey string, t domain.TicketSubmission) (backend.TicketAck, error)
}

type IdempotencyStore interface {
	Acquire(ctx context.Context, key string, lockTTL time.Duration) (bool, error)
	Result(ctx context.Context, key string) (string, bool, error)
	SaveResult(ctx context.Context, key string, jsonPayload string) error
	Release(ctx context.Context, key string) error
}

type Config struct {
	Thresholds analytics.Thresholds
	LockTTL    time.Duration
}

type Service struct {
	backend Backend
	idem    IdempotencyStore
	events  events.Publisher
	clock   clock.Clock
	cfg     Config
}

func New(b Backend, idem IdempotencyStore, pub events.Publisher, c clock.Clock, cfg Config) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if c == nil {
		c = clock.Real{}
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}
	cfg.Thresholds = cfg.Thresholds.Normalize()

	return &Service{
		backend: b,
		idem:    idem,
		events:  pub,
		clock:   c,
		cfg:     cfg,
	}
}

// NewIdempotencyKey returns a fresh key for callers that did not send one.
func NewIdempotencyKey() string { return uuid.NewString() }

// Options lists the cities near loc and, when city is set, the places in
// it with their current crowd tier.
type Options struct {
	Cities []string       `json:"cities"`
	Places []domain.Place `json:"places"`
}

func (s *Service) Options(ctx context.Context, loc domain.UserLocation, city string) (Options, error) {
	const op = "service.ticket.Options"

	places, err := s.nearby(ctx, loc)
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", op, err)
	}

	seen := make(map[string]struct{})
	opts := Options{Cities: []string{}, Places: []domain.Place{}}
	for _, p := range places {
		if p.City != "" {
			if _, ok := seen[p.City]; !ok {
				seen[p.City] = struct{}{}
				opts.Cities = append(opts.Cities, p.City)
			}
		}
		if city != "" && strings.EqualFold(p.City, city) {
			opts.Places = append(opts.Places, p)
		}
	}
	slices.Sort(opts.Cities)
	sortPlaces(opts.Places)

	return opts, nil
}

// Submit validates form, snapshots the chosen place and books it once.
//
// Parameters:
//   - ctx: request-scoped context.
//   - idemKey: caller's idempotency key; the same key never books twice.
//   - loc: the caller's location, used to find nearby places.
//   - form: the booking form.
//
// Returns:
//   - domain.TicketReceipt: the receipt, replayed for a finished key.
//   - bool: true when the receipt is a replay.
//   - error: *domain.ValidationError, ErrSubmissionInProgress,
//     ErrPlaceNotFound, backend.ErrUnavailable or ErrSubmissionFailed.
func (s *Service) Submit(
	ctx context.Context,
	idemKey string,
	loc domain.UserLocation,
	form Form,
) (domain.TicketReceipt, bool, error) {
	const op = "service.ticket.Submit"

	if err := form.Validate(); err != nil {
		return domain.TicketReceipt{}, false, err
	}
	form = form.normalized()

	if idemKey == "" {
		idemKey = NewIdempotencyKey()
	}
	storeKey := redisrepo.KeyIdemTicket(idemKey)

	flow, receipt, err := s.restore(ctx, storeKey)
	if err != nil {
		return domain.TicketReceipt{}, false, fmt.Errorf("%s: %w", op, err)
	}

	if err := flow.Begin(); err != nil {
		if errors.Is(err, ErrAlreadySubmitted) {
			return receipt, true, nil
		}
		return domain.TicketReceipt{}, false, fmt.Errorf("%s: %w", op, err)
	}

	locked, err := s.idem.Acquire(ctx, storeKey, s.cfg.LockTTL)
	if err != nil {
		return domain.TicketReceipt{}, false, fmt.Errorf("%s: %w", op, err)
	}
	if !locked {
		// lost the race to a concurrent request with the same key
		if payload, ok, _ := s.idem.Result(ctx, storeKey); ok {
			if r, err := decodeReceipt(payload); err == nil {
				return r, true, nil
			}
		}
		return domain.TicketReceipt{}, false, fmt.Errorf("%s: %w", op, ErrSubmissionInProgress)
	}

	// the key must settle even if the caller went away mid-request
	settleCtx := context.WithoutCancel(ctx)

	receipt, err = s.book(ctx, idemKey, loc, form)
	if err != nil {
		_ = flow.Fail()
		_ = s.idem.Release(settleCtx, storeKey)
		return domain.TicketReceipt{}, false, fmt.Errorf("%s: %w", op, err)
	}
	_ = flow.Succeed()

	if b, err := json.Marshal(receipt); err == nil {
		_ = s.idem.SaveResult(settleCtx, storeKey, string(b))
	}

	_ = s.events.Publish(ctx, events.Event{
		Type:       events.TypeTicketSubmitted,
		Key:        receipt.Ticket.Place,
		OccurredAt: receipt.SubmittedAt,
		Payload:    receipt,
	})

	return receipt, false, nil
}

func (s *Service) restore(ctx context.Context, storeKey string) (*Flow, domain.TicketReceipt, error) {
	payload, ok, err := s.idem.Result(ctx, storeKey)
	if err != nil {
		return nil, domain.TicketReceipt{}, err
	}
	if ok {
		if r, err := decodeReceipt(payload); err == nil {
			return NewFlow(StateSuccess), r, nil
		}
	}
	return NewFlow(StateIdle), domain.TicketReceipt{}, nil
}

func (s *Service) book(
	ctx context.Context,
	idemKey string,
	loc domain.UserLocation,
	form Form,
) (domain.TicketReceipt, error) {
	places, err := s.nearby(ctx, loc)
	if err != nil {
		return domain.TicketReceipt{}, err
	}

	place, ok := findPlace(places, form.City, form.Place)
	if !ok {
		return domain.TicketReceipt{}, ErrPlaceNotFound
	}

	sub := domain.TicketSubmission{
		TouristType:         form.TouristType,
		Phone:               form.Phone,
		Visitors:            form.Visitors,
		FromCity:            form.FromCity,
		Country:             form.Country,
		State:               loc.State,
		City:                place.City,
		Place:               place.Name,
		CrowdStatus:         s.cfg.Thresholds.Classify(place.CrowdCount),
		CrowdCountAtBooking: place.CrowdCount,
	}
	if form.TouristType == domain.TouristInternational {
		sub.CountryCode = form.CountryCode
	}

	ack, err := s.backend.CreateTicket(ctx, idemKey, sub)
	if err != nil {
		if errors.Is(err, backend.ErrUnavailable) {
			return domain.TicketReceipt{}, err
		}
		return domain.TicketReceipt{}, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	msg := ack.Message
	if msg == "" {
		msg = "Ticket booked"
	}

	return domain.TicketReceipt{
		IdempotencyKey: idemKey,
		Ticket:         sub,
		Message:        msg,
		ShareURL:       ShareURL(sub, form.CountryCode),
		SubmittedAt:    s.clock.Now().UTC(),
	}, nil
}

// nearby fetches low and high crowd places for loc in parallel.
func (s *Service) nearby(ctx context.Context, loc domain.UserLocation) ([]domain.Place, error) {
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
		return nil, err
	}

	return s.cfg.Thresholds.Annotate(append(low, high...)), nil
}

func findPlace(places []domain.Place, city, name string) (domain.Place, bool) {
	for _, p := range places {
		if p.Name == name && strings.EqualFold(p.City, city) {
			return p, true
		}
	}
	for _, p := range places {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Place{}, false
}

// ShareURL builds the WhatsApp hand-off link with the booking summary.
func ShareURL(t domain.TicketSubmission, countryCode string) string {
	var b strings.Builder
	if t.TouristType == domain.TouristInternational {
		b.WriteString("International Tourist Ticket\n\n")
		fmt.Fprintf(&b, "Phone: %s %s\n", countryCode, t.Phone)
		fmt.Fprintf(&b, "Visitors: %d\n", t.Visitors)
		fmt.Fprintf(&b, "Country: %s\n\n", t.Country)
	} else {
		countryCode = domain.IndiaCode
		b.WriteString("Domestic Tourist Ticket\n\n")
		fmt.Fprintf(&b, "Phone: %s\n", t.Phone)
		fmt.Fprintf(&b, "Visitors: %d\n", t.Visitors)
		fmt.Fprintf(&b, "From: %s\n\n", t.FromCity)
	}
	fmt.Fprintf(&b, "City: %s\n", t.City)
	fmt.Fprintf(&b, "Place: %s\n", t.Place)
	fmt.Fprintf(&b, "Crowd: %s\n", t.CrowdStatus)
	fmt.Fprintf(&b, "Visitors: %s\n", strconv.FormatInt(t.CrowdCountAtBooking, 10))

	return "https://wa.me/" + domain.Digits(countryCode) + t.Phone + "?text=" + url.QueryEscape(b.String())
}

func decodeReceipt(payload string) (domain.TicketReceipt, error) {
	var r domain.TicketReceipt
	err := json.Unmarshal([]byte(payload), &r)
	return r, err
}

// sortPlaces orders places by city, then name.
func sortPlaces(places []domain.Place) {
	slices.SortStableFunc(places, func(a, b domain.Place) int {
		return cmp.Or(cmp.Compare(a.City, b.City), cmp.Compare(a.Name, b.Name))
	})
}
