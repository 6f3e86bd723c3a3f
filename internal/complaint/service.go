package complaint

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kirinyoku/tourdash/internal/clock"
	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/events"
	"github.com/kirinyoku/tourdash/internal/repository"
	"github.com/kirinyoku/tourdash/internal/repository/postgres"
)

var ErrComplaintNotFound = errors.New("complaint not found")

const (
	idPrefix      = "RJTC"
	idDigits      = 8
	maxSaveTries  = 3
	defaultRecent = 20
	maxRecent     = 100
)

// Repository persists a complaint and its attachment atomically. after is
// registered to run once the write is durable.
type Repository interface {
	Save(ctx context.Context, c domain.Complaint, up *Upload, after func(ctx context.Context)) error
	Get(ctx context.Context, id string) (domain.Complaint, error)
	Recent(ctx context.Context, limit int) ([]domain.Complaint, error)
}

type Service struct {
	repo   Repository
	events events.Publisher
	clock  clock.Clock
}

func New(repo Repository, pub events.Publisher, c clock.Clock) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if c == nil {
		c = clock.Real{}
	}
	return &Service{repo: repo, events: pub, clock: c}
}

// File validates the form and stores the complaint under a fresh reference
// id. A collision on the id is retried with a new one.
func (s *Service) File(ctx context.Context, f Form, up *Upload) (domain.Complaint, error) {
	const op = "service.complaint.File"

	if err := Validate(f, up); err != nil {
		return domain.Complaint{}, err
	}
	f = f.normalized()

	incident, _ := time.Parse(incidentDateLayout, f.IncidentDate)

	c := domain.Complaint{
		FullName:      f.FullName,
		Nationality:   f.Nationality,
		Country:       f.Country,
		CountryCode:   f.CountryCode,
		State:         f.State,
		Mobile:        domain.Digits(f.Mobile),
		Email:         f.Email,
		ComplaintType: f.ComplaintType,
		Location:      f.Location,
		IncidentDate:  incident,
		Description:   strings.TrimSpace(f.Description),
	}
	if up != nil {
		c.Attachment = &domain.Attachment{
			FileName:    up.FileName,
			ContentType: up.ContentType,
			SizeBytes:   int64(len(up.Content)),
		}
	}

	var err error
	for try := 0; try < maxSaveTries; try++ {
		now := s.clock.Now().UTC()
		c.ID = referenceID(now, try)
		c.SubmittedAt = now

		filed := c
		err = s.repo.Save(ctx, c, up, func(ctx context.Context) {
			_ = s.events.Publish(ctx, events.Event{
				Type:       events.TypeComplaintFiled,
				Key:        filed.ID,
				OccurredAt: filed.SubmittedAt,
				Payload:    filed,
			})
		})
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, repository.ErrConflict) && !postgres.IsRetryable(err) {
			break
		}
	}

	return domain.Complaint{}, fmt.Errorf("%s: %w", op, err)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Complaint, error) {
	const op = "service.complaint.Get"

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Complaint{}, fmt.Errorf("%s: %w", op, ErrComplaintNotFound)
		}
		return domain.Complaint{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Recent lists the newest complaints. limit is clamped to [1, 100] and
// defaults to 20.
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.Complaint, error) {
	const op = "service.complaint.Recent"

	switch {
	case limit <= 0:
		limit = defaultRecent
	case limit > maxRecent:
		limit = maxRecent
	}

	out, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if out == nil {
		out = []domain.Complaint{}
	}
	return out, nil
}

// referenceID is RJTC followed by the last eight digits of the unix
// millisecond time. try shifts the time forward so retries never repeat.
func referenceID(now time.Time, try int) string {
	ms := strconv.FormatInt(now.UnixMilli()+int64(try), 10)
	if len(ms) > idDigits {
		ms = ms[len(ms)-idDigits:]
	}
	return idPrefix + ms
}
