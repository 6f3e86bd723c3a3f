package complaint

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/tourdash/internal/clock"
	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/events"
	"github.com/kirinyoku/tourdash/internal/repository"
)

type memRepo struct {
	mu        sync.Mutex
	rows      map[string]domain.Complaint
	uploads   map[string][]byte
	conflicts int
	err       error
}

func newMemRepo() *memRepo {
	return &memRepo{
		rows:    make(map[string]domain.Complaint),
		uploads: make(map[string][]byte),
	}
}

func (m *memRepo) Save(ctx context.Context, c domain.Complaint, up *Upload, after func(context.Context)) error {
	m.mu.Lock()
	if m.err != nil {
		m.mu.Unlock()
		return m.err
	}
	if m.conflicts > 0 {
		m.conflicts--
		m.mu.Unlock()
		return repository.ErrConflict
	}
	if _, ok := m.rows[c.ID]; ok {
		m.mu.Unlock()
		return repository.ErrConflict
	}
	m.rows[c.ID] = c
	if up != nil {
		m.uploads[c.ID] = up.Content
	}
	m.mu.Unlock()

	if after != nil {
		after(ctx)
	}
	return nil
}

func (m *memRepo) Get(_ context.Context, id string) (domain.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return domain.Complaint{}, repository.ErrNotFound
	}
	return c, nil
}

func (m *memRepo) Recent(_ context.Context, limit int) ([]domain.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Complaint
	for _, c := range m.rows {
		if len(out) == limit {
			break
		}
		out = append(out, c)
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func validForm() Form {
	return Form{
		FullName:      "Asha Verma",
		Nationality:   domain.TouristDomestic,
		Country:       "India",
		CountryCode:   "+1",
		State:         "Rajasthan",
		Mobile:        "9876543210",
		Email:         "asha@example.com",
		ComplaintType: "Overcharging",
		Location:      "Amber Fort",
		IncidentDate:  "2026-10-01",
		Description:   "The auto driver charged three times the posted fare near the gate.",
		Consent:       true,
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var v *domain.ValidationError
	require.True(t, errors.As(err, &v), "expected validation error, got %v", err)
	return v.Fields
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(validForm(), nil))
}

func TestValidate_EmptyFormReportsEveryField(t *testing.T) {
	err := Validate(Form{Nationality: domain.TouristDomestic}, nil)
	fields := fieldErrors(t, err)

	for _, k := range []string{
		"fullName", "state", "mobile", "email", "complaintType",
		"location", "incidentDate", "description", "consent",
	} {
		assert.Contains(t, fields, k)
	}
	assert.NotContains(t, fields, "country")
}

func TestValidate_International(t *testing.T) {
	f := validForm()
	f.Nationality = domain.TouristInternational
	f.Country = ""
	f.CountryCode = "+65"
	f.Mobile = "912345"

	fields := fieldErrors(t, Validate(f, nil))
	assert.Equal(t, "Country is required", fields["country"])
	assert.Equal(t, "Mobile number must be exactly 8 digits for +65", fields["mobile"])
	assert.NotContains(t, fields, "state")
}

func TestValidate_DomesticForcesIndianNumber(t *testing.T) {
	f := validForm()
	f.CountryCode = "+65"
	f.Mobile = "5876543210"

	fields := fieldErrors(t, Validate(f, nil))
	assert.Equal(t, "Indian mobile number must start with 6, 7, 8, or 9", fields["mobile"])
}

func TestValidate_ShortDescriptionAndBadEmail(t *testing.T) {
	f := validForm()
	f.Description = "   too short   "
	f.Email = "asha@example"

	fields := fieldErrors(t, Validate(f, nil))
	assert.Equal(t, "Description must be at least 30 characters", fields["description"])
	assert.Equal(t, "Enter a valid email address", fields["email"])
}

func TestValidate_Attachment(t *testing.T) {
	tests := []struct {
		name    string
		upload  Upload
		wantErr string
	}{
		{"png ok", Upload{ContentType: "image/png", Content: []byte("x")}, ""},
		{"pdf ok", Upload{ContentType: "application/pdf", Content: []byte("x")}, ""},
		{"gif rejected", Upload{ContentType: "image/gif", Content: []byte("x")}, "Please upload only JPG, PNG, or PDF files"},
		{"too large", Upload{ContentType: "image/jpeg", Content: make([]byte, MaxAttachmentBytes+1)}, "File size must be less than 5MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := tt.upload
			err := Validate(validForm(), &up)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantErr, fieldErrors(t, err)["attachment"])
		})
	}
}

func TestFile_StoresNormalizedComplaintAndPublishes(t *testing.T) {
	repo := newMemRepo()
	pub := &recordingPublisher{}
	clk := clock.NewFake(time.UnixMilli(1760000012345678 / 1000))
	s := New(repo, pub, clk)

	up := &Upload{FileName: "receipt.png", ContentType: "image/png", Content: []byte("png")}
	c, err := s.File(context.Background(), validForm(), up)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(c.ID, "RJTC"))
	assert.Len(t, c.ID, len("RJTC")+8)
	assert.Equal(t, domain.IndiaCode, c.CountryCode)
	assert.Empty(t, c.Country)
	assert.Equal(t, "Rajasthan", c.State)
	require.NotNil(t, c.Attachment)
	assert.EqualValues(t, 3, c.Attachment.SizeBytes)
	assert.Equal(t, []byte("png"), repo.uploads[c.ID])

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeComplaintFiled, pub.events[0].Type)
	assert.Equal(t, c.ID, pub.events[0].Key)
}

func TestFile_RetriesOnConflict(t *testing.T) {
	repo := newMemRepo()
	repo.conflicts = 2
	pub := &recordingPublisher{}
	s := New(repo, pub, clock.NewFake(time.Unix(1_760_000_000, 0)))

	c, err := s.File(context.Background(), validForm(), nil)
	require.NoError(t, err)
	assert.Contains(t, repo.rows, c.ID)
	assert.Len(t, pub.events, 1)
}

func TestFile_GivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := newMemRepo()
	repo.conflicts = maxSaveTries
	pub := &recordingPublisher{}
	s := New(repo, pub, clock.NewFake(time.Unix(1_760_000_000, 0)))

	_, err := s.File(context.Background(), validForm(), nil)
	require.ErrorIs(t, err, repository.ErrConflict)
	assert.Empty(t, pub.events)
}

func TestFile_StoreFailureIsNotRetried(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("connection refused")
	s := New(repo, nil, clock.NewFake(time.Unix(1_760_000_000, 0)))

	_, err := s.File(context.Background(), validForm(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFile_InvalidFormDoesNotTouchStore(t *testing.T) {
	repo := newMemRepo()
	s := New(repo, nil, nil)

	_, err := s.File(context.Background(), Form{}, nil)
	fieldErrors(t, err)
	assert.Empty(t, repo.rows)
}

func TestGet_NotFound(t *testing.T) {
	s := New(newMemRepo(), nil, nil)

	_, err := s.Get(context.Background(), "RJTC00000000")
	assert.ErrorIs(t, err, ErrComplaintNotFound)
}

func TestRecent_ClampsLimitAndNeverReturnsNil(t *testing.T) {
	s := New(newMemRepo(), nil, nil)

	out, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestReferenceID(t *testing.T) {
	now := time.UnixMilli(1760000123456)
	assert.Equal(t, "RJTC00123456", referenceID(now, 0))
	assert.Equal(t, "RJTC00123457", referenceID(now, 1))
}
