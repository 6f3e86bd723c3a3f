package monitor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/tourdash/internal/analytics"
	"github.com/kirinyoku/tourdash/internal/backend"
	"github.com/kirinyoku/tourdash/internal/clock"
	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/repository/memory"
	redisrepo "github.com/kirinyoku/tourdash/internal/repository/redis"
)

var epoch = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type fakeAlertSource struct {
	mu        sync.Mutex
	places    []domain.Place
	stats     []domain.CityHotelStats
	err       error
	states    []string
	duringGet func()
}

func (f *fakeAlertSource) HighCrowd(_ context.Context, q backend.PlaceQuery) ([]domain.Place, error) {
	f.mu.Lock()
	f.states = append(f.states, q.State)
	hook := f.duringGet
	f.duringGet = nil
	places, err := f.places, f.err
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return places, err
}

func (f *fakeAlertSource) CityHotelAnalytics(context.Context, string) ([]domain.CityHotelStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats, nil
}

type countingNotifier struct {
	mu     sync.Mutex
	counts []int
}

func (n *countingNotifier) PublishAlertsChanged(_ context.Context, count int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.counts = append(n.counts, count)
	return nil
}

func newAlertMonitor(src *fakeAlertSource) (*AlertMonitor, *memory.Store, *countingNotifier) {
	fc := clock.NewFake(epoch)
	kv := memory.New(fc)
	n := &countingNotifier{}
	m := NewAlertMonitor(AlertConfig{
		DefaultState: "Rajasthan",
		Thresholds:   analytics.DefaultThresholds(),
	}, src, kv, n, fc, quietLogger())
	return m, kv, n
}

func TestAlertMonitor_RefreshStoresAndNotifies(t *testing.T) {
	src := &fakeAlertSource{
		places: []domain.Place{{Name: "Hawa Mahal", City: "Jaipur", CrowdCount: 26000}},
		stats:  []domain.CityHotelStats{{City: "Udaipur", TotalRooms: 100, TotalVacancy: 5}},
	}
	m, kv, n := newAlertMonitor(src)
	ctx := context.Background()

	require.NoError(t, m.Refresh(ctx))

	feed, err := m.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "Hawa Mahal-critical", feed[0].ID)
	assert.Equal(t, "Udaipur-hotel-high", feed[1].ID)

	stored, ok, err := redisrepo.GetJSON[[]domain.Alert](ctx, kv, redisrepo.KeyAlertsFeed())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, feed, stored)

	assert.Equal(t, []int{2}, n.counts)
	assert.Equal(t, []string{"Rajasthan"}, src.states)
}

func TestAlertMonitor_QuietStateIsSingleNormal(t *testing.T) {
	m, _, _ := newAlertMonitor(&fakeAlertSource{})

	feed, err := m.Feed(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, domain.AlertNormal, feed[0].Type)
}

func TestAlertMonitor_RefreshErrorKeepsPreviousFeed(t *testing.T) {
	src := &fakeAlertSource{
		places: []domain.Place{{Name: "Amber Fort", City: "Jaipur", CrowdCount: 16000}},
	}
	m, _, n := newAlertMonitor(src)
	ctx := context.Background()
	require.NoError(t, m.Refresh(ctx))

	src.err = errors.New("backend down")
	require.Error(t, m.Refresh(ctx))

	feed, err := m.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "Amber Fort-high", feed[0].ID)
	assert.Len(t, n.counts, 1)
}

func TestAlertMonitor_RulesDefaultAndUpdate(t *testing.T) {
	m, _, _ := newAlertMonitor(&fakeAlertSource{})
	ctx := context.Background()

	assert.Equal(t, domain.DefaultAlertRules(), m.Rules(ctx))

	want := domain.AlertRules{HotelHighOccupancy: 80, HotelLowOccupancy: 20}
	require.NoError(t, m.SetRules(ctx, want))
	assert.Equal(t, want, m.Rules(ctx))
}

func TestAlertMonitor_SetRulesRejectsInvertedMarks(t *testing.T) {
	m, _, _ := newAlertMonitor(&fakeAlertSource{})

	err := m.SetRules(context.Background(), domain.AlertRules{HotelHighOccupancy: 30, HotelLowOccupancy: 40})
	var v *domain.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Contains(t, v.Fields, "hotelLowOccupancy")
	assert.Equal(t, domain.DefaultAlertRules(), m.Rules(context.Background()))
}

func TestAlertMonitor_RulesChangeDiscardsInFlightCycle(t *testing.T) {
	src := &fakeAlertSource{
		stats: []domain.CityHotelStats{{City: "Jodhpur", TotalRooms: 100, TotalVacancy: 15}},
	}
	m, _, n := newAlertMonitor(src)
	ctx := context.Background()

	// 85% occupancy: no alert under the default 90 mark, an alert under 80.
	src.duringGet = func() {
		assert.NoError(t, m.SetRules(ctx, domain.AlertRules{HotelHighOccupancy: 80, HotelLowOccupancy: 20}))
	}
	require.NoError(t, m.Refresh(ctx))
	assert.Empty(t, n.counts)

	require.NoError(t, m.Refresh(ctx))
	feed, err := m.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "Jodhpur-hotel-high", feed[0].ID)
}

type fakeSeries struct {
	mu      sync.Mutex
	byPlace map[string][]domain.FootfallPoint
	calls   []Selection
	during  func()
}

func (f *fakeSeries) FootfallSeries(_ context.Context, city, place string) ([]domain.FootfallPoint, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Selection{City: city, Place: place})
	hook := f.during
	f.during = nil
	out := f.byPlace[place]
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func TestFootfallMonitor_PollWithoutSelectionIsNoop(t *testing.T) {
	src := &fakeSeries{}
	m := NewFootfallMonitor(src, time.Minute, clock.NewFake(epoch), quietLogger())

	require.NoError(t, m.Poll(context.Background()))
	assert.Empty(t, src.calls)
	assert.Empty(t, m.Live().Series)
	assert.Nil(t, m.Live().UpdatedAt)
}

func TestFootfallMonitor_PollStoresSeries(t *testing.T) {
	src := &fakeSeries{byPlace: map[string][]domain.FootfallPoint{
		"Amber Fort": {{Time: "10:00", Visitors: 1200}},
	}}
	fc := clock.NewFake(epoch)
	m := NewFootfallMonitor(src, time.Minute, fc, quietLogger())

	m.Select(Selection{City: " Jaipur ", Place: "Amber Fort"})
	require.NoError(t, m.Poll(context.Background()))

	live := m.Live()
	assert.Equal(t, Selection{City: "Jaipur", Place: "Amber Fort"}, live.Selection)
	assert.Equal(t, []domain.FootfallPoint{{Time: "10:00", Visitors: 1200}}, live.Series)
	require.NotNil(t, live.UpdatedAt)
	assert.True(t, epoch.Equal(*live.UpdatedAt))
}

func TestFootfallMonitor_SelectionChangeDropsStaleSeries(t *testing.T) {
	src := &fakeSeries{byPlace: map[string][]domain.FootfallPoint{
		"Amber Fort":  {{Time: "10:00", Visitors: 1200}},
		"City Palace": {{Time: "10:00", Visitors: 300}},
	}}
	m := NewFootfallMonitor(src, time.Minute, clock.NewFake(epoch), quietLogger())
	ctx := context.Background()

	m.Select(Selection{City: "Jaipur", Place: "Amber Fort"})
	src.during = func() { m.Select(Selection{City: "Udaipur", Place: "City Palace"}) }
	require.NoError(t, m.Poll(ctx))
	assert.Empty(t, m.Live().Series)

	require.NoError(t, m.Poll(ctx))
	assert.Equal(t, []domain.FootfallPoint{{Time: "10:00", Visitors: 300}}, m.Live().Series)
}

func TestFootfallMonitor_TaskPollsOnTick(t *testing.T) {
	src := &fakeSeries{byPlace: map[string][]domain.FootfallPoint{
		"Amber Fort": {{Time: "10:00", Visitors: 1}},
	}}
	fc := clock.NewFake(epoch)
	m := NewFootfallMonitor(src, 30*time.Second, fc, quietLogger())
	m.Select(Selection{City: "Jaipur", Place: "Amber Fort"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Stop()

	require.Eventually(t, func() bool { return fc.Tickers() == 1 && len(m.Live().Series) == 1 },
		time.Second, 5*time.Millisecond)

	src.mu.Lock()
	before := len(src.calls)
	src.mu.Unlock()

	fc.Advance(30 * time.Second)
	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return len(src.calls) > before
	}, time.Second, 5*time.Millisecond)
}
