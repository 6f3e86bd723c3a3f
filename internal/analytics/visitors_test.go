package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kirinyoku/tourdash/internal/domain"
)

func TestSegment(t *testing.T) {
	records := []domain.VisitorRecord{
		{TotalVisitors: 100, DomesticVisitors: 70, InternationalVisitors: 30},
		{TotalVisitors: 200, DomesticVisitors: 130, InternationalVisitors: 70},
	}

	s := Segment(records)

	assert.Equal(t, int64(300), s.TotalVisitors)
	assert.Equal(t, 66.7, s.DomesticPct)
	assert.Equal(t, 33.3, s.InternationalPct)
	assert.InDelta(t, 100, s.DomesticPct+s.InternationalPct, 0.1)
}

func TestSegmentEmpty(t *testing.T) {
	s := Segment(nil)

	assert.Zero(t, s.DomesticPct)
	assert.Zero(t, s.InternationalPct)
}

func TestSegmentSharesSumToHundred(t *testing.T) {
	for total := int64(1); total <= 97; total += 3 {
		for dom := int64(0); dom <= total; dom += 7 {
			s := Segment([]domain.VisitorRecord{{
				TotalVisitors:         total,
				DomesticVisitors:      dom,
				InternationalVisitors: total - dom,
			}})
			assert.InDelta(t, 100, s.DomesticPct+s.InternationalPct, 0.11, "total=%d dom=%d", total, dom)
		}
	}
}

func TestVisitorSeriesKeepsOrder(t *testing.T) {
	base := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	records := []domain.VisitorRecord{
		{Time: base.Add(30 * time.Minute), TotalVisitors: 5},
		{Time: base, TotalVisitors: 7},
	}

	got := VisitorSeries(records, nil)

	assert.Equal(t, []SeriesPoint{{Label: "09:30", Visitors: 5}, {Label: "09:00", Visitors: 7}}, got)
}

func TestVisitorSeriesUntimedRow(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	records := []domain.VisitorRecord{
		{Time: time.Date(2026, 1, 2, 4, 0, 0, 0, time.UTC), TotalVisitors: 5},
		{TotalVisitors: 11},
	}

	got := VisitorSeries(records, ist)

	assert.Equal(t, []SeriesPoint{{Label: "09:30", Visitors: 5}, {Label: "", Visitors: 11}}, got)
}

func TestCities(t *testing.T) {
	got := Cities([]domain.VisitorLocationRecord{{City: "Jaipur"}, {City: ""}, {City: "Ajmer"}, {City: "Jaipur"}})

	assert.Equal(t, []string{"Jaipur", "Ajmer"}, got)
}

func TestTopCrowded(t *testing.T) {
	got := TopCrowded([]domain.FootfallPlace{{Name: "a", Total: 1}, {Name: "b", Total: 9}, {Name: "c", Total: 1}})

	assert.Equal(t, []RankedPlace{{Name: "b", Visitors: 9}, {Name: "a", Visitors: 1}, {Name: "c", Visitors: 1}}, got)
}

func TestHourlyLabelsAndBusiest(t *testing.T) {
	assert.Equal(t, []SeriesPoint{{Label: "07:00", Visitors: 3}}, HourlyLabels([]domain.HourlyCrowd{{Hour: 7, Crowd: 3}}))

	status := BusiestStatus([]domain.PlaceCrowd{{Crowd: 100}, {Crowd: 16000}}, DefaultThresholds())
	assert.Equal(t, domain.CrowdHigh, status)
}
