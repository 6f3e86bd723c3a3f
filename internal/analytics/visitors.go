package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/kirinyoku/tourdash/internal/domain"
)

type Segmentation struct {
	TotalVisitors         int64   `json:"totalVisitors"`
	DomesticVisitors      int64   `json:"domesticVisitors"`
	InternationalVisitors int64   `json:"internationalVisitors"`
	DomesticPct           float64 `json:"domesticPct"`
	InternationalPct      float64 `json:"internationalPct"`
}

type SeriesPoint struct {
	Label    string `json:"label"`
	Visitors int64  `json:"visitors"`
}

type RankedPlace struct {
	Name     string `json:"name"`
	Visitors int64  `json:"visitors"`
}

// Segment totals visitor records and splits them into domestic and
// international shares. Both shares are 0 when there are no visitors.
func Segment(records []domain.VisitorRecord) Segmentation {
	var s Segmentation
	for _, r := range records {
		s.TotalVisitors += r.TotalVisitors
		s.DomesticVisitors += r.DomesticVisitors
		s.InternationalVisitors += r.InternationalVisitors
	}
	if s.TotalVisitors > 0 {
		s.DomesticPct = round1(100 * float64(s.DomesticVisitors) / float64(s.TotalVisitors))
		s.InternationalPct = round1(100 * float64(s.InternationalVisitors) / float64(s.TotalVisitors))
	}
	return s
}

// VisitorSeries pairs each record's hour:minute label with its visitor
// count. Backend order is kept as-is; rows without a timestamp keep an
// empty label.
func VisitorSeries(records []domain.VisitorRecord, loc *time.Location) []SeriesPoint {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]SeriesPoint, len(records))
	for i, r := range records {
		out[i] = SeriesPoint{Visitors: r.TotalVisitors}
		if !r.Time.IsZero() {
			out[i].Label = r.Time.In(loc).Format("15:04")
		}
	}
	return out
}

// Cities lists distinct non-empty city names in first-seen order.
func Cities(records []domain.VisitorLocationRecord) []string {
	seen := make(map[string]struct{}, len(records))
	var out []string
	for _, r := range records {
		if r.City == "" {
			continue
		}
		if _, ok := seen[r.City]; ok {
			continue
		}
		seen[r.City] = struct{}{}
		out = append(out, r.City)
	}
	return out
}

// TopCrowded ranks places by total footfall, busiest first. Ties keep
// backend order.
func TopCrowded(places []domain.FootfallPlace) []RankedPlace {
	sorted := slices.Clone(places)
	slices.SortStableFunc(sorted, func(a, b domain.FootfallPlace) int {
		return cmp.Compare(b.Total, a.Total)
	})

	out := make([]RankedPlace, len(sorted))
	for i, p := range sorted {
		out[i] = RankedPlace{Name: p.Name, Visitors: p.Total}
	}
	return out
}

// HourlyLabels turns hour buckets into "HH:00" chart labels.
func HourlyLabels(rows []domain.HourlyCrowd) []SeriesPoint {
	out := make([]SeriesPoint, len(rows))
	for i, r := range rows {
		out[i] = SeriesPoint{Label: fmt.Sprintf("%02d:00", r.Hour), Visitors: r.Crowd}
	}
	return out
}

// BusiestStatus classifies the busiest entry of a crowd summary.
func BusiestStatus(summary []domain.PlaceCrowd, t Thresholds) domain.CrowdStatus {
	var peak int64
	for _, p := range summary {
		peak = max(peak, p.Crowd)
	}
	return t.Classify(peak)
}
