// Package analytics holds the pure calculators behind every dashboard view:
// crowd tiers, alerts, hotel occupancy and visitor segmentation. Nothing here
// performs I/O or reads the clock.
package analytics

import (
	"github.com/kirinyoku/tourdash/internal/domain"
)

const (
	DefaultHighThreshold     int64 = 15000
	DefaultCriticalThreshold int64 = 25000

	// heatScale is the crowd count that saturates a heatmap point.
	heatScale = 30000.0
)

// Thresholds is the canonical crowd severity table.
type Thresholds struct {
	High     int64 `json:"high"`
	Critical int64 `json:"critical"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{High: DefaultHighThreshold, Critical: DefaultCriticalThreshold}
}

// Normalize fills missing values with the defaults and keeps
// High <= Critical so Classify stays monotonic.
func (t Thresholds) Normalize() Thresholds {
	if t.High <= 0 {
		t.High = DefaultHighThreshold
	}
	if t.Critical <= 0 {
		t.Critical = DefaultCriticalThreshold
	}
	if t.Critical < t.High {
		t.Critical = t.High
	}
	return t
}

// Classify maps a crowd count to its tier: Critical at or above
// t.Critical, High at or above t.High, Low otherwise.
func (t Thresholds) Classify(crowdCount int64) domain.CrowdStatus {
	switch {
	case crowdCount >= t.Critical:
		return domain.CrowdCritical
	case crowdCount >= t.High:
		return domain.CrowdHigh
	default:
		return domain.CrowdLow
	}
}

// Annotate returns a copy of places with CrowdStatus filled in.
func (t Thresholds) Annotate(places []domain.Place) []domain.Place {
	out := make([]domain.Place, len(places))
	for i, p := range places {
		p.CrowdStatus = t.Classify(p.CrowdCount)
		out[i] = p
	}
	return out
}

// Intensity normalizes a crowd count into a heat weight in [0, 1].
func Intensity(crowdCount int64) float64 {
	if crowdCount <= 0 {
		return 0
	}
	v := float64(crowdCount) / heatScale
	if v > 1 {
		return 1
	}
	return v
}

type HeatPoint struct {
	Place     string  `json:"place"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Intensity float64 `json:"intensity"`
}

var cityCoords = map[string]domain.Coordinates{
	"Jaipur":  {Lat: 26.9124, Lon: 75.7873},
	"Udaipur": {Lat: 24.5854, Lon: 73.7125},
	"Jodhpur": {Lat: 26.2389, Lon: 73.0243},
	"Ajmer":   {Lat: 26.4499, Lon: 74.6399},
	"Bikaner": {Lat: 28.0229, Lon: 73.3119},
}

// HeatPoints places every crowd record on a known city (falling back to
// its district). Records in unknown cities are dropped.
func HeatPoints(places []domain.Place) []HeatPoint {
	out := make([]HeatPoint, 0, len(places))
	for _, p := range places {
		c, ok := cityCoords[p.City]
		if !ok {
			c, ok = cityCoords[p.District]
		}
		if !ok {
			continue
		}
		out = append(out, HeatPoint{
			Place:     p.Name,
			Lat:       c.Lat,
			Lng:       c.Lon,
			Intensity: Intensity(p.CrowdCount),
		})
	}
	return out
}
