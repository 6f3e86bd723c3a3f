package analytics

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kirinyoku/tourdash/internal/domain"
)

const statewideLabel = "Statewide"

var printer = message.NewPrinter(language.English)

// GenerateAlerts emits one alert per place at or above the High tier, in
// input order. When no place qualifies it returns exactly one Normal alert
// located at label.
func GenerateAlerts(places []domain.Place, label string, t Thresholds) []domain.Alert {
	if len(places) == 0 {
		return []domain.Alert{{
			ID:          "normal",
			Type:        domain.AlertNormal,
			Title:       "All Clear",
			Description: "No abnormal crowd levels detected",
			Location:    label,
		}}
	}

	alerts := make([]domain.Alert, 0, len(places))
	for _, p := range places {
		switch t.Classify(p.CrowdCount) {
		case domain.CrowdCritical:
			alerts = append(alerts, domain.Alert{
				ID:          p.Name + "-critical",
				Type:        domain.AlertCritical,
				Title:       "High Footfall Alert",
				Description: printer.Sprintf("%s is highly crowded (%d visitors)", p.Name, p.CrowdCount),
				Location:    p.City,
			})
		case domain.CrowdHigh:
			alerts = append(alerts, domain.Alert{
				ID:          p.Name + "-high",
				Type:        domain.AlertHigh,
				Title:       "Crowd Warning",
				Description: printer.Sprintf("%s is getting crowded (%d visitors)", p.Name, p.CrowdCount),
				Location:    p.City,
			})
		}
	}

	if len(alerts) == 0 {
		alerts = append(alerts, domain.Alert{
			ID:          "normal",
			Type:        domain.AlertNormal,
			Title:       "Crowd Status Normal",
			Description: "Crowd levels are comfortable for visiting",
			Location:    label,
		})
	}

	return alerts
}

// AlertLabel picks the location a Normal alert refers to.
func AlertLabel(search string, loc domain.UserLocation, defaultState string) string {
	for _, s := range []string{search, loc.District, loc.State} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return defaultState
}

// GenerateHotelAlerts flags cities whose occupancy crosses the configured
// high or low marks. Cities without rooms are skipped.
func GenerateHotelAlerts(stats []domain.CityHotelStats, rules domain.AlertRules) []domain.Alert {
	var alerts []domain.Alert
	for _, s := range stats {
		if s.TotalRooms <= 0 {
			continue
		}
		rate := OccupancyRate(s.TotalRooms-s.TotalVacancy, s.TotalRooms)
		switch {
		case rate >= rules.HotelHighOccupancy:
			alerts = append(alerts, domain.Alert{
				ID:          s.City + "-hotel-high",
				Type:        domain.AlertHigh,
				Title:       "Hotel Overbooking",
				Description: printer.Sprintf("%s City – %.0f%% rooms occupied", s.City, rate),
				Location:    s.City,
			})
		case rate <= rules.HotelLowOccupancy:
			alerts = append(alerts, domain.Alert{
				ID:          s.City + "-hotel-low",
				Type:        domain.AlertMedium,
				Title:       "Low Occupancy Warning",
				Description: printer.Sprintf("%s Hotels – %.0f%% occupancy", s.City, rate),
				Location:    s.City,
			})
		}
	}
	return alerts
}

// MergeAlerts joins alert groups, dropping Normal placeholders once any
// real alert exists. An empty result becomes a single statewide Normal.
func MergeAlerts(groups ...[]domain.Alert) []domain.Alert {
	var out []domain.Alert
	for _, g := range groups {
		for _, a := range g {
			if a.Type != domain.AlertNormal {
				out = append(out, a)
			}
		}
	}

	if len(out) == 0 {
		return []domain.Alert{{
			ID:          "normal",
			Type:        domain.AlertNormal,
			Title:       "All Systems Normal",
			Description: "No abnormal crowd or hotel load detected",
			Location:    statewideLabel,
		}}
	}

	return out
}
