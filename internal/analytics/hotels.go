package analytics

import (
	"math"
	"strings"

	"github.com/kirinyoku/tourdash/internal/domain"
)

// minAvailableVacancy is the vacancy percentage a hotel needs to count as
// available.
const minAvailableVacancy = 20.0

type HotelSummary struct {
	TotalHotels   int64   `json:"totalHotels"`
	TotalRooms    int64   `json:"totalRooms"`
	TotalVacancy  int64   `json:"totalVacancy"`
	Occupied      int64   `json:"occupied"`
	OccupancyRate float64 `json:"occupancyRate"`
}

type CityCapacity struct {
	City     string `json:"city"`
	Capacity int64  `json:"capacity"`
	Occupied int64  `json:"occupied"`
}

type CitySummary struct {
	City string `json:"city"`
	HotelSummary
}

// OccupancyRate is 100*occupied/total rounded to one decimal, or 0 when
// there are no rooms.
func OccupancyRate(occupied, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return round1(100 * float64(occupied) / float64(total))
}

// Aggregate sums a list of hotel records.
func Aggregate(hotels []domain.HotelRecord) HotelSummary {
	var s HotelSummary
	for _, h := range hotels {
		s.TotalHotels++
		s.TotalRooms += h.TotalRooms
		s.TotalVacancy += h.Vacancy
	}
	s.Occupied = s.TotalRooms - s.TotalVacancy
	s.OccupancyRate = OccupancyRate(s.Occupied, s.TotalRooms)
	return s
}

// GroupByCity aggregates hotels per city, keeping first-seen city order.
func GroupByCity(hotels []domain.HotelRecord) []domain.CityHotelStats {
	idx := make(map[string]int)
	var out []domain.CityHotelStats
	for _, h := range hotels {
		i, ok := idx[h.City]
		if !ok {
			i = len(out)
			idx[h.City] = i
			out = append(out, domain.CityHotelStats{City: h.City})
		}
		out[i].TotalHotels++
		out[i].TotalRooms += h.TotalRooms
		out[i].TotalVacancy += h.Vacancy
	}
	return out
}

// AggregateCities applies the hotel formula to pre-grouped city rows and
// returns the overall summary, one summary per city and the capacity
// tuples used by comparison charts.
func AggregateCities(stats []domain.CityHotelStats) (HotelSummary, []CitySummary, []CityCapacity) {
	var total HotelSummary
	cities := make([]CitySummary, 0, len(stats))
	chart := make([]CityCapacity, 0, len(stats))

	for _, c := range stats {
		occupied := c.TotalRooms - c.TotalVacancy

		total.TotalHotels += c.TotalHotels
		total.TotalRooms += c.TotalRooms
		total.TotalVacancy += c.TotalVacancy

		cities = append(cities, CitySummary{
			City: c.City,
			HotelSummary: HotelSummary{
				TotalHotels:   c.TotalHotels,
				TotalRooms:    c.TotalRooms,
				TotalVacancy:  c.TotalVacancy,
				Occupied:      occupied,
				OccupancyRate: OccupancyRate(occupied, c.TotalRooms),
			},
		})
		chart = append(chart, CityCapacity{City: c.City, Capacity: c.TotalRooms, Occupied: occupied})
	}

	total.Occupied = total.TotalRooms - total.TotalVacancy
	total.OccupancyRate = OccupancyRate(total.Occupied, total.TotalRooms)

	return total, cities, chart
}

func VacancyPercent(h domain.HotelRecord) float64 {
	if h.TotalRooms <= 0 {
		return 0
	}
	return 100 * float64(h.Vacancy) / float64(h.TotalRooms)
}

// WithVacancy fills VacancyPercent, rounded to a whole percent for display.
func WithVacancy(hotels []domain.HotelRecord) []domain.HotelRecord {
	out := make([]domain.HotelRecord, len(hotels))
	for i, h := range hotels {
		h.VacancyPercent = math.Round(VacancyPercent(h))
		out[i] = h
	}
	return out
}

// FilterHotels keeps hotels whose city or a nearby place contains search
// (case insensitive). With onlyAvailable, hotels under 20% vacancy are
// dropped.
func FilterHotels(hotels []domain.HotelRecord, search string, onlyAvailable bool) []domain.HotelRecord {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.HotelRecord, 0, len(hotels))
	for _, h := range hotels {
		if onlyAvailable && VacancyPercent(h) < minAvailableVacancy {
			continue
		}
		if q != "" && !hotelMatches(h, q) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func hotelMatches(h domain.HotelRecord, q string) bool {
	if strings.Contains(strings.ToLower(h.City), q) {
		return true
	}
	for _, p := range h.NearbyPlaces {
		if strings.Contains(strings.ToLower(p), q) {
			return true
		}
	}
	return false
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
