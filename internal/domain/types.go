package domain

import (
	"time"
)

type CrowdStatus string

const (
	CrowdLow      CrowdStatus = "Low"
	CrowdHigh     CrowdStatus = "High"
	CrowdCritical CrowdStatus = "Critical"
)

// Severity orders crowd tiers so callers can compare them.
func (s CrowdStatus) Severity() int {
	switch s {
	case CrowdCritical:
		return 2
	case CrowdHigh:
		return 1
	default:
		return 0
	}
}

type AlertType string

const (
	AlertNormal   AlertType = "Normal"
	AlertMedium   AlertType = "Medium"
	AlertHigh     AlertType = "High"
	AlertCritical AlertType = "Critical"
)

type TouristType string

const (
	TouristDomestic      TouristType = "domestic"
	TouristInternational TouristType = "international"
)

func (t TouristType) Valid() bool {
	return t == TouristDomestic || t == TouristInternational
}

type AdminSession struct {
	IsAdmin   bool      `json:"isAdmin"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ValidAt reports whether the session grants admin access at now.
func (s AdminSession) ValidAt(now time.Time) bool {
	return s.IsAdmin && now.Before(s.ExpiresAt)
}

type UserLocation struct {
	State    string `json:"state"`
	District string `json:"district"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Place struct {
	Name        string      `json:"name"`
	City        string      `json:"city"`
	District    string      `json:"district,omitempty"`
	CrowdCount  int64       `json:"crowdCount"`
	LastUpdated *time.Time  `json:"lastUpdated,omitempty"`
	CrowdStatus CrowdStatus `json:"crowdStatus,omitempty"`
}

type HotelRecord struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name"`
	City           string   `json:"city"`
	TotalRooms     int64    `json:"totalRooms"`
	Vacancy        int64    `json:"vacancy"`
	Rating         *float64 `json:"rating"`
	NearbyPlaces   []string `json:"nearbyPlaces,omitempty"`
	VacancyPercent float64  `json:"vacancyPercent"`
}

type CityHotelStats struct {
	City         string `json:"city"`
	TotalHotels  int64  `json:"totalHotels"`
	TotalRooms   int64  `json:"totalRooms"`
	TotalVacancy int64  `json:"totalVacancy"`
}

type Alert struct {
	ID          string    `json:"id"`
	Type        AlertType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
}

type AlertRules struct {
	HotelHighOccupancy float64 `json:"hotelHighOccupancy"`
	HotelLowOccupancy  float64 `json:"hotelLowOccupancy"`
}

func DefaultAlertRules() AlertRules {
	return AlertRules{HotelHighOccupancy: 90, HotelLowOccupancy: 35}
}

type DashboardStats struct {
	TotalFootfall         int64   `json:"totalFootfall"`
	DomesticVisitors      int64   `json:"domesticVisitors"`
	InternationalVisitors int64   `json:"internationalVisitors"`
	HotelOccupancy        float64 `json:"hotelOccupancy"`
}

type HourlyCrowd struct {
	Hour  int   `json:"hour"`
	Crowd int64 `json:"crowd"`
}

type PlaceCrowd struct {
	Place string `json:"place"`
	Crowd int64  `json:"crowd"`
}

type VisitInsights struct {
	BestTime       string `json:"bestTime"`
	BestSeason     string `json:"bestSeason"`
	Recommendation string `json:"recommendation"`
}

type FootfallPlace struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

type FootfallCity struct {
	City   string          `json:"city"`
	Places []FootfallPlace `json:"places"`
}

type FootfallPoint struct {
	Time     string `json:"time"`
	Visitors int64  `json:"visitors"`
}

type VisitorRecord struct {
	Time                  time.Time `json:"time"`
	TotalVisitors         int64     `json:"totalVisitors"`
	DomesticVisitors      int64     `json:"domesticVisitors"`
	InternationalVisitors int64     `json:"internationalVisitors"`
}

type VisitorLocationRecord struct {
	City string `json:"city"`
}

// TicketSubmission is the payload sent to the backend. CrowdStatus and
// CrowdCountAtBooking are a snapshot taken at submit time.
type TicketSubmission struct {
	TouristType         TouristType `json:"touristType"`
	Phone               string      `json:"phone"`
	CountryCode         string      `json:"countryCode,omitempty"`
	Visitors            int         `json:"visitors"`
	FromCity            string      `json:"fromCity,omitempty"`
	Country             string      `json:"country,omitempty"`
	State               string      `json:"state"`
	City                string      `json:"city"`
	Place               string      `json:"place"`
	CrowdStatus         CrowdStatus `json:"crowdStatus"`
	CrowdCountAtBooking int64       `json:"crowdCountAtBooking"`
}

type TicketReceipt struct {
	IdempotencyKey string           `json:"idempotencyKey"`
	Ticket         TicketSubmission `json:"ticket"`
	Message        string           `json:"message"`
	ShareURL       string           `json:"shareUrl"`
	SubmittedAt    time.Time        `json:"submittedAt"`
}

type Attachment struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type Complaint struct {
	ID            string      `json:"complaintId"`
	FullName      string      `json:"fullName"`
	Nationality   TouristType `json:"nationality"`
	Country       string      `json:"country,omitempty"`
	CountryCode   string      `json:"countryCode"`
	State         string      `json:"state,omitempty"`
	Mobile        string      `json:"mobile"`
	Email         string      `json:"email"`
	ComplaintType string      `json:"complaintType"`
	Location      string      `json:"location"`
	IncidentDate  time.Time   `json:"incidentDate"`
	Description   string      `json:"description"`
	Attachment    *Attachment `json:"attachment,omitempty"`
	SubmittedAt   time.Time   `json:"submittedAt"`
}
