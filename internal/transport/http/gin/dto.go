package httpgin

import (
	"time"

	"github.com/kirinyoku/tourdash/internal/domain"
)

// DetectLocationRequest carries the browser position. Denied, or missing
// coordinates, means the user refused geolocation.
type DetectLocationRequest struct {
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Denied bool     `json:"denied"`
}

func (r DetectLocationRequest) coordinates() *domain.Coordinates {
	if r.Denied || r.Lat == nil || r.Lon == nil {
		return nil
	}
	return &domain.Coordinates{Lat: *r.Lat, Lon: *r.Lon}
}

type TouristTypeRequest struct {
	TouristType domain.TouristType `json:"touristType" binding:"required"`
}

type TouristTypeResponse struct {
	TouristType domain.TouristType `json:"touristType,omitempty"`
	Set         bool               `json:"set"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SessionResponse struct {
	Valid     bool       `json:"valid"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type FootfallSelectionRequest struct {
	City  string `json:"city" binding:"required"`
	Place string `json:"place" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type SessionExpiredResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

type TicketResponse struct {
	Receipt  domain.TicketReceipt `json:"receipt"`
	Replayed bool                 `json:"replayed"`
}
