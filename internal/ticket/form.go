// Package ticket books visits to a place. Each booking freezes the place's
// crowd tier and count at submit time and is sent to the backend once.
package ticket

import (
	"strings"

	"github.com/kirinyoku/tourdash/internal/domain"
)

type Form struct {
	TouristType domain.TouristType `json:"touristType"`
	Phone       string             `json:"phone"`
	CountryCode string             `json:"countryCode"`
	Visitors    int                `json:"visitors"`
	FromCity    string             `json:"fromCity"`
	Country     string             `json:"country"`
	City        string             `json:"city"`
	Place       string             `json:"place"`
}

// Validate collects every field problem. Domestic numbers are checked
// against +91 whatever code was sent.
func (f Form) Validate() error {
	var v domain.ValidationError

	switch f.TouristType {
	case domain.TouristDomestic:
		v.Add("phone", domain.CheckPhone(domain.IndiaCode, f.Phone))
		if strings.TrimSpace(f.FromCity) == "" {
			v.Add("fromCity", "From city is required")
		}
	case domain.TouristInternational:
		if _, ok := domain.LookupCountryCode(f.CountryCode); !ok {
			v.Add("countryCode", "Select a valid country code")
		} else {
			v.Add("phone", domain.CheckPhone(f.CountryCode, f.Phone))
		}
		if strings.TrimSpace(f.Country) == "" {
			v.Add("country", "Country is required")
		}
	default:
		v.Add("touristType", "Tourist type must be domestic or international")
	}

	if f.Visitors < 1 {
		v.Add("visitors", "At least one visitor is required")
	}
	if strings.TrimSpace(f.City) == "" {
		v.Add("city", "City is required")
	}
	if strings.TrimSpace(f.Place) == "" {
		v.Add("place", "Place is required")
	}

	return v.Err()
}

// normalized trims input and fixes the dialing code for domestic bookings.
func (f Form) normalized() Form {
	f.Phone = domain.Digits(f.Phone)
	f.CountryCode = strings.TrimSpace(f.CountryCode)
	f.FromCity = strings.TrimSpace(f.FromCity)
	f.Country = strings.TrimSpace(f.Country)
	f.City = strings.TrimSpace(f.City)
	f.Place = strings.TrimSpace(f.Place)
	if f.TouristType == domain.TouristDomestic {
		f.CountryCode = domain.IndiaCode
		f.Country = ""
	} else {
		f.FromCity = ""
	}
	return f
}
