// Package complaint files tourist complaints with an optional evidence
// attachment.
package complaint

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/kirinyoku/tourdash/internal/domain"
)

const (
	MaxAttachmentBytes = 5 << 20
	minDescriptionLen  = 30
	minNameLen         = 2
	incidentDateLayout = time.DateOnly
)

var (
	ComplaintTypes = []string{
		"Transport", "Hotel", "Guide", "Overcharging", "Misbehavior", "Safety", "Other",
	}

	allowedContentTypes = []string{"image/jpeg", "image/png", "image/jpg", "application/pdf"}

	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type Form struct {
	FullName      string             `json:"fullName" form:"fullName"`
	Nationality   domain.TouristType `json:"nationality" form:"nationality"`
	Country       string             `json:"country" form:"country"`
	CountryCode   string             `json:"countryCode" form:"countryCode"`
	State         string             `json:"state" form:"state"`
	Mobile        string             `json:"mobile" form:"mobile"`
	Email         string             `json:"email" form:"email"`
	ComplaintType string             `json:"complaintType" form:"complaintType"`
	Location      string             `json:"location" form:"location"`
	IncidentDate  string             `json:"incidentDate" form:"incidentDate"`
	Description   string             `json:"description" form:"description"`
	Consent       bool               `json:"consent" form:"consent"`
}

// Upload is an attachment as received from the client.
type Upload struct {
	FileName    string
	ContentType string
	Content     []byte
}

// normalized applies the nationality rules: domestic complaints always use
// +91 and carry no country, international ones carry no state.
func (f Form) normalized() Form {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Country = strings.TrimSpace(f.Country)
	f.State = strings.TrimSpace(f.State)
	f.Location = strings.TrimSpace(f.Location)
	f.IncidentDate = strings.TrimSpace(f.IncidentDate)
	f.CountryCode = strings.TrimSpace(f.CountryCode)

	switch f.Nationality {
	case domain.TouristDomestic:
		f.CountryCode = domain.IndiaCode
		f.Country = ""
	case domain.TouristInternational:
		f.State = ""
	}
	return f
}

// Validate checks the normalized form and the optional upload and returns
// every problem at once.
func Validate(f Form, up *Upload) error {
	f = f.normalized()

	var v domain.ValidationError

	if len([]rune(f.FullName)) < minNameLen {
		v.Add("fullName", "Full name must be at least 2 characters")
	}

	switch f.Nationality {
	case domain.TouristDomestic:
		if f.State == "" {
			v.Add("state", "State is required")
		}
	case domain.TouristInternational:
		if f.Country == "" {
			v.Add("country", "Country is required")
		}
		if _, ok := domain.LookupCountryCode(f.CountryCode); !ok {
			v.Add("countryCode", "Select a valid country code")
		}
	default:
		v.Add("nationality", "Nationality must be domestic or international")
	}

	v.Add("mobile", domain.CheckPhone(f.CountryCode, f.Mobile))

	if !emailRe.MatchString(f.Email) {
		v.Add("email", "Enter a valid email address")
	}
	if f.ComplaintType == "" {
		v.Add("complaintType", "Please select complaint type")
	} else if !slices.Contains(ComplaintTypes, f.ComplaintType) {
		v.Add("complaintType", "Unknown complaint type")
	}
	if f.Location == "" {
		v.Add("location", "Please select location")
	}
	if f.IncidentDate == "" {
		v.Add("incidentDate", "Please select incident date")
	} else if _, err := time.Parse(incidentDateLayout, f.IncidentDate); err != nil {
		v.Add("incidentDate", "Incident date must be YYYY-MM-DD")
	}
	if len([]rune(strings.TrimSpace(f.Description))) < minDescriptionLen {
		v.Add("description", "Description must be at least 30 characters")
	}
	if !f.Consent {
		v.Add("consent", "You must confirm the information is correct")
	}

	if up != nil {
		if !slices.Contains(allowedContentTypes, up.ContentType) {
			v.Add("attachment", "Please upload only JPG, PNG, or PDF files")
		} else if len(up.Content) > MaxAttachmentBytes {
			v.Add("attachment", "File size must be less than 5MB")
		}
	}

	return v.Err()
}
