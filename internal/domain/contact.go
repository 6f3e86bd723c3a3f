package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

const IndiaCode = "+91"

type CountryCode struct {
	Code    string `json:"code"`
	Country string `json:"country"`
	Digits  int    `json:"digits"`
}

// CountryCodes is the dialing table used to check phone lengths.
var CountryCodes = []CountryCode{
	{"+91", "India", 10},
	{"+1", "USA/Canada", 10},
	{"+44", "UK", 10},
	{"+61", "Australia", 9},
	{"+81", "Japan", 10},
	{"+86", "China", 11},
	{"+33", "France", 9},
	{"+49", "Germany", 11},
	{"+39", "Italy", 10},
	{"+34", "Spain", 9},
	{"+7", "Russia", 10},
	{"+55", "Brazil", 11},
	{"+27", "South Africa", 9},
	{"+971", "UAE", 9},
	{"+65", "Singapore", 8},
	{"+60", "Malaysia", 10},
	{"+66", "Thailand", 9},
	{"+82", "South Korea", 10},
	{"+52", "Mexico", 10},
	{"+54", "Argentina", 10},
}

// LookupCountryCode finds a dialing code in CountryCodes.
func LookupCountryCode(code string) (CountryCode, bool) {
	code = strings.TrimSpace(code)
	for _, c := range CountryCodes {
		if c.Code == code {
			return c, true
		}
	}
	return CountryCode{}, false
}

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CheckPhone validates a phone number for a dialing code and returns a
// field message, or "" when the number is acceptable.
func CheckPhone(code, phone string) string {
	digits := Digits(phone)
	if digits == "" {
		return "Mobile number is required"
	}

	expected := 10
	if c, ok := LookupCountryCode(code); ok {
		expected = c.Digits
	}
	if len(digits) != expected {
		return fmt.Sprintf("Mobile number must be exactly %d digits for %s", expected, code)
	}
	if code == IndiaCode && !strings.ContainsAny(digits[:1], "6789") {
		return "Indian mobile number must start with 6, 7, 8, or 9"
	}
	return ""
}

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless msg is empty.
func (e *ValidationError) Add(field, msg string) {
	if msg == "" {
		return
	}
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

// Err returns e when it holds any field, nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
