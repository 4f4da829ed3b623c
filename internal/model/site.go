// Package model defines the record types served by the record sources:
// contamination sites and insurance policies, plus the scoring result types.
package model

import "strings"

// Site is one contamination site record. Sites are loaded once per process
// and treated as an immutable snapshot; filters copy, they never mutate.
type Site struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	PollutionClass    string   `json:"pollution_class,omitempty"`
	PollutionType     string   `json:"pollution_type,omitempty"`
	RemediationStatus string   `json:"remediation_status,omitempty"`
	RemediationStart  string   `json:"remediation_start,omitempty"`
	RemediationFinish string   `json:"remediation_finish,omitempty"`
	Contaminants      string   `json:"contaminants,omitempty"`
	Address           string   `json:"address,omitempty"`
	City              string   `json:"city,omitempty"`
	StateProvince     string   `json:"state_province,omitempty"`
	PostalCode        string   `json:"postal_code,omitempty"`
	Country           string   `json:"country,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
}

// RecordID implements spec.Record.
func (s Site) RecordID() string { return s.ID }

// StateCode implements spec.Record.
func (s Site) StateCode() string { return s.StateProvince }

// StatusText implements spec.Record.
func (s Site) StatusText() string { return s.RemediationStatus }

// CategoryText implements spec.Record.
func (s Site) CategoryText() string { return s.PollutionType }

// SearchText implements spec.Record. Contaminant queries match against the
// free-text contaminant list; sites without one fall back to pollution type.
func (s Site) SearchText() string {
	if strings.TrimSpace(s.Contaminants) != "" {
		return s.Contaminants
	}
	return s.PollutionType
}

// Value implements spec.Record. Sites carry no monetary value.
func (s Site) Value() (float64, bool) { return 0, false }

// Coordinates implements spec.Record. ok is false when either coordinate is
// missing; the radius predicate treats such records as non-matching.
func (s Site) Coordinates() (lat, lon float64, ok bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return 0, 0, false
	}
	return *s.Latitude, *s.Longitude, true
}

// OneLineAddress joins the address fields for geocoding.
func (s Site) OneLineAddress() string {
	return joinAddress(s.Address, s.City, s.StateProvince, s.PostalCode)
}

func joinAddress(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
