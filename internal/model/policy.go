package model

// Policy is one insurance policy record, immutable once loaded.
type Policy struct {
	ID                string   `json:"id"`
	PolicyNumber      string   `json:"policy_number,omitempty"`
	PolicyType        string   `json:"policy_type,omitempty"`
	EffectiveDate     string   `json:"effective_date,omitempty"`
	ExpirationDate    string   `json:"expiration_date,omitempty"`
	Status            string   `json:"status,omitempty"`
	EndorsementAmount *float64 `json:"endorsement_amount,omitempty"`
	Address           string   `json:"address,omitempty"`
	City              string   `json:"city,omitempty"`
	State             string   `json:"state,omitempty"`
	PostalCode        string   `json:"postal_code,omitempty"`
	Country           string   `json:"country,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
}

// RecordID implements spec.Record.
func (p Policy) RecordID() string { return p.ID }

// StateCode implements spec.Record.
func (p Policy) StateCode() string { return p.State }

// StatusText implements spec.Record.
func (p Policy) StatusText() string { return p.Status }

// CategoryText implements spec.Record. Coverage queries match the policy type.
func (p Policy) CategoryText() string { return p.PolicyType }

// SearchText implements spec.Record.
func (p Policy) SearchText() string { return p.PolicyType }

// Value implements spec.Record.
func (p Policy) Value() (float64, bool) {
	if p.EndorsementAmount == nil {
		return 0, false
	}
	return *p.EndorsementAmount, true
}

// Coordinates implements spec.Record.
func (p Policy) Coordinates() (lat, lon float64, ok bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return 0, 0, false
	}
	return *p.Latitude, *p.Longitude, true
}

// OneLineAddress joins the address fields for geocoding.
func (p Policy) OneLineAddress() string {
	return joinAddress(p.Address, p.City, p.State, p.PostalCode)
}
