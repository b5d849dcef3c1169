package domain

import "time"

type Destination struct {
	ID                  int64
	Name                string
	City                string
	Country             string
	Stadium             string
	League              string
	AirportCode         string
	Active              bool
	LastFlightCheck     *time.Time
	AvgFlightPriceCents *int64
	Currency            string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (d *Destination) HasAirport() bool {
	return d.AirportCode != ""
}

// HasPrice reports whether a flight price was ever recorded.
func (d *Destination) HasPrice() bool {
	return d.AvgFlightPriceCents != nil && d.LastFlightCheck != nil
}

// IsFresh reports whether the cached price was checked within window of now.
func (d *Destination) IsFresh(now time.Time, window time.Duration) bool {
	if !d.HasPrice() {
		return false
	}
	return now.Sub(*d.LastFlightCheck) < window
}

// FlightPriceQuote is a normalised round-trip price for one destination airport.
// PriceCents is per person.
type FlightPriceQuote struct {
	AirportCode string     `json:"airport_code"`
	PriceCents  int64      `json:"price_cents"`
	Currency    string     `json:"currency"`
	DepartDate  time.Time  `json:"depart_date"`
	ReturnDate  *time.Time `json:"return_date,omitempty"`
	Travelers   int        `json:"travelers"`
	Offers      int        `json:"offers"`
}
