package domain

import "time"

// Represents a single scheduled flight segment.
// A Flight is immutable once loaded; the connection graph owns it for its lifetime.
type Flight struct {
	FlightNo    string
	Origin      string
	Destination string
	Departure   time.Time
	Arrival     time.Time
	BasePrice   float64
	BagPrice    float64
	BagsAllowed int
}

// Duration spent in the air for this segment.
func (f Flight) Duration() time.Duration { return f.Arrival.Sub(f.Departure) }
