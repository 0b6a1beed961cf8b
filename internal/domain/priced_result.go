package domain

import "time"

// Layout used when rendering segment timestamps.
const TimestampLayout = "2006-01-02T15:04:05"

// Represents one segment of a priced itinerary, ready for display.
type PricedSegment struct {
	FlightNo    string
	Origin      string
	Destination string
	Departure   string
	Arrival     string
	BasePrice   float64
	BagPrice    float64
	BagsAllowed int
}

// Represents the caller-facing projection of an Itinerary for a requested bag count.
// It is read-only data produced on demand by the pricing step.
type PricedResult struct {
	Flights     []PricedSegment
	Origin      string
	Destination string
	BagsAllowed int
	BagsCount   int
	TotalPrice  float64
	TravelTime  time.Duration
}
