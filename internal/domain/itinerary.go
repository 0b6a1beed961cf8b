package domain

import "time"

// Represents one complete journey made of connected flight segments.
//
// An Itinerary is built by route search, one segment at a time, and is never
// mutated afterwards: Extend and Concat return new values that do not share
// their backing array with the receiver. Within a single leg no airport is
// visited twice; a round trip made with Concat revisits the origin.
type Itinerary struct {
	segments   []Flight
	travelTime time.Duration
}

// Start an itinerary with its first segment.
func NewItinerary(first Flight) Itinerary {
	return Itinerary{
		segments:   []Flight{first},
		travelTime: first.Arrival.Sub(first.Departure),
	}
}

// IsExtensionValid reports whether appending candidate keeps every airport unique.
// Both origins and destinations of existing segments count as visited.
func (it Itinerary) IsExtensionValid(candidate Flight) bool {
	for _, s := range it.segments {
		if s.Origin == candidate.Destination || s.Destination == candidate.Destination {
			return false
		}
	}
	return true
}

// Extend returns a new itinerary with next appended.
// The caller is responsible for checking the connection and IsExtensionValid first.
func (it Itinerary) Extend(next Flight) Itinerary {
	segments := make([]Flight, len(it.segments), len(it.segments)+1)
	copy(segments, it.segments)
	segments = append(segments, next)

	return Itinerary{
		segments:   segments,
		travelTime: next.Arrival.Sub(segments[0].Departure),
	}
}

// Concat joins an outbound and a return itinerary into one round trip.
// The no-repeat rule is not checked across the boundary.
func (it Itinerary) Concat(other Itinerary) Itinerary {
	segments := make([]Flight, 0, len(it.segments)+len(other.segments))
	segments = append(segments, it.segments...)
	segments = append(segments, other.segments...)

	return Itinerary{
		segments:   segments,
		travelTime: it.travelTime + other.travelTime,
	}
}

func (it Itinerary) Origin() string      { return it.segments[0].Origin }
func (it Itinerary) Destination() string { return it.LastSegment().Destination }
func (it Itinerary) LastSegment() Flight { return it.segments[len(it.segments)-1] }
func (it Itinerary) Len() int            { return len(it.segments) }

// Segments returns a copy of the ordered segments.
func (it Itinerary) Segments() []Flight {
	out := make([]Flight, len(it.segments))
	copy(out, it.segments)
	return out
}

// TravelTime is last arrival minus first departure for a single leg,
// and the sum of both legs for a round trip.
func (it Itinerary) TravelTime() time.Duration { return it.travelTime }

// BagsAllowed is the smallest bag capacity across all segments.
func (it Itinerary) BagsAllowed() int {
	lowest := it.segments[0].BagsAllowed
	for _, s := range it.segments[1:] {
		if s.BagsAllowed < lowest {
			lowest = s.BagsAllowed
		}
	}
	return lowest
}
