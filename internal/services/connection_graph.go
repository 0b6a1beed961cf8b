package services

import (
	"encoding/binary"
	"flight-route-service/internal/domain"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Minimum gap between an arrival and the next departure.
const MinLayover = time.Hour

// ConnectionGraph indexes flight segments so legal successors of a segment
// can be answered without rescanning the whole flight set.
//
// Flights are stored in an arena and addressed by index. Successor lists hold
// indices into that arena. The graph is read-only after BuildConnectionGraph
// returns and is safe for concurrent use.
type ConnectionGraph struct {
	flights     []domain.Flight
	byOrigin    map[string][]int
	airports    map[string]struct{}
	successors  [][]int
	maxLayover  time.Duration
	fingerprint uint64
}

// BuildConnectionGraph groups flights by origin airport and precomputes, for
// every flight, the flights that can legally follow it.
//
// A connection A -> B is legal when A.Destination == B.Origin and
// MinLayover <= B.Departure - A.Arrival <= maxLayoverHours.
// Insertion order is preserved everywhere for deterministic search order.
func BuildConnectionGraph(flights []domain.Flight, maxLayoverHours int) *ConnectionGraph {
	g := &ConnectionGraph{
		flights:    make([]domain.Flight, len(flights)),
		byOrigin:   make(map[string][]int),
		airports:   make(map[string]struct{}),
		successors: make([][]int, len(flights)),
		maxLayover: time.Duration(maxLayoverHours) * time.Hour,
	}
	copy(g.flights, flights)

	for i, f := range g.flights {
		g.byOrigin[f.Origin] = append(g.byOrigin[f.Origin], i)
		g.airports[f.Origin] = struct{}{}
		g.airports[f.Destination] = struct{}{}
	}

	// Candidates come from the origin index, so only flights leaving the
	// arrival airport are tested against the layover window.
	for i, a := range g.flights {
		for _, j := range g.byOrigin[a.Destination] {
			if g.connects(a, g.flights[j]) {
				g.successors[i] = append(g.successors[i], j)
			}
		}
	}

	g.fingerprint = fingerprint(g.flights, maxLayoverHours)

	return g
}

func (g *ConnectionGraph) connects(a, b domain.Flight) bool {
	if a.Destination != b.Origin {
		return false
	}
	gap := b.Departure.Sub(a.Arrival)
	return gap >= MinLayover && gap <= g.maxLayover
}

// Flight returns the segment stored at index i.
func (g *ConnectionGraph) Flight(i int) domain.Flight { return g.flights[i] }

// Flights returns a copy of all segments in load order.
func (g *ConnectionGraph) Flights() []domain.Flight {
	out := make([]domain.Flight, len(g.flights))
	copy(out, g.flights)
	return out
}

func (g *ConnectionGraph) Len() int { return len(g.flights) }

// Neighbors returns the precomputed successor indices of flight i.
// The returned slice must not be modified.
func (g *ConnectionGraph) Neighbors(i int) []int {
	if i < 0 || i >= len(g.successors) {
		return nil
	}
	return g.successors[i]
}

// FlightsFrom returns indices of all flights departing airport, in load order.
// Unknown airports yield an empty result.
func (g *ConnectionGraph) FlightsFrom(airport string) []int {
	return g.byOrigin[airport]
}

// HasAirport reports whether airport appears as an origin or destination.
func (g *ConnectionGraph) HasAirport(airport string) bool {
	_, ok := g.airports[airport]
	return ok
}

func (g *ConnectionGraph) MaxLayover() time.Duration { return g.maxLayover }

// Fingerprint identifies the dataset and layover window the graph was built from.
// Result caches key on it so a reloaded dataset never serves stale itineraries.
func (g *ConnectionGraph) Fingerprint() uint64 { return g.fingerprint }

func fingerprint(flights []domain.Flight, maxLayoverHours int) uint64 {
	d := xxhash.New()
	var buf [8]byte

	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = d.Write(buf[:])
	}

	writeInt(int64(maxLayoverHours))
	for _, f := range flights {
		_, _ = d.WriteString(f.FlightNo)
		_, _ = d.WriteString(f.Origin)
		_, _ = d.WriteString(f.Destination)
		writeInt(f.Departure.Unix())
		writeInt(f.Arrival.Unix())
		writeInt(int64(math.Float64bits(f.BasePrice)))
		writeInt(int64(math.Float64bits(f.BagPrice)))
		writeInt(int64(f.BagsAllowed))
	}

	return d.Sum64()
}
