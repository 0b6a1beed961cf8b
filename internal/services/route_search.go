package services

import (
	"context"
	"flight-route-service/internal/domain"
	"fmt"
	"iter"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

// RouteQuery describes one directional search.
type RouteQuery struct {
	Origin      string
	Destination string
	MinBags     int
	// Optional lower bound on the first segment's departure.
	EarliestDeparture *time.Time
}

// partialPath is one frontier entry: the itinerary so far and the arena
// index of its last segment, used to look up successors.
type partialPath struct {
	last      int
	itinerary domain.Itinerary
}

// RouteSearch enumerates itineraries over a ConnectionGraph.
// It holds no per-search state, so one value can serve concurrent callers.
type RouteSearch struct {
	graph   *ConnectionGraph
	workers int
}

func NewRouteSearch(graph *ConnectionGraph, workers int) *RouteSearch {
	if workers < 1 {
		workers = 1
	}
	return &RouteSearch{graph: graph, workers: workers}
}

func (s *RouteSearch) Graph() *ConnectionGraph { return s.graph }

// Search walks the graph breadth-first from q.Origin and yields every
// itinerary that ends at q.Destination.
//
// The frontier is a FIFO queue seeded with one single-segment path per flight
// leaving the origin that carries at least MinBags bags and departs no
// earlier than EarliestDeparture. A path that reaches the destination is
// yielded and not extended further. A path is extended with a successor only
// if the successor carries at least MinBags bags and lands on an airport the
// path has not visited.
//
// The returned sequence is finite and restartable: each range over it runs a
// fresh traversal. Unknown airports yield nothing.
func (s *RouteSearch) Search(q RouteQuery) iter.Seq[domain.Itinerary] {
	return func(yield func(domain.Itinerary) bool) {
		if !s.graph.HasAirport(q.Origin) || !s.graph.HasAirport(q.Destination) {
			return
		}

		queue := s.seed(q)
		for len(queue) > 0 {
			p := queue[0]
			queue[0] = partialPath{}
			queue = queue[1:]

			if p.itinerary.Destination() == q.Destination {
				if !yield(p.itinerary) {
					return
				}
				continue
			}

			for _, n := range s.graph.Neighbors(p.last) {
				next := s.graph.Flight(n)
				if next.BagsAllowed < q.MinBags || !p.itinerary.IsExtensionValid(next) {
					continue
				}
				queue = append(queue, partialPath{last: n, itinerary: p.itinerary.Extend(next)})
			}
		}
	}
}

func (s *RouteSearch) seed(q RouteQuery) []partialPath {
	starts := s.graph.FlightsFrom(q.Origin)
	queue := make([]partialPath, 0, len(starts))

	for _, i := range starts {
		f := s.graph.Flight(i)
		if f.BagsAllowed < q.MinBags {
			continue
		}
		if q.EarliestDeparture != nil && f.Departure.Before(*q.EarliestDeparture) {
			continue
		}
		queue = append(queue, partialPath{last: i, itinerary: domain.NewItinerary(f)})
	}

	return queue
}

// Minimum gap between outbound arrival and return departure.
// Zero stay days means "at least MinLayover".
func ReturnGap(stayDays int) time.Duration {
	if stayDays <= 0 {
		return MinLayover
	}
	return time.Duration(stayDays) * 24 * time.Hour
}

// RoundTrips pairs every outbound itinerary origin -> destination with every
// return itinerary destination -> origin whose first departure is at least
// gap after the outbound's last arrival.
//
// Return searches run concurrently, bounded by the configured worker count.
// The result keeps outbound order, then return order within each outbound.
// Identical concatenations are not collapsed.
func (s *RouteSearch) RoundTrips(
	ctx context.Context,
	origin string,
	destination string,
	minBags int,
	gap time.Duration,
) ([]domain.Itinerary, error) {
	outbound := slices.Collect(s.Search(RouteQuery{
		Origin:      origin,
		Destination: destination,
		MinBags:     minBags,
	}))
	if len(outbound) == 0 {
		return []domain.Itinerary{}, nil
	}

	perOutbound := make([][]domain.Itinerary, len(outbound))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, out := range outbound {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("round trips: return search from %q: %w", destination, err)
			}

			earliest := out.LastSegment().Arrival.Add(gap)
			q := RouteQuery{
				Origin:            destination,
				Destination:       origin,
				MinBags:           minBags,
				EarliestDeparture: &earliest,
			}

			var trips []domain.Itinerary
			for back := range s.Search(q) {
				if err := gctx.Err(); err != nil {
					return fmt.Errorf("round trips: return search from %q: %w", destination, err)
				}
				trips = append(trips, out.Concat(back))
			}
			perOutbound[i] = trips
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, trips := range perOutbound {
		total += len(trips)
	}

	all := make([]domain.Itinerary, 0, total)
	for _, trips := range perOutbound {
		all = append(all, trips...)
	}

	return all, nil
}
