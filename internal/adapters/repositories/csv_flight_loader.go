package repositories

import (
	"context"
	"encoding/csv"
	"errors"
	"flight-route-service/internal/domain"
	"flight-route-service/internal/platform/obs"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Expected CSV header, in order.
var FlightColumns = []string{
	"flight_no",
	"origin",
	"destination",
	"departure",
	"arrival",
	"base_price",
	"bag_price",
	"bags_allowed",
}

var (
	ErrInvalidHeader = errors.New("invalid csv header")

	flightNoRe = regexp.MustCompile(`^[A-Z]{2}[0-9]{3}$`)
	airportRe  = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ValidationError describes the first malformed value in a flight file.
// Line is 1-based and counts the header.
type ValidationError struct {
	Line   int
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s %q: %s", e.Line, e.Field, e.Value, e.Reason)
}

// ParseFlightsCSV reads and validates flight records.
//
// The header must match FlightColumns exactly. Every row must have a flight
// number like "AB123", three-letter airport codes, timestamps in
// YYYY-mm-ddTHH:MM:SS, non-negative prices and bag counts, and an arrival
// after its departure. The first violation aborts the load.
func ParseFlightsCSV(r io.Reader) ([]domain.Flight, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse flights: %w: file is empty", ErrInvalidHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("parse flights: read header: %w", err)
	}

	if len(header) != len(FlightColumns) {
		return nil, fmt.Errorf("parse flights: %w: got %d columns, want %s", ErrInvalidHeader, len(header), strings.Join(FlightColumns, ","))
	}
	for i, col := range FlightColumns {
		got := strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
		if got != col {
			return nil, fmt.Errorf("parse flights: %w: column %q should be %q", ErrInvalidHeader, got, col)
		}
	}

	flights := make([]domain.Flight, 0, 64)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("parse flights: read line %d: %w", line, err)
		}
		if len(record) != len(FlightColumns) {
			return nil, fmt.Errorf("parse flights: line %d: got %d fields, want %d", line, len(record), len(FlightColumns))
		}

		f, err := parseFlightRecord(line, record)
		if err != nil {
			return nil, fmt.Errorf("parse flights: %w", err)
		}
		flights = append(flights, f)
	}

	return flights, nil
}

func parseFlightRecord(line int, record []string) (domain.Flight, error) {
	get := func(i int) string { return strings.TrimSpace(record[i]) }
	invalid := func(field, value, reason string) error {
		return &ValidationError{Line: line, Field: field, Value: value, Reason: reason}
	}

	departure, err := time.Parse(domain.TimestampLayout, get(3))
	if err != nil {
		return domain.Flight{}, invalid("departure", get(3), "expected YYYY-mm-ddTHH:MM:SS")
	}
	arrival, err := time.Parse(domain.TimestampLayout, get(4))
	if err != nil {
		return domain.Flight{}, invalid("arrival", get(4), "expected YYYY-mm-ddTHH:MM:SS")
	}

	basePrice, err := cast.ToFloat64E(get(5))
	if err != nil {
		return domain.Flight{}, invalid("base_price", get(5), "expected a non-negative number")
	}
	bagPrice, err := cast.ToFloat64E(get(6))
	if err != nil {
		return domain.Flight{}, invalid("bag_price", get(6), "expected a non-negative number")
	}
	// Plain decimal integers only.
	bags, err := strconv.Atoi(get(7))
	if err != nil {
		return domain.Flight{}, invalid("bags_allowed", get(7), "expected a non-negative integer")
	}

	f := domain.Flight{
		FlightNo:    get(0),
		Origin:      get(1),
		Destination: get(2),
		Departure:   departure,
		Arrival:     arrival,
		BasePrice:   basePrice,
		BagPrice:    bagPrice,
		BagsAllowed: bags,
	}
	if err := validateFlight(line, f); err != nil {
		return domain.Flight{}, err
	}
	return f, nil
}

// validateFlight checks the value-level rules shared by every flight source.
func validateFlight(line int, f domain.Flight) error {
	invalid := func(field, value, reason string) error {
		return &ValidationError{Line: line, Field: field, Value: value, Reason: reason}
	}
	badAmount := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) || v < 0 }

	if !flightNoRe.MatchString(f.FlightNo) {
		return invalid("flight_no", f.FlightNo, "expected two capital letters and three digits, e.g. AB123")
	}
	if !airportRe.MatchString(f.Origin) {
		return invalid("origin", f.Origin, "expected a three-letter airport code")
	}
	if !airportRe.MatchString(f.Destination) {
		return invalid("destination", f.Destination, "expected a three-letter airport code")
	}
	if f.Origin == f.Destination {
		return invalid("destination", f.Destination, "must differ from origin")
	}
	if !f.Arrival.After(f.Departure) {
		return invalid("arrival", f.Arrival.Format(domain.TimestampLayout), "must be after departure")
	}
	if badAmount(f.BasePrice) {
		return invalid("base_price", fmt.Sprint(f.BasePrice), "expected a non-negative number")
	}
	if badAmount(f.BagPrice) {
		return invalid("bag_price", fmt.Sprint(f.BagPrice), "expected a non-negative number")
	}
	if f.BagsAllowed < 0 {
		return invalid("bags_allowed", fmt.Sprint(f.BagsAllowed), "expected a non-negative integer")
	}
	return nil
}

// CSVFlightRepository loads flights from a CSV file on disk.
type CSVFlightRepository struct {
	Path string
}

func NewCSVFlightRepository(path string) *CSVFlightRepository {
	return &CSVFlightRepository{Path: path}
}

func (c *CSVFlightRepository) ListFlights(ctx context.Context) (_ []domain.Flight, err error) {
	defer obs.Time(ctx, "flights.csv.List")(&err)

	file, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("list flights: open %q: %w", c.Path, err)
	}
	defer file.Close()

	flights, err := ParseFlightsCSV(file)
	if err != nil {
		return nil, fmt.Errorf("list flights: %q: %w", c.Path, err)
	}
	return flights, nil
}
