package repositories

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "flight_no,origin,destination,departure,arrival,base_price,bag_price,bags_allowed\n"

func TestParseFlightsCSV(t *testing.T) {
	data := header +
		"WM478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54.0,12,1\n" +
		"ZH214,NIZ,SML,2021-09-01T09:05:00,2021-09-01T10:20:00,81,9,2\n"

	flights, err := ParseFlightsCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, flights, 2)

	f := flights[0]
	assert.Equal(t, "WM478", f.FlightNo)
	assert.Equal(t, "DHE", f.Origin)
	assert.Equal(t, "NIZ", f.Destination)
	assert.Equal(t, time.Date(2021, 9, 1, 6, 25, 0, 0, time.UTC), f.Departure)
	assert.Equal(t, time.Date(2021, 9, 1, 7, 40, 0, 0, time.UTC), f.Arrival)
	assert.Equal(t, 54.0, f.BasePrice)
	assert.Equal(t, 12.0, f.BagPrice)
	assert.Equal(t, 1, f.BagsAllowed)

	assert.Equal(t, 2, flights[1].BagsAllowed)
}

func TestParseFlightsCSVHeaderOnly(t *testing.T) {
	flights, err := ParseFlightsCSV(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestParseFlightsCSVBadHeader(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"renamed":       "flight_no,from,destination,departure,arrival,base_price,bag_price,bags_allowed\n",
		"missing":       "flight_no,origin,destination,departure,arrival,base_price,bag_price\n",
		"out of order":  "origin,flight_no,destination,departure,arrival,base_price,bag_price,bags_allowed\n",
		"extra columns": "flight_no,origin,destination,departure,arrival,base_price,bag_price,bags_allowed,extra\n",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFlightsCSV(strings.NewReader(data))
			assert.ErrorIs(t, err, ErrInvalidHeader)
		})
	}
}

func TestParseFlightsCSVValidation(t *testing.T) {
	cases := []struct {
		name  string
		row   string
		field string
	}{
		{"lowercase flight no", "wm478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54,12,1", "flight_no"},
		{"long flight no", "WM4781,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54,12,1", "flight_no"},
		{"bad origin", "WM478,DH,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54,12,1", "origin"},
		{"bad destination", "WM478,DHE,NIZZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54,12,1", "destination"},
		{"same airports", "WM478,DHE,DHE,2021-09-01T06:25:00,2021-09-01T07:40:00,54,12,1", "destination"},
		{"bad departure", "WM478,DHE,NIZ,2021/09/01 06:25,2021-09-01T07:40:00,54,12,1", "departure"},
		{"bad arrival", "WM478,DHE,NIZ,2021-09-01T06:25:00,tomorrow,54,12,1", "arrival"},
		{"arrival before departure", "WM478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T06:25:00,54,12,1", "arrival"},
		{"negative base price", "WM478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,-1,12,1", "base_price"},
		{"text base price", "WM478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,cheap,12,1", "base_price"},
		{"nan bag price", "WM478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54,NaN,1", "bag_price"},
		{"fractional bags", "WM478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54,12,1.5", "bags_allowed"},
		{"negative bags", "WM478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54,12,-1", "bags_allowed"},
		{"decimal bags", "WM478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54,12,2.0", "bags_allowed"},
		{"exponent bags", "WM478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54,12,1e0", "bags_allowed"},
		{"hex bags", "WM478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54,12,0x2", "bags_allowed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFlightsCSV(strings.NewReader(header + tc.row + "\n"))
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			assert.Equal(t, 2, verr.Line)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestParseFlightsCSVWrongFieldCount(t *testing.T) {
	_, err := ParseFlightsCSV(strings.NewReader(header + "WM478,DHE,NIZ\n"))
	assert.Error(t, err)
}

func TestCSVFlightRepository(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flights.csv")
	data := header + "WM478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54,12,1\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	flights, err := NewCSVFlightRepository(path).ListFlights(context.Background())
	require.NoError(t, err)
	assert.Len(t, flights, 1)

	_, err = NewCSVFlightRepository(filepath.Join(dir, "missing.csv")).ListFlights(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
