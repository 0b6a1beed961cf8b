package feed

import (
	"context"
	"errors"
	"flight-route-service/internal/adapters/repositories"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = "flight_no,origin,destination,departure,arrival,base_price,bag_price,bags_allowed\n" +
	"WM478,DHE,NIZ,2021-09-01T06:25:00,2021-09-01T07:40:00,54,12,1\n"

func newTestSource(t *testing.T, url string) *HTTPFlightSource {
	t.Helper()
	src, err := NewHTTPFlightSource(url)
	require.NoError(t, err)
	src.backoff = time.Millisecond
	return src
}

func TestHTTPFlightSourceRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	flights, err := newTestSource(t, srv.URL).ListFlights(context.Background())
	require.NoError(t, err)
	assert.Len(t, flights, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPFlightSourceDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestSource(t, srv.URL).ListFlights(context.Background())
	var he *httpStatusError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusNotFound, he.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPFlightSourceGivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestSource(t, srv.URL).ListFlights(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(4), calls.Load())
}

func TestHTTPFlightSourceInvalidFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("flight,from,to\n"))
	}))
	defer srv.Close()

	_, err := newTestSource(t, srv.URL).ListFlights(context.Background())
	assert.ErrorIs(t, err, repositories.ErrInvalidHeader)
}

func TestNewHTTPFlightSourceRequiresURL(t *testing.T) {
	_, err := NewHTTPFlightSource("  ")
	assert.Error(t, err)
}
