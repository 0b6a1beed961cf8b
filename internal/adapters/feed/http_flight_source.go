package feed

import (
	"context"
	"errors"
	"flight-route-service/internal/adapters/repositories"
	"flight-route-service/internal/domain"
	"flight-route-service/internal/platform/obs"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// HTTPFlightSource downloads a flight CSV feed and validates it with the CSV loader.
// Transient failures (network errors, 429 and 5xx) are retried with
// exponential backoff.
type HTTPFlightSource struct {
	session     *http.Client
	url         string
	maxAttempts int
	backoff     time.Duration
}

func NewHTTPFlightSource(url string) (*HTTPFlightSource, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("flight feed url is empty")
	}

	return &HTTPFlightSource{
		session:     &http.Client{Timeout: 30 * time.Second},
		url:         url,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}, nil
}

func (h *HTTPFlightSource) ListFlights(ctx context.Context) (_ []domain.Flight, err error) {
	defer obs.Time(ctx, "flights.feed.List")(&err)

	resp, err := h.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "text/csv")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list flights: fetch %q: %w", h.url, err)
	}
	defer resp.Body.Close()

	flights, err := repositories.ParseFlightsCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("list flights: %q: %w", h.url, err)
	}
	return flights, nil
}

func (h *HTTPFlightSource) do(req *http.Request) (*http.Response, error) {
	resp, err := h.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures using exponential backoff while
// respecting context cancellation.
func (h *HTTPFlightSource) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := h.backoff

	var lastErr error

	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := h.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == h.maxAttempts {
			return nil, lastErr
		}

		zap.L().Info("retrying flight feed",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
