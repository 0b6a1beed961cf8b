package handlers

import (
	"encoding/json"
	"errors"
	"flight-route-service/internal/api/dto"
	"flight-route-service/internal/platform/obs"
	"flight-route-service/internal/services"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var airportCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

type RouteHandler struct {
	Service *services.SearchService
}

// Search finds every itinerary for the requested trip, sorted by total price.
// It accepts query parameters on GET and a JSON body on POST.
func (h *RouteHandler) Search(w http.ResponseWriter, r *http.Request) {
	var (
		req dto.RouteRequest
		msg string
	)

	switch r.Method {
	case http.MethodGet:
		req, msg = routeRequestFromQuery(r)
	case http.MethodPost:
		req, msg = routeRequestFromBody(r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	origin := strings.ToUpper(strings.TrimSpace(req.Origin))
	destination := strings.ToUpper(strings.TrimSpace(req.Destination))
	if !airportCodeRe.MatchString(origin) || !airportCodeRe.MatchString(destination) {
		writeError(w, r, http.StatusBadRequest, "origin and destination must be three-letter airport codes")
		return
	}

	svcReq := services.FindRoutesRequest{
		Origin:      origin,
		Destination: destination,
		Return:      req.Return,
		StayDays:    req.Stay,
		Bags:        req.Bags,
	}

	out, err := h.Service.Find(r.Context(), svcReq)
	if err != nil {
		if msg, ok := badRequestMessage(err); ok {
			writeError(w, r, http.StatusBadRequest, msg)
			return
		}
		zap.L().Error("route search failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRoutesResponse{
		Results:  dto.NewRouteResponses(out.Results),
		Count:    len(out.Results),
		CacheHit: out.CacheHit,
	}
	writeJSON(w, r, http.StatusOK, res)
}

func badRequestMessage(err error) (string, bool) {
	for _, target := range []error{
		services.ErrSameAirport,
		services.ErrInvalidBags,
		services.ErrInvalidStay,
	} {
		if errors.Is(err, target) {
			return target.Error(), true
		}
	}
	return "", false
}

func routeRequestFromQuery(r *http.Request) (dto.RouteRequest, string) {
	q := r.URL.Query()
	req := dto.RouteRequest{
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
	}

	var err error
	if v := q.Get("bags"); v != "" {
		if req.Bags, err = strconv.Atoi(v); err != nil {
			return req, "bags must be an integer"
		}
	}
	if v := q.Get("stay"); v != "" {
		if req.Stay, err = strconv.Atoi(v); err != nil {
			return req, "stay must be an integer"
		}
	}
	if v := q.Get("return"); v != "" {
		if req.Return, err = strconv.ParseBool(v); err != nil {
			return req, "return must be a boolean"
		}
	}

	return req, ""
}

func routeRequestFromBody(r *http.Request) (dto.RouteRequest, string) {
	var req dto.RouteRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		return req, "invalid json body"
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return req, "body must contain only one JSON object"
	}

	return req, ""
}
