package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"taxi-trips/internal/ports"
)

// --- Request DTO (HTTP boundary) ---

type requestTripRequest struct {
	UserID       int64   `json:"user_id"`
	PickupLabel  string  `json:"pickup_label"`
	PickupLat    float64 `json:"pickup_lat"`
	PickupLng    float64 `json:"pickup_lng"`
	DropoffLabel string  `json:"dropoff_label"`
	DropoffLat   float64 `json:"dropoff_lat"`
	DropoffLng   float64 `json:"dropoff_lng"`
}

// ----- Handler: POST /trips -----

func (handler *TripHTTPHandler) handleRequestTrip(w http.ResponseWriter, r *http.Request) {
	// generate a context with request ID
	ctx := handler.withReqID(r.Context(), r)

	// check the content type
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return
	}

	// limit body size
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	// decode strictly
	var req requestTripRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return
	}

	// map to service DTO defined in ports
	in := ports.RequestTripInput{
		UserID:       req.UserID,
		PickupLabel:  strings.TrimSpace(req.PickupLabel),
		PickupLat:    req.PickupLat,
		PickupLng:    req.PickupLng,
		DropoffLabel: strings.TrimSpace(req.DropoffLabel),
		DropoffLat:   req.DropoffLat,
		DropoffLng:   req.DropoffLng,
	}

	// bound service call
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	view, err := handler.svc.RequestTrip(ctxWithTimeout, in)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}
	ctxWithTimeout = handler.logger.WithTripID(ctxWithTimeout, view.TripID)

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, view)
}
