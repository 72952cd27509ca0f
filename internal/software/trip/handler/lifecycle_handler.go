package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"taxi-trips/internal/domain/trip"
	"taxi-trips/internal/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

type acceptTripRequest struct {
	DriverID int64 `json:"driver_id"`
}

type completeTripRequest struct {
	UserEmail string `json:"user_email"`
}

// ----- Handler: POST /trips/{trip_id}/accept -----

func (handler *TripHTTPHandler) handleAcceptTrip(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	tripID := pathID(r, "trip_id")
	if tripID == 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "trip_id must be a positive integer", nil)
		return
	}
	ctx = handler.logger.WithTripID(ctx, tripID)

	var req acceptTripRequest
	if err := decodeBody(w, r, &req); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return
	}
	if req.DriverID <= 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "driver_id must be a positive integer", nil)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	view, err := handler.svc.AcceptTrip(ctxWithTimeout, tripID, req.DriverID)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, view)
}

// ----- Handler: POST /trips/{trip_id}/start -----

func (handler *TripHTTPHandler) handleStartTrip(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	tripID := pathID(r, "trip_id")
	if tripID == 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "trip_id must be a positive integer", nil)
		return
	}
	ctx = handler.logger.WithTripID(ctx, tripID)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	view, err := handler.svc.StartTrip(ctxWithTimeout, tripID)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, view)
}

// ----- Handler: POST /trips/{trip_id}/complete -----

func (handler *TripHTTPHandler) handleCompleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	tripID := pathID(r, "trip_id")
	if tripID == 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "trip_id must be a positive integer", nil)
		return
	}
	ctx = handler.logger.WithTripID(ctx, tripID)

	var req completeTripRequest
	if err := decodeBody(w, r, &req); err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return
	}
	if strings.TrimSpace(req.UserEmail) == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "user_email is required", nil)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	view, err := handler.svc.CompleteTrip(ctxWithTimeout, tripID, strings.TrimSpace(req.UserEmail))
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, view)
}

// ----- Handler: POST /trips/{trip_id}/cancel -----

func (handler *TripHTTPHandler) handleCancelTrip(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	tripID := pathID(r, "trip_id")
	if tripID == 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "trip_id must be a positive integer", nil)
		return
	}
	ctx = handler.logger.WithTripID(ctx, tripID)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	view, err := handler.svc.CancelTrip(ctxWithTimeout, tripID)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, view)
}

// ----- shared error mapping -----

// serviceError maps service failures to HTTP statuses: missing trips are 404,
// lifecycle precondition violations are 409, database failures are 500, and
// everything else is treated as input validation.
func (handler *TripHTTPHandler) serviceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrTripNotFound):
		handler.httpError(ctx, w, http.StatusNotFound, "trip not found", err)
	case errors.Is(err, trip.ErrInvalidStateTransition):
		handler.httpError(ctx, w, http.StatusConflict, err.Error(), err)
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			handler.httpError(ctx, w, http.StatusInternalServerError, "database error", err)
			return
		}
		handler.httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
	}
}

// decodeBody strictly decodes a bounded JSON body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MiB
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
