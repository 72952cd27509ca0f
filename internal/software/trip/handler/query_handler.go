package handler

import (
	"context"
	"net/http"
	"time"
)

// ----- Handler: GET /trips/{trip_id} -----

func (handler *TripHTTPHandler) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	tripID := pathID(r, "trip_id")
	if tripID == 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "trip_id must be a positive integer", nil)
		return
	}
	ctx = handler.logger.WithTripID(ctx, tripID)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	view, err := handler.svc.GetTrip(ctxWithTimeout, tripID)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, view)
}

// ----- Handler: GET /users/{user_id}/trips -----

func (handler *TripHTTPHandler) handleUserTrips(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	userID := pathID(r, "user_id")
	if userID == 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "user_id must be a positive integer", nil)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	views, err := handler.svc.UserTripHistory(ctxWithTimeout, userID)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, views)
}

// ----- Handler: GET /drivers/{driver_id}/trips -----

func (handler *TripHTTPHandler) handleDriverTrips(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	driverID := pathID(r, "driver_id")
	if driverID == 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "driver_id must be a positive integer", nil)
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	views, err := handler.svc.DriverTripHistory(ctxWithTimeout, driverID)
	if err != nil {
		handler.serviceError(ctxWithTimeout, w, err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, views)
}
