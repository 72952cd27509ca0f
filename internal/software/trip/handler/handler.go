package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"taxi-trips/internal/general/logger"
	"taxi-trips/internal/ports"
)

// TripHTTPHandler adapts HTTP requests to the TripService.
type TripHTTPHandler struct {
	svc    ports.TripService
	logger *logger.Logger
}

// NewTripHTTPHandler wires an HTTP handler around the TripService.
func NewTripHTTPHandler(svc ports.TripService, logger *logger.Logger) *TripHTTPHandler {
	return &TripHTTPHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts trip endpoints on the provided mux.
func (handler *TripHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /trips", handler.handleRequestTrip)
	mux.HandleFunc("POST /trips/{trip_id}/accept", handler.handleAcceptTrip)
	mux.HandleFunc("POST /trips/{trip_id}/start", handler.handleStartTrip)
	mux.HandleFunc("POST /trips/{trip_id}/complete", handler.handleCompleteTrip)
	mux.HandleFunc("POST /trips/{trip_id}/cancel", handler.handleCancelTrip)

	mux.HandleFunc("GET /trips/{trip_id}", handler.handleGetTrip)
	mux.HandleFunc("GET /users/{user_id}/trips", handler.handleUserTrips)
	mux.HandleFunc("GET /drivers/{driver_id}/trips", handler.handleDriverTrips)

	mux.HandleFunc("GET /trips/health", handler.handleHealth)
}

func (handler *TripHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	handler.jsonResponse(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// ----- general helpers -----

// jsonResponse takes any type of data and encodes it to the HTTP response.
func (handler *TripHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	// encode to buffer first so we can control status on failure
	var buf []byte
	var err error

	if data != nil {
		buf, err = json.Marshal(data)
		if err != nil {
			handler.logger.Error(ctx, "response_encode_failed", "Failed to encode response", err, nil)
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	} else {
		buf = []byte("{}")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// httpError sends a JSON error response with a message.
func (handler *TripHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	} else if status == http.StatusConflict {
		action = "state_conflict"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *TripHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if strings.TrimSpace(reqID) == "" {
		reqID = randID()
	}
	return handler.logger.WithRequestID(ctx, reqID)
}

// pathID parses a positive int64 path parameter, 0 means invalid.
func pathID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// randID generates a random 24-char hex string suitable for request IDs.
func randID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
