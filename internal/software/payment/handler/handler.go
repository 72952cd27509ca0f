package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taxi-trips/internal/general/logger"
	"taxi-trips/internal/ports"
)

// PaymentHTTPHandler exposes read access to settled payments.
type PaymentHTTPHandler struct {
	svc    ports.PaymentService
	logger *logger.Logger
}

// NewPaymentHTTPHandler wires an HTTP handler around the PaymentService.
func NewPaymentHTTPHandler(svc ports.PaymentService, logger *logger.Logger) *PaymentHTTPHandler {
	return &PaymentHTTPHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts payment endpoints on the provided mux.
func (handler *PaymentHTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /payments/trip/{trip_id}", handler.handleGetPayment)
	mux.HandleFunc("GET /payments/health", handler.handleHealth)
}

func (handler *PaymentHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	handler.jsonResponse(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// ----- Handler: GET /payments/trip/{trip_id} -----

func (handler *PaymentHTTPHandler) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	tripID, err := strconv.ParseInt(r.PathValue("trip_id"), 10, 64)
	if err != nil || tripID <= 0 {
		handler.httpError(ctx, w, http.StatusBadRequest, "trip_id must be a positive integer", err)
		return
	}
	ctx = handler.logger.WithTripID(ctx, tripID)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	view, err := handler.svc.GetPaymentByTrip(ctxWithTimeout, tripID)
	if err != nil {
		if errors.Is(err, ports.ErrPaymentNotFound) {
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, "payment not found", err)
			return
		}
		handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "failed to load payment", err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, view)
}

// ----- general helpers -----

func (handler *PaymentHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
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

func (handler *PaymentHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

func (handler *PaymentHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if strings.TrimSpace(reqID) == "" {
		var b [12]byte
		_, _ = rand.Read(b[:])
		reqID = hex.EncodeToString(b[:])
	}
	return handler.logger.WithRequestID(ctx, reqID)
}
