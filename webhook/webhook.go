// Package webhook receives Lob webhook deliveries over HTTP.
//
// A Handler authenticates each delivery with the Lob-Signature and
// Lob-Signature-Timestamp headers when a secret is configured, decodes the
// body into a lob.Event and passes it to the registered EventFunc. It also
// serves a health check and the Prometheus metrics endpoint:
//
//	POST /webhooks/lob
//	GET  /healthz
//	GET  /metrics
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/s0up4200/lobster/lob"
	"github.com/s0up4200/lobster/metrics"
)

const (
	// SignatureHeader carries hex(HMAC-SHA256(secret, timestamp + "." + body)).
	SignatureHeader = "Lob-Signature"
	// TimestampHeader carries the signing time.
	TimestampHeader = "Lob-Signature-Timestamp"

	// DefaultTolerance is how far a timestamp may drift from the local clock.
	DefaultTolerance = 5 * time.Minute

	maxBodyBytes = 1 << 20
)

var (
	ErrMissingSignature = errors.New("webhook: missing signature headers")
	ErrInvalidSignature = errors.New("webhook: signature mismatch")
	ErrStaleTimestamp   = errors.New("webhook: timestamp outside tolerance")
	ErrInvalidTimestamp = errors.New("webhook: unparseable timestamp")
)

// EventFunc handles one decoded event. A returned error answers the delivery
// with 500 so Lob retries it.
type EventFunc func(ctx context.Context, event *lob.Event) error

// Option configures a Handler
type Option func(*Handler)

// WithSecret enables signature verification
func WithSecret(secret string) Option {
	return func(h *Handler) {
		h.secret = []byte(secret)
	}
}

// WithTolerance sets the accepted timestamp drift. Zero disables the check.
func WithTolerance(d time.Duration) Option {
	return func(h *Handler) {
		h.tolerance = d
	}
}

// WithEventFunc registers the callback for decoded events
func WithEventFunc(fn EventFunc) Option {
	return func(h *Handler) {
		h.onEvent = fn
	}
}

// WithClock overrides the time source used for the tolerance check
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// Handler is an http.Handler for Lob webhook deliveries
type Handler struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
	onEvent   EventFunc
	logger    zerolog.Logger
	router    *mux.Router
}

// New builds a Handler and its routes
func New(logger zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{
		tolerance: DefaultTolerance,
		now:       time.Now,
		logger:    logger.With().Str("component", "webhook").Logger(),
	}

	for _, opt := range opts {
		opt(h)
	}

	router := mux.NewRouter()
	router.HandleFunc("/webhooks/lob", h.receive).Methods(http.MethodPost)
	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	h.router = router

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

type errorResponse struct {
	Message string `json:"message"`
}

type healthReport struct {
	Status string `json:"status"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	sendJSON(w, http.StatusOK, healthReport{Status: "ok"})
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		metrics.IncrementWebhookEvent("unknown", "rejected")
		sendError(w, "request body too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}

	if err := h.Verify(r.Header, body); err != nil {
		h.logger.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("Rejected webhook delivery")
		metrics.IncrementWebhookEvent("unknown", "unauthorized")
		sendError(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var event lob.Event
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to decode webhook event")
		metrics.IncrementWebhookEvent("unknown", "invalid")
		sendError(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	eventType := string(event.EventType.ID)
	log := h.logger.With().
		Str("event_id", event.ID).
		Str("event_type", eventType).
		Str("reference_id", event.ReferenceID).
		Logger()

	if h.onEvent != nil {
		if err := h.onEvent(r.Context(), &event); err != nil {
			log.Error().Err(err).Msg("Webhook event handler failed")
			metrics.IncrementWebhookEvent(eventType, "failed")
			sendError(w, "event handler failed", http.StatusInternalServerError)
			return
		}
	}

	log.Debug().Msg("Webhook event accepted")
	metrics.IncrementWebhookEvent(eventType, "accepted")
	w.WriteHeader(http.StatusNoContent)
}

// Verify checks the delivery signature. It accepts everything when no
// secret is configured.
func (h *Handler) Verify(header http.Header, body []byte) error {
	if len(h.secret) == 0 {
		return nil
	}

	signature := header.Get(SignatureHeader)
	timestamp := header.Get(TimestampHeader)
	if signature == "" || timestamp == "" {
		return ErrMissingSignature
	}

	if h.tolerance > 0 {
		signedAt, err := ParseTimestamp(timestamp)
		if err != nil {
			return err
		}
		drift := h.now().Sub(signedAt)
		if drift > h.tolerance || drift < -h.tolerance {
			return fmt.Errorf("%w: signed at %s", ErrStaleTimestamp, signedAt.UTC().Format(time.RFC3339))
		}
	}

	expected, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(expected, computeMAC(h.secret, timestamp, body)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign returns the Lob-Signature value for body signed at timestamp.
func Sign(secret, timestamp string, body []byte) string {
	return hex.EncodeToString(computeMAC([]byte(secret), timestamp, body))
}

func computeMAC(secret []byte, timestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

// ParseTimestamp reads a signature timestamp given as Unix milliseconds,
// Unix seconds or RFC 3339.
func ParseTimestamp(s string) (time.Time, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > 1e11 {
			return time.UnixMilli(n), nil
		}
		return time.Unix(n, 0), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

func sendError(w http.ResponseWriter, msg string, status int) {
	sendJSON(w, status, errorResponse{Message: msg})
}

func sendJSON(w http.ResponseWriter, status int, object any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(object)
}

// Serve runs handler on addr until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("Webhook receiver listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown webhook receiver: %w", err)
	}
	logger.Info().Msg("Webhook receiver stopped")
	return nil
}
