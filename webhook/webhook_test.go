package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/lobster/lob"
)

const addressCreatedJSON = `{
	"id": "evt_9e4d5e1d4f3a2b10",
	"body": {
		"id": "adr_d3489cd64c791ab5",
		"description": null,
		"name": "HARRY ZHANG",
		"company": null,
		"phone": null,
		"email": null,
		"address_line1": "210 KING ST",
		"address_line2": null,
		"address_city": "SAN FRANCISCO",
		"address_state": "CA",
		"address_zip": "94107",
		"address_country": "UNITED STATES",
		"metadata": {},
		"date_created": "2024-01-10T18:48:21.384Z",
		"date_modified": "2024-01-10T18:48:21.384Z",
		"object": "address"
	},
	"reference_id": "adr_d3489cd64c791ab5",
	"event_type": {
		"id": "address.created",
		"enabled_for_test": true,
		"resource": "addresses",
		"object": "event_type"
	},
	"date_created": "2024-01-10T18:48:22.000Z",
	"object": "event"
}`

var fixedNow = time.Date(2024, 1, 10, 18, 50, 0, 0, time.UTC)

func signedRequest(t *testing.T, secret string, at time.Time, body string) *http.Request {
	t.Helper()
	ts := strconv.FormatInt(at.UnixMilli(), 10)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/lob", strings.NewReader(body))
	req.Header.Set(TimestampHeader, ts)
	req.Header.Set(SignatureHeader, Sign(secret, ts, []byte(body)))
	return req
}

func TestReceiveSignedEvent(t *testing.T) {
	var got *lob.Event
	h := New(zerolog.Nop(),
		WithSecret("whsec"),
		WithClock(func() time.Time { return fixedNow }),
		WithEventFunc(func(_ context.Context, e *lob.Event) error {
			got = e
			return nil
		}),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, signedRequest(t, "whsec", fixedNow.Add(-time.Minute), addressCreatedJSON))

	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	require.NotNil(t, got)
	assert.Equal(t, lob.EventAddressCreated, got.EventType.ID)
	address, ok := got.Body.(*lob.Address)
	require.True(t, ok)
	assert.Equal(t, "210 KING ST", address.AddressLine1)
}

func TestReceiveRejectsBadDeliveries(t *testing.T) {
	h := New(zerolog.Nop(),
		WithSecret("whsec"),
		WithClock(func() time.Time { return fixedNow }),
		WithEventFunc(func(context.Context, *lob.Event) error {
			t.Fatal("handler must not run for rejected deliveries")
			return nil
		}),
	)

	tests := []struct {
		name   string
		req    func() *http.Request
		status int
	}{
		{
			name: "wrong secret",
			req: func() *http.Request {
				return signedRequest(t, "other", fixedNow, addressCreatedJSON)
			},
			status: http.StatusUnauthorized,
		},
		{
			name: "stale timestamp",
			req: func() *http.Request {
				return signedRequest(t, "whsec", fixedNow.Add(-10*time.Minute), addressCreatedJSON)
			},
			status: http.StatusUnauthorized,
		},
		{
			name: "tampered body",
			req: func() *http.Request {
				req := signedRequest(t, "whsec", fixedNow, addressCreatedJSON)
				req.Body = http.NoBody
				return req
			},
			status: http.StatusUnauthorized,
		},
		{
			name: "missing headers",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/webhooks/lob", strings.NewReader(addressCreatedJSON))
			},
			status: http.StatusUnauthorized,
		},
		{
			name: "signed garbage",
			req: func() *http.Request {
				return signedRequest(t, "whsec", fixedNow, `{"object":"postcard"}`)
			},
			status: http.StatusBadRequest,
		},
		{
			name: "wrong method",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/webhooks/lob", nil)
			},
			status: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.req())
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestReceiveWithoutSecret(t *testing.T) {
	h := New(zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/lob", strings.NewReader(addressCreatedJSON))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestReceiveHandlerFailure(t *testing.T) {
	h := New(zerolog.Nop(), WithEventFunc(func(context.Context, *lob.Event) error {
		return errors.New("downstream unavailable")
	}))

	req := httptest.NewRequest(http.MethodPost, "/webhooks/lob", strings.NewReader(addressCreatedJSON))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "event handler failed")
}

func TestVerify(t *testing.T) {
	body := []byte(`{"id":"evt_1"}`)
	h := New(zerolog.Nop(), WithSecret("s"), WithTolerance(0))

	ts := "1704912600"
	header := http.Header{}
	header.Set(TimestampHeader, ts)
	header.Set(SignatureHeader, Sign("s", ts, body))
	assert.NoError(t, h.Verify(header, body), "tolerance 0 skips the clock check")

	header.Set(SignatureHeader, "not-hex")
	assert.ErrorIs(t, h.Verify(header, body), ErrInvalidSignature)

	strict := New(zerolog.Nop(), WithSecret("s"), WithClock(func() time.Time { return fixedNow }))
	header.Set(TimestampHeader, "yesterday")
	assert.ErrorIs(t, strict.Verify(header, body), ErrInvalidTimestamp)
}

func TestParseTimestamp(t *testing.T) {
	ms, err := ParseTimestamp("1704912600000")
	require.NoError(t, err)
	sec, err := ParseTimestamp("1704912600")
	require.NoError(t, err)
	iso, err := ParseTimestamp("2024-01-10T18:50:00Z")
	require.NoError(t, err)

	assert.True(t, ms.Equal(sec))
	assert.True(t, sec.Equal(iso))
	assert.True(t, iso.Equal(fixedNow))
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	h := New(zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	// A delivery first so the webhook counter has a series.
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/webhooks/lob", strings.NewReader(addressCreatedJSON)))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lobster_webhook_events_total")
}
