package lob

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Retryable(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want bool
	}{
		{"api 404", &Error{Kind: KindAPI, StatusCode: 404}, false},
		{"api 400", &Error{Kind: KindAPI, StatusCode: 400}, false},
		{"api 429", &Error{Kind: KindAPI, StatusCode: 429}, false},
		{"api 500", &Error{Kind: KindAPI, StatusCode: 500}, true},
		{"api 503", &Error{Kind: KindAPI, StatusCode: 503}, true},
		{"transport without status", &Error{Kind: KindTransport}, true},
		{"transport 400", &Error{Kind: KindTransport, StatusCode: 400}, false},
		{"transport 404", &Error{Kind: KindTransport, StatusCode: 404}, true},
		{"serialization", &Error{Kind: KindSerialization, StatusCode: 500}, false},
		{"validation", &Error{Kind: KindValidation}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Retryable())
			assert.Equal(t, tt.want, IsRetryable(fmt.Errorf("wrapped: %w", tt.err)))
		})
	}

	assert.False(t, IsRetryable(errors.New("plain")))
}

func TestError_Sentinels(t *testing.T) {
	assert.ErrorIs(t, &Error{Kind: KindAPI, StatusCode: 404}, ErrNotFound)
	assert.ErrorIs(t, &Error{Kind: KindAPI, StatusCode: 401}, ErrUnauthorized)
	assert.ErrorIs(t, &Error{Kind: KindAPI, StatusCode: 403}, ErrUnauthorized)
	assert.ErrorIs(t, &Error{Kind: KindAPI, StatusCode: 429}, ErrRateLimited)
	assert.ErrorIs(t, validationError("bad"), ErrValidation)
	assert.NotErrorIs(t, &Error{Kind: KindTransport, StatusCode: 404}, ErrNotFound)
}

func TestParseErrorResponse(t *testing.T) {
	err := parseErrorResponse(422, []byte(`{"error":{"message":"address_line1 is required","status_code":422,"code":"invalid"}}`))
	var lobErr *Error
	require.True(t, errors.As(err, &lobErr))
	assert.Equal(t, KindAPI, lobErr.Kind)
	assert.Equal(t, 422, lobErr.StatusCode)
	assert.Equal(t, "invalid", lobErr.Code)
	assert.Equal(t, "address_line1 is required", lobErr.Message)

	err = parseErrorResponse(500, []byte(`{"error":{"message":"boom"}}`))
	require.True(t, errors.As(err, &lobErr))
	assert.Equal(t, 500, lobErr.StatusCode)
	assert.True(t, lobErr.Retryable())

	err = parseErrorResponse(502, []byte(`<html>Bad Gateway</html>`))
	require.True(t, errors.As(err, &lobErr))
	assert.Equal(t, KindSerialization, lobErr.Kind)
	assert.False(t, lobErr.Retryable())

	err = parseErrorResponse(500, []byte(`{"message":"no wrapper"}`))
	require.True(t, errors.As(err, &lobErr))
	assert.Equal(t, KindSerialization, lobErr.Kind)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient("test_key", zerolog.Nop(), WithBaseURL(url))
	require.NoError(t, err)

	_, err = client.GetAddress(context.Background(), "adr_123")
	var lobErr *Error
	require.True(t, errors.As(err, &lobErr))
	assert.Equal(t, KindTransport, lobErr.Kind)
	assert.True(t, lobErr.Retryable())
}

func TestClient_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer server.Close()

	client, err := NewClient("test_key", zerolog.Nop(), WithBaseURL(server.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.GetAddress(ctx, "adr_123")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
