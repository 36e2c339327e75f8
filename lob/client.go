package lob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
)

const (
	// APIVersion is the API version this package models.
	APIVersion = "2019-06-01"
	// DefaultBaseURL is the versioned API root.
	DefaultBaseURL = "https://api.lob.com/v1"
)

// Client represents a Lob API client
type Client struct {
	baseURL    string
	apiKey     string
	apiVersion string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new Lob client. It makes no network calls.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	baseURL := strings.TrimRight(o.baseURL, "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid lob base URL %q", o.baseURL)
	}
	if u.Scheme != "https" {
		logger.Warn().Str("base_url", baseURL).Msg("Lob client is not using HTTPS")
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		apiVersion: o.apiVersion,
		userAgent:  o.userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// request is a fully assembled API call.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	opts        []RequestOption
}

// formFile is an Upload stripped from a body, sent as a multipart part.
type formFile struct {
	field  string
	upload Upload
}

// doRequest performs an HTTP request with authentication and decodes a
// successful response into out.
func (c *Client) doRequest(ctx context.Context, r request, out any) error {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return serializationError("failed to create request", err)
	}

	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Lob-Version", c.apiVersion)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	for _, opt := range r.opts {
		opt(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().
			Str("method", r.method).
			Str("path", r.path).
			Dur("duration", time.Since(start)).
			Err(err).
			Msg("Lob API request failed")
		return transportError(0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)

	c.logger.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Lob API request")

	if err != nil {
		return transportError(resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return serializationError("failed to parse response", err)
	}
	return nil
}

// parseErrorResponse converts a non-2xx body into an API error. A body that
// is not an error payload is a serialization error.
func parseErrorResponse(status int, body []byte) error {
	var payload apiErrorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return &Error{
			Kind:       KindSerialization,
			StatusCode: status,
			Message:    fmt.Sprintf("failed to parse error response with status %d", status),
			Err:        err,
		}
	}
	if payload.Error == nil {
		return &Error{
			Kind:       KindSerialization,
			StatusCode: status,
			Message:    fmt.Sprintf("error response with status %d has no error object", status),
		}
	}

	code := payload.Error.StatusCode
	if code == 0 {
		code = status
	}
	return &Error{
		Kind:       KindAPI,
		StatusCode: code,
		Message:    payload.Error.Message,
		Code:       payload.Error.Code,
	}
}

// get fetches path with opts encoded as the query string.
func (c *Client) get(ctx context.Context, path string, opts any, out any) error {
	q, err := encodeQuery(opts)
	if err != nil {
		return err
	}
	return c.doRequest(ctx, request{method: http.MethodGet, path: path, query: q}, out)
}

// delete issues a body-less DELETE.
func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, request{method: http.MethodDelete, path: path}, out)
}

// post sends body as JSON. A nil body sends no payload.
func (c *Client) post(ctx context.Context, path string, q url.Values, body any, out any, opts ...RequestOption) error {
	r := request{method: http.MethodPost, path: path, query: q, opts: opts}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return serializationError("failed to encode request body", err)
		}
		r.body = data
		r.contentType = "application/json"
	}
	return c.doRequest(ctx, r, out)
}

// create sends body as JSON, or as multipart form data when files holds any
// uploads stripped from it.
func (c *Client) create(ctx context.Context, path string, body any, files []formFile, out any, opts []RequestOption) error {
	if len(files) == 0 {
		return c.post(ctx, path, nil, body, out, opts...)
	}

	data, contentType, err := encodeMultipart(body, files)
	if err != nil {
		return err
	}
	return c.doRequest(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        data,
		contentType: contentType,
		opts:        opts,
	}, out)
}

// encodeMultipart writes the JSON form of body as bracket-flattened form
// fields followed by one file part per upload.
func encodeMultipart(body any, files []formFile) ([]byte, string, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, "", serializationError("failed to encode request body", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, "", serializationError("failed to encode request body", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	var writeErr error
	flattenFields("", fields, func(key, value string) {
		if writeErr == nil {
			writeErr = w.WriteField(key, value)
		}
	})
	if writeErr != nil {
		return nil, "", serializationError("failed to write form field", writeErr)
	}

	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.upload.Filename)
		if err != nil {
			return nil, "", serializationError("failed to create file part "+f.field, err)
		}
		if _, err := part.Write(f.upload.Data); err != nil {
			return nil, "", serializationError("failed to write file part "+f.field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", serializationError("failed to close multipart body", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// encodeQuery encodes an options struct with go-querystring. A nil options
// value yields no query.
func encodeQuery(opts any) (url.Values, error) {
	if opts == nil {
		return nil, nil
	}
	values, err := query.Values(opts)
	if err != nil {
		return nil, serializationError("failed to encode query", err)
	}
	return values, nil
}

// resourcePath joins a collection and an escaped id, rejecting empty ids.
func resourcePath(collection, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", validationError("id is required for %s", strings.TrimPrefix(collection, "/"))
	}
	return collection + "/" + url.PathEscape(id), nil
}
