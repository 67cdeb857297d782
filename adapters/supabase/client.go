package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lborres/inventrack/core"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// Client talks to the Supabase auth and storage REST APIs. It is safe for
// concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

// NewClient returns a client for the project at baseURL. A nil httpClient
// gets a default with a 10s timeout.
func NewClient(baseURL, apiKey string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
		log:     log,
	}
}

type request struct {
	method      string
	path        string
	key         string // bearer key, the anon key when empty
	contentType string
	headers     map[string]string
	body        io.Reader
}

func jsonBody(v any) (io.Reader, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return bytes.NewReader(raw), nil
}

// do sends req and decodes a 2xx JSON response into out (when non-nil).
// Error responses are returned as *core.StoreError.
func (c *Client) do(ctx context.Context, req request, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	key := req.key
	if key == "" {
		key = c.apiKey
	}
	httpReq.Header.Set("apikey", c.apiKey)
	httpReq.Header.Set("Authorization", "Bearer "+key)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("supabase %s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("supabase request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		storeErr := decodeError(resp)
		c.log.Warn("supabase request failed",
			zap.String("path", req.path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", storeErr.Code),
			zap.String("message", storeErr.Message),
		)
		return storeErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode supabase response: %w", err)
	}
	return nil
}

// apiError covers the error bodies of GoTrue, PostgREST and Storage.
type apiError struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Details          string          `json:"details"`
	Hint             string          `json:"hint"`
}

func decodeError(resp *http.Response) *core.StoreError {
	var body apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &body)

	storeErr := &core.StoreError{
		Code:    errorCode(resp.StatusCode, body),
		Message: firstNonEmpty(body.Msg, body.Message, body.ErrorDescription, body.Error, http.StatusText(resp.StatusCode)),
		Details: body.Details,
		Hint:    body.Hint,
	}
	return storeErr
}

func errorCode(status int, body apiError) string {
	if status == http.StatusTooManyRequests && body.ErrorCode == "" {
		return core.CodeRateLimit
	}
	if body.ErrorCode != "" {
		return body.ErrorCode
	}
	if body.Error == "invalid_grant" {
		return core.CodeInvalidCredentials
	}
	// PostgREST sends a string code; GoTrue sends the HTTP status as a number
	var code string
	if err := json.Unmarshal(body.Code, &code); err == nil {
		return code
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
