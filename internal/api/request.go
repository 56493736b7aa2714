package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/rickgao/share-dashboard/internal/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FetchError is returned when the backend answers with a non-2xx status.
type FetchError struct {
	Path       string
	StatusCode int
	Body       []byte
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed %s: %d %s", e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsRetryable returns true if the error should trigger a retry.
func (e *FetchError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// NetworkError is returned when the request never produced a response:
// DNS failure, refused connection, timeout or a broken body read.
type NetworkError struct {
	Path string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request %s: %v", e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a response body is not the expected JSON shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Error kinds reported by Kind.
const (
	KindStatus   = "status"
	KindNetwork  = "network"
	KindParse    = "parse"
	KindCanceled = "canceled"
	KindUnknown  = "unknown"
)

// Kind classifies err into one of the Kind* labels for logs and metrics.
func Kind(err error) string {
	var fetchErr *FetchError
	var parseErr *ParseError
	var netErr *NetworkError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &fetchErr):
		return KindStatus
	case errors.As(err, &parseErr):
		return KindParse
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &netErr), errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// Path returns the resource path carried by a typed API error, or "".
func Path(err error) string {
	var fetchErr *FetchError
	var parseErr *ParseError
	var netErr *NetworkError

	switch {
	case errors.As(err, &fetchErr):
		return fetchErr.Path
	case errors.As(err, &parseErr):
		return parseErr.Path
	case errors.As(err, &netErr):
		return netErr.Path
	default:
		return ""
	}
}

// doRequest performs a GET for the given resource path.
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	fullURL := c.baseURL + "/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}

	return body, nil
}

// doWithRetry performs a request with exponential backoff retry.
func (c *Client) doWithRetry(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff
			if backoff > 0 {
				jitter = backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			}
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := c.doRequest(ctx, path)
		if err == nil {
			return body, nil
		}

		lastErr = err

		if !retryable(ctx, err) {
			return nil, err
		}
	}

	if c.maxRetries == 0 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.IsRetryable()
	}
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// get performs a GET and decodes the body into result. The top-level JSON
// value must be of kind want; anything else is a ParseError.
func (c *Client) get(ctx context.Context, path string, want jsoniter.ValueType, result any) error {
	body, err := c.doWithRetry(ctx, path)
	if err != nil {
		return err
	}

	if got := json.Get(body).ValueType(); got != want {
		return &ParseError{Path: path, Err: fmt.Errorf("unexpected top-level %s", valueTypeName(got))}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &ParseError{Path: path, Err: err}
	}

	return nil
}

func valueTypeName(t jsoniter.ValueType) string {
	switch t {
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "bool"
	case jsoniter.ArrayValue:
		return "array"
	case jsoniter.ObjectValue:
		return "object"
	default:
		return "invalid value"
	}
}
