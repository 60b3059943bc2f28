package datasets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for upstream failures. Both are transient: callers are
// expected to count them against a retry budget, never to cache them.
var (
	// ErrUnavailable indicates a network-level failure or a non-2xx response
	// from the dataset API.
	ErrUnavailable = errors.New("dataset api unavailable")
	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("dataset api timeout")
)

// Row is a single row returned by the dataset API. The row payload is
// source-specific, so it is kept as a loose map and coerced by the caller.
type Row struct {
	Idx int            `json:"row_idx"`
	Row map[string]any `json:"row"`
}

// Client defines the operations the deck assembler needs from the dataset
// query API.
type Client interface {
	// NumRows returns the number of examples in the given split.
	NumRows(ctx context.Context, dataset, config, split string) (int, error)
	// Rows fetches a page of rows starting at offset.
	Rows(ctx context.Context, dataset, config, split string, offset, limit int) ([]Row, error)
}

// NewClient creates an HTTP client for the dataset query API.
func NewClient(cfg Config) Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Custom transport with strict timeouts so a stalled upstream fails the
	// request instead of hanging it.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &httpClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.AuthToken,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeoutDuration,
		},
	}
}

type httpClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// infoResponse mirrors the /info endpoint payload.
type infoResponse struct {
	DatasetInfo struct {
		Splits map[string]struct {
			NumExamples int64 `json:"num_examples"`
		} `json:"splits"`
	} `json:"dataset_info"`
}

// rowsResponse mirrors the /rows endpoint payload.
type rowsResponse struct {
	Rows []Row `json:"rows"`
}

func (c *httpClient) NumRows(ctx context.Context, dataset, config, split string) (int, error) {
	q := url.Values{}
	q.Set("dataset", dataset)
	q.Set("config", config)

	var payload infoResponse
	if err := c.get(ctx, "/info", q, &payload); err != nil {
		return 0, err
	}

	info, ok := payload.DatasetInfo.Splits[split]
	if !ok {
		return 0, fmt.Errorf("%w: split %q not found in %s", ErrUnavailable, split, dataset)
	}
	return int(info.NumExamples), nil
}

func (c *httpClient) Rows(ctx context.Context, dataset, config, split string, offset, limit int) ([]Row, error) {
	q := url.Values{}
	q.Set("dataset", dataset)
	q.Set("config", config)
	q.Set("split", split)
	q.Set("offset", strconv.Itoa(offset))
	q.Set("length", strconv.Itoa(limit))

	var payload rowsResponse
	if err := c.get(ctx, "/rows", q, &payload); err != nil {
		return nil, err
	}
	return payload.Rows, nil
}

func (c *httpClient) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned status %d", ErrUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrUnavailable, path, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
