package precheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/autoflowhq/autoflow/pkg/logging"
	"github.com/autoflowhq/autoflow/pkg/provision"
)

var (
	ErrRequestFailed = errors.New("precheck: request failed")
	ErrEmptyResponse = errors.New("precheck: empty response body")
)

// RetriesCfg is the explicit retry policy for calls to the precheck service.
type RetriesCfg struct {
	MaxAttempts     int
	MinWaitInterval time.Duration
	MaxWaitInterval time.Duration
	Timeout         time.Duration
}

// payload is the request body: the provisioning context serialized verbatim
// under a "context" member.
type payload struct {
	Context *provision.Context `json:"context"`
	AutoFix bool               `json:"auto_fix"`
}

type LoggerAdapter struct {
	logging.Logger
}

func (l *LoggerAdapter) Printf(msg string, args ...interface{}) {
	l.Debugf(msg, args...)
}

type Client struct {
	url    string
	client *http.Client
	log    logging.Logger
}

func NewClient(url string, retries RetriesCfg, log logging.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = &LoggerAdapter{Logger: log}
	retryClient.RetryMax = retries.MaxAttempts
	retryClient.RetryWaitMin = retries.MinWaitInterval
	retryClient.RetryWaitMax = retries.MaxWaitInterval
	retryClient.CheckRetry = checkRetry
	httpClient := retryClient.StandardClient()
	httpClient.Timeout = retries.Timeout
	return &Client{
		url:    url,
		client: httpClient,
		log:    log,
	}
}

// retry on 429, 500 and 503; never on context cancellation.  Other transport
// errors are considered transient.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable:
		return true, nil
	}
	return false, nil
}

// IsSuccessStatusCode returns true for status code 2xx
func IsSuccessStatusCode(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}

// Check posts the provisioning context to the precheck endpoint and parses
// the returned report.  An empty or non-JSON body is a hard failure - the
// fixer must never run on a report it cannot trust.
func (c *Client) Check(ctx context.Context, pctx *provision.Context) (*Report, error) {
	// auto_fix is always off: object creation is this tool's job, the
	// service only reports.
	serialized, err := json.Marshal(payload{Context: pctx})
	if err != nil {
		return nil, fmt.Errorf("serialize precheck payload: %w", err)
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(serialized))
	if err != nil {
		return nil, fmt.Errorf("could not create HTTP request: %s: %w", err, ErrRequestFailed)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log := c.log.WithField(logging.RequestIDFieldKey, requestID)
	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not make HTTP request: %s: %w", err, ErrRequestFailed)
	}
	defer func() { _ = res.Body.Close() }()
	if !IsSuccessStatusCode(res.StatusCode) {
		return nil, fmt.Errorf("precheck - status=%d: %w", res.StatusCode, ErrRequestFailed)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read precheck response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyResponse
	}

	report := &Report{}
	if err := json.Unmarshal(body, report); err != nil {
		return nil, fmt.Errorf("decode precheck response: %w", err)
	}
	log.WithField("missing", len(report.Summary.Missing)).Debug("precheck report")
	return report, nil
}
