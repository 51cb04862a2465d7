// Package api talks to the inventory service over its REST interface.
package api

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"biokeeper/internal/shared/models"
)

const requestIDHeader = "X-Request-ID"

// Client is safe for concurrent use.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// New builds a client for baseURL. Nothing is retried: a failed write must
// never be replayed behind the user's back.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{logger: logger}
	c.http = resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if r.Header.Get(requestIDHeader) == "" {
				r.SetHeader(requestIDHeader, uuid.NewString())
			}
			return nil
		}).
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			c.logger.Debug("api call",
				zap.String("method", resp.Request.Method),
				zap.String("url", resp.Request.URL),
				zap.Int("status", resp.StatusCode()),
				zap.String("request_id", resp.Request.Header.Get(requestIDHeader)),
				zap.Duration("took", resp.Time()),
			)
			return nil
		})
	c.http.OnError(func(r *resty.Request, err error) {
		c.logger.Warn("api call failed",
			zap.String("method", r.Method),
			zap.String("url", r.URL),
			zap.String("request_id", r.Header.Get(requestIDHeader)),
			zap.Error(err),
		)
	})
	return c
}

// BaseURL is the service root the client was built for.
func (c *Client) BaseURL() string { return c.http.BaseURL }

// send performs one request and classifies any failure.
func (c *Client) send(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return resp, &Error{Kind: KindNetwork, Err: err}
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return resp, statusError(resp)
	}
	return resp, nil
}

// statusError prefers the body's "details", then its "message".
func statusError(resp *resty.Response) *Error {
	e := &Error{Kind: KindStatus, Status: resp.StatusCode()}
	var b models.ErrorBody
	if err := json.Unmarshal(resp.Body(), &b); err == nil {
		switch {
		case b.Details != "":
			e.Kind, e.Detail = KindDetail, b.Details
		case b.Message != "":
			e.Kind, e.Detail = KindDetail, b.Message
		}
	}
	return e
}

func decode(resp *resty.Response, v any) error {
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return &Error{Kind: KindDetail, Status: resp.StatusCode(), Detail: "invalid response: " + err.Error(), Err: err}
	}
	return nil
}
