package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/go-resty/resty/v2"
	"github.com/materials-commons/mcrel/pkg/clog"
	"github.com/materials-commons/mcrel/pkg/config"
	"github.com/materials-commons/mcrel/pkg/model"
)

// RestyTransport sends model requests as JSON over HTTP.
type RestyTransport struct {
	client *resty.Client
	log    *log.Entry
}

func NewRestyTransport(baseURL string, timeout time.Duration) *RestyTransport {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &RestyTransport{
		client: client,
		log:    clog.UsingCtx(clog.TransportCtx),
	}
}

func NewRestyTransportFromSettings(s config.Settings) *RestyTransport {
	return NewRestyTransport(s.BaseURL, s.Timeout)
}

// Client exposes the underlying resty client, e.g. to add auth headers.
func (t *RestyTransport) Client() *resty.Client {
	return t.client
}

func (t *RestyTransport) Do(ctx context.Context, req *model.Request) (any, error) {
	r := t.client.R().SetContext(ctx)

	if req.Params != nil && req.Params.Len() > 0 {
		r.SetQueryParamsFromValues(req.Params.Values())
	}

	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	entry := t.log.WithField("method", req.Method).WithField("url", req.URL)
	entry.Debug("request")

	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		entry.WithError(err).Warn("request failed")
		return nil, &model.TransportError{Method: req.Method, URL: req.URL, Err: err}
	}

	entry = entry.WithField("status", resp.StatusCode()).WithField("duration", resp.Time())

	if resp.IsError() {
		err := ToErrorFromResponse(req, resp)
		entry.WithError(err).Warn("request returned error status")
		return nil, err
	}

	var body any
	if len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return nil, &model.TransportError{
				Method: req.Method,
				URL:    req.URL,
				Status: resp.StatusCode(),
				Err:    fmt.Errorf("%w: unable to parse json response: %w", model.ErrBadPayload, err),
			}
		}
	}

	entry.Debug("response")
	return body, nil
}
