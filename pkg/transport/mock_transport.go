package transport

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/materials-commons/mcrel/pkg/model"
)

// MockTransport answers every request from canned responses. Responses are
// passed through a JSON round trip so models see the same shapes a real
// transport produces (numbers as float64, fresh maps per call).
type MockTransport struct {
	mu        sync.Mutex
	err       error
	errs      map[string]error
	response  any
	responses map[string]any
	calls     []*model.Request
	gate      chan struct{}
	gates     map[string]chan struct{}
	started   chan *model.Request
}

func NewMockTransport() *MockTransport {
	return &MockTransport{
		responses: make(map[string]any),
		errs:      make(map[string]error),
		gates:     make(map[string]chan struct{}),
		started:   make(chan *model.Request, 64),
	}
}

// SetResponse sets the body returned for requests without a specific response.
func (t *MockTransport) SetResponse(body any) *MockTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.response = body
	return t
}

// SetResponseFor sets the body returned for method and url.
func (t *MockTransport) SetResponseFor(method, url string, body any) *MockTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responses[method+" "+url] = body
	return t
}

// SetError makes every following request fail with err. nil clears it.
func (t *MockTransport) SetError(err error) *MockTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
	return t
}

// SetErrorFor makes requests for method and url fail with err.
func (t *MockTransport) SetErrorFor(method, url string, err error) *MockTransport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errs[method+" "+url] = err
	return t
}

// Hold blocks requests inside Do until Release is called.
func (t *MockTransport) Hold() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gate = make(chan struct{})
}

// HoldFor blocks only requests for method and url until Release is called.
func (t *MockTransport) HoldFor(method, url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gates[method+" "+url] = make(chan struct{})
}

// Release unblocks every held request.
func (t *MockTransport) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gate != nil {
		close(t.gate)
		t.gate = nil
	}
	for key, g := range t.gates {
		close(g)
		delete(t.gates, key)
	}
}

// Started receives each request as it enters Do, before any Hold wait.
func (t *MockTransport) Started() <-chan *model.Request {
	return t.started
}

func (t *MockTransport) Calls() []*model.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*model.Request(nil), t.calls...)
}

func (t *MockTransport) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}

func (t *MockTransport) LastCall() *model.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.calls) == 0 {
		return nil
	}
	return t.calls[len(t.calls)-1]
}

func (t *MockTransport) Do(ctx context.Context, req *model.Request) (any, error) {
	t.mu.Lock()
	t.calls = append(t.calls, req)
	gate := t.gate
	if g, ok := t.gates[req.Method+" "+req.URL]; ok {
		gate = g
	}
	t.mu.Unlock()

	select {
	case t.started <- req:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &model.TransportError{Method: req.Method, URL: req.URL, Err: ctx.Err()}
		}
	}

	t.mu.Lock()
	err := t.err
	if e, ok := t.errs[req.Method+" "+req.URL]; ok {
		err = e
	}
	body, ok := t.responses[req.Method+" "+req.URL]
	if !ok {
		body = t.response
	}
	t.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return roundTrip(body)
}

func roundTrip(body any) (any, error) {
	if body == nil {
		return nil, nil
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}

	return out, nil
}
