package model

import (
	"context"
	"fmt"
	"net/http"

	"github.com/materials-commons/mcrel/pkg/decoder"
)

// SaveMeta is the meta block of a save response.
type SaveMeta struct {
	Success         bool              `json:"success"`
	Message         string            `json:"message,omitempty"`
	MessageClass    string            `json:"message_class,omitempty"`
	ValidationError map[string]string `json:"validationError,omitempty"`
}

// Save writes the persistable attributes, POST for a new model and PUT
// otherwise. The response must be {"meta": {...}, "result": {...}}.
//
// On success result is applied and the model completes a load, firing load
// once. A validation map or a message fires invalid and leaves the
// attributes untouched.
func (m *Model) Save(ctx context.Context) error {
	c := m.client

	method := http.MethodPut
	if m.IsNew() {
		method = http.MethodPost
	}

	u := m.URL()
	entry := c.log.WithField("kind", m.kind.Name()).WithField("method", method).WithField("url", u)
	if u == "" {
		err := fmt.Errorf("%w: kind %s", ErrNoURL, m.kind.Name())
		m.emit(EventError, err)
		return err
	}

	req := &Request{Method: method, URL: u, Params: NewParams(), Body: m.ToJSON()}
	body, err := c.transport.Do(ctx, req)
	if err != nil {
		entry.WithError(err).Warn("save failed")
		m.emit(EventError, err)
		return err
	}

	meta, result, err := parseSaveResponse(body)
	if err != nil {
		entry.WithError(err).Warn("bad save response")
		m.emit(EventError, err)
		return err
	}

	if !meta.Success {
		return m.rejectSave(meta)
	}

	m.mu.Lock()
	m.invalid = nil
	m.mu.Unlock()

	if result != nil {
		if err := m.applyPayload(Payload{Kind: PayloadRecord, Record: result}); err != nil {
			m.emit(EventError, err)
			return err
		}
	}

	entry.Debug("saved")
	return onLoad(ctx, m)
}

func (m *Model) rejectSave(meta SaveMeta) error {
	var (
		data any
		err  error
	)

	if len(meta.ValidationError) > 0 {
		data = meta.ValidationError
		err = &ValidationError{Fields: meta.ValidationError}
	} else {
		data = meta.Message
		err = &SaveError{Message: meta.Message, Class: meta.MessageClass}
	}

	m.mu.Lock()
	m.invalid = data
	m.mu.Unlock()

	m.client.log.WithField("kind", m.kind.Name()).WithError(err).Info("save rejected")
	m.emit(EventInvalid, data)
	return err
}

func parseSaveResponse(body any) (SaveMeta, Attrs, error) {
	envelope, ok := body.(map[string]any)
	if !ok {
		return SaveMeta{}, nil, fmt.Errorf("%w: save response is %T", ErrBadPayload, body)
	}

	rawMeta, ok := envelope["meta"].(map[string]any)
	if !ok {
		return SaveMeta{}, nil, fmt.Errorf("%w: save response has no meta", ErrBadPayload)
	}

	meta, err := decoder.DecodeMap[SaveMeta](rawMeta)
	if err != nil {
		return SaveMeta{}, nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	var result Attrs
	switch r := envelope["result"].(type) {
	case nil:
	case map[string]any:
		result = r
	default:
		return meta, nil, fmt.Errorf("%w: save result is %T", ErrBadPayload, r)
	}

	return meta, result, nil
}
