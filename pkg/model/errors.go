package model

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("model configuration")
	ErrTransport     = errors.New("model transport")
	ErrInvalid       = errors.New("model invalid")
	ErrNoURL         = errors.New("model has no url")
	ErrNoRouter      = errors.New("no router configured")
	ErrBadPayload    = errors.New("unexpected payload")
	ErrRelatedLoad   = errors.New("related load failed")
)

// ConfigurationError describes a relationship that cannot be resolved. It is
// raised the first time the relationship is materialized.
type ConfigurationError struct {
	Kind         string
	Relationship string
	Reason       string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("kind %s relationship %s: %s", e.Kind, e.Relationship, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// TransportError is a failed remote call. Status is 0 when no HTTP response was received.
type TransportError struct {
	Method  string
	URL     string
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s %s (HTTP Status: %d): %s", e.Method, e.URL, e.Status, msg)
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// ValidationError carries the per-field messages returned by a failed save.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// SaveError is an unstructured save failure.
type SaveError struct {
	Message string
	Class   string
}

func (e *SaveError) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("save failed (%s): %s", e.Class, e.Message)
	}
	return "save failed: " + e.Message
}

func (e *SaveError) Unwrap() error { return ErrInvalid }
