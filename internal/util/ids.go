package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const publicIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewPublicID returns a short lowercase identifier for API-facing resources.
func NewPublicID() (string, error) {
	return gonanoid.Generate(publicIDAlphabet, 14)
}

// NewCorrelationID returns an opaque identifier used to trace a message
// through the queue and the worker logs.
func NewCorrelationID() (string, error) {
	return gonanoid.New()
}
