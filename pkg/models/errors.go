package models

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

var ErrBadRequest = errors.New("bad request")

type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("bad request: %s", e.Message)
}

func (e *BadRequestError) Unwrap() error {
	return ErrBadRequest
}

func NewBadRequestError(message string) error {
	return &BadRequestError{Message: message}
}

var ErrEmbeddingGeneration = errors.New("embedding generation failed")

// EmbeddingGenerationError is returned when the external embedding call errors
// or returns malformed output. It carries the offending item or query context.
// The retrieval pipeline never skips a failed item; the whole retrieval fails.
type EmbeddingGenerationError struct {
	Subject string
	Err     error
}

func (e *EmbeddingGenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("embedding generation failed for %s", e.Subject)
	}
	return fmt.Sprintf("embedding generation failed for %s: %v", e.Subject, e.Err)
}

func (e *EmbeddingGenerationError) Unwrap() error {
	if e.Err == nil {
		return ErrEmbeddingGeneration
	}
	return e.Err
}

func (e *EmbeddingGenerationError) Is(target error) bool {
	return target == ErrEmbeddingGeneration
}

func NewEmbeddingGenerationError(subject string, err error) error {
	return &EmbeddingGenerationError{Subject: subject, Err: err}
}

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// DimensionMismatchError indicates the query and item vectors have different
// lengths, usually an upstream model version inconsistency. Fatal to the
// retrieval; surfaced immediately.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: %d != %d", e.Want, e.Got)
}

func (e *DimensionMismatchError) Unwrap() error {
	return ErrDimensionMismatch
}

func NewDimensionMismatchError(want, got int) error {
	return &DimensionMismatchError{Want: want, Got: got}
}
