package core

import (
	"errors"
)

var (
	// ErrNoContent is returned when a submission carries no email content at all
	ErrNoContent = errors.New("no email content provided")

	// ErrUnsupportedFile is returned for uploads that are neither .txt nor .pdf
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrFileTooLarge is returned for uploads exceeding the configured size limit
	ErrFileTooLarge = errors.New("file exceeds maximum size")

	// ErrBatchTooLarge is returned when a submission splits into more emails
	// than the configured batch limit
	ErrBatchTooLarge = errors.New("too many emails in batch")

	// ErrProviderUnavailable is returned after all provider attempts, including
	// any configured fallback, have been exhausted
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrEmptyModelResponse is returned when the provider answered but the
	// response carried no usable content. It is a content failure, not a
	// transport failure, and is never retried.
	ErrEmptyModelResponse = errors.New("empty model response")
)
