package service

import "errors"

var (
	ErrMissingParameter      = errors.New("missing parameter")
	ErrDataFetchFailed       = errors.New("data fetch failed")
	ErrGenerationFailed      = errors.New("document generation failed")
	ErrDocumentTooLarge      = errors.New("document too large")
	ErrValidationFailed      = errors.New("validation failed")
	ErrSendFailed            = errors.New("email send failed")
	ErrBatchFailed           = errors.New("every record in the batch failed")
	ErrGenerationLogDisabled = errors.New("generation log is disabled")
)
