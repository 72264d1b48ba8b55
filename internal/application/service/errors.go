package service

import "errors"

var (
	// ErrInvalidUpload is returned when the uploaded file cannot be read as a workbook
	ErrInvalidUpload = errors.New("invalid upload")
	// ErrClientNotFound is returned when a requested client has no statement
	ErrClientNotFound = errors.New("client not found")
)
