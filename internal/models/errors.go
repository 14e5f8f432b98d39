package models

import "errors"

// Core error taxonomy. The transport layer maps these to HTTP statuses;
// none of them is ever retried internally.
var (
	// ErrNotFound covers unknown integration and result ids.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredential means the API key resolved to no integration.
	ErrInvalidCredential = errors.New("invalid API key")

	// ErrIntegrationInactive means the key was valid but the integration
	// does not accept submissions.
	ErrIntegrationInactive = errors.New("integration is inactive")

	// ErrResultTerminal guards Completed/Failed results against mutation.
	ErrResultTerminal = errors.New("analysis result already finalized")
)
