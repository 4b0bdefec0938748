package domain

import (
	"github.com/allisson/isolator/internal/errors"
)

// Error codes reported in the "code" field of API error responses.
const (
	CodeCredentialsNotFound = "credentials_not_found"
	CodeInvalidContainerID  = "invalid_container_id"
	CodeInvalidProxyType    = "invalid_proxy_type"
	CodeNonceGeneration     = "nonce_generation_failed"
)

var (
	// ErrCredentialsNotFound indicates no credentials exist yet for a (domain, container) pair.
	ErrCredentialsNotFound = errors.WithCode(
		errors.Wrap(errors.ErrNotFound, "credentials not found"),
		CodeCredentialsNotFound,
	)

	// ErrInvalidContainerID indicates a container ID that is not a 32-bit unsigned integer.
	ErrInvalidContainerID = errors.WithCode(
		errors.Wrap(errors.ErrInvalidInput, "invalid container id"),
		CodeInvalidContainerID,
	)

	// ErrInvalidProxyType indicates an unknown proxy type.
	ErrInvalidProxyType = errors.WithCode(
		errors.Wrap(errors.ErrInvalidInput, "invalid proxy type"),
		CodeInvalidProxyType,
	)

	// ErrAttributionFailed indicates the request could not be attributed to a domain or container.
	ErrAttributionFailed = errors.New("request attribution failed")

	// ErrNonceGeneration indicates the entropy source failed.
	ErrNonceGeneration = errors.WithCode(
		errors.Wrap(errors.ErrUnavailable, "failed to generate nonce"),
		CodeNonceGeneration,
	)
)
