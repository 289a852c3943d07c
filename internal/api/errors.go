package api

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Kind is the stable error taxonomy shared by every authenticated
// resource. UI messaging keys off it, so the mapping below must not
// vary by call site.
type Kind int

const (
	KindUnknown Kind = iota
	KindNoToken
	KindAuthFailed
	KindBadRequest
	KindServerError
	KindNetworkUnreachable
)

// PlaceholderToken is the sentinel value some commands use before real
// auth is available. It must never reach the wire.
const PlaceholderToken = "PLACEHOLDER_TOKEN"

// ErrNoToken indicates a request was attempted without a usable token.
var ErrNoToken = errors.New("no access token found")

// StatusError is returned when the backend answered with a non-2xx
// status. Detail carries the backend-provided message when present.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// ClassifiedError pairs an error kind with its fixed user-facing message.
type ClassifiedError struct {
	Kind    Kind
	Message string
}

func (c ClassifiedError) Error() string {
	return c.Message
}

const (
	msgNoToken            = "Please sign in before using this feature."
	msgAuthFailed         = "Authentication failed. Please sign in again."
	msgBadRequest         = "The request was not valid."
	msgServerError        = "The server hit an unexpected error."
	msgNetworkUnreachable = "Cannot reach the server. Check your connection."
)

// Classify maps a raw failure into the shared taxonomy. Rules apply in
// priority order: missing token, then recognized HTTP statuses, then
// transport failures where no response arrived, then Unknown carrying
// the caller-supplied default message.
func Classify(err error, defaultMessage string) ClassifiedError {
	if err == nil {
		return ClassifiedError{Kind: KindUnknown, Message: defaultMessage}
	}

	if errors.Is(err, ErrNoToken) {
		return ClassifiedError{Kind: KindNoToken, Message: msgNoToken}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case 401:
			return ClassifiedError{Kind: KindAuthFailed, Message: msgAuthFailed}
		case 400:
			return ClassifiedError{Kind: KindBadRequest, Message: msgBadRequest}
		case 500:
			return ClassifiedError{Kind: KindServerError, Message: msgServerError}
		default:
			return ClassifiedError{Kind: KindUnknown, Message: defaultMessage}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassifiedError{Kind: KindNetworkUnreachable, Message: msgNetworkUnreachable}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassifiedError{Kind: KindNetworkUnreachable, Message: msgNetworkUnreachable}
	}

	return ClassifiedError{Kind: KindUnknown, Message: defaultMessage}
}
