package unifi

import (
	"errors"
	"fmt"
)

// ErrorKind classifies controller API failures. The set is closed.
type ErrorKind int

const (
	// KindClient means the local HTTP client could not be built.
	KindClient ErrorKind = iota + 1
	// KindLoginAuthentication means the controller rejected the credentials.
	KindLoginAuthentication
	// KindTransport covers DNS, TLS, connection and non-success HTTP status failures.
	KindTransport
	// KindJSON means the controller answered with an unexpected document shape.
	KindJSON
)

// Sentinels matched by errors.Is against an *APIError of the same kind.
var (
	ErrClient              = errors.New("error building HTTP client")
	ErrLoginAuthentication = errors.New("invalid credentials")
	ErrTransport           = errors.New("error communicating with UniFi API, check your URL & try again")
	ErrJSON                = errors.New("error parsing json")
)

func (k ErrorKind) String() string {
	switch k {
	case KindClient:
		return "ClientError"
	case KindLoginAuthentication:
		return "LoginAuthenticationError"
	case KindTransport:
		return "TransportError"
	case KindJSON:
		return "JSONError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindClient:
		return ErrClient
	case KindLoginAuthentication:
		return ErrLoginAuthentication
	case KindTransport:
		return ErrTransport
	case KindJSON:
		return ErrJSON
	default:
		return nil
	}
}

// APIError is the single error type returned by Client.
type APIError struct {
	Kind ErrorKind
	// URL is the request URL that failed, when one was issued.
	URL string
	// StatusCode is set for KindTransport failures caused by an HTTP status.
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindClient:
		return fmt.Sprintf("%v: %v", ErrClient, e.Err)
	case KindLoginAuthentication:
		return fmt.Sprintf("%v for %s", ErrLoginAuthentication, e.URL)
	case KindTransport:
		if e.StatusCode != 0 {
			return fmt.Sprintf("%v (HTTP %d from %s)", ErrTransport, e.StatusCode, e.URL)
		}

		return fmt.Sprintf("%v: %v", ErrTransport, e.Err)
	case KindJSON:
		return fmt.Sprintf("%v from %s: %v", ErrJSON, e.URL, e.Err)
	default:
		return fmt.Sprintf("unifi api error: %v", e.Err)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Is lets errors.Is match the kind sentinels.
func (e *APIError) Is(target error) bool {
	s := e.Kind.sentinel()

	return s != nil && target == s
}

// Critical reports whether the failure points at an API contract change
// rather than a user mistake.
func (e *APIError) Critical() bool {
	return e.Kind == KindJSON
}

// KindOf extracts the ErrorKind from err, if err wraps an *APIError.
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}

	return 0, false
}

func clientError(err error) *APIError {
	return &APIError{Kind: KindClient, Err: err}
}

func transportError(url string, err error) *APIError {
	return &APIError{Kind: KindTransport, URL: url, Err: err}
}

func statusError(url string, status int) *APIError {
	return &APIError{
		Kind:       KindTransport,
		URL:        url,
		StatusCode: status,
		Err:        fmt.Errorf("unexpected HTTP status %d", status),
	}
}

func jsonError(url string, err error) *APIError {
	return &APIError{Kind: KindJSON, URL: url, Err: err}
}
