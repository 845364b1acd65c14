package client

import "errors"

var (
	// ErrUnavailable means the request never got a reply: connection refused,
	// reset, or the context deadline expired.
	ErrUnavailable = errors.New("server unavailable")

	// ErrBadResponse means a reply arrived but was not a 2xx JSON object.
	ErrBadResponse = errors.New("bad server response")
)
