// Package client talks to the remote login API.
//
// # Overview
//
// The API is a single endpoint. Every call carries a "do" field naming the
// action; mutating actions are form-encoded POSTs, logout and change2factor
// are GETs with a query string. Every reply is a JSON object whose "error"
// member distinguishes failure; a missing or falsy error (false, 0, null, "")
// means success.
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) with one method
//     per action.
//  2. An HTTP implementation (see HTTPClient) that keeps a cookie jar so the
//     server session survives between calls.
//
// # Error Handling
//
// A server-reported error code is not a Go error: it is returned in
// Response.Error. Go errors are reserved for replies that could not be
// obtained or understood and wrap one of the sentinels ErrUnavailable or
// ErrBadResponse.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations honor ctx
// cancellation and deadlines.
package client
