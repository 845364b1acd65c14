package dialog

import "errors"

var (
	ErrRequestPending = errors.New("a request is already in flight")
	ErrNoPrevious     = errors.New("no previous action in this state")
	ErrFieldHidden    = errors.New("field is not shown in this state")
	ErrClosed         = errors.New("dialog is closed")
	ErrNothingToRetry = errors.New("no failed request to retry")
	ErrUnknownField   = errors.New("unknown field")
)
