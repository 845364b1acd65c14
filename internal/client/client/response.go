package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Response is the decoded JSON reply. Only the members used by some action
// are present; the rest stay empty.
type Response struct {
	Error      ErrorCode `json:"error"`
	Salt       Text      `json:"salt"`
	URL        Text      `json:"url"`
	SecretCode Text      `json:"secret_code"`
	QRURL      Text      `json:"qr_url"`
	Captcha    Text      `json:"captcha"`
}

// Failed reports whether the server returned an error code.
func (r *Response) Failed() bool {
	return r != nil && r.Error != ""
}

// ErrorCode is the "error" member. Falsy JSON values decode to "".
type ErrorCode string

func (c *ErrorCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte("false")):
		*c = ""
		return nil
	case bytes.Equal(b, []byte("true")):
		*c = "true"
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = ErrorCode(s)
	case '{', '[':
		// truthy but meaningless; surfaces as an unknown code
		*c = ErrorCode(b)
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return err
		}
		if f == 0 {
			*c = ""
		} else {
			*c = ErrorCode(b)
		}
	}
	return nil
}

// Text is a string member that also accepts numbers and booleans, which the
// server emits for some fields. null decodes to "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v.(type) {
	case float64, bool:
		*t = Text(b)
		return nil
	}
	return fmt.Errorf("cannot decode %s as text", b)
}

func (t Text) String() string { return string(t) }
