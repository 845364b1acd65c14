package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_ErrorFalsyValues(t *testing.T) {
	for _, raw := range []string{
		`{}`,
		`{"error": null}`,
		`{"error": false}`,
		`{"error": 0}`,
		`{"error": 0.0}`,
		`{"error": ""}`,
	} {
		t.Run(raw, func(t *testing.T) {
			var r Response
			require.NoError(t, json.Unmarshal([]byte(raw), &r))
			assert.False(t, r.Failed())
			assert.Equal(t, ErrorCode(""), r.Error)
		})
	}
}

func TestResponse_ErrorTruthyValues(t *testing.T) {
	tests := []struct {
		raw  string
		want ErrorCode
	}{
		{`{"error": "require_2factor"}`, "require_2factor"},
		{`{"error": true}`, "true"},
		{`{"error": 5}`, "5"},
		{`{"error": "0"}`, "0"},
		{`{"error": {"x": 1}}`, `{"x": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var r Response
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &r))
			assert.True(t, r.Failed())
			assert.Equal(t, tt.want, r.Error)
		})
	}
}

func TestResponse_TextFields(t *testing.T) {
	var r Response
	raw := `{"salt": 12345, "url": "http://x/", "secret_code": "K1", "qr_url": null, "captcha": true}`
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Equal(t, Text("12345"), r.Salt)
	assert.Equal(t, "http://x/", r.URL.String())
	assert.Equal(t, Text("K1"), r.SecretCode)
	assert.Equal(t, Text(""), r.QRURL)
	assert.Equal(t, Text("true"), r.Captcha)
}

func TestResponse_TextRejectsObjects(t *testing.T) {
	var r Response
	assert.Error(t, json.Unmarshal([]byte(`{"salt": {"a": 1}}`), &r))
}

func TestResponse_FailedOnNil(t *testing.T) {
	var r *Response
	assert.False(t, r.Failed())
}
