package ratelimit_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"sea/internal/ratelimit"
)

func TestClientID(t *testing.T) {
	r := httptest.NewRequest("POST", "/send_alert", nil)
	r.RemoteAddr = "192.0.2.10:54321"
	require.Equal(t, "192.0.2.10", ratelimit.ClientID(r))

	r.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	require.Equal(t, "203.0.113.7", ratelimit.ClientID(r))

	r.Header.Set("X-Forwarded-For", " , 10.0.0.1")
	require.Equal(t, "192.0.2.10", ratelimit.ClientID(r))

	r.Header.Del("X-Forwarded-For")
	r.RemoteAddr = "pipe"
	require.Equal(t, "pipe", ratelimit.ClientID(r))

	r.RemoteAddr = ""
	require.Equal(t, ratelimit.Unknown, ratelimit.ClientID(r))
}
