package context

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestInfo_GeneratesID(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/campaigns", nil)
	r.Header.Set("User-Agent", "crm-test")

	info := NewRequestInfo(r)

	assert.Len(t, info.ID, 36)
	assert.Equal(t, "POST", info.Method)
	assert.Equal(t, "/v1/campaigns", info.Route)
	assert.Equal(t, "crm-test", info.UserAgent)
	assert.False(t, info.StartTime.IsZero())
}

func TestNewRequestInfo_ReusesUpstreamID(t *testing.T) {
	r := httptest.NewRequest("GET", "/health", nil)
	r.Header.Set(HeaderRequestID, "upstream-123")

	assert.Equal(t, "upstream-123", NewRequestInfo(r).ID)
}

func TestNewRequestInfo_RejectsOversizedID(t *testing.T) {
	r := httptest.NewRequest("GET", "/health", nil)
	r.Header.Set(HeaderRequestID, strings.Repeat("x", maxRequestIDLength+1))

	assert.Len(t, NewRequestInfo(r).ID, 36)
}

func TestRequestInfo_RoundTripThroughContext(t *testing.T) {
	info := RequestInfo{ID: "req-1", RemoteAddr: "10.0.0.1:1234"}
	ctx := WithRequestInfo(context.Background(), info)

	got, ok := GetRequestInfo(ctx)
	require.True(t, ok)
	assert.Equal(t, info, got)
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, []any{"request_id", "req-1", "remote_addr", "10.0.0.1:1234"}, Keyvals(ctx))
}

func TestEmptyContext(t *testing.T) {
	ctx := context.Background()

	_, ok := GetRequestInfo(ctx)
	assert.False(t, ok)
	assert.Equal(t, "", GetRequestID(ctx))
	assert.Zero(t, Elapsed(ctx))
	assert.Nil(t, Keyvals(ctx))
}
