package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/she110ff/acc-sdk/pkg/networks"
)

func TestResolveEndpoint_TrailingSeparator(t *testing.T) {
	for _, base := range []string{"https://relay.example", "https://relay.example/"} {
		c, err := New(networks.DevNet, WithEndpoint(base))
		require.NoError(t, err)

		got, err := c.ResolveEndpoint(PathPayMileage)
		require.NoError(t, err)
		assert.Equal(t, "https://relay.example/payMileage", got, "base %q", base)
	}
}

func TestResolveEndpoint_ExplicitWinsOverNetwork(t *testing.T) {
	c, err := New(networks.TestNet, WithEndpoint("https://relay.local"))
	require.NoError(t, err)

	got, err := c.ResolveEndpoint(PathPayToken)
	require.NoError(t, err)
	assert.Equal(t, "https://relay.local/payToken", got)
}

func TestResolveEndpoint_NetworkPublished(t *testing.T) {
	c, err := New(networks.TestNet)
	require.NoError(t, err)

	got, err := c.ResolveEndpoint(PathExchangeMileageToToken)
	require.NoError(t, err)
	assert.Equal(t, networks.TestNet.RelayEndpoint+"/exchangeMileageToToken", got)
}

func TestResolveEndpoint_Unconfigured(t *testing.T) {
	// DevNet publishes no relay.
	c, err := New(networks.DevNet)
	require.NoError(t, err)

	_, err = c.ResolveEndpoint(PathPayMileage)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoRelayConfigured))
}

func TestSubmit(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":200,"data":{"txHash":"0xabc"}}`))
	}))
	defer srv.Close()

	c, err := New(networks.DevNet, WithEndpoint(srv.URL))
	require.NoError(t, err)

	resp, err := c.Submit(context.Background(), PathPayMileage, map[string]string{"amount": "100"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "/payMileage", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "100", gotBody["amount"])
}

func TestSubmit_RelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":403,"error":{"message":"invalid signature"}}`))
	}))
	defer srv.Close()

	c, err := New(networks.DevNet, WithEndpoint(srv.URL))
	require.NoError(t, err)

	resp, err := c.Submit(context.Background(), PathPayToken, map[string]string{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRelayRequestFailed))
	assert.Contains(t, err.Error(), "invalid signature")
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.Code)
}

func TestSubmit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // dead endpoint

	c, err := New(networks.DevNet, WithEndpoint(srv.URL))
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), PathPayMileage, map[string]string{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRelayRequestFailed))
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"exact OK", "OK", true},
		{"lowercase", "ok", false},
		{"padded", "OK\n", false},
		{"empty", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c, err := New(networks.DevNet, WithEndpoint(srv.URL))
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.Probe(context.Background()))
		})
	}
}

func TestProbe_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c, err := New(networks.DevNet, WithEndpoint(srv.URL))
	require.NoError(t, err)
	assert.False(t, c.Probe(context.Background()))
}

func TestProbe_Unconfigured(t *testing.T) {
	c, err := New(networks.DevNet)
	require.NoError(t, err)
	assert.False(t, c.Probe(context.Background()))
}
