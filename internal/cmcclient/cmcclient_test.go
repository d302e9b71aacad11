package cmcclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAllIndexesBySymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-CMC_PRO_API_KEY"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":[
			{"symbol":"JNT","platform":{"symbol":"ETH","token_address":"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"}},
			{"symbol":"NOCHAIN"}
		]}`))
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL))
	assets, err := c.FetchAll(context.Background())
	require.NoError(t, err)

	require.Contains(t, assets, "JNT")
	assert.Equal(t, "ETH", assets["JNT"].Platform.Symbol)
	require.Contains(t, assets, "NOCHAIN")
	assert.Nil(t, assets["NOCHAIN"].Platform)
}

func TestFetchAllPropagatesNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":{"error_message":"invalid key"}}`))
	}))
	defer srv.Close()

	c := New("bad-key", WithBaseURL(srv.URL))
	_, err := c.FetchAll(context.Background())
	require.Error(t, err)
}
