package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwesomeAPIClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/last/USD-BRL", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"USDBRL":{"code":"USD","codein":"BRL","bid":"5.4321","ask":"5.4330"}}`))
	}))
	defer server.Close()

	client := NewAwesomeAPIClientWithBaseURL(server.URL)

	bid, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.4321", bid.String())
}

func TestAwesomeAPIClientFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewAwesomeAPIClientWithBaseURL(server.URL)

	_, err := client.Fetch(context.Background())
	assert.ErrorContains(t, err, "status 503")
}

func TestAwesomeAPIClientFetchInvalidBid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"USDBRL":{"bid":"não-numérico"}}`))
	}))
	defer server.Close()

	client := NewAwesomeAPIClientWithBaseURL(server.URL)

	_, err := client.Fetch(context.Background())
	assert.ErrorContains(t, err, "cotação inválida")
}

func TestAwesomeAPIClientFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{`))
	}))
	defer server.Close()

	client := NewAwesomeAPIClientWithBaseURL(server.URL)

	_, err := client.Fetch(context.Background())
	assert.Error(t, err)
}
