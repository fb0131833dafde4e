package corpus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher(t *testing.T) {
	tests := []struct {
		name string
		test func(t *testing.T)
	}{
		{"FetchesBody", testFetchesBody},
		{"Non200IsCorpusUnavailable", testNon200},
		{"TransportErrorIsCorpusUnavailable", testTransportError},
		{"ContextCancellation", testContextCancellation},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.test)
	}
}

func testFetchesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("It is a truth universally acknowledged."))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5 * time.Second)
	text, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "It is a truth universally acknowledged.", text)
}

func testNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5 * time.Second)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorpusUnavailable)
}

func testTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	f := NewHTTPFetcher(time.Second)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorpusUnavailable)
}

func testContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewHTTPFetcher(5 * time.Second)
	_, err := f.Fetch(ctx, srv.URL)
	assert.Error(t, err)
}
