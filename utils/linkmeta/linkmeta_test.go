package linkmeta

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>  Intro to Fundraising  </title></head><body></body></html>`)
	}))
	defer server.Close()

	fetcher := NewFetcher()
	title := fetcher.Title(context.Background(), server.URL)
	assert.Equal(t, "Intro to Fundraising", title)
}

func TestTitleFallsBackToHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>no title here</body></html>`)
	}))
	defer server.Close()

	parsed, err := url.Parse(server.URL)
	assert.NoError(t, err)

	fetcher := NewFetcher()
	title := fetcher.Title(context.Background(), server.URL)
	assert.Equal(t, parsed.Host, title)
}

func TestTitleFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	parsed, err := url.Parse(server.URL)
	assert.NoError(t, err)

	fetcher := NewFetcher()
	title := fetcher.Title(context.Background(), server.URL)
	assert.Equal(t, parsed.Host, title)
}

func TestTitleFallsBackOnUnreachableURL(t *testing.T) {
	fetcher := NewFetcher()
	title := fetcher.Title(context.Background(), "http://127.0.0.1:1/nothing")
	assert.Equal(t, "127.0.0.1:1", title)
}
