package checkapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRelaysQueryAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/phone/list", r.URL.Path)
		assert.Equal(t, "reg-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "reg-key")
	query := url.Values{}
	query.Set("page", "2")

	resp, err := c.Get(context.Background(), "/phone/list", query)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.ContentType)
	assert.Equal(t, `{"results":[]}`, string(resp.Body))
}

func TestPostRelaysBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"number":"+15550001"}`, string(body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"registered"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "reg-key")
	resp, err := c.Post(context.Background(), "/phone/register", []byte(`{"number":"+15550001"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `{"status":"registered"}`, string(resp.Body))
}

func TestDeleteCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/phone/cleanup", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"older_than_days":30}`, string(body))
		w.Write([]byte(`{"deleted":5}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "reg-key")
	resp, err := c.Delete(context.Background(), "/phone/cleanup", []byte(`{"older_than_days":30}`))
	require.NoError(t, err)
	assert.Equal(t, `{"deleted":5}`, string(resp.Body))
}

func TestUpstreamErrorsAreRelayedNotTranslated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"invalid number"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "reg-key")
	resp, err := c.Post(context.Background(), "/phone/check", []byte(`{}`))
	require.NoError(t, err, "upstream rejections are responses, not transport errors")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, `{"error":"invalid number"}`, string(resp.Body))
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/phone/check", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "reg-key")
	_, err := c.Get(context.Background(), "/phone/check", nil)
	require.NoError(t, err)
}

func TestUnreachableUpstreamReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "reg-key")
	_, err := c.Get(context.Background(), "/phone/list", nil)
	require.Error(t, err)
}
