package ocp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)

// verifyingServer checks each incoming request's signature the way the OCP
// backend would, then replies with the given payload.
func verifyingServer(t *testing.T, status int, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		headers := map[string]string{}
		for k := range r.Header {
			headers[k] = r.Header.Get(k)
		}
		params := map[string]string{}
		for k, vs := range r.URL.Query() {
			params[k] = vs[0]
		}

		signer, err := NewSigner(r.Host, "test-ak", "test-secret")
		require.NoError(t, err)
		want := signer.Authorization(SignRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Params:  params,
			Headers: headers,
			Body:    body,
			Date:    r.Header.Get("Date"),
		})
		if r.Header.Get("Authorization") != want {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		assert.Equal(t, "mcp-server", r.Header.Get("x-ocp-origin"))
		assert.NotEmpty(t, r.Header.Get("Date"))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(srv.URL, "test-ak", "test-secret",
		WithHTTPClient(srv.Client()),
		WithClock(func() time.Time { return fixedTime }))
	require.NoError(t, err)
	return c
}

func TestClientGetSignedRoundTrip(t *testing.T) {
	srv := verifyingServer(t, http.StatusOK, `{"data":{"contents":[]}}`)
	defer srv.Close()

	c := newTestClient(t, srv)
	raw, err := c.Get(context.Background(), "/api/v2/ob/clusters", map[string]string{"page": "1", "size": "10"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"contents":[]}}`, string(raw))
}

func TestClientPostSignsBody(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")

		signer, err := NewSigner(r.Host, "test-ak", "test-secret")
		require.NoError(t, err)
		want := signer.Authorization(SignRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Headers: map[string]string{"Content-Type": gotContentType, "x-ocp-origin": r.Header.Get("x-ocp-origin")},
			Body:    gotBody,
			Date:    r.Header.Get("Date"),
		})
		require.Equal(t, want, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Post(context.Background(), "/api/v2/ob/tenants", map[string]any{"name": "t1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"name":"t1"}`, string(gotBody))
}

func TestClientDateHeaderMatchesClock(t *testing.T) {
	var gotDate string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.Header.Get("Date")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Get(context.Background(), "/x", nil)
	require.NoError(t, err)
	assert.Equal(t, "Mon, 02 Jan 2006 15:04:05 GMT", gotDate)
}

func TestClientErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"cluster not found"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Get(context.Background(), "/api/v2/ob/clusters/99", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/api/v2/ob/clusters/99", apiErr.Path)
	assert.Contains(t, apiErr.Body, "cluster not found")
}

func TestClientDeleteAndPut(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	_, err := c.Put(context.Background(), "/x", map[string]any{"k": "v"}, nil)
	require.NoError(t, err)
	_, err = c.Delete(context.Background(), "/x", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{http.MethodPut, http.MethodDelete}, methods)
}

func TestClientGetBinary(t *testing.T) {
	blob := []byte{0x1f, 0x8b, 0x00, 0xff}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(blob)
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	got, err := c.GetBinary(context.Background(), "/api/v2/inspection/report/1", nil)
	require.NoError(t, err)
	assert.Equal(t, blob, got)
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "id", "secret")
	assert.Error(t, err)
	_, err = NewClient("127.0.0.1:8080", "", "secret")
	assert.Error(t, err)
	_, err = NewClient("127.0.0.1:8080", "id", "")
	assert.Error(t, err)

	c, err := NewClient("127.0.0.1:8080", "id", "secret")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", c.signer.Host())

	u, err := url.Parse("https://ocp.internal:443/")
	require.NoError(t, err)
	c2, err := NewClient(u.String(), "id", "secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(c2.baseURL, "https://"))
}

func TestClientContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, "/x", nil)
	require.Error(t, err)
}

func TestRawMessageIsValidJSON(t *testing.T) {
	srv := verifyingServer(t, http.StatusOK, `{"data":{"id":1,"name":"c1"}}`)
	defer srv.Close()

	c := newTestClient(t, srv)
	raw, err := c.Get(context.Background(), "/api/v2/ob/clusters/1", nil)
	require.NoError(t, err)

	var decoded struct {
		Data struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 1, decoded.Data.ID)
	assert.Equal(t, "c1", decoded.Data.Name)
}
