package intake

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubmit(t *testing.T) {
	var got SubmitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"ok":true,"row":7}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", srv.Client(), zap.NewNop())
	doc := map[string]any{"brand": map[string]any{"email": "owner@acme.example"}}

	body, err := c.Submit(context.Background(), doc, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"row":7}`, string(body))
	assert.Equal(t, "secret", got.FactoryKey)
	assert.Equal(t, "owner@acme.example", got.ClientEmail)
	assert.Equal(t, doc, got.BusinessJSON)

	_, err = c.Submit(context.Background(), doc, "explicit@acme.example")
	require.NoError(t, err)
	assert.Equal(t, "explicit@acme.example", got.ClientEmail)
}

func TestSubmitUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "wrong", srv.Client(), zap.NewNop()).Submit(context.Background(), map[string]any{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "bad key")
}

func TestSubmitNotConfigured(t *testing.T) {
	_, err := NewClient("", "key", http.DefaultClient, zap.NewNop()).Submit(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient("http://x.invalid", "", http.DefaultClient, zap.NewNop()).Submit(context.Background(), nil, "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
