package line

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "valid token", token: "abc"},
		{name: "empty token", token: "", wantErr: true},
		{name: "blank token", token: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.token)
			if tt.wantErr {
				var pushErr *PushError
				require.True(t, errors.As(err, &pushErr))
				assert.Equal(t, "initialize", pushErr.Op)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultPushEndpoint, client.Endpoint())
		})
	}
}

func TestClient_Push(t *testing.T) {
	var got PushRequest
	var gotAuth, gotType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := NewClient("secret-token", WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	require.NoError(t, client.Push(context.Background(), "U1234", "📌 hello"))

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, PushRequest{
		To:       "U1234",
		Messages: []Message{{Type: "text", Text: "📌 hello"}},
	}, got)
}

func TestClient_Push_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"The request body has 1 error(s)"}`))
	}))
	defer srv.Close()

	client, err := NewClient("token", WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	err = client.Push(context.Background(), "U1234", "hi")
	require.Error(t, err)

	var pushErr *PushError
	require.True(t, errors.As(err, &pushErr))
	assert.Equal(t, http.StatusBadRequest, pushErr.StatusCode)
	assert.Contains(t, pushErr.Body, "1 error(s)")
	assert.Contains(t, err.Error(), "HTTP 400")
}

func TestClient_Push_Validation(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client, err := NewClient("token", WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	assert.Error(t, client.Push(context.Background(), "", "hi"))
	assert.Error(t, client.Push(context.Background(), "U1234", ""))
	assert.Zero(t, calls)
}

func TestClient_Push_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	client, err := NewClient("token", WithEndpoint(endpoint))
	require.NoError(t, err)

	err = client.Push(context.Background(), "U1234", "hi")
	var pushErr *PushError
	require.True(t, errors.As(err, &pushErr))
	assert.Zero(t, pushErr.StatusCode)
	assert.NotNil(t, pushErr.Err)
}

func TestPushError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &PushError{Op: "push", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "line push: connection refused", err.Error())
}
