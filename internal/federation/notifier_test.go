package federation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"serwer-federacji/internal/address"
	"serwer-federacji/internal/models"

	"github.com/stretchr/testify/require"
)

func TestHTTPNotifierSendRemoteShare(t *testing.T) {
	var got remoteSharePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/federation/shares", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(2 * time.Second)
	recipient := address.Address{User: "user", Server: srv.URL}
	owner := address.Address{User: "shareOwner", Server: "http://localhost/"}
	initiator := address.Address{User: "sharedBy", Server: "http://localhost/"}

	ok, err := n.SendRemoteShare(context.Background(), recipient, owner, initiator,
		"token", "myFile", "file", 19, models.Capabilities{})
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, "user", got.ShareWith)
	require.Equal(t, "myFile", got.Name)
	require.Equal(t, "shareOwner@http://localhost/", got.Owner)
	require.Equal(t, "sharedBy@http://localhost/", got.SharedBy)
	require.Equal(t, "token", got.Token)
	require.Equal(t, 19, got.Permissions)
}

func TestHTTPNotifierRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown user", http.StatusNotFound)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(2 * time.Second)
	ok, err := n.SendRemoteShare(context.Background(),
		address.Address{User: "user", Server: srv.URL},
		address.Address{User: "o", Server: "http://localhost/"},
		address.Address{User: "i", Server: "http://localhost/"},
		"token", "myFile", "file", 1, models.Capabilities{})
	require.NoError(t, err, "an explicit refusal is not a transport error")
	require.False(t, ok)
}

func TestHTTPNotifierTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // reachable URL, dead server

	n := NewHTTPNotifier(500 * time.Millisecond)
	_, err := n.SendRemoteShare(context.Background(),
		address.Address{User: "user", Server: srv.URL},
		address.Address{User: "o", Server: "http://localhost/"},
		address.Address{User: "i", Server: "http://localhost/"},
		"token", "myFile", "file", 1, models.Capabilities{})
	require.ErrorIs(t, err, ErrTransport)
}

func TestHTTPNotifierSendPermissionUpdate(t *testing.T) {
	var gotPath string
	var got map[string]int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	n := NewHTTPNotifier(2 * time.Second)
	ok, err := n.SendPermissionUpdate(context.Background(),
		address.Address{User: "user", Server: srv.URL}, "tok123", 3)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "/api/federation/shares/tok123/permissions", gotPath)
	require.Equal(t, 3, got["permissions"])
}

func TestEndpointURL(t *testing.T) {
	cases := map[string]string{
		"server.com":          "https://server.com/api/federation/shares",
		"http://server.com/":  "http://server.com/api/federation/shares",
		"https://server.com":  "https://server.com/api/federation/shares",
		"https://server.com/": "https://server.com/api/federation/shares",
	}
	for in, want := range cases {
		require.Equal(t, want, endpointURL(in, "/api/federation/shares"), "input: %q", in)
	}
}
