package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/123ibadullah/MusicWebApplication/core/status"
)

func TestListSongsSanitizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/song/list", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]string{
				{"id": "s1", "name": "Neon Skyline", "album": "City Lights"},
				{"id": "s2"},
				{"name": "ghost entry without id"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	songs, err := c.ListSongs(context.Background())
	require.NoError(t, err)
	require.Len(t, songs, 2, "entries without an id are dropped")

	assert.Equal(t, "Neon Skyline", songs[0].Name)
	assert.Equal(t, "Unknown Song", songs[1].Name)
	assert.Equal(t, "Single", songs[1].Album)
	assert.Equal(t, "0:00", songs[1].Duration)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, status.ErrUnauthorized},
		{http.StatusForbidden, status.ErrUnauthorized},
		{http.StatusNotFound, status.ErrNotFound},
		{http.StatusConflict, status.ErrConflict},
		{http.StatusInternalServerError, status.ErrTransport},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.code)
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "nope"})
		}))
		c := New(srv.URL)
		err := c.LikeSong(context.Background(), "s1")
		assert.ErrorIs(t, err, tt.want, "status %d", tt.code)
		srv.Close()
	}
}

func TestEnvelopeFailureWithOKStatus(t *testing.T) {
	// A 200 with success=false is still a failure.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "broken"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.LikeSong(context.Background(), "s1")
	assert.ErrorIs(t, err, status.ErrTransport)
	assert.Contains(t, err.Error(), "broken")
}

func TestBearerTokenSent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.LikeSong(context.Background(), "s1"))
	assert.Empty(t, gotAuth)

	c.SetToken("tok-123")
	require.NoError(t, c.LikeSong(context.Background(), "s1"))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestLoginInstallsToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "ibad", body["username"])
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"token":   "tok-456",
				"user":    map[string]string{"id": "u1", "username": "ibad"},
			})
		default:
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	user, err := c.Login(context.Background(), "ibad", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ibad", user.Username)

	require.NoError(t, c.RecordRecentlyPlayed(context.Background(), "s1"))
	assert.Equal(t, "Bearer tok-456", gotAuth)
}

func TestCreatePlaylist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/playlist/create", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":  true,
			"playlist": map[string]string{"id": "pl-9", "name": "Road Trip"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	pl, err := c.CreatePlaylist(context.Background(), "Road Trip", "")
	require.NoError(t, err)
	assert.Equal(t, "pl-9", pl.ID)
	assert.Equal(t, "Road Trip", pl.Name)
}

func TestDeletePlaylistUsesPathParam(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.DeletePlaylist(context.Background(), "pl-9"))
	assert.Equal(t, "/api/playlist/delete/pl-9", gotPath)
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestNetworkErrorIsTransport(t *testing.T) {
	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListSongs(context.Background())
	assert.ErrorIs(t, err, status.ErrTransport)
}
