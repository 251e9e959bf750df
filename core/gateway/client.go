// Package gateway is the typed HTTP client for the backend API. Responses
// arrive as {success, message, ...} envelopes; failures are mapped onto the
// status package sentinels so callers never inspect HTTP codes.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/123ibadullah/MusicWebApplication/core/library"
	"github.com/123ibadullah/MusicWebApplication/core/status"
	"github.com/123ibadullah/MusicWebApplication/model"
)

const defaultTimeout = 10 * time.Second

var _ library.Gateway = (*Client)(nil)

// Client talks to one backend instance. Safe for concurrent use. It
// implements library.Gateway.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

// New creates a client for the API at baseURL (e.g. "http://localhost:4000").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetToken installs the bearer token sent with every request. An empty token
// clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// envelope is the common response shell every endpoint uses.
type envelope struct {
	Success        bool                   `json:"success"`
	Message        string                 `json:"message"`
	Data           []model.Song           `json:"data"`
	AllAlbums      []model.Album          `json:"allAlbums"`
	Playlists      []model.Playlist       `json:"playlists"`
	LikedSongs     []model.Song           `json:"likedSongs"`
	RecentlyPlayed []model.RecentlyPlayed `json:"recentlyPlayed"`
	Playlist       *model.Playlist        `json:"playlist"`
	Token          string                 `json:"token"`
	User           *model.User            `json:"user"`
}

// ListSongs fetches the full catalog.
func (c *Client) ListSongs(ctx context.Context) ([]model.Song, error) {
	env, err := c.get(ctx, "/api/song/list")
	if err != nil {
		return nil, err
	}
	return sanitizeSongs(env.Data), nil
}

// ListAlbums fetches all albums.
func (c *Client) ListAlbums(ctx context.Context) ([]model.Album, error) {
	env, err := c.get(ctx, "/api/album/list")
	if err != nil {
		return nil, err
	}
	return env.AllAlbums, nil
}

// ListPlaylists fetches the user's playlists with resolved song snapshots.
func (c *Client) ListPlaylists(ctx context.Context) ([]model.Playlist, error) {
	env, err := c.get(ctx, "/api/playlist/list")
	if err != nil {
		return nil, err
	}
	playlists := env.Playlists
	for i := range playlists {
		playlists[i].Songs = sanitizeSongs(playlists[i].Songs)
	}
	return playlists, nil
}

// LikedSongs fetches the user's liked songs.
func (c *Client) LikedSongs(ctx context.Context) ([]model.Song, error) {
	env, err := c.get(ctx, "/api/song/liked")
	if err != nil {
		return nil, err
	}
	return sanitizeSongs(env.LikedSongs), nil
}

// RecentlyPlayed fetches the user's recently-played list, most recent first.
func (c *Client) RecentlyPlayed(ctx context.Context) ([]model.RecentlyPlayed, error) {
	env, err := c.get(ctx, "/api/song/recently-played")
	if err != nil {
		return nil, err
	}
	return env.RecentlyPlayed, nil
}

// LikeSong marks a song liked.
func (c *Client) LikeSong(ctx context.Context, songID string) error {
	_, err := c.post(ctx, "/api/song/like", map[string]string{"songId": songID})
	return err
}

// UnlikeSong removes a song from the liked set.
func (c *Client) UnlikeSong(ctx context.Context, songID string) error {
	_, err := c.post(ctx, "/api/song/unlike", map[string]string{"songId": songID})
	return err
}

// RecordRecentlyPlayed reports a play event.
func (c *Client) RecordRecentlyPlayed(ctx context.Context, songID string) error {
	_, err := c.post(ctx, "/api/song/recently-played", map[string]string{"songId": songID})
	return err
}

// CreatePlaylist creates a playlist and returns it with its server-assigned id.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (model.Playlist, error) {
	env, err := c.post(ctx, "/api/playlist/create", map[string]string{
		"name":        name,
		"description": description,
	})
	if err != nil {
		return model.Playlist{}, err
	}
	if env.Playlist == nil {
		return model.Playlist{}, fmt.Errorf("%w: create playlist response missing playlist", status.ErrTransport)
	}
	return *env.Playlist, nil
}

// DeletePlaylist removes a playlist.
func (c *Client) DeletePlaylist(ctx context.Context, playlistID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/playlist/delete/"+playlistID, nil)
	if err != nil {
		return err
	}
	_, err = c.do(req)
	return err
}

// AddSongToPlaylist appends a song to a playlist.
func (c *Client) AddSongToPlaylist(ctx context.Context, playlistID, songID string) error {
	_, err := c.post(ctx, "/api/playlist/add-song", map[string]string{
		"playlistId": playlistID,
		"songId":     songID,
	})
	return err
}

// RemoveSongFromPlaylist drops a song from a playlist.
func (c *Client) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID string) error {
	_, err := c.post(ctx, "/api/playlist/remove-song", map[string]string{
		"playlistId": playlistID,
		"songId":     songID,
	})
	return err
}

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (model.User, error) {
	env, err := c.post(ctx, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return model.User{}, err
	}
	if env.Token == "" || env.User == nil {
		return model.User{}, fmt.Errorf("%w: login response missing token", status.ErrTransport)
	}
	c.SetToken(env.Token)
	return *env.User, nil
}

// Register creates an account and installs the returned token on the client.
func (c *Client) Register(ctx context.Context, username, email, password string) (model.User, error) {
	env, err := c.post(ctx, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return model.User{}, err
	}
	if env.Token == "" || env.User == nil {
		return model.User{}, fmt.Errorf("%w: register response missing token", status.ErrTransport)
	}
	c.SetToken(env.Token)
	return *env.User, nil
}

func (c *Client) get(ctx context.Context, path string) (*envelope, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*envelope, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrTransport, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: failed to decode response: %v", status.ErrTransport, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && env.Success {
		return &env, nil
	}

	msg := env.Message
	if msg == "" {
		msg = resp.Status
	}
	return nil, fmt.Errorf("%w: %s", classify(resp.StatusCode), msg)
}

// classify maps an HTTP status code onto the shared error taxonomy.
func classify(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return status.ErrUnauthorized
	case http.StatusNotFound:
		return status.ErrNotFound
	case http.StatusConflict:
		return status.ErrConflict
	default:
		return status.ErrTransport
	}
}

// sanitizeSongs drops entries without an id and fills display defaults so the
// rest of the app never sees empty labels.
func sanitizeSongs(songs []model.Song) []model.Song {
	out := make([]model.Song, 0, len(songs))
	for _, s := range songs {
		if s.ID == "" {
			continue
		}
		if s.Name == "" {
			s.Name = model.DefaultSongName
		}
		if s.Desc == "" {
			s.Desc = model.DefaultSongDesc
		}
		if s.Album == "" {
			s.Album = model.DefaultSongAlbum
		}
		if s.Duration == "" {
			s.Duration = model.DefaultDuration
		}
		out = append(out, s)
	}
	return out
}
