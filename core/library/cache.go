// Package library maintains the in-memory catalog and user state (liked
// songs, recently played, playlists) and keeps it synchronized with the
// backend gateway. Mutations apply locally first and are confirmed against
// the gateway in the background; a failed confirmation rolls the local
// state back.
package library

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/123ibadullah/MusicWebApplication/core/localstore"
	"github.com/123ibadullah/MusicWebApplication/core/search"
	"github.com/123ibadullah/MusicWebApplication/core/status"
	"github.com/123ibadullah/MusicWebApplication/logger"
	"github.com/123ibadullah/MusicWebApplication/model"
)

const (
	// recentLimit caps the recently-played list.
	recentLimit = 5
	// gatewayTimeout bounds every background gateway call.
	gatewayTimeout = 5 * time.Second
	// defaultVolume is used when nothing has been persisted yet.
	defaultVolume = 100
)

// Cache holds the catalog and user state. All exported methods are safe for
// concurrent use. It satisfies the playback engine's Library dependency.
type Cache struct {
	mu    sync.Mutex
	gw    Gateway
	store *localstore.Store

	session bool

	songs     []model.Song
	albums    []model.Album
	playlists []model.Playlist
	liked     map[string]model.Song
	recent    []model.RecentlyPlayed

	pending sync.WaitGroup
	notify  func(status.Result)
}

// New builds a cache over the given gateway. store may be nil, in which case
// nothing is persisted between runs for anonymous users.
func New(gw Gateway, store *localstore.Store) *Cache {
	return &Cache{
		gw:    gw,
		store: store,
		liked: make(map[string]model.Song),
	}
}

// SetNotifyFunc registers a callback for asynchronous failure notices
// (rolled-back mutations). It must be set before mutations are issued.
func (c *Cache) SetNotifyFunc(fn func(status.Result)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify = fn
}

// SetSession marks whether an authenticated session is active. With no
// session, likes and recently-played live only in the local store and
// playlist mutations are rejected.
func (c *Cache) SetSession(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = active
}

// Load fetches the catalog from the gateway, falling back to the built-in
// sample data when it is unreachable. User state comes from the gateway when
// a session is active, from the local store otherwise.
func (c *Cache) Load(ctx context.Context) status.Result {
	ctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	songs, err := c.gw.ListSongs(ctx)
	if err != nil {
		logger.Warn("catalog fetch failed, using sample data (browse-only, no media)", logger.ErrorField(err))
		c.mu.Lock()
		c.songs = sampleSongs()
		c.albums = sampleAlbums()
		c.playlists = samplePlaylists()
		c.mu.Unlock()
		c.loadUserState(ctx)
		return status.Fail(status.ErrTransport, "Could not reach the server, showing sample data")
	}

	albums, err := c.gw.ListAlbums(ctx)
	if err != nil {
		logger.Warn("album fetch failed", logger.ErrorField(err))
	}
	playlists, err := c.gw.ListPlaylists(ctx)
	if err != nil {
		logger.Warn("playlist fetch failed", logger.ErrorField(err))
	}

	c.mu.Lock()
	c.songs = songs
	c.albums = albums
	c.playlists = playlists
	c.mu.Unlock()

	c.loadUserState(ctx)
	return status.Ok("Library loaded")
}

func (c *Cache) loadUserState(ctx context.Context) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session {
		liked, err := c.gw.LikedSongs(ctx)
		if err != nil {
			logger.Warn("liked songs fetch failed", logger.ErrorField(err))
		}
		recent, err := c.gw.RecentlyPlayed(ctx)
		if err != nil {
			logger.Warn("recently played fetch failed", logger.ErrorField(err))
		}
		c.mu.Lock()
		c.liked = make(map[string]model.Song, len(liked))
		for _, s := range liked {
			c.liked[s.ID] = s
		}
		c.recent = recent
		c.mu.Unlock()
		return
	}

	if c.store == nil {
		return
	}
	liked := c.store.LikedSongs()
	recent := c.store.RecentlyPlayed()
	c.mu.Lock()
	c.liked = make(map[string]model.Song, len(liked))
	for _, s := range liked {
		c.liked[s.ID] = s
	}
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	c.recent = recent
	c.mu.Unlock()
}

// Songs returns a copy of the catalog.
func (c *Cache) Songs() []model.Song {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Song, len(c.songs))
	copy(out, c.songs)
	return out
}

// Albums returns a copy of the album list.
func (c *Cache) Albums() []model.Album {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Album, len(c.albums))
	copy(out, c.albums)
	return out
}

// Playlists returns a copy of the playlist list. The Songs slices are copied
// too, so a snapshot stays intact across later playlist mutations.
func (c *Cache) Playlists() []model.Playlist {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Playlist, len(c.playlists))
	copy(out, c.playlists)
	for i := range out {
		out[i].Songs = append([]model.Song(nil), out[i].Songs...)
	}
	return out
}

// SongByID looks a song up in the catalog.
func (c *Cache) SongByID(id string) (model.Song, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.songs {
		if s.ID == id {
			return s, true
		}
	}
	return model.Song{}, false
}

// AlbumSongs returns the catalog songs belonging to the named album.
func (c *Cache) AlbumSongs(albumName string) []model.Song {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []model.Song
	for _, s := range c.songs {
		if s.Album == albumName {
			out = append(out, s)
		}
	}
	return out
}

// IsLiked reports whether the song is in the liked set.
func (c *Cache) IsLiked(songID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.liked[songID]
	return ok
}

// LikedSongs returns the liked songs in catalog order.
func (c *Cache) LikedSongs() []model.Song {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []model.Song
	for _, s := range c.songs {
		if _, ok := c.liked[s.ID]; ok {
			out = append(out, s)
		}
	}
	// Liked songs no longer in the catalog still count.
	for id, s := range c.liked {
		if !containsID(out, id) {
			out = append(out, s)
		}
	}
	return out
}

// RecentlyPlayed returns a copy of the recently-played list, most recent
// first.
func (c *Cache) RecentlyPlayed() []model.RecentlyPlayed {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.RecentlyPlayed, len(c.recent))
	copy(out, c.recent)
	return out
}

// Search runs an accent-insensitive substring query over the catalog.
func (c *Cache) Search(query string) search.Results {
	return search.Query(query, c.Songs(), c.Albums(), c.Playlists())
}

// ToggleLike flips the liked state of a song. The flip applies immediately;
// with a session it is confirmed against the gateway in the background and
// reverted on failure.
func (c *Cache) ToggleLike(songID string) status.Result {
	if songID == "" {
		return status.Fail(status.ErrInvalid, "No song selected")
	}

	c.mu.Lock()
	song, ok := c.songByIDLocked(songID)
	if !ok {
		// Allow unliking songs that fell out of the catalog.
		song, ok = c.liked[songID]
		if !ok {
			c.mu.Unlock()
			return status.Fail(status.ErrNotFound, "Song not found")
		}
	}
	wasLiked := false
	if _, liked := c.liked[songID]; liked {
		wasLiked = true
		delete(c.liked, songID)
	} else {
		c.liked[songID] = song
	}
	session := c.session
	c.persistLikedLocked()
	c.mu.Unlock()

	msg := "Added to liked songs"
	if wasLiked {
		msg = "Removed from liked songs"
	}

	if session {
		call := c.gw.LikeSong
		failMsg := "Failed to like song"
		if wasLiked {
			call = c.gw.UnlikeSong
			failMsg = "Failed to unlike song"
		}
		c.confirm(func(ctx context.Context) error {
			return call(ctx, songID)
		}, func() {
			// Restore the pre-toggle state.
			if wasLiked {
				c.liked[songID] = song
			} else {
				delete(c.liked, songID)
			}
			c.persistLikedLocked()
		}, failMsg)
	}
	return status.Ok(msg)
}

// RecordRecentlyPlayed moves the song to the front of the recently-played
// list, deduplicating by id and capping the list length.
func (c *Cache) RecordRecentlyPlayed(song model.Song) status.Result {
	if song.ID == "" {
		return status.Fail(status.ErrInvalid, "No song selected")
	}

	c.mu.Lock()
	prev := make([]model.RecentlyPlayed, len(c.recent))
	copy(prev, c.recent)

	updated := []model.RecentlyPlayed{{Song: song, PlayedAt: time.Now()}}
	for _, e := range c.recent {
		if e.ID == song.ID {
			continue
		}
		updated = append(updated, e)
		if len(updated) == recentLimit {
			break
		}
	}
	c.recent = updated
	session := c.session
	c.persistRecentLocked()
	c.mu.Unlock()

	if session {
		c.confirm(func(ctx context.Context) error {
			return c.gw.RecordRecentlyPlayed(ctx, song.ID)
		}, func() {
			c.recent = prev
			c.persistRecentLocked()
		}, "Failed to record recently played")
	}
	return status.Ok("")
}

// CreatePlaylist creates a playlist through the gateway and adds it to the
// cache. The id is server-assigned, so this call is synchronous.
func (c *Cache) CreatePlaylist(ctx context.Context, name, description string) status.Result {
	if name == "" {
		return status.Fail(status.ErrInvalid, "Playlist name cannot be empty")
	}
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if !session {
		return status.Fail(status.ErrUnauthorized, "Please log in to create playlists")
	}

	ctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	pl, err := c.gw.CreatePlaylist(ctx, name, description)
	if err != nil {
		return status.Fail(err, "Failed to create playlist")
	}

	c.mu.Lock()
	c.playlists = append(c.playlists, pl)
	c.mu.Unlock()
	return status.Ok(fmt.Sprintf("Created playlist %q", pl.Name))
}

// DeletePlaylist removes a playlist. Sample playlists are protected. The
// removal applies immediately and the playlist list is re-fetched if the
// gateway rejects it.
func (c *Cache) DeletePlaylist(playlistID string) status.Result {
	if playlistID == "" {
		return status.Fail(status.ErrInvalid, "No playlist selected")
	}
	if IsSamplePlaylistID(playlistID) {
		return status.Fail(status.ErrReserved, "Sample playlists cannot be deleted")
	}

	c.mu.Lock()
	if !c.session {
		c.mu.Unlock()
		return status.Fail(status.ErrUnauthorized, "Please log in to manage playlists")
	}
	idx := -1
	for i, p := range c.playlists {
		if p.ID == playlistID {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return status.Fail(status.ErrNotFound, "Playlist not found")
	}
	name := c.playlists[idx].Name
	c.playlists = append(c.playlists[:idx], c.playlists[idx+1:]...)
	c.mu.Unlock()

	c.confirmOrResync(func(ctx context.Context) error {
		return c.gw.DeletePlaylist(ctx, playlistID)
	}, "Failed to delete playlist")
	return status.Ok(fmt.Sprintf("Deleted playlist %q", name))
}

// AddSongToPlaylist appends a song to a playlist. Adding a song that is
// already a member is rejected without touching the gateway.
func (c *Cache) AddSongToPlaylist(playlistID, songID string) status.Result {
	if playlistID == "" || songID == "" {
		return status.Fail(status.ErrInvalid, "No playlist or song selected")
	}
	if IsSamplePlaylistID(playlistID) {
		return status.Fail(status.ErrReserved, "Sample playlists cannot be modified")
	}

	c.mu.Lock()
	if !c.session {
		c.mu.Unlock()
		return status.Fail(status.ErrUnauthorized, "Please log in to manage playlists")
	}
	song, ok := c.songByIDLocked(songID)
	if !ok {
		c.mu.Unlock()
		return status.Fail(status.ErrNotFound, "Song not found")
	}
	idx := c.playlistIndexLocked(playlistID)
	if idx < 0 {
		c.mu.Unlock()
		return status.Fail(status.ErrNotFound, "Playlist not found")
	}
	if c.playlists[idx].HasSong(songID) {
		c.mu.Unlock()
		return status.Fail(status.ErrConflict, "Song is already in this playlist")
	}
	c.playlists[idx].Songs = append(c.playlists[idx].Songs, song)
	c.mu.Unlock()

	c.confirmOrResync(func(ctx context.Context) error {
		return c.gw.AddSongToPlaylist(ctx, playlistID, songID)
	}, "Failed to add song to playlist")
	return status.Ok("Added to playlist")
}

// RemoveSongFromPlaylist drops a song from a playlist.
func (c *Cache) RemoveSongFromPlaylist(playlistID, songID string) status.Result {
	if playlistID == "" || songID == "" {
		return status.Fail(status.ErrInvalid, "No playlist or song selected")
	}
	if IsSamplePlaylistID(playlistID) {
		return status.Fail(status.ErrReserved, "Sample playlists cannot be modified")
	}

	c.mu.Lock()
	if !c.session {
		c.mu.Unlock()
		return status.Fail(status.ErrUnauthorized, "Please log in to manage playlists")
	}
	idx := c.playlistIndexLocked(playlistID)
	if idx < 0 {
		c.mu.Unlock()
		return status.Fail(status.ErrNotFound, "Playlist not found")
	}
	pos := -1
	for i, s := range c.playlists[idx].Songs {
		if s.ID == songID {
			pos = i
			break
		}
	}
	if pos < 0 {
		c.mu.Unlock()
		return status.Fail(status.ErrNotFound, "Song is not in this playlist")
	}
	// Build a fresh slice: compacting in place would corrupt the backing
	// array that earlier Playlists snapshots still share.
	songs := c.playlists[idx].Songs
	next := make([]model.Song, 0, len(songs)-1)
	next = append(next, songs[:pos]...)
	next = append(next, songs[pos+1:]...)
	c.playlists[idx].Songs = next
	c.mu.Unlock()

	c.confirmOrResync(func(ctx context.Context) error {
		return c.gw.RemoveSongFromPlaylist(ctx, playlistID, songID)
	}, "Failed to remove song from playlist")
	return status.Ok("Removed from playlist")
}

// Volume returns the persisted volume percentage.
func (c *Cache) Volume() int {
	if c.store != nil {
		if v, ok := c.store.Volume(); ok {
			return v
		}
	}
	return defaultVolume
}

// SaveVolume persists the volume percentage.
func (c *Cache) SaveVolume(percent int) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveVolume(percent); err != nil {
		logger.Warn("failed to persist volume", logger.ErrorField(err))
	}
}

// Wait blocks until all background gateway confirmations have finished.
func (c *Cache) Wait() {
	c.pending.Wait()
}

func (c *Cache) songByIDLocked(id string) (model.Song, bool) {
	for _, s := range c.songs {
		if s.ID == id {
			return s, true
		}
	}
	return model.Song{}, false
}

func (c *Cache) playlistIndexLocked(id string) int {
	for i, p := range c.playlists {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cache) persistLikedLocked() {
	if c.store == nil || c.session {
		return
	}
	songs := make([]model.Song, 0, len(c.liked))
	for _, s := range c.liked {
		songs = append(songs, s)
	}
	if err := c.store.SaveLikedSongs(songs); err != nil {
		logger.Warn("failed to persist liked songs", logger.ErrorField(err))
	}
}

func (c *Cache) persistRecentLocked() {
	if c.store == nil || c.session {
		return
	}
	if err := c.store.SaveRecentlyPlayed(c.recent); err != nil {
		logger.Warn("failed to persist recently played", logger.ErrorField(err))
	}
}

func (c *Cache) sendNotice(res status.Result) {
	c.mu.Lock()
	fn := c.notify
	c.mu.Unlock()
	if fn != nil {
		fn(res)
	}
}

func containsID(songs []model.Song, id string) bool {
	for _, s := range songs {
		if s.ID == id {
			return true
		}
	}
	return false
}
