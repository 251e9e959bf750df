package library

import (
	"context"

	"github.com/123ibadullah/MusicWebApplication/model"
)

// Gateway is the backend API surface the cache synchronizes against. All
// methods return errors classified with the status package sentinels.
type Gateway interface {
	ListSongs(ctx context.Context) ([]model.Song, error)
	ListAlbums(ctx context.Context) ([]model.Album, error)
	ListPlaylists(ctx context.Context) ([]model.Playlist, error)
	LikedSongs(ctx context.Context) ([]model.Song, error)
	RecentlyPlayed(ctx context.Context) ([]model.RecentlyPlayed, error)

	LikeSong(ctx context.Context, songID string) error
	UnlikeSong(ctx context.Context, songID string) error
	RecordRecentlyPlayed(ctx context.Context, songID string) error

	CreatePlaylist(ctx context.Context, name, description string) (model.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID string) error
	AddSongToPlaylist(ctx context.Context, playlistID, songID string) error
	RemoveSongFromPlaylist(ctx context.Context, playlistID, songID string) error
}
