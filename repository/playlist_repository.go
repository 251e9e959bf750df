package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/123ibadullah/MusicWebApplication/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaylistRepository defines the interface for playlist data operations.
// Playlists returned by Get methods carry their songs resolved to full
// snapshots in membership order.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	GetByID(ctx context.Context, id string) (*model.Playlist, error)
	GetByUser(ctx context.Context, userID string) ([]model.Playlist, error)
	Delete(ctx context.Context, id string) error

	AddSong(ctx context.Context, playlistID, songID string) error
	RemoveSong(ctx context.Context, playlistID, songID string) error
	HasSong(ctx context.Context, playlistID, songID string) (bool, error)
}

type gormPlaylistRepository struct {
	db *gorm.DB
}

// NewGormPlaylistRepository creates a new gormPlaylistRepository.
func NewGormPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &gormPlaylistRepository{db: db}
}

func (r *gormPlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	if playlist.ID == "" {
		playlist.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

func (r *gormPlaylistRepository) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&playlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query playlist %s: %w", id, err)
	}
	if err := r.resolveSongs(ctx, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *gormPlaylistRepository) GetByUser(ctx context.Context, userID string) ([]model.Playlist, error) {
	var playlists []model.Playlist
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&playlists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists for user %s: %w", userID, err)
	}
	for i := range playlists {
		if err := r.resolveSongs(ctx, &playlists[i]); err != nil {
			return nil, err
		}
	}
	return playlists, nil
}

func (r *gormPlaylistRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Playlist{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete playlist %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := r.db.WithContext(ctx).Where("playlist_id = ?", id).Delete(&model.PlaylistSong{}).Error; err != nil {
		return fmt.Errorf("failed to delete playlist memberships: %w", err)
	}
	return nil
}

// AddSong appends the song at the end of the playlist. Duplicate membership
// returns ErrDuplicateSong.
func (r *gormPlaylistRepository) AddSong(ctx context.Context, playlistID, songID string) error {
	exists, err := r.HasSong(ctx, playlistID, songID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateSong
	}

	var maxPos int
	r.db.WithContext(ctx).Model(&model.PlaylistSong{}).
		Where("playlist_id = ?", playlistID).
		Select("COALESCE(MAX(position), -1)").
		Scan(&maxPos)

	entry := model.PlaylistSong{PlaylistID: playlistID, SongID: songID, Position: maxPos + 1}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicateSong
		}
		return fmt.Errorf("failed to add song to playlist: %w", err)
	}
	return nil
}

func (r *gormPlaylistRepository) RemoveSong(ctx context.Context, playlistID, songID string) error {
	res := r.db.WithContext(ctx).
		Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Delete(&model.PlaylistSong{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove song from playlist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormPlaylistRepository) HasSong(ctx context.Context, playlistID, songID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PlaylistSong{}).
		Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check playlist membership: %w", err)
	}
	return count > 0, nil
}

// resolveSongs fills playlist.Songs with full snapshots in position order.
func (r *gormPlaylistRepository) resolveSongs(ctx context.Context, playlist *model.Playlist) error {
	var songs []model.Song
	err := r.db.WithContext(ctx).
		Joins("JOIN playlist_songs ON playlist_songs.song_id = songs.id").
		Where("playlist_songs.playlist_id = ?", playlist.ID).
		Order("playlist_songs.position ASC").
		Find(&songs).Error
	if err != nil {
		return fmt.Errorf("failed to resolve playlist songs: %w", err)
	}
	playlist.Songs = songs
	return nil
}
