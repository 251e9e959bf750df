package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/123ibadullah/MusicWebApplication/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SongRepository defines the interface for song data operations.
type SongRepository interface {
	Create(ctx context.Context, song *model.Song) error
	GetByID(ctx context.Context, id string) (*model.Song, error)
	GetAll(ctx context.Context) ([]model.Song, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Song, error)
	Delete(ctx context.Context, id string) error

	// Likes.
	Like(ctx context.Context, userID, songID string) error
	Unlike(ctx context.Context, userID, songID string) error
	GetLikedByUser(ctx context.Context, userID string) ([]model.Song, error)
}

type gormSongRepository struct {
	db *gorm.DB
}

// NewGormSongRepository creates a new gormSongRepository.
func NewGormSongRepository(db *gorm.DB) SongRepository {
	return &gormSongRepository{db: db}
}

func (r *gormSongRepository) Create(ctx context.Context, song *model.Song) error {
	if song.ID == "" {
		song.ID = uuid.NewString()
	}
	if song.Name == "" {
		song.Name = model.DefaultSongName
	}
	if song.Desc == "" {
		song.Desc = model.DefaultSongDesc
	}
	if song.Album == "" {
		song.Album = model.DefaultSongAlbum
	}
	if song.Duration == "" {
		song.Duration = model.DefaultDuration
	}
	if err := r.db.WithContext(ctx).Create(song).Error; err != nil {
		return fmt.Errorf("failed to create song: %w", err)
	}
	return nil
}

func (r *gormSongRepository) GetByID(ctx context.Context, id string) (*model.Song, error) {
	var song model.Song
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&song).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query song %s: %w", id, err)
	}
	return &song, nil
}

func (r *gormSongRepository) GetAll(ctx context.Context) ([]model.Song, error) {
	var songs []model.Song
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	return songs, nil
}

func (r *gormSongRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Song, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var songs []model.Song
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to query songs by ids: %w", err)
	}
	return songs, nil
}

func (r *gormSongRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Song{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete song %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	// Clean up dependent rows; membership and likes must not outlive the song.
	r.db.WithContext(ctx).Where("song_id = ?", id).Delete(&model.PlaylistSong{})
	r.db.WithContext(ctx).Where("song_id = ?", id).Delete(&model.UserLike{})
	return nil
}

// Like records a user's like. Liking twice is a no-op.
func (r *gormSongRepository) Like(ctx context.Context, userID, songID string) error {
	like := model.UserLike{UserID: userID, SongID: songID}
	err := r.db.WithContext(ctx).Create(&like).Error
	if err != nil && !isDuplicateErr(err) {
		return fmt.Errorf("failed to like song: %w", err)
	}
	return nil
}

// Unlike removes a user's like. Unliking an unliked song is a no-op.
func (r *gormSongRepository) Unlike(ctx context.Context, userID, songID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Delete(&model.UserLike{}).Error
	if err != nil {
		return fmt.Errorf("failed to unlike song: %w", err)
	}
	return nil
}

func (r *gormSongRepository) GetLikedByUser(ctx context.Context, userID string) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).
		Joins("JOIN user_likes ON user_likes.song_id = songs.id").
		Where("user_likes.user_id = ?", userID).
		Order("user_likes.created_at DESC").
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query liked songs: %w", err)
	}
	return songs, nil
}
