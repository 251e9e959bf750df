package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/123ibadullah/MusicWebApplication/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlbumRepository defines the interface for album data operations.
type AlbumRepository interface {
	Create(ctx context.Context, album *model.Album) error
	GetByID(ctx context.Context, id string) (*model.Album, error)
	GetAll(ctx context.Context) ([]model.Album, error)
	Delete(ctx context.Context, id string) error
}

type gormAlbumRepository struct {
	db *gorm.DB
}

// NewGormAlbumRepository creates a new gormAlbumRepository.
func NewGormAlbumRepository(db *gorm.DB) AlbumRepository {
	return &gormAlbumRepository{db: db}
}

func (r *gormAlbumRepository) Create(ctx context.Context, album *model.Album) error {
	if album.ID == "" {
		album.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(album).Error; err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}
	return nil
}

func (r *gormAlbumRepository) GetByID(ctx context.Context, id string) (*model.Album, error) {
	var album model.Album
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&album).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query album %s: %w", id, err)
	}
	return &album, nil
}

func (r *gormAlbumRepository) GetAll(ctx context.Context) ([]model.Album, error) {
	var albums []model.Album
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&albums).Error; err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	return albums, nil
}

func (r *gormAlbumRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Album{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete album %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateErr reports whether err is a unique-key violation.
func isDuplicateErr(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "Duplicate entry")
}
