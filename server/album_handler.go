package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/123ibadullah/MusicWebApplication/logger"
	"github.com/123ibadullah/MusicWebApplication/model"
	"github.com/123ibadullah/MusicWebApplication/repository"
	"github.com/123ibadullah/MusicWebApplication/storage"
)

// ListAlbumsHandler returns all albums.
func (h *APIHandler) ListAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albumRepo.GetAll(r.Context())
	if err != nil {
		logger.Error("failed to list albums", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to list albums")
		return
	}
	respondSuccess(w, "", map[string]interface{}{"allAlbums": albums})
}

// AddAlbumHandler creates an album with a cover image.
// Expected multipart fields: name, desc, artist, bgColor, image.
func (h *APIHandler) AddAlbumHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		respondError(w, http.StatusBadRequest, "Album name is required")
		return
	}

	albumID := uuid.NewString()

	var imageURL string
	if imageFile, imageHeader, ferr := r.FormFile("image"); ferr == nil {
		defer imageFile.Close()
		imageObject := fmt.Sprintf("albums/%s%s", albumID, safeExt(imageHeader.Filename, ".jpg"))
		var err error
		imageURL, err = storage.UploadObject(r.Context(), imageObject, imageFile, imageHeader.Size,
			contentTypeFor(imageHeader.Filename, "image/jpeg"))
		if err != nil {
			logger.Error("failed to upload album cover", logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "Failed to store cover image")
			return
		}
	}

	album := &model.Album{
		ID:      albumID,
		Name:    name,
		Desc:    strings.TrimSpace(r.FormValue("desc")),
		Artist:  strings.TrimSpace(r.FormValue("artist")),
		BgColor: strings.TrimSpace(r.FormValue("bgColor")),
		Image:   imageURL,
	}
	if err := h.albumRepo.Create(r.Context(), album); err != nil {
		logger.Error("failed to create album", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to save album")
		return
	}

	logger.Info("album added", logger.String("id", album.ID), logger.String("name", album.Name))
	respondSuccess(w, "Album added", map[string]interface{}{"album": album})
}

// RemoveAlbumHandler deletes an album by id.
func (h *APIHandler) RemoveAlbumHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		respondError(w, http.StatusBadRequest, "Album id is required")
		return
	}

	if err := h.albumRepo.Delete(r.Context(), req.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Album not found")
			return
		}
		logger.Error("failed to delete album", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete album")
		return
	}
	respondSuccess(w, "Album removed", nil)
}
