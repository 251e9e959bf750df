package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/123ibadullah/MusicWebApplication/cache"
	"github.com/123ibadullah/MusicWebApplication/logger"
	"github.com/123ibadullah/MusicWebApplication/model"
	"github.com/123ibadullah/MusicWebApplication/repository"
	"github.com/123ibadullah/MusicWebApplication/storage"
)

// maxUploadSize caps multipart parsing memory for song uploads.
const maxUploadSize = 32 << 20

// ListSongsHandler returns the whole catalog.
func (h *APIHandler) ListSongsHandler(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songRepo.GetAll(r.Context())
	if err != nil {
		logger.Error("failed to list songs", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to list songs")
		return
	}
	respondSuccess(w, "", map[string]interface{}{"data": songs})
}

// AddSongHandler uploads a song with its audio file and cover image.
// Expected multipart fields: name, desc, album, artist, audio, image.
func (h *APIHandler) AddSongHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = model.DefaultSongName
	}

	audioFile, audioHeader, err := r.FormFile("audio")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing 'audio' file in form")
		return
	}
	defer audioFile.Close()

	songID := uuid.NewString()

	audioObject := fmt.Sprintf("songs/%s%s", songID, safeExt(audioHeader.Filename, ".mp3"))
	audioURL, err := storage.UploadObject(r.Context(), audioObject, audioFile, audioHeader.Size,
		contentTypeFor(audioHeader.Filename, "audio/mpeg"))
	if err != nil {
		logger.Error("failed to upload audio", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to store audio file")
		return
	}

	var imageURL string
	if imageFile, imageHeader, ferr := r.FormFile("image"); ferr == nil {
		defer imageFile.Close()
		imageObject := fmt.Sprintf("covers/%s%s", songID, safeExt(imageHeader.Filename, ".jpg"))
		imageURL, err = storage.UploadObject(r.Context(), imageObject, imageFile, imageHeader.Size,
			contentTypeFor(imageHeader.Filename, "image/jpeg"))
		if err != nil {
			logger.Error("failed to upload cover", logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "Failed to store cover image")
			return
		}
	}

	song := &model.Song{
		ID:       songID,
		Name:     name,
		Desc:     strings.TrimSpace(r.FormValue("desc")),
		Artist:   strings.TrimSpace(r.FormValue("artist")),
		Album:    strings.TrimSpace(r.FormValue("album")),
		Image:    imageURL,
		File:     audioURL,
		Duration: estimateDuration(audioHeader.Size),
	}
	if err := h.songRepo.Create(r.Context(), song); err != nil {
		logger.Error("failed to create song", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to save song")
		return
	}

	logger.Info("song added", logger.String("id", song.ID), logger.String("name", song.Name))
	respondSuccess(w, "Song added", map[string]interface{}{"song": song})
}

// RemoveSongHandler deletes a song by id.
func (h *APIHandler) RemoveSongHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		respondError(w, http.StatusBadRequest, "Song id is required")
		return
	}

	if err := h.songRepo.Delete(r.Context(), req.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Song not found")
			return
		}
		logger.Error("failed to delete song", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete song")
		return
	}
	respondSuccess(w, "Song removed", nil)
}

// LikeSongHandler adds a song to the user's liked set.
func (h *APIHandler) LikeSongHandler(w http.ResponseWriter, r *http.Request) {
	h.setLike(w, r, true)
}

// UnlikeSongHandler removes a song from the user's liked set.
func (h *APIHandler) UnlikeSongHandler(w http.ResponseWriter, r *http.Request) {
	h.setLike(w, r, false)
}

func (h *APIHandler) setLike(w http.ResponseWriter, r *http.Request, liked bool) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		SongID string `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SongID == "" {
		respondError(w, http.StatusBadRequest, "Song id is required")
		return
	}

	song, err := h.songRepo.GetByID(r.Context(), req.SongID)
	if err != nil {
		logger.Error("failed to query song", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "Song not found")
		return
	}

	if liked {
		err = h.songRepo.Like(r.Context(), userID, req.SongID)
	} else {
		err = h.songRepo.Unlike(r.Context(), userID, req.SongID)
	}
	if err != nil {
		logger.Error("failed to update like", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to update like")
		return
	}
	respondSuccess(w, "", nil)
}

// LikedSongsHandler returns the user's liked songs.
func (h *APIHandler) LikedSongsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	songs, err := h.songRepo.GetLikedByUser(r.Context(), userID)
	if err != nil {
		logger.Error("failed to query liked songs", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to list liked songs")
		return
	}
	respondSuccess(w, "", map[string]interface{}{"likedSongs": songs})
}

// RecordRecentlyPlayedHandler records a play event for the user.
func (h *APIHandler) RecordRecentlyPlayedHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		SongID string `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SongID == "" {
		respondError(w, http.StatusBadRequest, "Song id is required")
		return
	}

	song, err := h.songRepo.GetByID(r.Context(), req.SongID)
	if err != nil {
		logger.Error("failed to query song", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "Song not found")
		return
	}

	if err := cache.RecordRecentlyPlayed(r.Context(), userID, *song); err != nil {
		logger.Error("failed to record recently played", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to record play")
		return
	}
	respondSuccess(w, "", nil)
}

// RecentlyPlayedHandler returns the user's recently-played list.
func (h *APIHandler) RecentlyPlayedHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	entries, err := cache.GetRecentlyPlayed(r.Context(), userID)
	if err != nil {
		logger.Error("failed to query recently played", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to list recently played")
		return
	}

	// Drop entries whose song has since been removed from the catalog.
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	existing, err := h.songRepo.GetByIDs(r.Context(), ids)
	if err != nil {
		logger.Error("failed to verify recently played songs", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to list recently played")
		return
	}
	known := make(map[string]bool, len(existing))
	for _, s := range existing {
		known[s.ID] = true
	}
	filtered := make([]model.RecentlyPlayed, 0, len(entries))
	for _, e := range entries {
		if known[e.ID] {
			filtered = append(filtered, e)
		}
	}
	respondSuccess(w, "", map[string]interface{}{"recentlyPlayed": filtered})
}

// estimateDuration derives a display label from the audio file size when the
// real duration is unknown. Assumes roughly one minute per megabyte.
func estimateDuration(sizeBytes int64) string {
	if sizeBytes <= 0 {
		return model.DefaultDuration
	}
	seconds := sizeBytes * 60 / (1 << 20)
	if seconds < 1 {
		seconds = 1
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// safeExt returns the lowercase extension of name, or fallback when absent.
func safeExt(name, fallback string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return fallback
	}
	return ext
}

// contentTypeFor guesses a content type from the file extension.
func contentTypeFor(name, fallback string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	case ".wav":
		return "audio/wav"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return fallback
	}
}
