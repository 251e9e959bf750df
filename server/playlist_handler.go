package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/123ibadullah/MusicWebApplication/logger"
	"github.com/123ibadullah/MusicWebApplication/model"
	"github.com/123ibadullah/MusicWebApplication/repository"
)

// CreatePlaylistHandler creates an empty playlist owned by the user.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Playlist name is required")
		return
	}

	playlist := &model.Playlist{
		UserID:      userID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Songs:       []model.Song{},
	}
	if err := h.playlistRepo.Create(r.Context(), playlist); err != nil {
		logger.Error("failed to create playlist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create playlist")
		return
	}

	logger.Info("playlist created",
		logger.String("id", playlist.ID),
		logger.String("user", userID))
	respondSuccess(w, "Playlist created", map[string]interface{}{"playlist": playlist})
}

// ListPlaylistsHandler returns the user's playlists with resolved songs.
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	playlists, err := h.playlistRepo.GetByUser(r.Context(), userID)
	if err != nil {
		logger.Error("failed to list playlists", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to list playlists")
		return
	}
	if playlists == nil {
		playlists = []model.Playlist{}
	}
	respondSuccess(w, "", map[string]interface{}{"playlists": playlists})
}

// GetPlaylistHandler returns a single playlist, owner only.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID := mux.Vars(r)["id"]
	playlist, err := h.ownedPlaylist(w, r, userID, playlistID)
	if playlist == nil || err != nil {
		return
	}
	respondSuccess(w, "", map[string]interface{}{"playlist": playlist})
}

// DeletePlaylistHandler removes a playlist, owner only.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	playlistID := mux.Vars(r)["id"]
	playlist, err := h.ownedPlaylist(w, r, userID, playlistID)
	if playlist == nil || err != nil {
		return
	}

	if err := h.playlistRepo.Delete(r.Context(), playlistID); err != nil {
		logger.Error("failed to delete playlist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete playlist")
		return
	}
	respondSuccess(w, "Playlist deleted", nil)
}

// AddSongToPlaylistHandler appends a song; duplicate membership is a conflict.
func (h *APIHandler) AddSongToPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		PlaylistID string `json:"playlistId"`
		SongID     string `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlaylistID == "" || req.SongID == "" {
		respondError(w, http.StatusBadRequest, "Playlist id and song id are required")
		return
	}

	playlist, err := h.ownedPlaylist(w, r, userID, req.PlaylistID)
	if playlist == nil || err != nil {
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

	if err := h.playlistRepo.AddSong(r.Context(), req.PlaylistID, req.SongID); err != nil {
		if errors.Is(err, repository.ErrDuplicateSong) {
			respondError(w, http.StatusConflict, "Song is already in this playlist")
			return
		}
		logger.Error("failed to add song to playlist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to add song to playlist")
		return
	}
	respondSuccess(w, "Song added to playlist", nil)
}

// RemoveSongFromPlaylistHandler drops a song from a playlist.
func (h *APIHandler) RemoveSongFromPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		PlaylistID string `json:"playlistId"`
		SongID     string `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlaylistID == "" || req.SongID == "" {
		respondError(w, http.StatusBadRequest, "Playlist id and song id are required")
		return
	}

	playlist, err := h.ownedPlaylist(w, r, userID, req.PlaylistID)
	if playlist == nil || err != nil {
		return
	}

	if err := h.playlistRepo.RemoveSong(r.Context(), req.PlaylistID, req.SongID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Song is not in this playlist")
			return
		}
		logger.Error("failed to remove song from playlist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to remove song from playlist")
		return
	}
	respondSuccess(w, "Song removed from playlist", nil)
}

// ownedPlaylist loads a playlist and enforces ownership, writing the error
// response itself. Returns nil when the caller should stop.
func (h *APIHandler) ownedPlaylist(w http.ResponseWriter, r *http.Request, userID, playlistID string) (*model.Playlist, error) {
	if playlistID == "" {
		respondError(w, http.StatusBadRequest, "Playlist id is required")
		return nil, nil
	}
	playlist, err := h.playlistRepo.GetByID(r.Context(), playlistID)
	if err != nil {
		logger.Error("failed to query playlist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return nil, err
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "Playlist not found")
		return nil, nil
	}
	if playlist.UserID != userID {
		respondError(w, http.StatusForbidden, "Not your playlist")
		return nil, nil
	}
	return playlist, nil
}
