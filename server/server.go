package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/123ibadullah/MusicWebApplication/config"
	"github.com/123ibadullah/MusicWebApplication/core/auth"
	"github.com/123ibadullah/MusicWebApplication/db"
	"github.com/123ibadullah/MusicWebApplication/logger"
	"github.com/123ibadullah/MusicWebApplication/model"
	"github.com/123ibadullah/MusicWebApplication/repository"
	"github.com/123ibadullah/MusicWebApplication/storage"
)

// APIHandler carries the repositories every endpoint needs.
type APIHandler struct {
	songRepo     repository.SongRepository
	albumRepo    repository.AlbumRepository
	playlistRepo repository.PlaylistRepository
	userRepo     repository.UserRepository
	cfg          *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	songRepo repository.SongRepository,
	albumRepo repository.AlbumRepository,
	playlistRepo repository.PlaylistRepository,
	userRepo repository.UserRepository,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		songRepo:     songRepo,
		albumRepo:    albumRepo,
		playlistRepo: playlistRepo,
		userRepo:     userRepo,
		cfg:          cfg,
	}
}

// Start wires up dependencies, registers routes and runs the HTTP server
// until it receives an interrupt.
func Start() {
	cfg := config.Load()
	logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel), OutputPath: cfg.LogPath})
	auth.SetJWTSecret(cfg.JWTSecret)

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("failed to initialize MinIO", logger.ErrorField(err))
	}
	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()

	if err := db.AutoMigrateModels(
		&model.User{},
		&model.Song{},
		&model.Album{},
		&model.Playlist{},
		&model.PlaylistSong{},
		&model.UserLike{},
	); err != nil {
		logger.Fatal("failed to migrate models", logger.ErrorField(err))
	}

	apiHandler := NewAPIHandler(
		repository.NewGormSongRepository(db.GormDB),
		repository.NewGormAlbumRepository(db.GormDB),
		repository.NewGormPlaylistRepository(db.GormDB),
		repository.NewGormUserRepository(db.GormDB),
		cfg,
	)

	router := NewRouter(apiHandler)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", logger.ErrorField(err))
	}
	logger.Info("server stopped")
}

// NewRouter builds the full route table with CORS applied.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// Auth.
	router.HandleFunc("/api/auth/register", h.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", h.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/profile", h.AuthMiddleware(h.ProfileHandler)).Methods(http.MethodGet)

	// Songs.
	router.HandleFunc("/api/song/list", h.ListSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/song/add", h.AuthMiddleware(h.AddSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/song/remove", h.AuthMiddleware(h.RemoveSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/song/like", h.AuthMiddleware(h.LikeSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/song/unlike", h.AuthMiddleware(h.UnlikeSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/song/liked", h.AuthMiddleware(h.LikedSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/song/recently-played", h.AuthMiddleware(h.RecordRecentlyPlayedHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/song/recently-played", h.AuthMiddleware(h.RecentlyPlayedHandler)).Methods(http.MethodGet)

	// Albums.
	router.HandleFunc("/api/album/list", h.ListAlbumsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/album/add", h.AuthMiddleware(h.AddAlbumHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/album/remove", h.AuthMiddleware(h.RemoveAlbumHandler)).Methods(http.MethodPost)

	// Playlists.
	router.HandleFunc("/api/playlist/create", h.AuthMiddleware(h.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlist/list", h.AuthMiddleware(h.ListPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlist/delete/{id}", h.AuthMiddleware(h.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlist/add-song", h.AuthMiddleware(h.AddSongToPlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlist/remove-song", h.AuthMiddleware(h.RemoveSongFromPlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlist/{id}", h.AuthMiddleware(h.GetPlaylistHandler)).Methods(http.MethodGet)

	router.HandleFunc("/api/health", healthHandler).Methods(http.MethodGet)

	// Media served straight out of the object store.
	router.PathPrefix("/media/").HandlerFunc(mediaHandler)

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, "ok", nil)
}

// mediaHandler streams stored objects (audio, covers) to the client.
func mediaHandler(w http.ResponseWriter, r *http.Request) {
	objectPath := strings.TrimPrefix(r.URL.Path, "/media/")
	if objectPath == "" {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	object, err := storage.GetObject(ctx, objectPath)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer object.Close()

	w.Header().Set("Content-Type", contentTypeFor(objectPath, "application/octet-stream"))
	w.Header().Set("Cache-Control", "public, max-age=31536000")

	if _, err := io.Copy(w, object); err != nil {
		logger.Warn("error serving media", logger.String("object", objectPath), logger.ErrorField(err))
	}
}
